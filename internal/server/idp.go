package server

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	ropcheck "fhd342gs/ropcheck/internal"
	"fhd342gs/ropcheck/internal/oauth"

	"github.com/davidallendj/go-utils/cryptox"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jws"
)

// IdentityProvider is a bare minimal stand-in for the AAD v1 token endpoint.
// It only implements the password grant against a fixed credential pair so
// the login flow can be exercised without touching a live tenant.
type IdentityProvider struct {
	http.Server
	Issuer     string
	Users      map[string]string
	privateJwk jwk.Key
	publicJwk  jwk.Key
}

func NewServerWithConfig(config *ropcheck.Config) (*IdentityProvider, error) {
	addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	s := &IdentityProvider{
		Issuer: "http://" + addr + "/common",
		Users:  map[string]string{},
	}
	s.Addr = addr

	// generate key pair used to sign the JWKS and create JWTs
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, fmt.Errorf("failed to generate new RSA key: %v", err)
	}
	privateJwk, publicJwk, err := cryptox.GenerateJwkKeyPairFromPrivateKey(privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to generate JWK pair from private key: %v", err)
	}
	kid, _ := privateJwk.Get("kid")
	publicJwk.Set("kid", kid)
	publicJwk.Set("use", "sig")
	publicJwk.Set("kty", "RSA")
	publicJwk.Set("alg", "RS256")
	if err := publicJwk.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate public JWK: %v", err)
	}
	s.privateJwk = privateJwk
	s.publicJwk = publicJwk
	return s, nil
}

func (s *IdentityProvider) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/.well-known/openid-configuration", func(w http.ResponseWriter, r *http.Request) {
		config := map[string]any{
			"issuer":                   s.Issuer,
			"token_endpoint":           s.Issuer + "/oauth2/token",
			"jwks_uri":                 "http://" + s.Addr + "/.well-known/jwks.json",
			"scopes_supported":         []string{"openid"},
			"grant_types_supported":    []string{"password"},
			"response_modes_supported": []string{"query"},
		}
		b, err := json.Marshal(config)
		if err != nil {
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(b)
	})

	r.Get("/.well-known/jwks.json", func(w http.ResponseWriter, r *http.Request) {
		jwks := map[string]any{
			"keys": []jwk.Key{
				s.publicJwk,
			},
		}
		b, err := json.Marshal(jwks)
		if err != nil {
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(b)
	})

	r.Post("/{tenant}/oauth2/token", s.handleTokenRequest)
	return r
}

func (s *IdentityProvider) StartIdentityProvider() error {
	s.Handler = s.Routes()
	return s.ListenAndServe()
}

func (s *IdentityProvider) handleTokenRequest(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeErrorResponse(w, "invalid_request", "AADSTS90014: The request body must contain form parameters.", 90014)
		return
	}

	grantType := r.PostFormValue("grant_type")
	if grantType != oauth.Password {
		writeErrorResponse(w, "unsupported_grant_type",
			fmt.Sprintf("AADSTS70003: The app requested an unsupported grant type %q.", grantType), 70003)
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	expected, ok := s.Users[username]
	if !ok || expected != password {
		writeErrorResponse(w, "invalid_grant",
			"AADSTS50126: Error validating credentials due to invalid username or password.", 50126)
		return
	}

	resource := r.PostFormValue("resource")
	clientId := r.PostFormValue("client_id")
	scope := r.PostFormValue("scope")
	now := time.Now()
	expiresIn := 3599

	accessToken, err := s.mintToken(map[string]any{
		"iss": s.Issuer,
		"aud": resource,
		"sub": username,
		"upn": username,
		"scp": scope,
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"exp": now.Add(time.Duration(expiresIn) * time.Second).Unix(),
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	idToken, err := s.mintToken(map[string]any{
		"iss": s.Issuer,
		"aud": clientId,
		"sub": username,
		"upn": username,
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"exp": now.Add(time.Duration(expiresIn) * time.Second).Unix(),
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	response := map[string]any{
		"token_type":     "Bearer",
		"scope":          scope,
		"expires_in":     fmt.Sprintf("%d", expiresIn),
		"ext_expires_in": fmt.Sprintf("%d", expiresIn),
		"expires_on":     fmt.Sprintf("%d", now.Add(time.Duration(expiresIn)*time.Second).Unix()),
		"not_before":     fmt.Sprintf("%d", now.Unix()),
		"resource":       resource,
		"access_token":   accessToken,
		"refresh_token":  uuid.New().String() + "." + uuid.New().String(),
		"id_token":       idToken,
	}
	b, err := json.Marshal(response)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(b)
}

func (s *IdentityProvider) mintToken(payload map[string]any) (string, error) {
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %v", err)
	}
	signed, err := jws.Sign(payloadJson, jws.WithKey(jwa.RS256, s.privateJwk))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %v", err)
	}
	return string(signed), nil
}

func writeErrorResponse(w http.ResponseWriter, code string, description string, aadCode int) {
	response := map[string]any{
		"error":             code,
		"error_description": description,
		"error_codes":       []int{aadCode},
		"timestamp":         time.Now().UTC().Format("2006-01-02 15:04:05Z"),
		"trace_id":          uuid.New().String(),
		"correlation_id":    uuid.New().String(),
	}
	b, err := json.Marshal(response)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	w.Write(b)
}
