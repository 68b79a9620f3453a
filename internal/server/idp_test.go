package server

import (
	"encoding/json"
	ropcheck "fhd342gs/ropcheck/internal"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIdp(t *testing.T) (*IdentityProvider, *httptest.Server) {
	config := ropcheck.NewConfig()
	s, err := NewServerWithConfig(&config)
	require.NoError(t, err)
	s.Users["tester@contoso.local"] = "Password1!"

	srv := httptest.NewServer(s.Routes())
	t.Cleanup(srv.Close)
	return s, srv
}

func postGrant(t *testing.T, srv *httptest.Server, form url.Values) (int, map[string]any) {
	res, err := http.PostForm(srv.URL+"/common/oauth2/token", form)
	require.NoError(t, err)
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	var data map[string]any
	require.NoError(t, json.Unmarshal(body, &data))
	return res.StatusCode, data
}

func TestPasswordGrantIssuesSignedTokens(t *testing.T) {
	s, srv := newTestIdp(t)

	status, data := postGrant(t, srv, url.Values{
		"grant_type": {"password"},
		"username":   {"tester@contoso.local"},
		"password":   {"Password1!"},
		"client_id":  {"1b730954-1685-4b74-9bfd-dac224a7b894"},
		"resource":   {"https://management.azure.com"},
		"scope":      {"openid"},
	})
	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, "Bearer", data["token_type"])
	assert.Equal(t, "https://management.azure.com", data["resource"])
	assert.NotEmpty(t, data["refresh_token"])

	accessToken, _ := data["access_token"].(string)
	require.NotEmpty(t, accessToken)
	parsed, err := jwt.ParseString(accessToken, jwt.WithVerify(false), jwt.WithValidate(false))
	require.NoError(t, err)
	assert.Equal(t, s.Issuer, parsed.Issuer())
	assert.Equal(t, "tester@contoso.local", parsed.Subject())

	idToken, _ := data["id_token"].(string)
	require.NotEmpty(t, idToken)
	parsed, err = jwt.ParseString(idToken, jwt.WithVerify(false), jwt.WithValidate(false))
	require.NoError(t, err)
	assert.Contains(t, parsed.Audience(), "1b730954-1685-4b74-9bfd-dac224a7b894")
}

func TestPasswordGrantRejectsBadCredentials(t *testing.T) {
	_, srv := newTestIdp(t)

	status, data := postGrant(t, srv, url.Values{
		"grant_type": {"password"},
		"username":   {"tester@contoso.local"},
		"password":   {"wrong"},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_grant", data["error"])
	assert.Contains(t, data["error_description"], "AADSTS50126")
	assert.NotEmpty(t, data["correlation_id"])
}

func TestPasswordGrantRejectsOtherGrantTypes(t *testing.T) {
	_, srv := newTestIdp(t)

	status, data := postGrant(t, srv, url.Values{
		"grant_type": {"client_credentials"},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "unsupported_grant_type", data["error"])
	assert.Contains(t, data["error_description"], "AADSTS70003")
}

func TestOpenIDConfiguration(t *testing.T) {
	s, srv := newTestIdp(t)

	res, err := http.Get(srv.URL + "/.well-known/openid-configuration")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var data map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&data))
	assert.Equal(t, s.Issuer, data["issuer"])
	assert.Equal(t, s.Issuer+"/oauth2/token", data["token_endpoint"])
}

func TestJwksServesSigningKey(t *testing.T) {
	_, srv := newTestIdp(t)

	res, err := http.Get(srv.URL + "/.well-known/jwks.json")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var data struct {
		Keys []map[string]any `json:"keys"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&data))
	require.Len(t, data.Keys, 1)
	assert.Equal(t, "RSA", data.Keys[0]["kty"])
	assert.Equal(t, "sig", data.Keys[0]["use"])
}
