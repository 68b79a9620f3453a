package flows

import (
	ropcheck "fhd342gs/ropcheck/internal"
	"fhd342gs/ropcheck/internal/db"
	"fhd342gs/ropcheck/internal/oauth"
	"fhd342gs/ropcheck/internal/useragent"
	"fmt"
	"io"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type PasswordGrantParams struct {
	Username string
	Password string
}

// Login performs the single ROPC request and reports the outcome on out.
// A rejected grant (any non-200 status) is a reported result, not an error;
// only transport or encoding faults surface as errors.
func Login(config *ropcheck.Config, params PasswordGrantParams, out io.Writer) error {
	if config == nil {
		return fmt.Errorf("config is not valid")
	}

	signature, err := useragent.Lookup(config.UserAgent)
	if err != nil {
		return err
	}

	// initialize client that will be used for the grant
	client := ropcheck.NewClientWithConfig(config)
	client.UserAgent = signature

	// try and fetch server configuration if provided URL
	idp := config.IdentityProvider
	if idp.Endpoints.Config != "" {
		if config.Options.Verbose {
			fmt.Fprintf(out, "Fetching server configuration: %s\n", idp.Endpoints.Config)
		}
		err := idp.FetchServerConfig(idp.Endpoints.Config)
		if err != nil {
			return fmt.Errorf("failed to fetch server config: %v", err)
		}
	}

	if config.Options.Verbose {
		fmt.Fprintf(out, "Requesting token from %s as %q...\n", idp.Endpoints.Token, config.UserAgent)
	}

	result, err := client.PerformPasswordGrant(idp.Endpoints.Token, params.Username, params.Password)
	if err != nil {
		return fmt.Errorf("failed to fetch token from issuer: %v", err)
	}

	if result.Succeeded() {
		err = reportTokens(config, result, out)
	} else {
		err = reportFailure(result, out)
	}
	if err != nil {
		return err
	}

	if config.Options.CachePath != "" {
		journalAttempt(config, params.Username, result, out)
	}
	return nil
}

func reportTokens(config *ropcheck.Config, result *oauth.GrantResult, out io.Writer) error {
	tokens, err := result.TokenSet()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\nTokens retrieved successfully.\n\n")
	pretty, err := tokens.Indent()
	if err != nil {
		return fmt.Errorf("failed to marshal token set: %v", err)
	}
	fmt.Fprintf(out, "%s\n", pretty)

	// save the response body verbatim, overwriting any previous run
	err = os.WriteFile(config.OutputPath, result.Body, 0600)
	if err != nil {
		return fmt.Errorf("failed to write token file: %v", err)
	}
	fmt.Fprintf(out, "\nTokens saved to %s\n", config.OutputPath)

	if config.DecodeAccessToken {
		decodeToken(out, "access_token", tokens.String("access_token"))
	}
	if config.DecodeIdToken {
		decodeToken(out, "id_token", tokens.String("id_token"))
	}
	return nil
}

func reportFailure(result *oauth.GrantResult, out io.Writer) error {
	fmt.Fprintf(out, "\nLogin failed (%d):\n\n", result.StatusCode)

	// best effort: show the structured error if the body parses as JSON
	var errData map[string]any
	err := json.Unmarshal(result.Body, &errData)
	if err != nil {
		fmt.Fprintf(out, "%s\n", result.Body)
		return nil
	}
	pretty, err := json.MarshalIndent(errData, "", "  ")
	if err != nil {
		fmt.Fprintf(out, "%s\n", result.Body)
		return nil
	}
	fmt.Fprintf(out, "%s\n", pretty)
	return nil
}

// decodeToken displays JWT claims without verifying the signature. Display
// only; nothing here treats the claims as trusted.
func decodeToken(out io.Writer, label string, raw string) {
	if raw == "" {
		fmt.Fprintf(out, "no %s in response to decode\n", label)
		return
	}
	parsed, err := jwt.ParseString(raw, jwt.WithVerify(false), jwt.WithValidate(false))
	if err != nil {
		fmt.Fprintf(out, "failed to parse %s: %v\n", label, err)
		return
	}
	claims := parsed.PrivateClaims()
	claims["iss"] = parsed.Issuer()
	claims["sub"] = parsed.Subject()
	claims["aud"] = parsed.Audience()
	pretty, err := json.MarshalIndent(claims, "", "  ")
	if err != nil {
		fmt.Fprintf(out, "failed to marshal %s claims: %v\n", label, err)
		return
	}
	fmt.Fprintf(out, "\n%s.claims: %s\n", label, pretty)
}

func journalAttempt(config *ropcheck.Config, username string, result *oauth.GrantResult, out io.Writer) {
	outcome := "rejected"
	if result.Succeeded() {
		outcome = "tokens-issued"
	}
	attempts := []db.Attempt{{
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Username:   username,
		UserAgent:  config.UserAgent,
		StatusCode: result.StatusCode,
		Outcome:    outcome,
	}}
	err := db.InsertAttempts(config.Options.CachePath, &attempts)
	if err != nil {
		fmt.Fprintf(out, "failed to journal attempt: %v\n", err)
	}
}
