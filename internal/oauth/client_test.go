package oauth

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerformPasswordGrantSendsFixedFields(t *testing.T) {
	var (
		form        url.Values
		userAgent   string
		contentType string
		requestId   string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		form = r.PostForm
		userAgent = r.Header.Get("User-Agent")
		contentType = r.Header.Get("Content-Type")
		requestId = r.Header.Get("client-request-id")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"aaa","token_type":"Bearer"}`)
	}))
	defer srv.Close()

	client := NewClient()
	client.UserAgent = "Mozilla/5.0 (PlayStation 4 3.11) AppleWebKit/537.73 (KHTML, like Gecko)"
	result, err := client.PerformPasswordGrant(srv.URL, "user@example.com", "s3cret-value")
	require.NoError(t, err)
	assert.True(t, result.Succeeded())

	// the grant shape is fixed regardless of input
	assert.Equal(t, "password", form.Get("grant_type"))
	assert.Equal(t, AzurePowerShellClientId, form.Get("client_id"))
	assert.Equal(t, "https://management.azure.com", form.Get("resource"))
	assert.Equal(t, "openid", form.Get("scope"))
	assert.Equal(t, "user@example.com", form.Get("username"))
	assert.Equal(t, "s3cret-value", form.Get("password"))

	assert.Equal(t, client.UserAgent, userAgent)
	assert.Equal(t, "application/x-www-form-urlencoded", contentType)
	_, err = uuid.Parse(requestId)
	assert.NoError(t, err, "client-request-id should be a valid UUID")

	tokens, err := result.TokenSet()
	require.NoError(t, err)
	assert.Equal(t, "aaa", tokens.String("access_token"))
}

func TestPerformPasswordGrantNon200IsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":"invalid_grant"}`)
	}))
	defer srv.Close()

	client := NewClient()
	result, err := client.PerformPasswordGrant(srv.URL, "user@example.com", "nope")
	require.NoError(t, err)
	assert.False(t, result.Succeeded())
	assert.Equal(t, http.StatusBadRequest, result.StatusCode)
	assert.Contains(t, string(result.Body), "invalid_grant")
}

func TestTokenSetFromMalformedBody(t *testing.T) {
	result := &GrantResult{StatusCode: http.StatusOK, Body: []byte("not json")}
	_, err := result.TokenSet()
	require.Error(t, err)
}

func TestTokenSetStringIgnoresNonStrings(t *testing.T) {
	tokens := TokenSet{"access_token": "aaa", "expires_in": 3599}
	assert.Equal(t, "aaa", tokens.String("access_token"))
	assert.Equal(t, "", tokens.String("expires_in"))
	assert.Equal(t, "", tokens.String("missing"))
}
