package ropcheck

import (
	"fhd342gs/ropcheck/internal/oauth"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	config := NewConfig()

	assert.Equal(t, oauth.AzurePowerShellClientId, config.Client.Id)
	assert.Equal(t, "https://management.azure.com", config.Client.Resource)
	assert.Equal(t, []string{"openid"}, config.Scope)
	assert.Equal(t, "ps4", config.UserAgent)
	assert.Equal(t, "token_scope.json", config.OutputPath)
	assert.Equal(t, "https://login.microsoftonline.com/common/oauth2/token", config.IdentityProvider.Endpoints.Token)
	assert.False(t, config.DecodeAccessToken)
	assert.False(t, config.DecodeIdToken)
	assert.Empty(t, config.Options.CachePath)
}

func TestSaveAndLoadConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	SaveDefaultConfig(path)

	loaded := LoadConfig(path)
	expected := NewConfig()
	assert.Equal(t, expected.Client, loaded.Client)
	assert.Equal(t, expected.Scope, loaded.Scope)
	assert.Equal(t, expected.UserAgent, loaded.UserAgent)
	assert.Equal(t, expected.OutputPath, loaded.OutputPath)
	assert.Equal(t, expected.IdentityProvider.Endpoints, loaded.IdentityProvider.Endpoints)
}

func TestLoadConfigMissingFileFallsBack(t *testing.T) {
	loaded := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, NewConfig().Client, loaded.Client)
}

func TestNewClientWithConfig(t *testing.T) {
	config := NewConfig()
	config.Client.Id = "custom-client"
	config.Client.Resource = "https://graph.microsoft.com"
	config.Scope = []string{"openid", "profile"}

	client := NewClientWithConfig(&config)
	require.NotNil(t, client)
	assert.Equal(t, "custom-client", client.Id)
	assert.Equal(t, "https://graph.microsoft.com", client.Resource)
	assert.Equal(t, []string{"openid", "profile"}, client.Scope)
	assert.NotNil(t, client.Jar)
	assert.Empty(t, client.UserAgent, "signature resolution is the flow's job")
}
