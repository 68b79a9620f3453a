package oidc

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

type IdentityProvider struct {
	Issuer    string    `db:"issuer" json:"issuer" yaml:"issuer"`
	Endpoints Endpoints `db:"endpoints" json:"endpoints" yaml:"endpoints"`
}

type Endpoints struct {
	Config string `db:"config_endpoint" json:"config_endpoint" yaml:"config"`
	Token  string `db:"token_endpoint" json:"token_endpoint" yaml:"token"`
}

// NewIdentityProvider returns the legacy v1 token endpoint for the AAD
// common tenant, which accepts the resource parameter in password grants.
func NewIdentityProvider() *IdentityProvider {
	p := &IdentityProvider{Issuer: "https://login.microsoftonline.com/common"}
	p.Endpoints = Endpoints{
		Token: p.Issuer + "/oauth2/token",
	}
	return p
}

func (p *IdentityProvider) ParseServerConfig(data []byte) error {
	var ep Endpoints
	err := json.Unmarshal(data, &ep)
	if err != nil {
		return fmt.Errorf("failed to unmarshal server config: %v", err)
	}
	var meta struct {
		Issuer string `json:"issuer"`
	}
	err = json.Unmarshal(data, &meta)
	if err != nil {
		return fmt.Errorf("failed to unmarshal server config: %v", err)
	}
	if meta.Issuer != "" {
		p.Issuer = meta.Issuer
	}
	if ep.Token != "" {
		p.Endpoints.Token = ep.Token
	}
	return nil
}

// FetchServerConfig overrides the token endpoint from a provider's
// .well-known/openid-configuration document.
func (p *IdentityProvider) FetchServerConfig(configUrl string) error {
	res, err := http.Get(configUrl)
	if err != nil {
		return fmt.Errorf("failed to fetch server config: %v", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %v", err)
	}
	p.Endpoints.Config = configUrl
	return p.ParseServerConfig(body)
}
