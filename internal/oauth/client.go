package oauth

import (
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"
)

type GrantType = string

const (
	Password GrantType = "password"
)

// Azure PowerShell, a public first-party client permitted to use ROPC.
const AzurePowerShellClientId = "1b730954-1685-4b74-9bfd-dac224a7b894"

type Client struct {
	http.Client
	Id        string   `yaml:"id"`
	Resource  string   `yaml:"resource"`
	Scope     []string `yaml:"scope"`
	UserAgent string   `yaml:"user-agent"`
}

func NewClient() *Client {
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	return &Client{
		Id:       AzurePowerShellClientId,
		Resource: "https://management.azure.com",
		Scope:    []string{"openid"},
		Client:   http.Client{Jar: jar},
	}
}

// GrantResult is the raw outcome of a token request. Any non-200 status is
// carried back as data rather than an error so the caller can report it.
type GrantResult struct {
	StatusCode int
	Body       []byte
}

func (r *GrantResult) Succeeded() bool {
	return r.StatusCode == http.StatusOK
}

func (r *GrantResult) TokenSet() (TokenSet, error) {
	var tokens TokenSet
	err := json.Unmarshal(r.Body, &tokens)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal token response: %v", err)
	}
	return tokens, nil
}

// PerformPasswordGrant issues a single ROPC token request with the client's
// spoofed User-Agent. No retries and no timeout beyond transport defaults.
func (client *Client) PerformPasswordGrant(tokenUrl string, username string, password string) (*GrantResult, error) {
	data := url.Values{
		"resource":   {client.Resource},
		"client_id":  {client.Id},
		"grant_type": {Password},
		"username":   {username},
		"password":   {password},
		"scope":      {strings.Join(client.Scope, " ")},
	}
	req, err := http.NewRequest(http.MethodPost, tokenUrl, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", client.UserAgent)
	req.Header.Set("client-request-id", uuid.New().String())

	res, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to do request: %v", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %v", err)
	}
	return &GrantResult{StatusCode: res.StatusCode, Body: body}, nil
}
