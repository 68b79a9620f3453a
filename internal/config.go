package ropcheck

import (
	"fhd342gs/ropcheck/internal/oauth"
	"fhd342gs/ropcheck/internal/oidc"
	"fhd342gs/ropcheck/internal/useragent"
	"log"
	"net/http"
	"net/http/cookiejar"
	"os"
	"path/filepath"

	goutil "github.com/davidallendj/go-utils/util"
	"golang.org/x/net/publicsuffix"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Version           string                `yaml:"version"`
	Client            Client                `yaml:"client"`
	IdentityProvider  oidc.IdentityProvider `yaml:"oidc"`
	Scope             []string              `yaml:"scope"`
	UserAgent         string                `yaml:"user-agent"`
	OutputPath        string                `yaml:"output-path"`
	DecodeIdToken     bool                  `yaml:"decode-id-token"`
	DecodeAccessToken bool                  `yaml:"decode-access-token"`
	Server            Server                `yaml:"server"`
	Options           Options               `yaml:"options"`
}

type Client struct {
	Id       string `yaml:"id"`
	Resource string `yaml:"resource"`
}

type Server struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type Options struct {
	CachePath string `yaml:"cache-path"`
	Verbose   bool   `yaml:"verbose"`
}

func NewConfig() Config {
	return Config{
		Version: goutil.GetCommit(),
		Client: Client{
			Id:       oauth.AzurePowerShellClientId,
			Resource: "https://management.azure.com",
		},
		IdentityProvider:  *oidc.NewIdentityProvider(),
		Scope:             []string{"openid"},
		UserAgent:         useragent.Default,
		OutputPath:        "token_scope.json",
		DecodeIdToken:     false,
		DecodeAccessToken: false,
		Server: Server{
			Host: "127.0.0.1",
			Port: 3333,
		},
		Options: Options{
			CachePath: "",
			Verbose:   false,
		},
	}
}

func LoadConfig(path string) Config {
	var c Config = NewConfig()
	file, err := os.ReadFile(path)
	if err != nil {
		log.Printf("failed to read config file: %v\n", err)
		return c
	}
	err = yaml.Unmarshal(file, &c)
	if err != nil {
		log.Fatalf("failed to unmarshal config: %v\n", err)
		return c
	}
	return c
}

func SaveDefaultConfig(path string) {
	path = filepath.Clean(path)
	if path == "" || path == "." {
		path = "config.yaml"
	}
	var c = NewConfig()
	data, err := yaml.Marshal(c)
	if err != nil {
		log.Printf("failed to marshal config: %v\n", err)
		return
	}
	err = os.WriteFile(path, data, os.ModePerm)
	if err != nil {
		log.Printf("failed to write default config file: %v\n", err)
		return
	}
}

// NewClientWithConfig builds the token client. The User-Agent is left for
// the flow to resolve from the menu name.
func NewClientWithConfig(config *Config) *oauth.Client {
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	return &oauth.Client{
		Id:       config.Client.Id,
		Resource: config.Client.Resource,
		Scope:    config.Scope,
		Client:   http.Client{Jar: jar},
	}
}
