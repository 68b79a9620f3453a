package cmd

import (
	"bufio"
	"fhd342gs/ropcheck/internal/flows"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	clientId          = ""
	resource          = ""
	scope             = []string{}
	userAgent         = ""
	outputPath        = ""
	tokenUrl          = ""
	decodeAccessToken = false
	decodeIdToken     = false
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Request tokens with the password grant while spoofing a legacy device",
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("client-id") {
			config.Client.Id = clientId
		}
		if cmd.Flags().Changed("resource") {
			config.Client.Resource = resource
		}
		if cmd.Flags().Changed("scope") {
			config.Scope = scope
		}
		if cmd.Flags().Changed("user-agent") {
			config.UserAgent = userAgent
		}
		if cmd.Flags().Changed("output") {
			config.OutputPath = outputPath
		}
		if cmd.Flags().Changed("token-url") {
			config.IdentityProvider.Endpoints.Token = tokenUrl
		}
		if cmd.Flags().Changed("decode-access-token") {
			config.DecodeAccessToken = decodeAccessToken
		}
		if cmd.Flags().Changed("decode-id-token") {
			config.DecodeIdToken = decodeIdToken
		}

		// check if the client ID is set
		if config.Client.Id == "" {
			fmt.Printf("client ID must be set\n")
			os.Exit(1)
		}

		username, password, err := promptCredentials()
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}

		params := flows.PasswordGrantParams{
			Username: username,
			Password: password,
		}
		if err := flows.Login(&config, params, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
	},
}

// promptCredentials reads the username in the clear and the password masked.
// The password is never echoed back.
func promptCredentials() (string, string, error) {
	reader := bufio.NewReader(os.Stdin)

	fmt.Printf("Enter username (email): ")
	username, err := reader.ReadString('\n')
	if err != nil {
		return "", "", fmt.Errorf("failed to read username: %v", err)
	}
	username = strings.TrimSpace(username)

	fmt.Printf("Enter password: ")
	var password string
	if term.IsTerminal(int(os.Stdin.Fd())) {
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return "", "", fmt.Errorf("failed to read password: %v", err)
		}
		password = string(raw)
	} else {
		// piped input has no terminal to mask
		raw, err := reader.ReadString('\n')
		if err != nil {
			return "", "", fmt.Errorf("failed to read password: %v", err)
		}
		password = strings.TrimRight(raw, "\r\n")
	}
	fmt.Printf("\n")

	return username, password, nil
}

func init() {
	loginCmd.Flags().StringVar(&clientId, "client-id", clientId, "set the public client ID presented to the token endpoint")
	loginCmd.Flags().StringVar(&resource, "resource", resource, "set the target resource URL")
	loginCmd.Flags().StringSliceVar(&scope, "scope", scope, "set the scopes")
	loginCmd.Flags().StringVar(&userAgent, "user-agent", userAgent, "set the spoofed device signature by menu name")
	loginCmd.Flags().StringVar(&outputPath, "output", outputPath, "set the token output file")
	loginCmd.Flags().StringVar(&tokenUrl, "token-url", tokenUrl, "set the token endpoint")
	loginCmd.Flags().BoolVar(&decodeAccessToken, "decode-access-token", decodeAccessToken, "display access token claims on success")
	loginCmd.Flags().BoolVar(&decodeIdToken, "decode-id-token", decodeIdToken, "display ID token claims on success")
	rootCmd.AddCommand(loginCmd)
}
