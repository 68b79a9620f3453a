package cmd

import (
	"errors"
	"fhd342gs/ropcheck/internal/server"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
)

var (
	stubHost     = "127.0.0.1"
	stubPort     = 3333
	stubUsername = "tester@contoso.local"
	stubPassword = "Password1!"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start a simple, bare minimal stub token endpoint",
	Long:  "The built-in endpoint is not (nor meant to be) a complete AAD implementation and only accepts the password grant for a single fixture account",
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("host") {
			config.Server.Host = stubHost
		}
		if cmd.Flags().Changed("port") {
			config.Server.Port = stubPort
		}

		s, err := server.NewServerWithConfig(&config)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create stub endpoint: %v\n", err)
			os.Exit(1)
		}
		s.Users[stubUsername] = stubPassword
		if config.Options.Verbose {
			fmt.Printf("Stub token endpoint listening on %s\n", s.Addr)
			fmt.Printf("Fixture account: %s\n", stubUsername)
		}
		err = s.StartIdentityProvider()
		if errors.Is(err, http.ErrServerClosed) {
			fmt.Printf("Stub token endpoint closed.\n")
		} else if err != nil {
			fmt.Printf("failed to start server: %v", err)
		}
	},
}

func init() {
	serveCmd.Flags().StringVar(&stubHost, "host", stubHost, "set the stub endpoint host")
	serveCmd.Flags().IntVar(&stubPort, "port", stubPort, "set the stub endpoint port")
	serveCmd.Flags().StringVar(&stubUsername, "username", stubUsername, "set the fixture account username")
	serveCmd.Flags().StringVar(&stubPassword, "password", stubPassword, "set the fixture account password")
	rootCmd.AddCommand(serveCmd)
}
