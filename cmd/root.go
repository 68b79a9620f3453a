package cmd

import (
	ropcheck "fhd342gs/ropcheck/internal"
	"fmt"
	"os"

	"github.com/davidallendj/go-utils/pathx"
	"github.com/spf13/cobra"
)

var (
	confPath  = ""
	cachePath = ""
	verbose   = false
	config    ropcheck.Config
)

var rootCmd = &cobra.Command{
	Use:   "ropcheck",
	Short: "A tool for testing Conditional Access coverage with legacy-client ROPC logins",
	Run: func(cmd *cobra.Command, args []string) {

	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start CLI: %s", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVarP(&confPath, "config", "c", "", "set the config path")
	rootCmd.PersistentFlags().StringVar(&cachePath, "cache", "", "set the attempt journal path")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "print request details")
}

func initConfig() {
	// load config if found or fall back to built-in defaults
	if confPath != "" {
		exists, err := pathx.PathExists(confPath)
		if err != nil {
			fmt.Printf("failed to load config")
			os.Exit(1)
		} else if exists {
			config = ropcheck.LoadConfig(confPath)
		} else {
			config = ropcheck.NewConfig()
		}
	} else {
		config = ropcheck.NewConfig()
	}
	if cachePath != "" {
		config.Options.CachePath = cachePath
	}
	if verbose {
		config.Options.Verbose = true
	}
}
