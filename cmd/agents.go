package cmd

import (
	"fhd342gs/ropcheck/internal/useragent"
	"fmt"

	"github.com/spf13/cobra"
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List the legacy device signatures available for spoofing",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range useragent.Names() {
			marker := " "
			if name == useragent.Default {
				marker = "*"
			}
			fmt.Printf("%s %-14s %s\n", marker, name, useragent.Menu[name])
		}
	},
}

func init() {
	rootCmd.AddCommand(agentsCmd)
}
