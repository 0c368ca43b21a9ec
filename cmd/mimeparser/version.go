package main

import (
	"github.com/spf13/cobra"
)

// Version is the CLI's own release version, distinct from the message
// formats it parses.
const Version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print the version info",
	Run: func(cmd *cobra.Command, args []string) {
		mainlog.WithField("version", Version).Info("mimeparser")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
