package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/m2osw/prinbee/pkg/pconfig"
)

var flags = pconfig.NewFlags()

var rootCmd = &cobra.Command{
	Use:   "prinbee",
	Short: "Prinbee's command-line interface",
	Long:  "prinbee inspects and manages prinbee contexts and their on-disk binary structures.",
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "view CLI version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Version: %s\nRef: %s\n", release, commit)
	},
}

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "create, inspect, and update prinbee contexts",
}

var structureCmd = &cobra.Command{
	Use:   "structure",
	Short: "inspect prinbee binary structure files",
}

func resolveConfig(cmd *cobra.Command) (*pconfig.Config, error) {
	return flags.Resolve(cmd.Flags())
}
