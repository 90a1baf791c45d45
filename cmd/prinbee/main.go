package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/m2osw/prinbee/pkg/elog"
)

var (
	release = "0.0.0"
	commit  = ""
)

var log *elog.CLI

func main() {
	commandInit()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func commandInit() {
	flags.AddTo(rootCmd.PersistentFlags())

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		cli := &elog.CLI{}

		if cfg.Debug {
			cli.IsDebug = true
			cli.IsVerbose = true
		} else if cfg.Verbose {
			cli.IsVerbose = true
		}

		logrus.SetFormatter(cli)
		logrus.SetLevel(logrus.TraceLevel)
		log = cli
		return nil
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(contextCmd)
	rootCmd.AddCommand(structureCmd)

	contextCmd.AddCommand(contextCreateCmd)
	contextCmd.AddCommand(contextShowCmd)
	contextCmd.AddCommand(contextUpdateCmd)

	structureCmd.AddCommand(structureDumpCmd)
}
