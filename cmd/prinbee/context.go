package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/m2osw/prinbee/pkg/context"
)

var contextCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "create (or open) a context directory tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		c, err := context.Initialize(cfg.ContextSetup(args[0]), log)
		if err != nil {
			return err
		}
		fmt.Printf("created context %q under %s\n", c.Name(), cfg.RootPath)
		return nil
	},
}

var contextShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "print a context's schema version, description, id, and tables",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		c, err := context.Initialize(cfg.ContextSetup(args[0]), log)
		if err != nil {
			return err
		}

		version, err := c.SchemaVersion()
		if err != nil {
			return err
		}
		description, err := c.Description()
		if err != nil {
			return err
		}
		id, err := c.ID()
		if err != nil {
			return err
		}

		key := color.New(color.FgBlue).SprintFunc()
		fmt.Printf("%s %s\n", key("name:"), c.Name())
		fmt.Printf("%s %d\n", key("schema_version:"), version)
		fmt.Printf("%s %s\n", key("description:"), description)
		fmt.Printf("%s %d\n", key("id:"), id)
		for _, name := range c.Tables() {
			tableVersion, _ := c.TableVersion(name)
			fmt.Printf("%s %s (version %d)\n", key("table:"), name, tableVersion)
		}
		return nil
	},
}

var (
	flagUpdateSchemaVersion uint64
	flagUpdateDescription   string
)

var contextUpdateCmd = &cobra.Command{
	Use:   "update <name>",
	Short: "update a context's schema_version and/or description",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		c, err := context.Initialize(cfg.ContextSetup(args[0]), log)
		if err != nil {
			return err
		}
		return c.Update(context.UpdateInfo{
			SchemaVersion: flagUpdateSchemaVersion,
			Description:   flagUpdateDescription,
		})
	},
}

func init() {
	contextUpdateCmd.Flags().Uint64Var(&flagUpdateSchemaVersion, "schema-version", 0, "new schema_version (must not be lower than the current one)")
	contextUpdateCmd.Flags().StringVar(&flagUpdateDescription, "description", "", "new description")
}
