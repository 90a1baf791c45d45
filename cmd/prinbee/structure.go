package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/m2osw/prinbee/pkg/context"
)

var structureDumpCmd = &cobra.Command{
	Use:   "dump <file>",
	Short: "print every field of a context.pb or complex-types.pb file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := context.OpenFile(args[0], log)
		if err != nil {
			return err
		}
		fields, err := s.Describe()
		if err != nil {
			return err
		}

		name := color.New(color.FgBlue).SprintFunc()
		typ := color.New(color.Faint).SprintFunc()
		for _, f := range fields {
			indent := strings.Repeat("  ", f.Depth)
			if f.Text == "" {
				fmt.Printf("%s%s %s\n", indent, name(f.Name), typ(f.Type.String()))
				continue
			}
			fmt.Printf("%s%s %s = %s\n", indent, name(f.Name), typ(f.Type.String()), f.Text)
		}
		return nil
	},
}
