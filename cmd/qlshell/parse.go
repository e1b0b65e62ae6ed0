package main

import (
	"strings"

	contactql "github.com/nlstn/go-contactql"
	"github.com/spf13/cobra"
)

func newParseCommand(rootOpts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <query>",
		Short: "Parse a query and print its canonical text and tree",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			org, err := demoOrg(rootOpts)
			if err != nil {
				return err
			}

			engine := contactql.NewEngine()
			parsed, err := engine.ParseQuery(cmd.Context(), org, strings.Join(args, " "))
			if err != nil {
				return err
			}

			newPrinter().printParsed(parsed)
			return nil
		},
	}
}
