package main

import (
	"encoding/json"
	"fmt"
	"os"

	contactql "github.com/nlstn/go-contactql"
	"github.com/spf13/cobra"
)

func newEvalCommand(rootOpts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "eval <query> <contact.json>",
		Short: "Evaluate a query against a contact snapshot file",
		Long: `Evaluate a query against a single contact snapshot, the way dynamic
group membership is decided. The snapshot file holds one contact as JSON:

  {
    "name": "Will Smith",
    "language": "eng",
    "created_on": "2018-03-01T12:30:00Z",
    "urns": [{"scheme": "tel", "path": "+250788383383"}],
    "fields": {"age": "15", "gender": "male"}
  }`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			org, err := demoOrg(rootOpts)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			var contact contactql.ContactSnapshot
			if err := json.Unmarshal(data, &contact); err != nil {
				return fmt.Errorf("invalid contact snapshot: %w", err)
			}

			engine := contactql.NewEngine()
			parsed, err := engine.ParseQuery(cmd.Context(), org, args[0])
			if err != nil {
				return err
			}

			matched, err := engine.EvaluateContact(cmd.Context(), org, parsed, &contact)
			if err != nil {
				return err
			}

			p := newPrinter()
			p.printParsed(parsed)
			if matched {
				fmt.Fprintf(p.out, "%s %s\n", p.styled(styleBold, "result:"), p.styled(styleGreen, "match"))
			} else {
				fmt.Fprintf(p.out, "%s %s\n", p.styled(styleBold, "result:"), p.styled(styleYellow, "no match"))
			}
			return nil
		},
	}
}
