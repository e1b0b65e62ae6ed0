package main

import (
	"fmt"
	"strings"

	contactql "github.com/nlstn/go-contactql"
	"github.com/spf13/cobra"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSearchCommand(rootOpts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Run a query against the seeded in-memory demo store",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			org, err := demoOrg(rootOpts)
			if err != nil {
				return err
			}

			db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
				Logger: logger.Default.LogMode(logger.Silent),
			})
			if err != nil {
				return err
			}
			if err := seedDemoStore(db); err != nil {
				return err
			}

			engine := contactql.NewEngine()
			scoped, err := engine.SearchContacts(cmd.Context(), org, db, strings.Join(args, " "))
			if err != nil {
				return err
			}

			var contacts []contactql.Contact
			if err := scoped.Preload("URNs").Preload("Values").Order("id").Find(&contacts).Error; err != nil {
				return err
			}

			p := newPrinter()
			fmt.Fprintf(p.out, "%s %d\n", p.styled(styleBold, "matches:"), len(contacts))
			for _, contact := range contacts {
				name := "<no name>"
				if contact.Name != nil {
					name = *contact.Name
				}
				urns := make([]string, len(contact.URNs))
				for i, urn := range contact.URNs {
					urns[i] = urn.Scheme + ":" + urn.Path
				}
				fmt.Fprintf(p.out, "  %s %s\n", p.styled(styleGreen, name), strings.Join(urns, " "))
			}
			return nil
		},
	}
}
