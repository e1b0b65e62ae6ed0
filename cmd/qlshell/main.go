// qlshell is an interactive workbench for the contact query language: parse
// queries and inspect their trees, evaluate them against contact snapshots,
// or run them against a seeded demo store.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// rootOptions holds global flags for all commands.
type rootOptions struct {
	Anon     bool
	DayFirst bool
	Timezone string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "qlshell",
		Short: "Contact query language workbench",
		Long: `qlshell parses, inspects and runs contact queries.

Queries can be checked syntactically, evaluated against a JSON contact
snapshot, or executed against a seeded in-memory demo store.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVar(&opts.Anon, "anon", false, "treat the org as anonymous (URN values redacted)")
	cmd.PersistentFlags().BoolVar(&opts.DayFirst, "day-first", true, "read dates day-first (25/01/2018) rather than month-first")
	cmd.PersistentFlags().StringVar(&opts.Timezone, "tz", "UTC", "org timezone for date literals")

	cmd.AddCommand(newParseCommand(opts))
	cmd.AddCommand(newEvalCommand(opts))
	cmd.AddCommand(newSearchCommand(opts))

	return cmd
}

// loadTimezone resolves the --tz flag to a location.
func (o *rootOptions) loadTimezone() (*time.Location, error) {
	tz, err := time.LoadLocation(o.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q", o.Timezone)
	}
	return tz, nil
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
