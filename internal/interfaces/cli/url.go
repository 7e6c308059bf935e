package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/shiftcall/internal/infrastructure/jolt"
)

func newURLCmd(a *app) *cobra.Command {
	var at string
	c := &cobra.Command{
		Use:   "url",
		Short: "Print the shift listing URL for a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			now, err := parseDay(at)
			if err != nil {
				return err
			}
			q := jolt.NewQuery(a.cfg.Jolt.BaseURL, a.cfg.Jolt.LocationID)
			fmt.Fprintln(cmd.OutOrStdout(), q.URL(now))
			return nil
		},
	}
	c.Flags().StringVar(&at, "at", "", "day to query (2006-01-02, default today)")
	return c
}
