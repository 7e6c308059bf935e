package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/shiftcall/internal/application/usecases"
	"github.com/example/shiftcall/internal/domain/shift"
	"github.com/example/shiftcall/internal/infrastructure/jolt"
)

func newPreviewCmd(a *app) *cobra.Command {
	var (
		file        string
		at          string
		groupByName bool
	)
	c := &cobra.Command{
		Use:   "preview",
		Short: "Render the announcement from a saved ScheduleShift response",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return errors.New("--file is required")
			}
			now, err := parseDay(at)
			if err != nil {
				return err
			}
			u := usecases.Announce{
				Fetcher: jolt.FileFetcher{Path: file},
				Query:   jolt.NewQuery(a.cfg.Jolt.BaseURL, a.cfg.Jolt.LocationID),
				Options: shift.Options{GroupByName: groupByName || a.cfg.Schedule.GroupByName},
				Now:     func() time.Time { return now },
				Log:     a.log,
			}
			rep := u.Execute(cmd.Context(), "", usecases.RunOptions{DryRun: true})
			fmt.Fprintln(cmd.OutOrStdout(), rep.Message)
			return rep.Err
		},
	}
	c.Flags().StringVar(&file, "file", "", "path to a saved ScheduleShift JSON response")
	c.Flags().StringVar(&at, "at", "", "day the roster belongs to (2006-01-02)")
	c.Flags().BoolVar(&groupByName, "group-by-name", false, "group people by display name instead of person id")
	return c
}
