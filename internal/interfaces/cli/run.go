package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/shiftcall/internal/application/usecases"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		opts        usecases.RunOptions
		groupByName bool
		channel     string
	)
	c := &cobra.Command{
		Use:   "run",
		Short: "Fetch today's roster and post it once",
		RunE: func(cmd *cobra.Command, args []string) error {
			if channel != "" {
				a.cfg.Slack.Channel = channel
			}
			validate := a.cfg.ValidateRun
			if opts.DryRun {
				validate = a.cfg.ValidateFetch
			}
			if err := validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			u, cleanup, err := a.announcer(ctx, groupByName)
			if err != nil {
				return err
			}
			defer cleanup()

			rep := u.Execute(ctx, a.cfg.Slack.Channel, opts)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, rep.Message)
			if rep.Skipped {
				fmt.Fprintf(out, "already announced %s in %s; use --force to post again\n", rep.Day.Format(dayLayout), a.cfg.Slack.Channel)
			}
			return rep.Err
		},
	}
	c.Flags().BoolVar(&opts.DryRun, "dry-run", false, "print the announcement without posting")
	c.Flags().BoolVar(&opts.Force, "force", false, "post even if today was already announced")
	c.Flags().BoolVar(&groupByName, "group-by-name", false, "group people by display name instead of person id")
	c.Flags().StringVar(&channel, "channel", "", "Slack channel name or id (default $SLACK_CHANNEL)")
	return c
}
