package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/example/shiftcall/internal/application/scheduler"
	"github.com/example/shiftcall/internal/infrastructure/config"
	"github.com/example/shiftcall/internal/interfaces/web"
	"github.com/example/shiftcall/internal/observability/metrics"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Announce every day at ANNOUNCE_AT and serve /healthz and /metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.ValidateRun(); err != nil {
				return err
			}
			hour, minute, err := config.ParseClock(a.cfg.Schedule.AnnounceAt)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			u, cleanup, err := a.announcer(ctx, false)
			if err != nil {
				return err
			}
			defer cleanup()

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			if err := metrics.Register(reg); err != nil {
				return err
			}

			daily := &scheduler.Daily{
				Announce: u,
				Channel:  a.cfg.Slack.Channel,
				Hour:     hour,
				Minute:   minute,
				Log:      a.log.Named("scheduler"),
			}
			srv := web.New(a.cfg.HTTPAddr, daily, reg, a.log.Named("http"))

			a.log.Info("serving",
				zap.String("addr", a.cfg.HTTPAddr),
				zap.String("announce_at", a.cfg.Schedule.AnnounceAt),
				zap.String("channel", a.cfg.Slack.Channel))

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error { return srv.ListenAndServe(gctx) })
			g.Go(func() error { return daily.Run(gctx) })
			err = g.Wait()
			if ctx.Err() != nil {
				a.log.Info("shutting down")
				return nil
			}
			return err
		},
	}
}
