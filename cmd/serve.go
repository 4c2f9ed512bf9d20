package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/teachback/internal/app"
	"github.com/abhisek/teachback/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the teach-back API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			rt.cfg.Server.Addr = addr
		}

		metrics := server.NewMetrics()
		a, err := app.New(ctx, app.Options{
			Config:   rt.cfg,
			Store:    rt.store,
			Logger:   rt.log,
			Observer: metrics,
		})
		if err != nil {
			return err
		}
		rt.log.Info("starting server", "addr", rt.cfg.Server.Addr, "lessons", a.LessonSource())

		return server.New(a, rt.cfg.Server, metrics, rt.log).ListenAndServe(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides config)")
}
