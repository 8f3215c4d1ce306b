package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"dmxMapper/internal/app"
	"dmxMapper/internal/logging"

	"github.com/spf13/cobra"
)

func newServeCmd(opts *options) *cobra.Command {
	var simulate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Art-Net mapping pipeline.",
		Long: "Listen for ArtDmx frames, remap the routed universes and forward them. " +
			"SIGHUP reloads the mapping files, SIGINT or SIGTERM stops.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if simulate {
				opts.settings.Simulate = true
			}

			a := app.NewApp(opts.settings)
			if err := a.Start(context.Background()); err != nil {
				return err
			}

			signals := make(chan os.Signal, 1)
			signal.Notify(signals, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(signals)

			for sig := range signals {
				if sig == syscall.SIGHUP {
					logging.LogInfo("Serve: reload requested")
					_ = a.Reload()
					continue
				}
				logging.LogInfo("Serve: stopping", "signal", sig.String())
				break
			}

			a.Shutdown()
			return nil
		},
	}

	cmd.Flags().BoolVar(&simulate, "simulate", false, "feed a test ramp into the first routed universe")
	return cmd
}
