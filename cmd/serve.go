package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/mittwald/redistatus/internal/config"
	"github.com/mittwald/redistatus/pkg/probe"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var probeListenPort int

func init() {
	serve.Flags().IntVarP(&probeListenPort, "probe-listen-port", "p", 9102, "set the port to listen for probe requests")
	rootCmd.AddCommand(serve)
}

var serve = &cobra.Command{
	Use:   "serve",
	Short: "Serve the status of the configured instances via HTTP",
	Long: "This sub-command reads the configured instances and answers\n" +
		"GET /v1/instance/<instance>/status with a fresh check of that instance.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ignitionConfig := &config.Ignition{}
		if err := ignitionConfig.GenerateFromConfigDir(configDir); err != nil {
			return errors.Wrapf(err, "failed while trying to read configuration from dir '%s'", configDir)
		}

		probeHandler, err := probe.NewProbeHandler(ignitionConfig)
		if err != nil {
			return errors.Wrap(err, "failed to set up probes")
		}

		signals := make(chan os.Signal, 1)
		signal.Notify(signals, syscall.SIGTERM, syscall.SIGINT)
		defer signal.Stop(signals)

		log.WithField("instances", ignitionConfig.InstanceNames()).Infof("probe server listens on port %d", probeListenPort)
		if err := probe.RunProbeServer(probeHandler, signals, probeListenPort); err != nil {
			return errors.Wrap(err, "probe server stopped with error")
		}

		log.Info("probe server stopped without error")
		return nil
	},
}
