package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/absmach/fastflow"
	"github.com/absmach/fastflow/cli"
	"github.com/absmach/fastflow/pkg/mqtt"
	"github.com/absmach/fastflow/pkg/sdk"
	"github.com/spf13/cobra"
)

const defConfigPath = "fastflow.toml"

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "fastflow-cli",
		Short: "Fastflow CLI",
		Long:  `Fastflow CLI is a command line interface for running and inspecting Monte Carlo estimates.`,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			cfg := fastflow.DefaultConfig()
			if _, err := os.Stat(configPath); err == nil {
				loaded, err := fastflow.LoadConfig(configPath)
				if err != nil {
					return err
				}
				cfg = *loaded
			}

			timeout, err := cfg.MQTT.TimeoutDuration()
			if err != nil {
				return err
			}

			cli.SetSDK(sdk.NewSDK(sdk.Config{
				ServerURL:       cfg.Server.URL,
				TLSVerification: cfg.Server.TLSVerification,
			}))
			cli.SetMQTTConfig(mqtt.Config{
				Address:  cfg.MQTT.Address,
				Username: cfg.MQTT.Username,
				Password: cfg.MQTT.Password,
				QoS:      cfg.MQTT.QoS,
				Timeout:  timeout,
				Topic:    cfg.MQTT.Topic,
			})

			return nil
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defConfigPath, "Path to the TOML config file")

	rootCmd.AddCommand(cli.NewEstimatesCmd())
	rootCmd.AddCommand(cli.NewWordCountCmd())
	rootCmd.AddCommand(cli.NewJobsCmd())
	rootCmd.AddCommand(cli.NewHealthCmd())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Fatal(err)
	}
}
