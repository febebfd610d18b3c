package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strconv"
	"time"

	"github.com/absmach/fastflow/estimator"
	"github.com/absmach/fastflow/pkg/mqtt"
	"github.com/absmach/fastflow/pkg/sdk"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

const (
	methodSingle   = "single"
	methodParallel = "parallel"

	defSingleSamples   uint64 = 100_000
	defParallelSamples uint64 = 2_000_000
)

var (
	defOffset uint64 = 0
	defLimit  uint64 = 10

	errInvalidNumber = errors.New("must be a positive integer")
)

var fsdk sdk.SDK

func SetSDK(s sdk.SDK) {
	fsdk = s
}

var mqttCfg = mqtt.Config{
	Address: "tcp://localhost:1883",
	QoS:     1,
	Timeout: 30 * time.Second,
	Topic:   mqtt.DefTopic,
}

// SetMQTTConfig sets the broker the watch command subscribes to.
func SetMQTTConfig(cfg mqtt.Config) {
	mqttCfg = cfg
}

func NewEstimatesCmd() *cobra.Command {
	var (
		samples uint64
		workers int
		seed    int64
	)

	cmd := &cobra.Command{
		Use:   "estimates [single|parallel|interactive|view|list|delete|export|import|stats|watch]",
		Short: "Monte Carlo pi estimates",
		Long:  `Run, view, list, delete, export and watch Monte Carlo pi estimates.`,
	}

	singleCmd := &cobra.Command{
		Use:   "single",
		Short: "Run a single-shot estimate",
		Long: `Run a single-shot estimate with a fixed seed.

Examples:
  fastflow-cli estimates single --samples 1000000`,
		Run: func(cmd *cobra.Command, _ []string) {
			e, err := fsdk.Estimate(samples)
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, e)
		},
	}
	singleCmd.Flags().Uint64VarP(&samples, "samples", "n", defSingleSamples, "Number of samples")

	parallelCmd := &cobra.Command{
		Use:   "parallel",
		Short: "Run a parallel estimate",
		Long: `Split the samples across workers and sample them concurrently.

Examples:
  fastflow-cli estimates parallel --samples 2000000 --workers 8 --seed 1234`,
		Run: func(cmd *cobra.Command, _ []string) {
			e, err := fsdk.EstimateParallel(samples, workers, seed)
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, e)
		},
	}
	parallelCmd.Flags().Uint64VarP(&samples, "samples", "n", defParallelSamples, "Total number of samples")
	parallelCmd.Flags().IntVarP(&workers, "workers", "w", runtime.NumCPU(), "Number of workers")
	parallelCmd.Flags().Int64VarP(&seed, "seed", "s", estimator.DefBaseSeed, "Base seed")

	interactiveCmd := &cobra.Command{
		Use:   "interactive",
		Short: "Configure and run an estimate interactively",
		Long:  `Prompt for method, samples and workers, then run the estimate.`,
		Run: func(cmd *cobra.Command, _ []string) {
			method := methodParallel
			n := strconv.FormatUint(defParallelSamples, 10)
			w := strconv.Itoa(runtime.NumCPU())

			form := huh.NewForm(
				huh.NewGroup(
					huh.NewSelect[string]().
						Title("Method").
						Options(
							huh.NewOption("Single shot", methodSingle),
							huh.NewOption("Parallel", methodParallel),
						).
						Value(&method),
					huh.NewInput().
						Title("Samples").
						Value(&n).
						Validate(validatePositive),
				),
				huh.NewGroup(
					huh.NewInput().
						Title("Workers").
						Value(&w).
						Validate(validatePositive),
				).WithHideFunc(func() bool { return method == methodSingle }),
			)
			if err := form.Run(); err != nil {
				logErrorCmd(*cmd, err)

				return
			}

			total, _ := strconv.ParseUint(n, 10, 64)
			var (
				e   sdk.Estimate
				err error
			)
			switch method {
			case methodSingle:
				e, err = fsdk.Estimate(total)
			default:
				count, _ := strconv.Atoi(w)
				e, err = fsdk.EstimateParallel(total, count, estimator.DefBaseSeed)
			}
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, e)
		},
	}

	viewCmd := &cobra.Command{
		Use:   "view <id>",
		Short: "View estimate",
		Long:  `View a completed estimate.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			e, err := fsdk.GetEstimate(args[0])
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, e)
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List estimates",
		Long:  `List completed estimates.`,
		Run: func(cmd *cobra.Command, _ []string) {
			page, err := fsdk.ListEstimates(defOffset, defLimit)
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, page)
		},
	}
	listCmd.Flags().Uint64VarP(&defOffset, "offset", "o", defOffset, "Offset")
	listCmd.Flags().Uint64VarP(&defLimit, "limit", "l", defLimit, "Limit")

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete estimate",
		Long:  `Delete an estimate from the history.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			if err := fsdk.DeleteEstimate(args[0]); err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logOKCmd(*cmd)
		},
	}

	exportCmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Export estimate",
		Long:  `Upload an estimate to the object store.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			key, err := fsdk.ExportEstimate(args[0])
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, map[string]string{"id": args[0], "key": key})
		},
	}

	importCmd := &cobra.Command{
		Use:   "import <key>",
		Short: "Import estimate",
		Long:  `Download a previously exported estimate from the object store.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			e, err := fsdk.ImportEstimate(args[0])
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, e)
		},
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Latency statistics",
		Long:  `Show latency quantiles per estimate method.`,
		Run: func(cmd *cobra.Command, _ []string) {
			s, err := fsdk.Stats()
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, s)
		},
	}

	var watchMethod string
	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch completed estimates",
		Long: `Subscribe to the results topic and print every estimate as it completes.

Examples:
  fastflow-cli estimates watch
  fastflow-cli estimates watch --method parallel`,
		Run: func(cmd *cobra.Command, _ []string) {
			if err := watch(cmd, watchMethod); err != nil {
				logErrorCmd(*cmd, err)
			}
		},
	}
	watchCmd.Flags().StringVar(&watchMethod, "method", "", "Only watch single or parallel estimates")

	cmd.AddCommand(singleCmd)
	cmd.AddCommand(parallelCmd)
	cmd.AddCommand(interactiveCmd)
	cmd.AddCommand(viewCmd)
	cmd.AddCommand(listCmd)
	cmd.AddCommand(deleteCmd)
	cmd.AddCommand(exportCmd)
	cmd.AddCommand(importCmd)
	cmd.AddCommand(statsCmd)
	cmd.AddCommand(watchCmd)

	return cmd
}

func watch(cmd *cobra.Command, method string) error {
	var filter string
	switch method {
	case "":
	case methodSingle:
		filter = string(estimator.Single)
	case methodParallel:
		filter = string(estimator.Parallel)
	default:
		return fmt.Errorf("unknown method %q, want single or parallel", method)
	}

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
	id := fmt.Sprintf("fastflow-cli-%d", time.Now().UnixNano())
	client, err := mqtt.NewClient(mqttCfg, id, logger)
	if err != nil {
		return err
	}
	defer client.Close()

	return client.Watch(cmd.Context(), filter, func(msg mqtt.Message) error {
		var e sdk.Estimate
		if err := json.Unmarshal(msg.Payload, &e); err != nil {
			return err
		}
		logJSONCmd(*cmd, e)

		return nil
	})
}

func validatePositive(s string) error {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil || v == 0 {
		return errInvalidNumber
	}

	return nil
}
