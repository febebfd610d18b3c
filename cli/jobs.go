package cli

import (
	"github.com/absmach/fastflow/pkg/sdk"
	"github.com/spf13/cobra"
)

func NewJobsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs [submit]",
		Short: "Jobs",
		Long:  `Submit jobs to the queueing endpoint.`,
	}

	submitCmd := &cobra.Command{
		Use:   "submit <id> [payload]",
		Short: "Submit job",
		Long:  `Submit a job with an optional payload.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) < 1 || len(args) > 2 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			job := sdk.Job{ID: args[0]}
			if len(args) == 2 {
				job.Payload = args[1]
			}

			ack, err := fsdk.SubmitJob(job)
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, ack)
		},
	}

	cmd.AddCommand(submitCmd)

	return cmd
}

func NewHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Service health",
		Long:  `Show service status and uptime.`,
		Run: func(cmd *cobra.Command, _ []string) {
			h, err := fsdk.Health()
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, h)
		},
	}
}
