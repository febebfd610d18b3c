package cli

import (
	"io"
	"strings"

	"github.com/absmach/fastflow/pkg/wordcount"
	"github.com/spf13/cobra"
)

func NewWordCountCmd() *cobra.Command {
	var local bool

	cmd := &cobra.Command{
		Use:   "wordcount [count|map|reduce]",
		Short: "Word counting",
		Long:  `Count words on the server or run the streaming map and reduce steps locally.`,
	}

	countCmd := &cobra.Command{
		Use:   "count [text]",
		Short: "Count words",
		Long: `Count words in the arguments, or in stdin when none are given.

Examples:
  fastflow-cli wordcount count "the quick brown fox jumps over the lazy dog"
  cat book.txt | fastflow-cli wordcount count --local`,
		Run: func(cmd *cobra.Command, args []string) {
			text := strings.Join(args, " ")
			if len(args) == 0 {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					logErrorCmd(*cmd, err)

					return
				}
				text = string(data)
			}

			if local {
				logJSONCmd(*cmd, wordcount.Count(text, wordcount.DefTop))

				return
			}

			wc, err := fsdk.WordCount(text)
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, wc)
		},
	}
	countCmd.Flags().BoolVar(&local, "local", false, "Count locally without calling the server")

	mapCmd := &cobra.Command{
		Use:   "map",
		Short: "Emit word<TAB>1 for every word on stdin",
		Long:  `Streaming mapper: lower-cases every whitespace separated token on stdin and writes one "word\t1" line per token.`,
		Run: func(cmd *cobra.Command, _ []string) {
			if err := wordcount.Map(cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
				logErrorCmd(*cmd, err)
			}
		},
	}

	reduceCmd := &cobra.Command{
		Use:   "reduce",
		Short: "Sum word<TAB>count lines from stdin",
		Long:  `Streaming reducer: sums "word\tcount" lines on stdin and writes the totals sorted by word.`,
		Run: func(cmd *cobra.Command, _ []string) {
			if err := wordcount.Reduce(cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
				logErrorCmd(*cmd, err)
			}
		},
	}

	cmd.AddCommand(countCmd)
	cmd.AddCommand(mapCmd)
	cmd.AddCommand(reduceCmd)

	return cmd
}
