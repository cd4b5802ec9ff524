package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"alfredoptarigan/ats-api/internal/services"
)

type parseOutput struct {
	Result          any    `json:"result"`
	ImprovementTips string `json:"improvement_tips,omitempty"`
	FeedbackReport  string `json:"feedback_report,omitempty"`
}

func newParseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "parse [reply-file]",
		Short: "Parse a saved model reply; reads stdin when no file or \"-\" is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				raw []byte
				err error
			)
			if len(args) == 0 || args[0] == "-" {
				raw, err = io.ReadAll(cmd.InOrStdin())
			} else {
				raw, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("failed to read reply: %w", err)
			}

			reply := services.ParseReply(string(raw))
			return writeJSON(cmd.OutOrStdout(), parseOutput{
				Result:          reply.AnalysisResult,
				ImprovementTips: reply.ImprovementTips,
				FeedbackReport:  reply.FeedbackReport,
			})
		},
	}
}
