package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"alfredoptarigan/ats-api/internal/services"
)

func newPromptCommand() *cobra.Command {
	var pdfPath, jobPath string

	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Print the prompt that would be sent to the model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			jobDesc, err := readJobDescription(jobPath)
			if err != nil {
				return err
			}

			resumeText, err := services.NewPDFParserService().ExtractText(pdfPath)
			if err != nil {
				return err
			}

			prompt := services.NewPromptBuilder().BuildAnalysisPrompt(resumeText, jobDesc)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), prompt)
			return err
		},
	}

	cmd.Flags().StringVar(&pdfPath, "pdf", "", "Path to the resume PDF")
	cmd.Flags().StringVar(&jobPath, "job", "", "Path to a text file holding the job description")
	_ = cmd.MarkFlagRequired("pdf")
	_ = cmd.MarkFlagRequired("job")

	return cmd
}
