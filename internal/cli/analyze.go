package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"alfredoptarigan/ats-api/internal/models"
	"alfredoptarigan/ats-api/internal/services"
)

func newAnalyzeCommand() *cobra.Command {
	var pdfPath, jobPath string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a PDF resume and print the /analyze response body",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			jobDesc, err := readJobDescription(jobPath)
			if err != nil {
				return err
			}
			if strings.TrimSpace(jobDesc) == "" {
				return fmt.Errorf("job description is empty")
			}

			llmService, err := services.NewLLMService(cmd.Context(), cfg.LLM)
			if err != nil {
				return fmt.Errorf("failed to create LLM client: %w", err)
			}

			analyzer := services.NewAnalyzerService(services.NewPDFParserService(), llmService, nil)
			output, err := analyzer.AnalyzeFile(cmd.Context(), pdfPath, jobDesc)
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), models.AnalyzeResponse{
				Result:   output.Reply.AnalysisResult,
				AIOutput: output.RawOutput,
			})
		},
	}

	cmd.Flags().StringVar(&pdfPath, "pdf", "", "Path to the resume PDF")
	cmd.Flags().StringVar(&jobPath, "job", "", "Path to a text file holding the job description")
	_ = cmd.MarkFlagRequired("pdf")
	_ = cmd.MarkFlagRequired("job")

	return cmd
}
