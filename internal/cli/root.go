package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"alfredoptarigan/ats-api/internal/config"
)

type configKeyType struct{}

var configKey = configKeyType{}

// NewRootCommand builds a fresh command tree so tests never share flag state.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "atscli",
		Short: "Score a resume against a job description",
		Long: `atscli runs the same analysis pipeline as the ATS API without the HTTP
server: PDF text extraction, prompt rendering, the LLM call and reply parsing.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newAnalyzeCommand())
	rootCmd.AddCommand(newParseCommand())
	rootCmd.AddCommand(newPromptCommand())

	return rootCmd
}

func Execute(ctx context.Context, cfg *config.Config) error {
	return ExecuteArgs(ctx, cfg, os.Args[1:], os.Stdout)
}

// ExecuteArgs runs the CLI with explicit arguments and output.
func ExecuteArgs(ctx context.Context, cfg *config.Config, args []string, out io.Writer) error {
	rootCmd := NewRootCommand()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(out)
	return rootCmd.ExecuteContext(context.WithValue(ctx, configKey, cfg))
}

func getConfigFromContext(ctx context.Context) (*config.Config, error) {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg, nil
	}
	return nil, fmt.Errorf("config not found in context")
}

func readJobDescription(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read job description: %w", err)
	}
	return string(content), nil
}

func writeJSON(out io.Writer, v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(v)
}
