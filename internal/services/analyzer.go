package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"alfredoptarigan/ats-api/internal/metrics"
	"alfredoptarigan/ats-api/internal/models"
)

type AnalyzerService interface {
	AnalyzeDocument(ctx context.Context, resume io.ReaderAt, size int64, jobDescription string) (*AnalysisOutput, error)
	AnalyzeFile(ctx context.Context, filePath, jobDescription string) (*AnalysisOutput, error)
	AnalyzeText(ctx context.Context, resumeText, jobDescription string) (*AnalysisOutput, error)
	Provider() string
}

// AnalysisOutput is local to one call and never shared between requests.
type AnalysisOutput struct {
	ResumeChars int
	Reply       ParsedReply
	RawOutput   string
	LLMDuration time.Duration
}

type analyzerService struct {
	pdfParser     PDFParserService
	llmService    LLMService
	promptBuilder *PromptBuilder
	metrics       *metrics.Metrics
}

func NewAnalyzerService(
	pdfParser PDFParserService,
	llmService LLMService,
	m *metrics.Metrics,
) AnalyzerService {
	return &analyzerService{
		pdfParser:     pdfParser,
		llmService:    llmService,
		promptBuilder: NewPromptBuilder(),
		metrics:       m,
	}
}

// Provider implements AnalyzerService.
func (a *analyzerService) Provider() string {
	return a.llmService.Name()
}

// AnalyzeDocument implements AnalyzerService.
func (a *analyzerService) AnalyzeDocument(ctx context.Context, resume io.ReaderAt, size int64, jobDescription string) (*AnalysisOutput, error) {
	log.Println("📄 Extracting resume text...")
	resumeText, err := a.pdfParser.ExtractTextFromReader(resume, size)
	if err != nil {
		return nil, err
	}

	return a.AnalyzeText(ctx, resumeText, jobDescription)
}

// AnalyzeFile implements AnalyzerService.
func (a *analyzerService) AnalyzeFile(ctx context.Context, filePath, jobDescription string) (*AnalysisOutput, error) {
	log.Printf("📄 Extracting resume text from %s...\n", filePath)
	resumeText, err := a.pdfParser.ExtractText(filePath)
	if err != nil {
		return nil, err
	}

	return a.AnalyzeText(ctx, resumeText, jobDescription)
}

// AnalyzeText implements AnalyzerService.
func (a *analyzerService) AnalyzeText(ctx context.Context, resumeText, jobDescription string) (*AnalysisOutput, error) {
	prompt := a.promptBuilder.BuildAnalysisPrompt(resumeText, jobDescription)
	log.Printf("📝 Analysis prompt length: %d characters", len(prompt))

	log.Printf("🤖 Querying %s...", a.llmService.Name())
	start := time.Now()
	reply, err := a.llmService.Complete(ctx, SystemInstruction, prompt)
	elapsed := time.Since(start)
	a.metrics.ObserveLLM(a.llmService.Name(), elapsed, err)
	if err != nil {
		log.Printf("❌ LLM request failed after %s: %v", elapsed, err)
		return nil, fmt.Errorf("failed to query model: %w", err)
	}
	log.Printf("✅ LLM response received: %d characters in %s", len(reply), elapsed)

	parsed := ParseReply(reply)
	if parsed.ParsedScores == (models.ParsedScores{}) {
		log.Println("⚠️  Model reply did not match the requested format, scores default to 0")
		a.metrics.ObserveUnparsedReply()
	}

	return &AnalysisOutput{
		ResumeChars: len(resumeText),
		Reply:       parsed,
		RawOutput:   reply,
		LLMDuration: elapsed,
	}, nil
}
