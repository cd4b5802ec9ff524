package handlers

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/ats-api/internal/metrics"
	"alfredoptarigan/ats-api/internal/models"
	"alfredoptarigan/ats-api/internal/repositories"
	"alfredoptarigan/ats-api/internal/services"
)

type AnalyzeHandler struct {
	analyzer     services.AnalyzerService
	analysisRepo repositories.AnalysisRepository
	metrics      *metrics.Metrics
}

// NewAnalyzeHandler accepts a nil analysisRepo when history is disabled.
func NewAnalyzeHandler(
	analyzer services.AnalyzerService,
	analysisRepo repositories.AnalysisRepository,
	m *metrics.Metrics,
) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer:     analyzer,
		analysisRepo: analysisRepo,
		metrics:      m,
	}
}

// HandleAnalyze handles POST /analyze
func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("pdf")
	if err != nil {
		return h.reject(c, "pdf file is required")
	}

	jobDesc := c.FormValue("jobDesc")
	if strings.TrimSpace(jobDesc) == "" {
		return h.reject(c, "jobDesc is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.metrics.ObserveAnalysis(metrics.OutcomeInternalError)
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Error: fmt.Sprintf("failed to open uploaded file: %v", err),
		})
	}
	defer file.Close()

	record := &models.Analysis{
		ID:             uuid.New(),
		ResumeFilename: fileHeader.Filename,
		JobDescription: jobDesc,
		Provider:       h.analyzer.Provider(),
		CreatedAt:      time.Now(),
	}
	started := time.Now()

	output, err := h.analyzer.AnalyzeDocument(c.UserContext(), file, fileHeader.Size, jobDesc)
	record.DurationMs = time.Since(started).Milliseconds()
	if err != nil {
		return h.fail(c, record, err)
	}

	result := output.Reply.AnalysisResult
	record.Status = models.StatusCompleted
	record.ResumeChars = output.ResumeChars
	record.ATSScore = result.ATSScore
	record.KeywordMatch = result.KeywordMatch
	record.SkillMatch = result.SkillMatch
	record.ExperienceEducationMatch = result.ExperienceEducationMatch
	record.FormattingQuality = result.FormattingQuality
	record.MatchedKeywords = result.MatchedKeywords
	record.MissingKeywords = result.MissingKeywords
	record.ImprovementTips = output.Reply.ImprovementTips
	record.FeedbackReport = output.Reply.FeedbackReport
	record.RawOutput = output.RawOutput

	response := models.AnalyzeResponse{
		Result:   result,
		AIOutput: output.RawOutput,
	}

	h.save(record)
	h.metrics.ObserveAnalysis(metrics.OutcomeSuccess)
	log.Printf("✅ Analysis %s completed with ATS score %d\n", record.ID, result.ATSScore)

	return c.Status(fiber.StatusOK).JSON(response)
}

func (h *AnalyzeHandler) reject(c *fiber.Ctx, message string) error {
	h.metrics.ObserveAnalysis(metrics.OutcomeInvalidRequest)
	return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: message})
}

// fail maps extraction problems to 400 and everything else to 500.
func (h *AnalyzeHandler) fail(c *fiber.Ctx, record *models.Analysis, err error) error {
	message := err.Error()
	status := fiber.StatusInternalServerError
	outcome := metrics.OutcomeInternalError

	var extractionErr *services.ExtractionError
	var upstreamErr *services.UpstreamError
	switch {
	case errors.As(err, &extractionErr):
		message = extractionErr.Error()
		status = fiber.StatusBadRequest
		outcome = metrics.OutcomeExtractionError
	case errors.As(err, &upstreamErr):
		outcome = metrics.OutcomeUpstreamError
	}

	log.Printf("❌ Analysis %s failed: %v\n", record.ID, err)

	record.Status = models.StatusFailed
	record.ErrorMessage = &message
	h.save(record)
	h.metrics.ObserveAnalysis(outcome)

	return c.Status(status).JSON(models.ErrorResponse{Error: message})
}

// save never affects the response; history is best effort.
func (h *AnalyzeHandler) save(record *models.Analysis) {
	if h.analysisRepo == nil {
		return
	}
	if err := h.analysisRepo.Create(record); err != nil {
		log.Printf("⚠️  Failed to store analysis %s: %v\n", record.ID, err)
	}
}
