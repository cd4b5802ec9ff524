package handlers_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"alfredoptarigan/ats-api/internal/metrics"
	"alfredoptarigan/ats-api/internal/models"
	"alfredoptarigan/ats-api/internal/routes"
	"alfredoptarigan/ats-api/internal/services"
)

var _ = Describe("ATS API", func() {
	var (
		app  *fiber.App
		llm  *echoLLM
		repo *memoryAnalysisRepo
	)

	validPDF := []byte("%PDF Jane Doe, Go developer with Docker")

	BeforeEach(func() {
		llm = &echoLLM{}
		repo = newMemoryAnalysisRepo()
		analyzer := services.NewAnalyzerService(stubPDFParser{}, llm, nil)

		app = routes.SetupRouter(routes.Dependencies{
			Analyzer:          analyzer,
			AnalysisRepo:      repo,
			Metrics:           metrics.New(),
			MaxFileSize:       1 << 20,
			DisableRequestLog: true,
		})
	})

	do := func(req *http.Request) (int, []byte) {
		resp, err := app.Test(req, -1)
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		Expect(err).NotTo(HaveOccurred())
		return resp.StatusCode, body
	}

	Describe("GET /ping", func() {
		It("answers without touching the model", func() {
			llm.err = errors.New("model is down")

			status, body := do(httptest.NewRequest(http.MethodGet, "/ping", nil))

			Expect(status).To(Equal(fiber.StatusOK))
			var ping models.PingResponse
			Expect(json.Unmarshal(body, &ping)).To(Succeed())
			Expect(ping.Message).To(Equal("pong"))
			Expect(ping.Status).To(Equal("API is live ✅"))
			Expect(llm.callCount()).To(BeZero())
		})
	})

	Describe("GET /", func() {
		It("returns the banner", func() {
			status, body := do(httptest.NewRequest(http.MethodGet, "/", nil))

			Expect(status).To(Equal(fiber.StatusOK))
			Expect(string(body)).To(ContainSubstring("ATS API running"))
		})
	})

	Describe("POST /analyze", func() {
		It("returns parsed scores and the raw model output", func() {
			status, body := do(analyzeRequest(validPDF, "jobDesc", "Go engineer score=78"))

			Expect(status).To(Equal(fiber.StatusOK))

			var raw map[string]json.RawMessage
			Expect(json.Unmarshal(body, &raw)).To(Succeed())
			Expect(raw).To(HaveKey("result"))
			Expect(raw).To(HaveKey("ai_output"))

			var resp models.AnalyzeResponse
			Expect(json.Unmarshal(body, &resp)).To(Succeed())
			Expect(resp.Result.ATSScore).To(Equal(78))
			Expect(resp.Result.KeywordMatch).To(Equal(78))
			Expect(resp.Result.SkillMatch).To(Equal(80))
			Expect(resp.Result.ExperienceEducationMatch).To(Equal(75))
			Expect(resp.Result.FormattingQuality).To(Equal(90))
			Expect(resp.Result.MatchedKeywords).To(Equal([]string{"Go", "Docker"}))
			Expect(resp.Result.MissingKeywords).To(HaveLen(1))
			Expect(resp.AIOutput).To(HavePrefix("Overall ATS Score: 78/100"))

			var result map[string]any
			Expect(json.Unmarshal(raw["result"], &result)).To(Succeed())
			Expect(result).To(HaveKey("ATS Score"))
			Expect(result).To(HaveKey("Experience and Education Match"))
		})

		It("records a completed analysis in the history", func() {
			status, _ := do(analyzeRequest(validPDF, "jobDesc", "score=64"))
			Expect(status).To(Equal(fiber.StatusOK))

			stored := repo.all()
			Expect(stored).To(HaveLen(1))
			Expect(stored[0].Status).To(Equal(models.StatusCompleted))
			Expect(stored[0].ATSScore).To(Equal(64))
			Expect(stored[0].ImprovementTips).To(Equal("- Add metrics"))
			Expect(stored[0].Provider).To(Equal("stub"))
		})

		It("rejects an unreadable PDF with 400 and never calls the model", func() {
			status, body := do(analyzeRequest([]byte("garbage bytes"), "jobDesc", "score=10"))

			Expect(status).To(Equal(fiber.StatusBadRequest))
			var errResp models.ErrorResponse
			Expect(json.Unmarshal(body, &errResp)).To(Succeed())
			Expect(errResp.Error).To(HavePrefix("Error reading PDF: "))
			Expect(llm.callCount()).To(BeZero())

			stored := repo.all()
			Expect(stored).To(HaveLen(1))
			Expect(stored[0].Status).To(Equal(models.StatusFailed))
		})

		It("rejects a PDF without text with 400", func() {
			status, body := do(analyzeRequest([]byte("%PDF   "), "jobDesc", "score=10"))

			Expect(status).To(Equal(fiber.StatusBadRequest))
			Expect(string(body)).To(ContainSubstring("no text content"))
		})

		It("maps model failures to 500 with the provider message", func() {
			llm.err = &services.UpstreamError{Provider: "stub", Err: errors.New("invalid api key")}

			status, body := do(analyzeRequest(validPDF, "jobDesc", "score=10"))

			Expect(status).To(Equal(fiber.StatusInternalServerError))
			var errResp models.ErrorResponse
			Expect(json.Unmarshal(body, &errResp)).To(Succeed())
			Expect(errResp.Error).To(ContainSubstring("invalid api key"))
			Expect(errResp.Error).NotTo(HavePrefix("Error reading PDF"))
		})

		It("returns zero scores when the model ignores the format", func() {
			freeText := services.NewAnalyzerService(stubPDFParser{}, &fixedLLM{reply: "I think this is a good resume."}, nil)
			app = routes.SetupRouter(routes.Dependencies{
				Analyzer:          freeText,
				MaxFileSize:       1 << 20,
				DisableRequestLog: true,
			})

			status, body := do(analyzeRequest(validPDF, "jobDesc", "anything"))

			Expect(status).To(Equal(fiber.StatusOK))
			var resp models.AnalyzeResponse
			Expect(json.Unmarshal(body, &resp)).To(Succeed())
			Expect(resp.Result.ParsedScores).To(Equal(models.ParsedScores{}))
			Expect(resp.Result.MatchedKeywords).To(BeEmpty())
			Expect(resp.AIOutput).To(Equal("I think this is a good resume."))
		})

		DescribeTable("rejects incomplete forms with 400",
			func(pdf []byte, field, value, message string) {
				status, body := do(analyzeRequest(pdf, field, value))

				Expect(status).To(Equal(fiber.StatusBadRequest))
				Expect(string(body)).To(ContainSubstring(message))
				Expect(llm.callCount()).To(BeZero())
			},
			Entry("missing pdf", []byte(nil), "jobDesc", "Go engineer", "pdf file is required"),
			Entry("missing jobDesc", []byte("%PDF text"), "", "", "jobDesc is required"),
			Entry("blank jobDesc", []byte("%PDF text"), "jobDesc", "   \n", "jobDesc is required"),
		)

		It("rejects non-multipart bodies with 400", func() {
			req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{"jobDesc":"x"}`))
			req.Header.Set("Content-Type", "application/json")

			status, _ := do(req)
			Expect(status).To(Equal(fiber.StatusBadRequest))
		})

		It("keeps concurrent requests independent", func() {
			const requests = 12
			scores := make([]int, requests)

			var wg sync.WaitGroup
			for i := 0; i < requests; i++ {
				wg.Add(1)
				go func(i int) {
					defer GinkgoRecover()
					defer wg.Done()

					pdf := []byte(fmt.Sprintf("%%PDF resume number %d", i))
					status, body := do(analyzeRequest(pdf, "jobDesc", fmt.Sprintf("score=%d", i+10)))
					Expect(status).To(Equal(fiber.StatusOK))

					var resp models.AnalyzeResponse
					Expect(json.Unmarshal(body, &resp)).To(Succeed())
					scores[i] = resp.Result.ATSScore
				}(i)
			}
			wg.Wait()

			for i, score := range scores {
				Expect(score).To(Equal(i+10), "request %d", i)
			}
			Expect(llm.callCount()).To(Equal(requests))
		})
	})

	Describe("GET /analyses/:id", func() {
		It("returns a stored analysis", func() {
			status, _ := do(analyzeRequest(validPDF, "jobDesc", "score=55"))
			Expect(status).To(Equal(fiber.StatusOK))
			id := repo.all()[0].ID

			status, body := do(httptest.NewRequest(http.MethodGet, "/analyses/"+id.String(), nil))

			Expect(status).To(Equal(fiber.StatusOK))
			var analysis models.Analysis
			Expect(json.Unmarshal(body, &analysis)).To(Succeed())
			Expect(analysis.ID).To(Equal(id))
			Expect(analysis.ATSScore).To(Equal(55))
			Expect(analysis.MatchedKeywords).To(Equal([]string{"Go", "Docker"}))
		})

		It("returns 404 for an unknown id", func() {
			status, _ := do(httptest.NewRequest(http.MethodGet, "/analyses/"+uuid.NewString(), nil))
			Expect(status).To(Equal(fiber.StatusNotFound))
		})

		It("returns 400 for a malformed id", func() {
			status, _ := do(httptest.NewRequest(http.MethodGet, "/analyses/not-a-uuid", nil))
			Expect(status).To(Equal(fiber.StatusBadRequest))
		})

		It("lists recent analyses newest first", func() {
			do(analyzeRequest(validPDF, "jobDesc", "score=11"))
			do(analyzeRequest(validPDF, "jobDesc", "score=22"))

			status, body := do(httptest.NewRequest(http.MethodGet, "/analyses?limit=1", nil))

			Expect(status).To(Equal(fiber.StatusOK))
			var listing struct {
				Analyses []models.Analysis `json:"analyses"`
				Count    int               `json:"count"`
			}
			Expect(json.Unmarshal(body, &listing)).To(Succeed())
			Expect(listing.Count).To(Equal(1))
			Expect(listing.Analyses[0].ATSScore).To(Equal(22))
		})

		It("is not routed when history is disabled", func() {
			app = routes.SetupRouter(routes.Dependencies{
				Analyzer:          services.NewAnalyzerService(stubPDFParser{}, llm, nil),
				MaxFileSize:       1 << 20,
				DisableRequestLog: true,
			})

			status, body := do(httptest.NewRequest(http.MethodGet, "/analyses/"+uuid.NewString(), nil))
			Expect(status).To(Equal(fiber.StatusNotFound))
			Expect(string(body)).To(ContainSubstring(`"error"`))
		})
	})

	Describe("GET /metrics", func() {
		It("exposes analysis counters", func() {
			do(analyzeRequest(validPDF, "jobDesc", "score=50"))

			status, body := do(httptest.NewRequest(http.MethodGet, "/metrics", nil))

			Expect(status).To(Equal(fiber.StatusOK))
			Expect(string(body)).To(ContainSubstring(`ats_analyses_total{outcome="success"} 1`))
		})
	})

	Describe("CORS", func() {
		It("allows any origin", func() {
			req := httptest.NewRequest(http.MethodOptions, "/analyze", nil)
			req.Header.Set("Origin", "http://example.com")
			req.Header.Set("Access-Control-Request-Method", "POST")

			resp, err := app.Test(req, -1)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Header.Get("Access-Control-Allow-Origin")).To(Equal("*"))
		})
	})
})
