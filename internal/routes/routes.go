package routes

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"alfredoptarigan/ats-api/internal/handlers"
	"alfredoptarigan/ats-api/internal/metrics"
	"alfredoptarigan/ats-api/internal/middleware"
	"alfredoptarigan/ats-api/internal/models"
	"alfredoptarigan/ats-api/internal/repositories"
	"alfredoptarigan/ats-api/internal/services"
)

// Dependencies groups everything the HTTP layer needs. AnalysisRepo,
// Metrics and RateLimiter are optional.
type Dependencies struct {
	Analyzer     services.AnalyzerService
	AnalysisRepo repositories.AnalysisRepository
	Metrics      *metrics.Metrics
	RateLimiter  *middleware.LimiterManager
	MaxFileSize  int64
	// DisableRequestLog silences the access log, used by tests.
	DisableRequestLog bool
}

// SetupRouter builds the fiber app with middleware and all routes.
func SetupRouter(deps Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "ATS Resume Analyzer API",
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		BodyLimit:             int(deps.MaxFileSize),
		ErrorHandler:          customErrorHandler,
		DisableStartupMessage: deps.DisableRequestLog,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	if !deps.DisableRequestLog {
		app.Use(logger.New(logger.Config{
			Format:     "[${time}] ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
			TimeFormat: "2006-01-02 15:04:05",
		}))
	}

	// Empty AllowHeaders reflects whatever the preflight asks for.
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,HEAD,OPTIONS",
	}))

	analyzeHandler := handlers.NewAnalyzeHandler(deps.Analyzer, deps.AnalysisRepo, deps.Metrics)

	app.Get("/ping", handlers.HandlePing)
	app.Get("/", handlers.HandleRoot)
	app.Post("/analyze", deps.RateLimiter.Handler(), analyzeHandler.HandleAnalyze)

	if deps.AnalysisRepo != nil {
		historyHandler := handlers.NewHistoryHandler(deps.AnalysisRepo)
		app.Get("/analyses", historyHandler.HandleListAnalyses)
		app.Get("/analyses/:id", historyHandler.HandleGetAnalysis)
	}

	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	return app
}

// customErrorHandler keeps the {"error": ...} shape for errors raised
// outside the handlers, such as 404, 405 and 413.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}

	return c.Status(code).JSON(models.ErrorResponse{
		Error: err.Error(),
	})
}
