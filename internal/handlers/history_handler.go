package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/ats-api/internal/models"
	"alfredoptarigan/ats-api/internal/repositories"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type HistoryHandler struct {
	analysisRepo repositories.AnalysisRepository
}

func NewHistoryHandler(analysisRepo repositories.AnalysisRepository) *HistoryHandler {
	return &HistoryHandler{
		analysisRepo: analysisRepo,
	}
}

// HandleGetAnalysis handles GET /analyses/:id
func (h *HistoryHandler) HandleGetAnalysis(c *fiber.Ctx) error {
	analysisID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Invalid analysis ID format",
		})
	}

	analysis, err := h.analysisRepo.FindByID(analysisID)
	if err != nil {
		if errors.Is(err, repositories.ErrAnalysisNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{
				Error: "Analysis not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Error: err.Error(),
		})
	}

	return c.JSON(analysis)
}

// HandleListAnalyses handles GET /analyses?limit=N
func (h *HistoryHandler) HandleListAnalyses(c *fiber.Ctx) error {
	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
				Error: "limit must be a positive integer",
			})
		}
		limit = min(parsed, maxHistoryLimit)
	}

	analyses, err := h.analysisRepo.FindRecent(limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Error: err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"analyses": analyses,
		"count":    len(analyses),
	})
}
