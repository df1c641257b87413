package handlers

import (
	"errors"
	"strings"

	"wildebeast-llm-api/internal/faults"
	"wildebeast-llm-api/internal/models"
	"wildebeast-llm-api/internal/services"

	"github.com/gofiber/fiber/v2"
)

type ForecastHandler struct {
	service *services.ForecastService
	history *services.HistoryService
}

func NewForecastHandler(service *services.ForecastService, history *services.HistoryService) *ForecastHandler {
	return &ForecastHandler{
		service: service,
		history: history,
	}
}

// GetForecast handles POST /api/v1/forecast
//
// Per-request flow: validate the inbound shape locally, delegate everything
// semantic to the downstream, translate the outcome to exactly one of
// {ForecastResponse, ErrorResponse}. No state survives the request.
func (h *ForecastHandler) GetForecast(c *fiber.Ctx) error {
	var req models.ForecastRequest
	if err := c.BodyParser(&req); err != nil {
		return writeFailure(c, faults.Wrap(err, faults.KindValidation,
			`Request body must be JSON with a "question" field.`))
	}

	// The only local validation; no downstream call happens on violation.
	if strings.TrimSpace(req.Question) == "" {
		return writeFailure(c, faults.New(faults.KindValidation,
			`Field "question" must be a non-empty string.`))
	}

	forecast, err := h.service.Forecast(c.Context(), req.Question)
	if err != nil {
		return writeFailure(c, faults.Ensure(err))
	}

	return c.JSON(forecast)
}

// GetHistory handles GET /api/v1/history
func (h *ForecastHandler) GetHistory(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	records, err := h.history.Recent(c.Context(), limit)
	if err != nil {
		return writeFailure(c, faults.Ensure(err))
	}

	return c.JSON(records)
}

func writeFailure(c *fiber.Ctx, f *faults.Failure) error {
	return c.Status(f.HTTPStatus()).JSON(f.Response())
}

// ErrorHandler keeps the ErrorResponse shape for failures that escape the
// handlers (unknown routes, panics caught by recover, body limits).
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(models.ErrorResponse{
			Error:   string(faults.KindInternal),
			Message: fiberErr.Message,
		})
	}

	return writeFailure(c, faults.Ensure(err))
}
