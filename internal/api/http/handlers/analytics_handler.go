package handlers

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/medreview-console/internal/api/dto"
	"github.com/spec-kit/medreview-console/internal/auth"
	"github.com/spec-kit/medreview-console/internal/service"
	apperrors "github.com/spec-kit/medreview-console/pkg/util"
)

// rangeDays maps the supported dashboard windows.
var rangeDays = map[string]int{
	"7d":  7,
	"30d": 30,
	"90d": 90,
}

// AnalyticsHandler serves the dashboard report and its CSV export.
type AnalyticsHandler struct {
	service *service.AnalyticsService
}

// NewAnalyticsHandler constructs handler.
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: analyticsService}
}

// GetReport GET /admin/analytics?range=7d|30d|90d.
func (h *AnalyticsHandler) GetReport(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	days, err := parseRange(c.Query("range", "30d"))
	if err != nil {
		return err
	}

	report, err := h.service.BuildDashboard(c.Context(), principal.Account, days)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AnalyticsReport(*report)})
}

// ExportCSV GET /admin/analytics/export?range=7d|30d|90d.
func (h *AnalyticsHandler) ExportCSV(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	days, err := parseRange(c.Query("range", "30d"))
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := h.service.ExportCSV(c.Context(), principal.Account, days, &buf); err != nil {
		return err
	}

	filename := fmt.Sprintf("analytics-%s.csv", time.Now().Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(buf.Bytes())
}

func parseRange(val string) (int, error) {
	days, ok := rangeDays[val]
	if !ok {
		return 0, apperrors.NewValidationError("range must be one of 7d, 30d, 90d", map[string]any{"range": val})
	}
	return days, nil
}
