package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/medreview-console/internal/api/dto"
	"github.com/spec-kit/medreview-console/internal/auth"
	"github.com/spec-kit/medreview-console/internal/domain"
	"github.com/spec-kit/medreview-console/internal/repository"
	"github.com/spec-kit/medreview-console/internal/service"
	apperrors "github.com/spec-kit/medreview-console/pkg/util"
)

// ReviewsHandler manages the moderation queue endpoints.
type ReviewsHandler struct {
	service *service.ModerationService
}

// NewReviewsHandler constructs handler.
func NewReviewsHandler(moderationService *service.ModerationService) *ReviewsHandler {
	return &ReviewsHandler{service: moderationService}
}

// ListReviews GET /admin/reviews.
func (h *ReviewsHandler) ListReviews(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	filter := parseReviewQuery(c)
	reviews, err := h.service.ListReviews(c.Context(), principal.Account, filter)
	if err != nil {
		return err
	}
	items := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		items = append(items, reviewResponse(&reviews[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// SetStatus PATCH /admin/reviews/:id/status.
func (h *ReviewsHandler) SetStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.SetReviewStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	if err := h.service.SetStatus(c.Context(), principal.Account, c.Params("id"), req.Status); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"id": c.Params("id"), "status": req.Status}})
}

// BulkSetStatus POST /admin/reviews/bulk-status. Items are processed
// independently; the response always lists every item's outcome in request
// order, with 207 signalling a mixed result.
func (h *ReviewsHandler) BulkSetStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.BulkSetStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if len(req.ReviewIDs) == 0 {
		return apperrors.NewValidationError("review_ids required", nil)
	}

	outcomes, err := h.service.BulkSetStatus(c.Context(), principal.Account, req.ReviewIDs, req.Status)
	if err != nil {
		return err
	}
	resp := bulkResponse(outcomes)

	if partial := service.PartialFailure(outcomes); partial != nil {
		domainErr := apperrors.ToDomainError(partial)
		return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{
			"data": resp,
			"error": fiber.Map{
				"code":    domainErr.Code,
				"message": domainErr.Message,
				"details": domainErr.Details,
			},
		})
	}
	return c.JSON(fiber.Map{"data": resp})
}

// DeleteReview DELETE /admin/reviews/:id.
func (h *ReviewsHandler) DeleteReview(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.service.Delete(c.Context(), principal.Account, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

func parseReviewQuery(c *fiber.Ctx) repository.ReviewFilter {
	filter := repository.ReviewFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			if status, err := domain.ParseReviewStatus(strings.TrimSpace(part)); err == nil {
				filter.Statuses = append(filter.Statuses, status)
			}
		}
	}
	if doctorID := c.Query("doctor_id"); doctorID != "" {
		filter.DoctorID = &doctorID
	}
	if search := c.Query("search"); search != "" {
		filter.Search = &search
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func reviewResponse(review *repository.ReviewWithDoctor) dto.ReviewResponse {
	return dto.ReviewResponse{
		ID:              review.ID,
		DoctorID:        review.DoctorID,
		DoctorName:      review.DoctorName,
		DoctorSpecialty: review.DoctorSpecialty,
		PatientName:     review.PatientName,
		Email:           review.Email,
		Rating:          review.Rating,
		Text:            review.Text,
		Status:          review.Status,
		CreatedAt:       review.CreatedAt,
		UpdatedAt:       review.UpdatedAt,
	}
}

func bulkResponse(outcomes []service.BulkOutcome) dto.BulkSetStatusResponse {
	resp := dto.BulkSetStatusResponse{Outcomes: make([]dto.BulkItemOutcome, 0, len(outcomes))}
	for _, outcome := range outcomes {
		item := dto.BulkItemOutcome{ID: outcome.ID, OK: outcome.Err == nil}
		if outcome.Err != nil {
			item.Error = outcome.Err.Error()
			resp.Failed++
		} else {
			resp.Succeeded++
		}
		resp.Outcomes = append(resp.Outcomes, item)
	}
	return resp
}
