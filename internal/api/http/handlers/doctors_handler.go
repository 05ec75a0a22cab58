package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/medreview-console/internal/api/dto"
	"github.com/spec-kit/medreview-console/internal/auth"
	"github.com/spec-kit/medreview-console/internal/domain"
	"github.com/spec-kit/medreview-console/internal/service"
	apperrors "github.com/spec-kit/medreview-console/pkg/util"
)

// DoctorsHandler manages doctor administration endpoints.
type DoctorsHandler struct {
	service *service.DoctorService
}

// NewDoctorsHandler constructs handler.
func NewDoctorsHandler(doctorService *service.DoctorService) *DoctorsHandler {
	return &DoctorsHandler{service: doctorService}
}

// ListDoctors GET /admin/doctors.
func (h *DoctorsHandler) ListDoctors(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	doctors, err := h.service.List(c.Context(), principal.Account)
	if err != nil {
		return err
	}
	items := make([]dto.DoctorResponse, 0, len(doctors))
	for i := range doctors {
		items = append(items, doctorResponse(&doctors[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateDoctor POST /admin/doctors.
func (h *DoctorsHandler) CreateDoctor(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateDoctorRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	doctor, err := h.service.Create(c.Context(), principal.Account, req.Name, req.Specialty)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": doctorResponse(doctor)})
}

// UpdateDoctor PATCH /admin/doctors/:id.
func (h *DoctorsHandler) UpdateDoctor(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateDoctorRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	doctor, err := h.service.Update(c.Context(), principal.Account, c.Params("id"), req.Name, req.Specialty)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": doctorResponse(doctor)})
}

// DeleteDoctor DELETE /admin/doctors/:id.
func (h *DoctorsHandler) DeleteDoctor(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.service.Delete(c.Context(), principal.Account, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

func doctorResponse(doctor *domain.Doctor) dto.DoctorResponse {
	return dto.DoctorResponse{
		ID:            doctor.ID,
		Name:          doctor.Name,
		Specialty:     doctor.Specialty,
		AverageRating: doctor.AverageRating,
		TotalReviews:  doctor.TotalReviews,
		CreatedAt:     doctor.CreatedAt,
		UpdatedAt:     doctor.UpdatedAt,
	}
}
