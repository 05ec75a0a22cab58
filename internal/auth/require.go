package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/medreview-console/internal/authz"
	apperrors "github.com/spec-kit/medreview-console/pkg/util"
)

// RequireUserManager gates routes on the manage-users capability.
func RequireUserManager() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !authz.CanManageUsers(principal.Role()) {
			return apperrors.NewForbidden("user management capability required")
		}
		return c.Next()
	}
}

// RequireReviewManager gates routes on the manage-reviews capability.
func RequireReviewManager() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !authz.CanManageReviews(principal.Role()) {
			return apperrors.NewForbidden("review management capability required")
		}
		return c.Next()
	}
}

// RequireAuthenticated ensures any signed-in operator.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}
