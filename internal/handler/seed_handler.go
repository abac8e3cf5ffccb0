package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"unihub/internal/errors"
	"unihub/internal/seed"
)

// DemoPassword is the password of every seeded demo user.
const DemoPassword = "password123"

// SeedHandler handles seed data endpoints. It is only routed outside production.
type SeedHandler struct {
	seeder *seed.Seeder
}

// NewSeedHandler creates a new seed handler.
func NewSeedHandler(seeder *seed.Seeder) *SeedHandler {
	return &SeedHandler{seeder: seeder}
}

// SeedResponse represents the seed response.
type SeedResponse struct {
	Message  string      `json:"message"`
	Password string      `json:"password"`
	Created  seed.Result `json:"created"`
}

// SeedDemo godoc
// @Summary Seed demo users, clubs, posts and events
// @Description Available outside production only. Existing users and clubs are left untouched.
// @Tags seed
// @Produce json
// @Success 200 {object} SeedResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /seed/demo [post]
func (h *SeedHandler) SeedDemo(c echo.Context) error {
	data, err := seed.Demo()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "failed to load demo data",
			Code:  "SEED_FAILED",
		}).SetInternal(err)
	}

	res, err := h.seeder.Run(ctxOf(c), data, DemoPassword)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "failed to seed demo data",
			Code:  "SEED_FAILED",
		}).SetInternal(err)
	}

	return c.JSON(http.StatusOK, SeedResponse{
		Message:  "demo data seeded successfully",
		Password: DemoPassword,
		Created:  res,
	})
}
