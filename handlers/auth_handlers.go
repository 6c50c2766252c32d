package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"salescast/models"
	"salescast/utils"
)

// HandleLogin checks the credentials against the configured accounts and
// returns a JWT.
// POST /api/v1/auth/login
func (h *Handler) HandleLogin(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Cannot parse JSON"})
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return respondError(c, "AUTH", err)
	}

	role, hash := h.account(req.Email)
	if hash == "" {
		log.Warn().Str("email", req.Email).Msg("🔐 [AUTH] Unknown account")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Invalid credentials"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		log.Warn().Str("email", req.Email).Msg("🔐 [AUTH] Wrong password")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Invalid credentials"})
	}

	expiresAt := time.Now().Add(h.cfg.JWTTTL)
	token, err := h.createJWT(req.Email, role, expiresAt)
	if err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("❌ [AUTH] Error creating JWT")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Could not sign token"})
	}

	log.Info().Str("email", req.Email).Str("role", role).Msg("✅ [AUTH] Login")
	return c.JSON(fiber.Map{"success": true, "data": models.LoginResponse{Token: token, Role: role, ExpiresAt: expiresAt}})
}

// account returns the role and password hash for email, or empty strings.
func (h *Handler) account(email string) (string, string) {
	email = strings.ToLower(strings.TrimSpace(email))
	switch {
	case h.cfg.AdminEmail != "" && email == strings.ToLower(h.cfg.AdminEmail):
		return utils.RoleAdmin, h.cfg.AdminPasswordHash
	case h.cfg.AnalystEmail != "" && email == strings.ToLower(h.cfg.AnalystEmail):
		return utils.RoleAnalyst, h.cfg.AnalystPasswordHash
	}
	return "", ""
}

// --- Helper Functions ---

func (h *Handler) createJWT(userID, role string, expiresAt time.Time) (string, error) {
	claims := models.JwtClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.JWTSecret))
}
