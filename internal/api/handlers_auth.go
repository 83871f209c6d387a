package api

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/quietfjord/macrolog/internal/models"
	"golang.org/x/crypto/bcrypt"
)

const authTokenTTL = 7 * 24 * time.Hour

type credentialsPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (handler *Handler) Register(c *fiber.Ctx) error {
	payload := credentialsPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))
	if email == "" || strings.TrimSpace(payload.Password) == "" {
		return apiError(c, fiber.StatusBadRequest, "email and password are required")
	}

	exists, err := handler.repositories.Users.ExistsByNormalizedEmail(email)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "registration failed")
	}
	if exists {
		return apiError(c, fiber.StatusBadRequest, "email already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "registration failed")
	}

	user := models.User{
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := handler.repositories.Users.Create(&user); err != nil {
		return apiError(c, fiber.StatusBadRequest, "email already taken")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": user.ID, "email": user.Email})
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	payload := credentialsPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))
	user, err := handler.repositories.Users.FindByNormalizedEmail(email)
	if err != nil {
		return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)) != nil {
		return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
	}

	token, err := handler.buildToken(&user, authTokenTTL)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "login failed")
	}
	return c.JSON(fiber.Map{"token": token})
}

func (handler *Handler) DeleteAccount(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if err := handler.repositories.Users.DeleteAccountAndRelatedData(user.ID); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "account deletion failed")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (handler *Handler) buildToken(user *models.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := authClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(handler.secretKey)
}
