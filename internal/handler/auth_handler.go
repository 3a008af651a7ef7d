package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"rental-service/internal/middleware"
	"rental-service/internal/model"
	"rental-service/internal/service"
	"rental-service/pkg/logger"
	"rental-service/prometheus"
)

// AuthHandler serves the account lifecycle routes.
type AuthHandler struct {
	identity *service.IdentityService
}

func NewAuthHandler(identity *service.IdentityService) *AuthHandler {
	return &AuthHandler{identity: identity}
}

func userJSON(u *model.User) echo.Map {
	return echo.Map{
		"id":         u.ID,
		"role":       u.Role,
		"username":   u.Username,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"email":      u.Email,
		"phone":      u.Phone,
		"is_active":  u.IsActive,
	}
}

func (h *AuthHandler) Signup(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RegisterCounter.Inc()

	var req service.SignupInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, log, "Failed to parse signup request", err)
	}

	user, err := h.identity.Signup(c.Request().Context(), req)
	if err != nil {
		return fail(c, log, err)
	}

	log.Info("User registered, awaiting activation",
		zap.String("email", user.Email),
		zap.String("role", string(user.Role)))
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Account created. Check your email for the verification code.",
		"user":    userJSON(user),
	})
}

func (h *AuthHandler) Activate(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.ActivationCounter.Inc()

	var req struct {
		Code string `json:"code"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, log, "Failed to parse activation request", err)
	}

	user, err := h.identity.Activate(c.Request().Context(), req.Code)
	if err != nil {
		return fail(c, log, err)
	}

	log.Info("Account activated", zap.String("email", user.Email))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Account activated successfully",
		"user":    userJSON(user),
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.LoginCounter.Inc()

	var req struct {
		Identifier string `json:"identifier"`
		Password   string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, log, "Failed to parse login request", err)
	}
	if req.Identifier == "" || req.Password == "" {
		log.Error("Incomplete login request")
		prometheus.RecordError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "identifier and password are required"})
	}

	user, token, err := h.identity.Authenticate(c.Request().Context(), req.Identifier, req.Password)
	if err != nil {
		return fail(c, log, err)
	}

	log.Info("User logged in", zap.String("email", user.Email))
	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user":  userJSON(user),
	})
}

func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, log, "Failed to parse password reset request", err)
	}

	if err := h.identity.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		return fail(c, log, err)
	}

	log.Info("Password reset code issued", zap.String("email", req.Email))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "A reset code has been sent to your email.",
	})
}

func (h *AuthHandler) ResetPassword(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		Email       string `json:"email"`
		Code        string `json:"code"`
		NewPassword string `json:"new_password"`
		RePassword  string `json:"re_password"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, log, "Failed to parse password reset", err)
	}

	err := h.identity.ResetPassword(c.Request().Context(), req.Email, req.Code, req.NewPassword, req.RePassword)
	if err != nil {
		return fail(c, log, err)
	}

	log.Info("Password reset completed", zap.String("email", req.Email))
	return c.JSON(http.StatusOK, echo.Map{"message": "Password reset successfully"})
}

func (h *AuthHandler) ChangePassword(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}

	var req struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
		RePassword  string `json:"re_password"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, log, "Failed to parse password change", err)
	}

	err := h.identity.ChangePassword(c.Request().Context(), userID, req.OldPassword, req.NewPassword, req.RePassword)
	if err != nil {
		return fail(c, log, err)
	}

	log.Info("Password changed", zap.String("user_id", userID.String()))
	return c.JSON(http.StatusOK, echo.Map{"message": "Password changed successfully"})
}

func (h *AuthHandler) Profile(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}

	user, err := h.identity.Profile(c.Request().Context(), userID)
	if err != nil {
		return fail(c, log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": userJSON(user)})
}

func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}

	var req service.ProfileInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, log, "Failed to parse profile update", err)
	}

	user, err := h.identity.UpdateProfile(c.Request().Context(), userID, req)
	if err != nil {
		return fail(c, log, err)
	}

	log.Info("Profile updated", zap.String("user_id", userID.String()))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Profile updated successfully",
		"user":    userJSON(user),
	})
}
