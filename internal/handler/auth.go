package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/xpertlabs/xpert-account-api/internal/middleware"
	"github.com/xpertlabs/xpert-account-api/internal/response"
	"github.com/xpertlabs/xpert-account-api/internal/usecase"
	"github.com/xpertlabs/xpert-account-api/shared/validate"
)

// AuthHandler serves the routes behind the access guard. The current
// account is taken from the request context, never from the body.
type AuthHandler struct {
	account   usecase.AccountUsecase
	password  usecase.PasswordUsecase
	validator *validate.Validator
	logger    *zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(
	account usecase.AccountUsecase,
	password usecase.PasswordUsecase,
	validator *validate.Validator,
	logger *zerolog.Logger,
) *AuthHandler {
	return &AuthHandler{
		account:   account,
		password:  password,
		validator: validator,
		logger:    logger,
	}
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

// UpdatePassword handles PUT /auth/updatePassword.
func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "invalid token or unauthorized access")
		return
	}

	var req changePasswordRequest
	if !h.decode(w, r, &req) {
		return
	}

	err := h.password.ChangePassword(r.Context(), usecase.ChangePasswordParams{
		UserID:          user.ID.Hex(),
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		respondUsecaseError(w, h.logger, err)
		return
	}

	response.Success(w, http.StatusOK, "password updated successfully", nil)
}

type updateProfileRequest struct {
	Name string `json:"name" validate:"required"`
}

type profileData struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	IsActive bool   `json:"isActive"`
}

// UpdateProfile handles PUT /auth/updateProfile.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "invalid token or unauthorized access")
		return
	}

	var req updateProfileRequest
	if !h.decode(w, r, &req) {
		return
	}

	updated, err := h.account.UpdateProfile(r.Context(), user.ID.Hex(), req.Name)
	if err != nil {
		respondUsecaseError(w, h.logger, err)
		return
	}

	response.Success(w, http.StatusOK, "profile updated successfully", profileData{
		ID:       updated.ID.Hex(),
		Name:     updated.Name,
		Email:    updated.Email,
		IsActive: updated.IsActive,
	})
}

func (h *AuthHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return false
	}

	if err := h.validator.Struct(dst); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return false
	}

	return true
}
