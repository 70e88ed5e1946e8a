package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/xpertlabs/xpert-account-api/internal/response"
	"github.com/xpertlabs/xpert-account-api/internal/usecase"
	"github.com/xpertlabs/xpert-account-api/shared/validate"
)

// NoAuthHandler serves the public auth-flow routes. These bypass the
// access guard; flows that need an account resolve it from a token
// carried in the request body.
type NoAuthHandler struct {
	account   usecase.AccountUsecase
	password  usecase.PasswordUsecase
	validator *validate.Validator
	logger    *zerolog.Logger
}

// NewNoAuthHandler creates a new NoAuthHandler instance.
func NewNoAuthHandler(
	account usecase.AccountUsecase,
	password usecase.PasswordUsecase,
	validator *validate.Validator,
	logger *zerolog.Logger,
) *NoAuthHandler {
	return &NoAuthHandler{
		account:   account,
		password:  password,
		validator: validator,
		logger:    logger,
	}
}

type signUpRequest struct {
	Email string `json:"email" validate:"required"`
}

// SignUp handles POST /noAuth/signup.
func (h *NoAuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.account.SignUp(r.Context(), req.Email)
	if err != nil {
		respondUsecaseError(w, h.logger, err)
		return
	}

	if result.Existing {
		response.Success(w, http.StatusOK, "user found but not verified, please complete your profile", map[string]any{
			"addProfile": true,
			"token":      result.Token,
		})
		return
	}

	response.Success(w, http.StatusOK, "user created successfully, please complete your profile", map[string]any{
		"token": result.Token,
	})
}

type addProfileRequest struct {
	Token             string   `json:"token"             validate:"required"`
	Name              string   `json:"name"              validate:"required"`
	Gender            string   `json:"gender"            validate:"required"`
	RoleID            string   `json:"roleId"            validate:"required"`
	ReferralCode      string   `json:"referralCode"`
	CategoryIDs       []string `json:"categoryIds"       validate:"required,min=1"`
	SubcategoryIDs    []string `json:"subcategoryIds"    validate:"required,min=1"`
	NestedCategoryIDs []string `json:"nestedCategoryIds" validate:"required,min=1"`
	Password          string   `json:"password"          validate:"required_with=ConfirmPassword"`
	ConfirmPassword   string   `json:"confirmPassword"   validate:"required_with=Password"`
}

// AddProfile handles POST /noAuth/addProfile.
func (h *NoAuthHandler) AddProfile(w http.ResponseWriter, r *http.Request) {
	var req addProfileRequest
	if !h.decode(w, r, &req) {
		return
	}

	token, err := h.account.AddProfile(r.Context(), usecase.AddProfileParams{
		Token:             req.Token,
		Name:              req.Name,
		Gender:            req.Gender,
		RoleID:            req.RoleID,
		ReferralCode:      req.ReferralCode,
		CategoryIDs:       req.CategoryIDs,
		SubcategoryIDs:    req.SubcategoryIDs,
		NestedCategoryIDs: req.NestedCategoryIDs,
		Password:          req.Password,
		ConfirmPassword:   req.ConfirmPassword,
	})
	if err != nil {
		respondUsecaseError(w, h.logger, err)
		return
	}

	response.Success(w, http.StatusOK,
		"profile updated successfully, an OTP has been sent to your email address for verification",
		map[string]any{"token": token},
	)
}

type verifySignUpOTPRequest struct {
	Token string `json:"token" validate:"required"`
	OTP   string `json:"otp"   validate:"required"`
}

// VerifySignUpOTP handles POST /noAuth/verifySignUpOtp.
func (h *NoAuthHandler) VerifySignUpOTP(w http.ResponseWriter, r *http.Request) {
	var req verifySignUpOTPRequest
	if !h.decode(w, r, &req) {
		return
	}

	token, err := h.account.VerifySignUpOTP(r.Context(), req.Token, req.OTP)
	if err != nil {
		respondUsecaseError(w, h.logger, err)
		return
	}

	response.Success(w, http.StatusOK, "OTP verified successfully", map[string]any{
		"authToken": token,
	})
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /noAuth/login.
func (h *NoAuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, &req) {
		return
	}

	token, err := h.account.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondUsecaseError(w, h.logger, err)
		return
	}

	response.Success(w, http.StatusOK, "logged in successfully", map[string]any{
		"token": token,
	})
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required"`
}

// ForgotPassword handles PUT /noAuth/forgotPassword.
func (h *NoAuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if !h.decode(w, r, &req) {
		return
	}

	token, err := h.password.ForgotPassword(r.Context(), req.Email)
	if err != nil {
		respondUsecaseError(w, h.logger, err)
		return
	}

	response.Success(w, http.StatusOK, "OTP sent successfully", map[string]any{
		"token": token,
	})
}

type resetPasswordRequest struct {
	Token    string `json:"token"    validate:"required"`
	OTP      string `json:"otp"      validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdatePassword handles PUT /noAuth/updatePassword, the reset-via-OTP
// step of the forgot password flow.
func (h *NoAuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.password.ResetPassword(r.Context(), req.Token, req.OTP, req.Password); err != nil {
		respondUsecaseError(w, h.logger, err)
		return
	}

	response.Success(w, http.StatusOK, "password updated successfully", nil)
}

type resendOTPRequest struct {
	Token string `json:"token" validate:"required"`
}

// ResendOTP handles POST /noAuth/resendOtp. The same token is echoed
// back; only the pending OTP changes.
func (h *NoAuthHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req resendOTPRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.account.ResendOTP(r.Context(), req.Token); err != nil {
		respondUsecaseError(w, h.logger, err)
		return
	}

	response.Success(w, http.StatusOK, "OTP resent successfully, please check your email", map[string]any{
		"token": req.Token,
	})
}

// decode unmarshals and validates the request body, writing the error
// envelope itself when either step fails.
func (h *NoAuthHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
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
