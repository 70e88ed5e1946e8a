package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/xpertlabs/xpert-account-api/internal/response"
	"github.com/xpertlabs/xpert-account-api/internal/usecase"
	"github.com/xpertlabs/xpert-account-api/shared/auth"
)

// clientErrors are the failures whose message is safe to surface in the
// envelope. Anything else is logged and reported generically.
var clientErrors = []error{
	usecase.ErrInvalidEmail,
	usecase.ErrEmailAlreadyRegistered,
	usecase.ErrUserNotFound,
	usecase.ErrRoleNotFound,
	usecase.ErrInvalidCredentials,
	usecase.ErrPasswordTooShort,
	usecase.ErrWeakPassword,
	usecase.ErrPasswordMismatch,
	usecase.ErrSamePassword,
	usecase.ErrWrongCurrentPassword,
	usecase.ErrInvalidOTP,
	usecase.ErrOTPExpired,
	usecase.ErrInvalidCategoryID,
	usecase.ErrNoCategories,
	usecase.ErrInvalidCategoryPayload,
	auth.ErrInvalidToken,
}

func respondUsecaseError(w http.ResponseWriter, logger *zerolog.Logger, err error) {
	for _, target := range clientErrors {
		if errors.Is(err, target) {
			response.Error(w, http.StatusBadRequest, target.Error())
			return
		}
	}

	logger.Error().Err(err).Msg("request failed")
	response.Error(w, http.StatusBadRequest, "something went wrong, please try again")
}
