package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/xpertlabs/xpert-account-api/internal/model"
	"github.com/xpertlabs/xpert-account-api/internal/repository"
	"github.com/xpertlabs/xpert-account-api/shared/auth"
	"github.com/xpertlabs/xpert-account-api/shared/mailer"
	"github.com/xpertlabs/xpert-account-api/shared/otp"
	"github.com/xpertlabs/xpert-account-api/shared/security"
)

// PasswordUsecase governs the password credential lifecycle: the
// reset-via-OTP flow and the authenticated change flow.
type PasswordUsecase interface {
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, code, newPassword string) error
	ChangePassword(ctx context.Context, params ChangePasswordParams) error
}

// ChangePasswordParams defines the authenticated password change input.
// UserID comes from the access guard, never from the request body.
type ChangePasswordParams struct {
	UserID          string
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
}

type passwordUsecase struct {
	userRepo repository.UserRepository
	jwtAuth  auth.JWTAuthenticator
	sender   mailer.Sender
	logger   *zerolog.Logger
}

// NewPasswordUsecase creates a new PasswordUsecase instance.
func NewPasswordUsecase(
	userRepo repository.UserRepository,
	jwtAuth auth.JWTAuthenticator,
	sender mailer.Sender,
	logger *zerolog.Logger,
) PasswordUsecase {
	return &passwordUsecase{
		userRepo: userRepo,
		jwtAuth:  jwtAuth,
		sender:   sender,
		logger:   logger,
	}
}

// ForgotPassword persists a fresh 60 second OTP on the account, mails
// it, and returns a reset token carrying only the account id. The token
// has no forced expiry; the OTP's own window bounds the flow.
func (u *passwordUsecase) ForgotPassword(ctx context.Context, email string) (string, error) {
	user, err := u.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrUserNotFound
		}

		return "", err
	}

	code := otp.Generate()
	if _, err := u.userRepo.UpdateUser(ctx, user.ID.Hex(), repository.UpdateUserParams{
		OTP: &model.OTP{Code: code.Code, ExpiresAt: code.ExpiresAt},
	}); err != nil {
		return "", err
	}

	u.sendOTPEmail(user.Email, "Forgot Password OTP", code.Code)

	return u.jwtAuth.GenerateToken(auth.SessionClaims{UserID: user.ID.Hex()})
}

// ResetPassword replaces the stored password hash after checking the
// supplied OTP, then clears the code. Unlike the authenticated change
// flow, it does not require the new password to differ from the current
// one.
func (u *passwordUsecase) ResetPassword(ctx context.Context, token, code, newPassword string) error {
	claims, err := u.jwtAuth.ValidateToken(token)
	if err != nil {
		return err
	}

	user, err := u.userRepo.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrUserNotFound
		}

		return err
	}

	if !security.ValidatePassword(newPassword) {
		return ErrWeakPassword
	}

	if user.OTP == nil || user.OTP.Code != code {
		return ErrInvalidOTP
	}
	if user.OTP.Expired(time.Now()) {
		return ErrOTPExpired
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}

	_, err = u.userRepo.UpdateUser(ctx, user.ID.Hex(), repository.UpdateUserParams{
		PasswordHash: &hash,
		ClearOTP:     true,
	})

	return err
}

// ChangePassword replaces the password of an authenticated account. The
// new password must differ from the current one; the reset flow above
// deliberately does not share this check.
func (u *passwordUsecase) ChangePassword(ctx context.Context, params ChangePasswordParams) error {
	user, err := u.userRepo.GetUser(ctx, params.UserID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrUserNotFound
		}

		return err
	}

	if !security.ValidatePassword(params.NewPassword) {
		return ErrWeakPassword
	}
	if params.NewPassword != params.ConfirmPassword {
		return ErrPasswordMismatch
	}

	ok, err := security.VerifyPassword(params.CurrentPassword, user.PasswordHash)
	if err != nil || !ok {
		return ErrWrongCurrentPassword
	}

	if params.NewPassword == params.CurrentPassword {
		return ErrSamePassword
	}

	hash, err := security.HashPassword(params.NewPassword)
	if err != nil {
		return err
	}

	_, err = u.userRepo.UpdateUser(ctx, user.ID.Hex(), repository.UpdateUserParams{
		PasswordHash: &hash,
	})

	return err
}

func (u *passwordUsecase) sendOTPEmail(email, subject, code string) {
	body, err := mailer.RenderOTPEmail(code)
	if err != nil {
		u.logger.Warn().Err(err).Str("email", email).Msg("failed to render OTP email")
		return
	}

	if err := u.sender.SendHTML([]string{email}, subject, body); err != nil {
		u.logger.Warn().Err(err).Str("email", email).Msg("failed to send OTP email")
	}
}
