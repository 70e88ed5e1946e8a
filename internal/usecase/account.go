package usecase

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/xpertlabs/xpert-account-api/internal/model"
	"github.com/xpertlabs/xpert-account-api/internal/repository"
	"github.com/xpertlabs/xpert-account-api/shared/auth"
	"github.com/xpertlabs/xpert-account-api/shared/mailer"
	"github.com/xpertlabs/xpert-account-api/shared/otp"
	"github.com/xpertlabs/xpert-account-api/shared/security"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// AccountUsecase governs the account lifecycle: signup, profile
// completion, OTP verification, login and profile edits.
type AccountUsecase interface {
	SignUp(ctx context.Context, email string) (*SignUpResult, error)
	AddProfile(ctx context.Context, params AddProfileParams) (string, error)
	VerifySignUpOTP(ctx context.Context, token, code string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	ResendOTP(ctx context.Context, token string) error
	UpdateProfile(ctx context.Context, userID, name string) (*model.User, error)
}

// SignUpResult reports the issued session token and whether an
// unverified account for the email already existed.
type SignUpResult struct {
	Token    string
	Existing bool
}

// AddProfileParams defines the profile fields attached in one step
// after signup. Password is optional, but when either password field is
// supplied both must be.
type AddProfileParams struct {
	Token             string
	Name              string
	Gender            string
	RoleID            string
	ReferralCode      string
	CategoryIDs       []string
	SubcategoryIDs    []string
	NestedCategoryIDs []string
	Password          string
	ConfirmPassword   string
}

type accountUsecase struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
	jwtAuth  auth.JWTAuthenticator
	sender   mailer.Sender
	logger   *zerolog.Logger
}

// NewAccountUsecase creates a new AccountUsecase instance.
func NewAccountUsecase(
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	jwtAuth auth.JWTAuthenticator,
	sender mailer.Sender,
	logger *zerolog.Logger,
) AccountUsecase {
	return &accountUsecase{
		userRepo: userRepo,
		roleRepo: roleRepo,
		jwtAuth:  jwtAuth,
		sender:   sender,
		logger:   logger,
	}
}

// SignUp creates an unverified account holding only the email and
// issues a session token for the profile completion step. Re-signup
// with an unverified email is idempotent: the existing account is
// reused and a fresh token issued. A verified email is a conflict.
func (u *accountUsecase) SignUp(ctx context.Context, email string) (*SignUpResult, error) {
	if !emailRegex.MatchString(email) {
		return nil, ErrInvalidEmail
	}

	existing, err := u.userRepo.GetUserByEmail(ctx, email)
	if err == nil {
		if existing.IsVerified {
			return nil, ErrEmailAlreadyRegistered
		}

		token, err := u.jwtAuth.GenerateAuthToken(auth.SessionClaims{
			UserID: existing.ID.Hex(),
			Email:  existing.Email,
		})
		if err != nil {
			return nil, err
		}

		return &SignUpResult{Token: token, Existing: true}, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	user, err := u.userRepo.CreateUser(ctx, &model.User{
		Email:      email,
		IsActive:   true,
		IsVerified: false,
	})
	if err != nil {
		return nil, err
	}

	token, err := u.jwtAuth.GenerateAuthToken(auth.SessionClaims{
		UserID: user.ID.Hex(),
		Email:  user.Email,
	})
	if err != nil {
		return nil, err
	}

	return &SignUpResult{Token: token}, nil
}

// AddProfile attaches the profile fields and optional password to the
// account referenced by the session token, issues a fresh OTP onto it
// and mails the code. The transition is committed even if the mail
// never leaves; delivery failure only logs a warning.
func (u *accountUsecase) AddProfile(ctx context.Context, params AddProfileParams) (string, error) {
	var passwordHash string
	if params.Password != "" || params.ConfirmPassword != "" {
		if params.Password != params.ConfirmPassword {
			return "", ErrPasswordMismatch
		}
		if !security.ValidatePassword(params.Password) {
			return "", ErrWeakPassword
		}

		hash, err := security.HashPassword(params.Password)
		if err != nil {
			return "", err
		}
		passwordHash = hash
	}

	claims, err := u.jwtAuth.ValidateToken(params.Token)
	if err != nil {
		return "", err
	}

	user, err := u.userRepo.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrUserNotFound
		}

		return "", err
	}

	// A malformed role id and a missing role read the same to the caller.
	role, err := u.roleRepo.GetRole(ctx, params.RoleID)
	if err != nil {
		return "", ErrRoleNotFound
	}

	categoryIDs, err := objectIDsFromHex(params.CategoryIDs)
	if err != nil {
		return "", ErrInvalidCategoryID
	}
	subcategoryIDs, err := objectIDsFromHex(params.SubcategoryIDs)
	if err != nil {
		return "", ErrInvalidCategoryID
	}
	nestedCategoryIDs, err := objectIDsFromHex(params.NestedCategoryIDs)
	if err != nil {
		return "", ErrInvalidCategoryID
	}

	code := otp.Generate()

	updateParams := repository.UpdateUserParams{
		Name:              &params.Name,
		Gender:            &params.Gender,
		RoleID:            &role.ID,
		CategoryIDs:       categoryIDs,
		SubcategoryIDs:    subcategoryIDs,
		NestedCategoryIDs: nestedCategoryIDs,
		OTP:               &model.OTP{Code: code.Code, ExpiresAt: code.ExpiresAt},
	}
	if params.ReferralCode != "" {
		updateParams.ReferralCode = &params.ReferralCode
	}
	if passwordHash != "" {
		updateParams.PasswordHash = &passwordHash
	}

	if _, err := u.userRepo.UpdateUser(ctx, user.ID.Hex(), updateParams); err != nil {
		return "", err
	}

	u.sendOTPEmail(user.Email, "Verify Your Account", code.Code)

	return u.jwtAuth.GenerateAuthToken(auth.SessionClaims{
		UserID: user.ID.Hex(),
		Email:  user.Email,
	})
}

// VerifySignUpOTP checks the supplied code against the account's
// pending OTP, marks the account verified and clears the code so it
// cannot be replayed. The returned token carries the resolved role name.
func (u *accountUsecase) VerifySignUpOTP(ctx context.Context, token, code string) (string, error) {
	claims, err := u.jwtAuth.ValidateToken(token)
	if err != nil {
		return "", err
	}

	user, err := u.userRepo.GetUserWithRole(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrUserNotFound
		}

		return "", err
	}

	if user.OTP == nil || user.OTP.Code != code {
		return "", ErrInvalidOTP
	}
	if user.OTP.Expired(time.Now()) {
		return "", ErrOTPExpired
	}

	verified := true
	if _, err := u.userRepo.UpdateUser(ctx, user.ID.Hex(), repository.UpdateUserParams{
		IsVerified: &verified,
		ClearOTP:   true,
	}); err != nil {
		return "", err
	}

	return u.jwtAuth.GenerateAuthToken(auth.SessionClaims{
		UserID:   user.ID.Hex(),
		Email:    user.Email,
		RoleName: user.RoleName,
	})
}

// Login authenticates by email and password and issues a session token
// with the role name claim. Verification and active flags are not
// checked here; the access guard enforces them on protected calls.
func (u *accountUsecase) Login(ctx context.Context, email, password string) (string, error) {
	if !emailRegex.MatchString(email) {
		return "", ErrInvalidEmail
	}
	if len(password) < security.MinPasswordLength {
		return "", ErrPasswordTooShort
	}

	user, err := u.userRepo.GetUserWithRoleByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrUserNotFound
		}

		return "", err
	}

	// An account that never set a password has no usable credential.
	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return "", ErrInvalidCredentials
	}

	return u.jwtAuth.GenerateAuthToken(auth.SessionClaims{
		UserID:   user.ID.Hex(),
		Email:    user.Email,
		RoleName: user.RoleName,
	})
}

// ResendOTP issues a fresh OTP onto the account referenced by the
// token, overwriting any pending one, and mails it.
func (u *accountUsecase) ResendOTP(ctx context.Context, token string) error {
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

	code := otp.Generate()
	if _, err := u.userRepo.UpdateUser(ctx, user.ID.Hex(), repository.UpdateUserParams{
		OTP: &model.OTP{Code: code.Code, ExpiresAt: code.ExpiresAt},
	}); err != nil {
		return err
	}

	u.sendOTPEmail(user.Email, "Resend OTP for Account Verification", code.Code)

	return nil
}

// UpdateProfile changes the display name of an already authenticated
// account.
func (u *accountUsecase) UpdateProfile(ctx context.Context, userID, name string) (*model.User, error) {
	user, err := u.userRepo.UpdateUser(ctx, userID, repository.UpdateUserParams{Name: &name})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	return user, nil
}

// sendOTPEmail renders and dispatches the code. Delivery failure never
// rolls back the committed account mutation; the OTP stays persisted
// and valid.
func (u *accountUsecase) sendOTPEmail(email, subject, code string) {
	body, err := mailer.RenderOTPEmail(code)
	if err != nil {
		u.logger.Warn().Err(err).Str("email", email).Msg("failed to render OTP email")
		return
	}

	if err := u.sender.SendHTML([]string{email}, subject, body); err != nil {
		u.logger.Warn().Err(err).Str("email", email).Msg("failed to send OTP email")
	}
}

func objectIDsFromHex(ids []string) ([]bson.ObjectID, error) {
	objectIDs := make([]bson.ObjectID, 0, len(ids))
	for _, id := range ids {
		objectID, err := bson.ObjectIDFromHex(id)
		if err != nil {
			return nil, err
		}
		objectIDs = append(objectIDs, objectID)
	}

	return objectIDs, nil
}
