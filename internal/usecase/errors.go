package usecase

import "errors"

// Sentinel errors surfaced to handlers. Each carries the human-readable
// message the HTTP envelope reports; handlers map anything else to a
// generic failure.
var (
	ErrInvalidEmail           = errors.New("invalid email format, please enter a valid email address")
	ErrEmailAlreadyRegistered = errors.New("this email is already registered, please log in")
	ErrUserNotFound           = errors.New("user not found")
	ErrRoleNotFound           = errors.New("invalid role, please select a valid role")
	ErrInvalidCredentials     = errors.New("invalid password")
	ErrPasswordTooShort       = errors.New("password must be at least 8 characters")
	ErrWeakPassword           = errors.New("password must be at least 8 characters long and contain at least one lowercase letter, one uppercase letter, one number, and one special character")
	ErrPasswordMismatch       = errors.New("passwords do not match, please re-enter them correctly")
	ErrSamePassword           = errors.New("new password cannot be the same as the current password")
	ErrWrongCurrentPassword   = errors.New("current password is incorrect")
	ErrInvalidOTP             = errors.New("invalid OTP")
	ErrOTPExpired             = errors.New("OTP has expired")
	ErrInvalidCategoryID      = errors.New("invalid category selection")
	ErrNoCategories           = errors.New("no categories provided")
	ErrInvalidCategoryPayload = errors.New("category name and subcategories are required")
)
