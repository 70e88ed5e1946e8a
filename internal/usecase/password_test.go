package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xpertlabs/xpert-account-api/internal/model"
	"github.com/xpertlabs/xpert-account-api/shared/auth"
	"github.com/xpertlabs/xpert-account-api/shared/security"
)

type passwordFixture struct {
	users    *fakeUserRepo
	sender   *fakeSender
	jwtAuth  auth.JWTAuthenticator
	password PasswordUsecase
}

func newPasswordFixture(t *testing.T) *passwordFixture {
	t.Helper()

	users := newFakeUserRepo(newFakeRoleRepo())
	sender := &fakeSender{}
	jwtAuth := auth.NewJWTAuthenticator("test-secret")
	logger := zerolog.Nop()

	return &passwordFixture{
		users:    users,
		sender:   sender,
		jwtAuth:  jwtAuth,
		password: NewPasswordUsecase(users, jwtAuth, sender, &logger),
	}
}

func (f *passwordFixture) addUser(t *testing.T, email, password string) *model.User {
	t.Helper()

	user := &model.User{Email: email, IsActive: true, IsVerified: true}
	if password != "" {
		hash, err := security.HashPassword(password)
		require.NoError(t, err)
		user.PasswordHash = hash
	}

	created, err := f.users.CreateUser(context.Background(), user)
	require.NoError(t, err)

	return f.users.mustGet(created.ID.Hex())
}

func TestForgotPassword(t *testing.T) {
	f := newPasswordFixture(t)
	user := f.addUser(t, "a@b.com", "Abcd123!")

	token, err := f.password.ForgotPassword(context.Background(), "a@b.com")
	require.NoError(t, err)

	require.NotNil(t, user.OTP)
	assert.Len(t, user.OTP.Code, 6)
	assert.WithinDuration(t, time.Now().Add(60*time.Second), user.OTP.ExpiresAt, 2*time.Second)

	require.Equal(t, 1, f.sender.sentCount())
	assert.Contains(t, f.sender.lastSent().body, user.OTP.Code)

	// The reset token carries only the account id and no forced expiry.
	claims, err := f.jwtAuth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Empty(t, claims.RoleName)
	assert.Nil(t, claims.ExpiresAt)
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	f := newPasswordFixture(t)

	_, err := f.password.ForgotPassword(context.Background(), "nobody@b.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Equal(t, 0, f.sender.sentCount())
}

func TestResetPassword(t *testing.T) {
	f := newPasswordFixture(t)
	user := f.addUser(t, "a@b.com", "Abcd123!")

	token, err := f.password.ForgotPassword(context.Background(), "a@b.com")
	require.NoError(t, err)
	code := user.OTP.Code

	err = f.password.ResetPassword(context.Background(), token, code, "Newpass1!")
	require.NoError(t, err)

	ok, err := security.VerifyPassword("Newpass1!", user.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)

	// The consumed OTP is cleared so a second reset attempt fails.
	assert.Nil(t, user.OTP)
	err = f.password.ResetPassword(context.Background(), token, code, "Other123!")
	assert.ErrorIs(t, err, ErrInvalidOTP)
}

func TestResetPasswordAllowsReusingCurrentPassword(t *testing.T) {
	// The reset-via-OTP path deliberately does not require the new
	// password to differ from the current one; only the authenticated
	// change path enforces that.
	f := newPasswordFixture(t)
	user := f.addUser(t, "a@b.com", "Abcd123!")

	token, err := f.password.ForgotPassword(context.Background(), "a@b.com")
	require.NoError(t, err)

	err = f.password.ResetPassword(context.Background(), token, user.OTP.Code, "Abcd123!")
	assert.NoError(t, err)
}

func TestResetPasswordExpiredOTP(t *testing.T) {
	f := newPasswordFixture(t)
	user := f.addUser(t, "a@b.com", "Abcd123!")

	token, err := f.password.ForgotPassword(context.Background(), "a@b.com")
	require.NoError(t, err)

	// Sixty-one seconds later the code is dead.
	user.OTP.ExpiresAt = time.Now().Add(-time.Second)

	err = f.password.ResetPassword(context.Background(), token, user.OTP.Code, "Newpass1!")
	assert.ErrorIs(t, err, ErrOTPExpired)
}

func TestResetPasswordWrongCode(t *testing.T) {
	f := newPasswordFixture(t)
	f.addUser(t, "a@b.com", "Abcd123!")

	token, err := f.password.ForgotPassword(context.Background(), "a@b.com")
	require.NoError(t, err)

	err = f.password.ResetPassword(context.Background(), token, "000000", "Newpass1!")
	assert.ErrorIs(t, err, ErrInvalidOTP)
}

func TestResetPasswordWeakPassword(t *testing.T) {
	f := newPasswordFixture(t)
	user := f.addUser(t, "a@b.com", "Abcd123!")

	token, err := f.password.ForgotPassword(context.Background(), "a@b.com")
	require.NoError(t, err)

	err = f.password.ResetPassword(context.Background(), token, user.OTP.Code, "weak")
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestResetPasswordInvalidToken(t *testing.T) {
	f := newPasswordFixture(t)

	err := f.password.ResetPassword(context.Background(), "garbage", "123456", "Newpass1!")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestChangePassword(t *testing.T) {
	f := newPasswordFixture(t)
	user := f.addUser(t, "a@b.com", "Abcd123!")

	err := f.password.ChangePassword(context.Background(), ChangePasswordParams{
		UserID:          user.ID.Hex(),
		CurrentPassword: "Abcd123!",
		NewPassword:     "Newpass1!",
		ConfirmPassword: "Newpass1!",
	})
	require.NoError(t, err)

	ok, err := security.VerifyPassword("Newpass1!", user.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestChangePasswordRejectsSamePassword(t *testing.T) {
	f := newPasswordFixture(t)
	user := f.addUser(t, "a@b.com", "Abcd123!")

	err := f.password.ChangePassword(context.Background(), ChangePasswordParams{
		UserID:          user.ID.Hex(),
		CurrentPassword: "Abcd123!",
		NewPassword:     "Abcd123!",
		ConfirmPassword: "Abcd123!",
	})
	assert.ErrorIs(t, err, ErrSamePassword)
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	f := newPasswordFixture(t)
	user := f.addUser(t, "a@b.com", "Abcd123!")

	err := f.password.ChangePassword(context.Background(), ChangePasswordParams{
		UserID:          user.ID.Hex(),
		CurrentPassword: "Wrong123!",
		NewPassword:     "Newpass1!",
		ConfirmPassword: "Newpass1!",
	})
	assert.ErrorIs(t, err, ErrWrongCurrentPassword)
}

func TestChangePasswordConfirmMismatch(t *testing.T) {
	f := newPasswordFixture(t)
	user := f.addUser(t, "a@b.com", "Abcd123!")

	err := f.password.ChangePassword(context.Background(), ChangePasswordParams{
		UserID:          user.ID.Hex(),
		CurrentPassword: "Abcd123!",
		NewPassword:     "Newpass1!",
		ConfirmPassword: "Different1!",
	})
	assert.ErrorIs(t, err, ErrPasswordMismatch)
}

func TestChangePasswordWeakNewPassword(t *testing.T) {
	f := newPasswordFixture(t)
	user := f.addUser(t, "a@b.com", "Abcd123!")

	err := f.password.ChangePassword(context.Background(), ChangePasswordParams{
		UserID:          user.ID.Hex(),
		CurrentPassword: "Abcd123!",
		NewPassword:     "weak",
		ConfirmPassword: "weak",
	})
	assert.ErrorIs(t, err, ErrWeakPassword)
}
