package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthTokenTTL is the validity window of a session token issued after
// signup, login or OTP verification.
const AuthTokenTTL = time.Hour

// ErrInvalidToken is returned for any token that fails signature,
// algorithm or expiry checks.
var ErrInvalidToken = errors.New("invalid token")

// SessionClaims is the claim set carried by every token the service
// issues. RoleName is a snapshot taken at issuance time; already-issued
// tokens keep the old name if the role is later renamed.
type SessionClaims struct {
	UserID   string `json:"uid"`
	Email    string `json:"email,omitempty"`
	RoleName string `json:"roleName,omitempty"`
	jwt.RegisteredClaims
}

// JWTAuthenticator signs and verifies session tokens with a
// process-wide HMAC secret.
type JWTAuthenticator struct {
	secret string
}

// NewJWTAuthenticator creates a new JWTAuthenticator instance.
func NewJWTAuthenticator(secret string) JWTAuthenticator {
	return JWTAuthenticator{secret: secret}
}

// GenerateAuthToken signs the given claims with a forced one hour
// expiry, overriding whatever ExpiresAt the caller set.
func (a *JWTAuthenticator) GenerateAuthToken(claims SessionClaims) (string, error) {
	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(AuthTokenTTL))

	return a.GenerateToken(claims)
}

// GenerateToken signs the given claims as-is. Used for short-lived
// flows such as the password reset token, where the caller controls the
// expiry or deliberately omits one.
func (a *JWTAuthenticator) GenerateToken(claims SessionClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenStr, err := token.SignedString([]byte(a.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenStr, nil
}

// ValidateToken validates the signature and, when present, the expiry
// of a token and returns its claims. Any failure is reported as
// ErrInvalidToken.
func (a *JWTAuthenticator) ValidateToken(tokenStr string) (*SessionClaims, error) {
	claims := &SessionClaims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return []byte(a.secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
