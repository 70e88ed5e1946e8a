package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/xpertlabs/xpert-account-api/internal/model"
	"github.com/xpertlabs/xpert-account-api/internal/repository"
	"github.com/xpertlabs/xpert-account-api/shared/auth"
)

// guardUserRepo serves only the role-joined lookup the guard performs.
type guardUserRepo struct {
	users map[string]*model.UserWithRole
}

func (r *guardUserRepo) GetUserWithRole(_ context.Context, id string) (*model.UserWithRole, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return user, nil
}

func (r *guardUserRepo) CreateUser(context.Context, *model.User) (*model.User, error) {
	return nil, mongo.ErrNoDocuments
}

func (r *guardUserRepo) GetUser(context.Context, string) (*model.User, error) {
	return nil, mongo.ErrNoDocuments
}

func (r *guardUserRepo) GetUserByEmail(context.Context, string) (*model.User, error) {
	return nil, mongo.ErrNoDocuments
}

func (r *guardUserRepo) GetUserWithRoleByEmail(context.Context, string) (*model.UserWithRole, error) {
	return nil, mongo.ErrNoDocuments
}

func (r *guardUserRepo) UpdateUser(context.Context, string, repository.UpdateUserParams) (*model.User, error) {
	return nil, mongo.ErrNoDocuments
}

func newGuardFixture(t *testing.T) (auth.JWTAuthenticator, *guardUserRepo, http.Handler, *bool) {
	t.Helper()

	jwtAuth := auth.NewJWTAuthenticator("test-secret")
	repo := &guardUserRepo{users: make(map[string]*model.UserWithRole)}
	logger := zerolog.Nop()

	reached := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := CurrentUser(r.Context())
		require.True(t, ok)
		require.NotNil(t, user)
		reached = true
		w.WriteHeader(http.StatusOK)
	})

	guarded := Authenticate(jwtAuth, repo, &logger)(next)

	return jwtAuth, repo, guarded, &reached
}

func (r *guardUserRepo) add(verified, active bool) *model.UserWithRole {
	user := &model.UserWithRole{
		ID:         bson.NewObjectID(),
		Email:      "a@b.com",
		RoleName:   "expert",
		IsVerified: verified,
		IsActive:   active,
	}
	r.users[user.ID.Hex()] = user
	return user
}

func doGuarded(handler http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, "/auth/updateProfile", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func assertUnauthorized(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["message"])
}

func TestAuthenticateMissingHeader(t *testing.T) {
	_, _, guarded, reached := newGuardFixture(t)

	assertUnauthorized(t, doGuarded(guarded, ""))
	assert.False(t, *reached)
}

func TestAuthenticateMissingBearerPrefix(t *testing.T) {
	jwtAuth, repo, guarded, reached := newGuardFixture(t)
	user := repo.add(true, true)

	token, err := jwtAuth.GenerateAuthToken(auth.SessionClaims{UserID: user.ID.Hex()})
	require.NoError(t, err)

	assertUnauthorized(t, doGuarded(guarded, token))
	assertUnauthorized(t, doGuarded(guarded, "Bearer "))
	assert.False(t, *reached)
}

func TestAuthenticateInvalidToken(t *testing.T) {
	_, _, guarded, reached := newGuardFixture(t)

	assertUnauthorized(t, doGuarded(guarded, "Bearer garbage"))
	assert.False(t, *reached)
}

func TestAuthenticateUnknownAccount(t *testing.T) {
	jwtAuth, _, guarded, reached := newGuardFixture(t)

	token, err := jwtAuth.GenerateAuthToken(auth.SessionClaims{UserID: bson.NewObjectID().Hex()})
	require.NoError(t, err)

	assertUnauthorized(t, doGuarded(guarded, "Bearer "+token))
	assert.False(t, *reached)
}

func TestAuthenticateUnverifiedAccount(t *testing.T) {
	jwtAuth, repo, guarded, reached := newGuardFixture(t)
	user := repo.add(false, true)

	token, err := jwtAuth.GenerateAuthToken(auth.SessionClaims{UserID: user.ID.Hex()})
	require.NoError(t, err)

	assertUnauthorized(t, doGuarded(guarded, "Bearer "+token))
	assert.False(t, *reached)
}

func TestAuthenticateInactiveAccount(t *testing.T) {
	jwtAuth, repo, guarded, reached := newGuardFixture(t)
	user := repo.add(true, false)

	token, err := jwtAuth.GenerateAuthToken(auth.SessionClaims{UserID: user.ID.Hex()})
	require.NoError(t, err)

	assertUnauthorized(t, doGuarded(guarded, "Bearer "+token))
	assert.False(t, *reached)
}

func TestAuthenticateSuccess(t *testing.T) {
	jwtAuth, repo, guarded, reached := newGuardFixture(t)
	user := repo.add(true, true)

	token, err := jwtAuth.GenerateAuthToken(auth.SessionClaims{UserID: user.ID.Hex()})
	require.NoError(t, err)

	rec := doGuarded(guarded, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *reached)
}
