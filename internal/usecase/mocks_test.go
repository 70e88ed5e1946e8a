package usecase

import (
	"context"
	"errors"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/xpertlabs/xpert-account-api/internal/model"
	"github.com/xpertlabs/xpert-account-api/internal/repository"
)

// fakeUserRepo is an in-memory UserRepository. The role join mirrors
// the aggregation semantics: users without a resolvable role surface as
// mongo.ErrNoDocuments.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
	roles *fakeRoleRepo
}

func newFakeUserRepo(roles *fakeRoleRepo) *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User), roles: roles}
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == user.Email {
			return nil, errors.New("duplicate key error")
		}
	}

	clone := *user
	clone.ID = bson.NewObjectID()
	r.users[clone.ID.Hex()] = &clone

	copied := clone
	return &copied, nil
}

func (r *fakeUserRepo) GetUser(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}

	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) GetUserWithRole(ctx context.Context, id string) (*model.UserWithRole, error) {
	r.mu.Lock()
	user, ok := r.users[id]
	if !ok {
		r.mu.Unlock()
		return nil, mongo.ErrNoDocuments
	}
	clone := *user
	r.mu.Unlock()

	return r.joinRole(ctx, &clone)
}

func (r *fakeUserRepo) GetUserWithRoleByEmail(ctx context.Context, email string) (*model.UserWithRole, error) {
	user, err := r.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	return r.joinRole(ctx, user)
}

func (r *fakeUserRepo) joinRole(ctx context.Context, user *model.User) (*model.UserWithRole, error) {
	if user.RoleID.IsZero() {
		return nil, mongo.ErrNoDocuments
	}

	role, err := r.roles.GetRole(ctx, user.RoleID.Hex())
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}

	return &model.UserWithRole{
		ID:           user.ID,
		Email:        user.Email,
		Name:         user.Name,
		RoleID:       user.RoleID,
		RoleName:     role.Name,
		PasswordHash: user.PasswordHash,
		OTP:          user.OTP,
		IsActive:     user.IsActive,
		IsVerified:   user.IsVerified,
	}, nil
}

func (r *fakeUserRepo) UpdateUser(
	_ context.Context,
	id string,
	params repository.UpdateUserParams,
) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	if params.Name != nil {
		user.Name = *params.Name
	}
	if params.Gender != nil {
		user.Gender = *params.Gender
	}
	if params.RoleID != nil {
		user.RoleID = *params.RoleID
	}
	if params.ReferralCode != nil {
		user.ReferralCode = *params.ReferralCode
	}
	if params.CategoryIDs != nil {
		user.CategoryIDs = params.CategoryIDs
	}
	if params.SubcategoryIDs != nil {
		user.SubcategoryIDs = params.SubcategoryIDs
	}
	if params.NestedCategoryIDs != nil {
		user.NestedCategoryIDs = params.NestedCategoryIDs
	}
	if params.PasswordHash != nil {
		user.PasswordHash = *params.PasswordHash
	}
	if params.IsVerified != nil {
		user.IsVerified = *params.IsVerified
	}
	if params.ClearOTP {
		user.OTP = nil
	} else if params.OTP != nil {
		user.OTP = params.OTP
	}

	clone := *user
	return &clone, nil
}

// mustGet returns the stored user for direct inspection and mutation in
// tests.
func (r *fakeUserRepo) mustGet(id string) *model.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id]
}

func (r *fakeUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

type fakeRoleRepo struct {
	roles map[string]*model.Role
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{roles: make(map[string]*model.Role)}
}

func (r *fakeRoleRepo) addRole(name string) *model.Role {
	role := &model.Role{ID: bson.NewObjectID(), Name: name}
	r.roles[role.ID.Hex()] = role
	return role
}

func (r *fakeRoleRepo) GetRole(_ context.Context, id string) (*model.Role, error) {
	if _, err := bson.ObjectIDFromHex(id); err != nil {
		return nil, err
	}

	role, ok := r.roles[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	clone := *role
	return &clone, nil
}

// fakeSender records outbound email and can be forced to fail.
type fakeSender struct {
	mu       sync.Mutex
	sent     []sentEmail
	failWith error
}

type sentEmail struct {
	to      []string
	subject string
	body    string
}

func (s *fakeSender) SendHTML(to []string, subject, htmlBody string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWith != nil {
		return s.failWith
	}

	s.sent = append(s.sent, sentEmail{to: to, subject: subject, body: htmlBody})
	return nil
}

func (s *fakeSender) sentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func (s *fakeSender) lastSent() sentEmail {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sent[len(s.sent)-1]
}

// fakeCategoryRepo is an in-memory CategoryRepository.
type fakeCategoryRepo struct {
	mu         sync.Mutex
	categories map[string]*model.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: make(map[string]*model.Category)}
}

func (r *fakeCategoryRepo) ListCategories(_ context.Context) ([]model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var categories []model.Category
	for _, category := range r.categories {
		categories = append(categories, *category)
	}

	return categories, nil
}

func (r *fakeCategoryRepo) CreateCategory(_ context.Context, category *model.Category) (*model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *category
	clone.ID = bson.NewObjectID()
	r.categories[clone.ID.Hex()] = &clone

	copied := clone
	return &copied, nil
}

func (r *fakeCategoryRepo) ReplaceCategory(
	_ context.Context,
	id string,
	category *model.Category,
) (*model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.categories[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	existing.CategoryName = category.CategoryName
	existing.Subcategories = category.Subcategories

	clone := *existing
	return &clone, nil
}
