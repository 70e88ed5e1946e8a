package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xpertlabs/xpert-account-api/internal/model"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserWithRole(ctx context.Context, id string) (*model.UserWithRole, error)
	GetUserWithRoleByEmail(ctx context.Context, email string) (*model.UserWithRole, error)
	UpdateUser(ctx context.Context, id string, params UpdateUserParams) (*model.User, error)
}

// UpdateUserParams defines the optional parameters for updating a user.
// Only the fields that are not nil will be updated. ClearOTP removes the
// pending one-time code; it wins over OTP when both are set.
type UpdateUserParams struct {
	Name              *string
	Gender            *string
	RoleID            *bson.ObjectID
	ReferralCode      *string
	CategoryIDs       []bson.ObjectID
	SubcategoryIDs    []bson.ObjectID
	NestedCategoryIDs []bson.ObjectID
	PasswordHash      *string
	IsVerified        *bool
	OTP               *model.OTP
	ClearOTP          bool
}

const userCollection = "users"

type userMongoRepository struct {
	db *mongo.Database
}

// NewUserMongoRepository creates a MongoDB-backed UserRepository and
// ensures the unique email index exists.
func NewUserMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) UserRepository {
	collection := db.Collection(userCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create user indexes")
	}

	return &userMongoRepository{db: db}
}

func (r *userMongoRepository) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	result, err := r.db.Collection(userCollection).InsertOne(ctx, user)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		user.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return user, nil
}

func (r *userMongoRepository) GetUser(ctx context.Context, id string) (*model.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	result := r.db.Collection(userCollection).FindOne(ctx, bson.M{"_id": objectID})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userMongoRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	result := r.db.Collection(userCollection).FindOne(ctx, bson.M{"email": email})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userMongoRepository) GetUserWithRole(ctx context.Context, id string) (*model.UserWithRole, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	return r.aggregateUserWithRole(ctx, bson.M{"_id": objectID})
}

func (r *userMongoRepository) GetUserWithRoleByEmail(ctx context.Context, email string) (*model.UserWithRole, error) {
	return r.aggregateUserWithRole(ctx, bson.M{"email": email})
}

// aggregateUserWithRole joins the matched user with its role document.
// Users without a role assigned yet are dropped by the unwind stage, so
// they surface as mongo.ErrNoDocuments to the caller.
func (r *userMongoRepository) aggregateUserWithRole(ctx context.Context, match bson.M) (*model.UserWithRole, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         roleCollection,
			"localField":   "role_id",
			"foreignField": "_id",
			"as":           "role",
		}}},
		bson.D{{Key: "$unwind", Value: "$role"}},
		bson.D{{Key: "$project", Value: bson.M{
			"_id":           1,
			"email":         1,
			"name":          1,
			"role_id":       1,
			"password_hash": 1,
			"otp":           1,
			"is_active":     1,
			"is_verified":   1,
			"role_name":     "$role.name",
		}}},
	}

	cursor, err := r.db.Collection(userCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if !cursor.Next(ctx) {
		if err := cursor.Err(); err != nil {
			return nil, err
		}

		return nil, mongo.ErrNoDocuments
	}

	var user model.UserWithRole
	if err := cursor.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userMongoRepository) UpdateUser(
	ctx context.Context,
	id string,
	params UpdateUserParams,
) (*model.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	// Build update query
	setMap := bson.M{}
	if params.Name != nil {
		setMap["name"] = *params.Name
	}
	if params.Gender != nil {
		setMap["gender"] = *params.Gender
	}
	if params.RoleID != nil {
		setMap["role_id"] = *params.RoleID
	}
	if params.ReferralCode != nil {
		setMap["referral_code"] = *params.ReferralCode
	}
	if params.CategoryIDs != nil {
		setMap["category_ids"] = params.CategoryIDs
	}
	if params.SubcategoryIDs != nil {
		setMap["subcategory_ids"] = params.SubcategoryIDs
	}
	if params.NestedCategoryIDs != nil {
		setMap["nested_category_ids"] = params.NestedCategoryIDs
	}
	if params.PasswordHash != nil {
		setMap["password_hash"] = *params.PasswordHash
	}
	if params.IsVerified != nil {
		setMap["is_verified"] = *params.IsVerified
	}
	if params.OTP != nil && !params.ClearOTP {
		setMap["otp"] = params.OTP
	}

	update := bson.M{}
	if params.ClearOTP {
		update["$unset"] = bson.M{"otp": ""}
	}

	if len(setMap) == 0 && len(update) == 0 {
		return nil, errors.New("no user fields to update")
	}

	setMap["updated_at"] = time.Now()
	update["$set"] = setMap

	result := r.db.Collection(userCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}
