package repository

import (
	"context"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xpertlabs/xpert-account-api/internal/model"
)

// RoleRepository defines read access to role reference data.
type RoleRepository interface {
	GetRole(ctx context.Context, id string) (*model.Role, error)
}

const roleCollection = "roles"

type roleMongoRepository struct {
	db *mongo.Database
}

// NewRoleMongoRepository creates a MongoDB-backed RoleRepository and
// ensures the unique role name index exists.
func NewRoleMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) RoleRepository {
	collection := db.Collection(roleCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create role indexes")
	}

	return &roleMongoRepository{db: db}
}

func (r *roleMongoRepository) GetRole(ctx context.Context, id string) (*model.Role, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	result := r.db.Collection(roleCollection).FindOne(ctx, bson.M{"_id": objectID})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var role model.Role
	if err := result.Decode(&role); err != nil {
		return nil, err
	}

	return &role, nil
}
