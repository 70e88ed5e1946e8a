package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xpertlabs/xpert-account-api/internal/model"
)

// CategoryRepository defines database access to the category tree.
type CategoryRepository interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	CreateCategory(ctx context.Context, category *model.Category) (*model.Category, error)
	ReplaceCategory(ctx context.Context, id string, category *model.Category) (*model.Category, error)
}

const categoryCollection = "categories"

type categoryMongoRepository struct {
	db *mongo.Database
}

// NewCategoryMongoRepository creates a MongoDB-backed CategoryRepository.
func NewCategoryMongoRepository(db *mongo.Database) CategoryRepository {
	return &categoryMongoRepository{db: db}
}

func (r *categoryMongoRepository) ListCategories(ctx context.Context) ([]model.Category, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := r.db.Collection(categoryCollection).Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var categories []model.Category
	for cursor.Next(ctx) {
		var category model.Category
		if err := cursor.Decode(&category); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return categories, nil
}

func (r *categoryMongoRepository) CreateCategory(
	ctx context.Context,
	category *model.Category,
) (*model.Category, error) {
	now := time.Now()
	category.CreatedAt = now
	category.UpdatedAt = now

	result, err := r.db.Collection(categoryCollection).InsertOne(ctx, category)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		category.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return category, nil
}

func (r *categoryMongoRepository) ReplaceCategory(
	ctx context.Context,
	id string,
	category *model.Category,
) (*model.Category, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	update := bson.M{"$set": bson.M{
		"category_name": category.CategoryName,
		"subcategories": category.Subcategories,
		"updated_at":    time.Now(),
	}}

	result := r.db.Collection(categoryCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var updated model.Category
	if err := result.Decode(&updated); err != nil {
		return nil, err
	}

	return &updated, nil
}
