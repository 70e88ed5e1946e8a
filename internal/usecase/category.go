package usecase

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/xpertlabs/xpert-account-api/internal/model"
	"github.com/xpertlabs/xpert-account-api/internal/repository"
)

// CategoryUsecase manages the hierarchical category catalog.
type CategoryUsecase interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	SaveCategories(ctx context.Context, inputs []CategoryInput) ([]model.Category, error)
}

// CategoryInput is one category tree to insert or replace. An empty
// CategoryID means insert; embedded subdocuments without an id get a
// fresh one.
type CategoryInput struct {
	CategoryID    string
	CategoryName  string
	Subcategories []SubcategoryInput
}

// SubcategoryInput is the second level of a CategoryInput.
type SubcategoryInput struct {
	ID                  string
	SubCategoryName     string
	NestedSubcategories []NestedSubcategoryInput
}

// NestedSubcategoryInput is the innermost level of a CategoryInput.
type NestedSubcategoryInput struct {
	ID              string
	SubCategoryName string
}

type categoryUsecase struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryUsecase creates a new CategoryUsecase instance.
func NewCategoryUsecase(categoryRepo repository.CategoryRepository) CategoryUsecase {
	return &categoryUsecase{categoryRepo: categoryRepo}
}

func (u *categoryUsecase) ListCategories(ctx context.Context) ([]model.Category, error) {
	return u.categoryRepo.ListCategories(ctx)
}

// SaveCategories inserts or replaces each provided category tree and
// returns the resulting documents.
func (u *categoryUsecase) SaveCategories(ctx context.Context, inputs []CategoryInput) ([]model.Category, error) {
	if len(inputs) == 0 {
		return nil, ErrNoCategories
	}

	saved := make([]model.Category, 0, len(inputs))
	for _, input := range inputs {
		if input.CategoryName == "" || input.Subcategories == nil {
			return nil, ErrInvalidCategoryPayload
		}

		category, err := categoryFromInput(input)
		if err != nil {
			return nil, err
		}

		var result *model.Category
		if input.CategoryID != "" {
			result, err = u.categoryRepo.ReplaceCategory(ctx, input.CategoryID, category)
		} else {
			result, err = u.categoryRepo.CreateCategory(ctx, category)
		}
		if err != nil {
			return nil, err
		}

		saved = append(saved, *result)
	}

	return saved, nil
}

func categoryFromInput(input CategoryInput) (*model.Category, error) {
	category := &model.Category{
		CategoryName:  input.CategoryName,
		Subcategories: make([]model.Subcategory, 0, len(input.Subcategories)),
	}

	for _, sub := range input.Subcategories {
		subID, err := subdocumentID(sub.ID)
		if err != nil {
			return nil, err
		}

		subcategory := model.Subcategory{
			ID:                  subID,
			SubCategoryName:     sub.SubCategoryName,
			NestedSubcategories: make([]model.NestedSubcategory, 0, len(sub.NestedSubcategories)),
		}

		for _, nested := range sub.NestedSubcategories {
			nestedID, err := subdocumentID(nested.ID)
			if err != nil {
				return nil, err
			}

			subcategory.NestedSubcategories = append(subcategory.NestedSubcategories, model.NestedSubcategory{
				ID:              nestedID,
				SubCategoryName: nested.SubCategoryName,
			})
		}

		category.Subcategories = append(category.Subcategories, subcategory)
	}

	return category, nil
}

func subdocumentID(hex string) (bson.ObjectID, error) {
	if hex == "" {
		return bson.NewObjectID(), nil
	}

	objectID, err := bson.ObjectIDFromHex(hex)
	if err != nil {
		return bson.ObjectID{}, ErrInvalidCategoryID
	}

	return objectID, nil
}
