package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/xpertlabs/xpert-account-api/internal/response"
	"github.com/xpertlabs/xpert-account-api/internal/usecase"
	"github.com/xpertlabs/xpert-account-api/shared/validate"
)

// CategoryHandler serves the category catalog routes.
type CategoryHandler struct {
	category  usecase.CategoryUsecase
	validator *validate.Validator
	logger    *zerolog.Logger
}

// NewCategoryHandler creates a new CategoryHandler instance.
func NewCategoryHandler(
	category usecase.CategoryUsecase,
	validator *validate.Validator,
	logger *zerolog.Logger,
) *CategoryHandler {
	return &CategoryHandler{
		category:  category,
		validator: validator,
		logger:    logger,
	}
}

// GetCategories handles GET /category/getCategories.
func (h *CategoryHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.category.ListCategories(r.Context())
	if err != nil {
		respondUsecaseError(w, h.logger, err)
		return
	}

	response.Success(w, http.StatusOK, "categories fetched successfully", categories)
}

type categoryPayload struct {
	CategoryID    string               `json:"categoryId"`
	CategoryName  string               `json:"categoryName"`
	Subcategories []subcategoryPayload `json:"subcategories"`
}

type subcategoryPayload struct {
	ID                  string                     `json:"_id"`
	SubCategoryName     string                     `json:"subCategoryName"`
	NestedSubcategories []nestedSubcategoryPayload `json:"nestedSubcategories"`
}

type nestedSubcategoryPayload struct {
	ID              string `json:"_id"`
	SubCategoryName string `json:"subCategoryName"`
}

type saveCategoriesRequest struct {
	Categories []categoryPayload `json:"categories" validate:"required,min=1"`
}

// AddOrUpdateCategories handles POST /category/addOrUpdateCategories.
func (h *CategoryHandler) AddOrUpdateCategories(w http.ResponseWriter, r *http.Request) {
	var req saveCategoriesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	inputs := make([]usecase.CategoryInput, 0, len(req.Categories))
	for _, category := range req.Categories {
		input := usecase.CategoryInput{
			CategoryID:   category.CategoryID,
			CategoryName: category.CategoryName,
		}

		if category.Subcategories != nil {
			input.Subcategories = make([]usecase.SubcategoryInput, 0, len(category.Subcategories))
		}
		for _, sub := range category.Subcategories {
			subInput := usecase.SubcategoryInput{
				ID:              sub.ID,
				SubCategoryName: sub.SubCategoryName,
			}
			for _, nested := range sub.NestedSubcategories {
				subInput.NestedSubcategories = append(subInput.NestedSubcategories, usecase.NestedSubcategoryInput{
					ID:              nested.ID,
					SubCategoryName: nested.SubCategoryName,
				})
			}
			input.Subcategories = append(input.Subcategories, subInput)
		}

		inputs = append(inputs, input)
	}

	saved, err := h.category.SaveCategories(r.Context(), inputs)
	if err != nil {
		respondUsecaseError(w, h.logger, err)
		return
	}

	response.Success(w, http.StatusOK, "categories processed successfully", saved)
}
