package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Category is the root of the three-level category tree. Subcategories
// and their nested subcategories are embedded subdocuments.
type Category struct {
	ID            bson.ObjectID `bson:"_id,omitempty"           json:"_id"`
	CategoryName  string        `bson:"category_name"           json:"categoryName"`
	Subcategories []Subcategory `bson:"subcategories"           json:"subcategories"`
	CreatedAt     time.Time     `bson:"created_at"              json:"-"`
	UpdatedAt     time.Time     `bson:"updated_at"              json:"-"`
}

// Subcategory is the second level of the category tree.
type Subcategory struct {
	ID                  bson.ObjectID       `bson:"_id,omitempty"            json:"_id"`
	SubCategoryName     string              `bson:"sub_category_name"        json:"subCategoryName"`
	NestedSubcategories []NestedSubcategory `bson:"nested_subcategories"     json:"nestedSubcategories"`
}

// NestedSubcategory is the innermost level of the category tree.
type NestedSubcategory struct {
	ID              bson.ObjectID `bson:"_id,omitempty"     json:"_id"`
	SubCategoryName string        `bson:"sub_category_name" json:"subCategoryName"`
}
