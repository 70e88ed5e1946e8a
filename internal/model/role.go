package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Role is read-only reference data a user account points at. The role
// name is resolved into a token claim at login and verification time.
type Role struct {
	ID          bson.ObjectID `bson:"_id,omitempty"`
	Name        string        `bson:"name"`
	Description string        `bson:"description,omitempty"`
	CreatedAt   time.Time     `bson:"created_at"`
	UpdatedAt   time.Time     `bson:"updated_at"`
}
