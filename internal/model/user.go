package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User represents a user account. Only Email is set at signup; profile
// fields arrive together in the profile completion step, and the
// password hash stays empty until the user chooses one.
type User struct {
	ID                bson.ObjectID   `bson:"_id,omitempty"`
	Email             string          `bson:"email"`
	Name              string          `bson:"name,omitempty"`
	PasswordHash      string          `bson:"password_hash,omitempty"`
	RoleID            bson.ObjectID   `bson:"role_id,omitempty"`
	Gender            string          `bson:"gender,omitempty"`
	ReferralCode      string          `bson:"referral_code,omitempty"`
	CategoryIDs       []bson.ObjectID `bson:"category_ids,omitempty"`
	SubcategoryIDs    []bson.ObjectID `bson:"subcategory_ids,omitempty"`
	NestedCategoryIDs []bson.ObjectID `bson:"nested_category_ids,omitempty"`
	IsActive          bool            `bson:"is_active"`
	IsVerified        bool            `bson:"is_verified"`
	OTP               *OTP            `bson:"otp,omitempty"`
	CreatedAt         time.Time       `bson:"created_at"`
	UpdatedAt         time.Time       `bson:"updated_at"`
}

// OTP is the pending one-time code attached to an account. At most one
// is pending at a time; issuing a new one overwrites the previous.
type OTP struct {
	Code      string    `bson:"code"`
	ExpiresAt time.Time `bson:"expires_at"`
}

// Expired reports whether the code's validity window has passed.
func (o *OTP) Expired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}

// UserWithRole is the read-only projection of an account joined with
// its role, produced by the role lookup at login, verification and
// guard time.
type UserWithRole struct {
	ID           bson.ObjectID `bson:"_id"`
	Email        string        `bson:"email"`
	Name         string        `bson:"name,omitempty"`
	RoleID       bson.ObjectID `bson:"role_id"`
	RoleName     string        `bson:"role_name"`
	PasswordHash string        `bson:"password_hash,omitempty"`
	OTP          *OTP          `bson:"otp,omitempty"`
	IsActive     bool          `bson:"is_active"`
	IsVerified   bool          `bson:"is_verified"`
}
