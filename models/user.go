package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User lives in v5users, shared with the admin system. Password carries one
// of several legacy hash formats; see auth.VerifyPassword.
type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Email       string             `bson:"email"`
	Password    string             `bson:"password"`
	Name        string             `bson:"name"`
	IsSuperUser bool               `bson:"isSuperUser,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt,omitempty"`
	UpdatedAt   time.Time          `bson:"updatedAt,omitempty"`
}

// Department mirrors the v5departments documents of the admin system.
// Membership is by user id string in adminIds or memberIds.
type Department struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	AdminIDs  []string           `bson:"adminIds"`
	MemberIDs []string           `bson:"memberIds"`
}
