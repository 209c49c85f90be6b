package domain

import (
	"encoding/json"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var validate = validator.New()

type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

func (role Role) Valid() bool {
	return role == RoleUser || role == RoleModerator || role == RoleAdmin
}

type User struct {
	ID              primitive.ObjectID  `bson:"_id" json:"id"`
	FirstName       string              `bson:"firstName,omitempty" json:"firstName,omitempty"`
	LastName        string              `bson:"lastName,omitempty" json:"lastName,omitempty"`
	Username        string              `bson:"username" json:"username" validate:"required,min=3,max=30"`
	Email           string              `bson:"email" json:"email" validate:"required,email"`
	Password        string              `bson:"password" json:"-"`
	Role            Role                `bson:"role" json:"role"`
	AccommodationID *primitive.ObjectID `bson:"accommodationId,omitempty" json:"accommodationId,omitempty"`
}

func (user *User) Validate() error {
	return validate.Struct(user)
}

// AccommodationHex is the scoping key used by the access-control policy.
// Empty when the user has not joined an accommodation.
func (user *User) AccommodationHex() string {
	if user.AccommodationID == nil {
		return ""
	}
	return user.AccommodationID.Hex()
}

type Accommodation struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	Name       string             `bson:"name" json:"name" validate:"required,max=50"`
	Code       string             `bson:"code" json:"-"`
	Location   string             `bson:"location" json:"location" validate:"required"`
	PostalCode int                `bson:"postalCode" json:"postalCode" validate:"required"`
	Country    string             `bson:"country" json:"country" validate:"required"`
}

func (accommodation *Accommodation) Validate() error {
	return validate.Struct(accommodation)
}

type Task struct {
	ID              primitive.ObjectID `bson:"_id" json:"id"`
	Name            string             `bson:"name" json:"name" validate:"required,max=50"`
	Description     string             `bson:"description,omitempty" json:"description,omitempty" validate:"max=200"`
	Weekly          bool               `bson:"weekly" json:"weekly"`
	Done            bool               `bson:"done" json:"done"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	AccommodationID primitive.ObjectID `bson:"accommodationId" json:"accommodationId"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (task *Task) Validate() error {
	return validate.Struct(task)
}

type Rule struct {
	ID              primitive.ObjectID `bson:"_id" json:"id"`
	Title           string             `bson:"title" json:"title" validate:"required,max=50"`
	Description     string             `bson:"description" json:"description" validate:"required,max=200"`
	AccommodationID primitive.ObjectID `bson:"accommodationId" json:"accommodationId"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (rule *Rule) Validate() error {
	return validate.Struct(rule)
}

type Event struct {
	ID              primitive.ObjectID `bson:"_id" json:"id"`
	Title           string             `bson:"title" json:"title" validate:"required,max=50"`
	Description     string             `bson:"description,omitempty" json:"description,omitempty" validate:"max=500"`
	PlannedDate     time.Time          `bson:"plannedDate" json:"plannedDate" validate:"required"`
	EndDate         time.Time          `bson:"endDate" json:"endDate" validate:"required"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	AccommodationID primitive.ObjectID `bson:"accommodationId" json:"accommodationId"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (event *Event) Validate() error {
	return validate.Struct(event)
}

type Refund struct {
	ID              primitive.ObjectID `bson:"_id" json:"id"`
	Title           string             `bson:"title" json:"title" validate:"required,max=50"`
	ToRefund        float64            `bson:"toRefund" json:"toRefund" validate:"gte=0"`
	Done            bool               `bson:"done" json:"done"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	RoommateID      primitive.ObjectID `bson:"roommateId" json:"roommateId"`
	AccommodationID primitive.ObjectID `bson:"accommodationId" json:"accommodationId"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (refund *Refund) Validate() error {
	return validate.Struct(refund)
}

type FileType string

const (
	FileTypeImage FileType = "image"
	FileTypePDF   FileType = "pdf"
)

// File is blob metadata. The id doubles as the on-disk filename.
type File struct {
	ID              string             `bson:"_id" json:"id"`
	Name            string             `bson:"name" json:"name" validate:"required,max=50"`
	Description     string             `bson:"description,omitempty" json:"description,omitempty" validate:"max=100"`
	Type            FileType           `bson:"type" json:"type"`
	Size            int64              `bson:"size" json:"size" validate:"gt=0"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	AccommodationID primitive.ObjectID `bson:"accommodationId" json:"accommodationId"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (file *File) Validate() error {
	return validate.Struct(file)
}

func (user *User) FromJSON(reader io.Reader) error {
	d := json.NewDecoder(reader)
	return d.Decode(user)
}
