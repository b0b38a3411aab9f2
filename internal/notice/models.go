package notice

import (
	"time"

	"CampusManager/internal/upload"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Audience selects who a notice is shown to.
type Audience string

const (
	AudienceAll        Audience = "ALL"
	AudienceStudents   Audience = "STUDENTS"
	AudienceTeachers   Audience = "TEACHERS"
	AudienceDepartment Audience = "DEPARTMENT"
)

// Priority orders notices in listings.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// View records one user having opened a notice.
type View struct {
	UserID   primitive.ObjectID `bson:"user" json:"user"`
	ViewedAt time.Time          `bson:"viewedAt" json:"viewedAt"`
}

// Notice is an announcement targeted at an audience. DEPARTMENT notices
// carry the department they are scoped to.
type Notice struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title          string             `bson:"title" json:"title"`
	Content        string             `bson:"content" json:"content"`
	CreatedBy      primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	TargetAudience Audience           `bson:"targetAudience" json:"targetAudience"`
	Department     string             `bson:"department,omitempty" json:"department,omitempty"`
	Priority       Priority           `bson:"priority" json:"priority"`
	Attachments    []upload.SavedFile `bson:"attachments,omitempty" json:"attachments,omitempty"`
	IsActive       bool               `bson:"isActive" json:"isActive"`
	ExpiryDate     *time.Time         `bson:"expiryDate,omitempty" json:"expiryDate,omitempty"`
	ViewedBy       []View             `bson:"viewedBy,omitempty" json:"viewedBy,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CreateNoticeRequest publishes a new notice. Department is mandatory for
// the DEPARTMENT audience.
type CreateNoticeRequest struct {
	Title          string   `json:"title" form:"title" validate:"required"`
	Content        string   `json:"content" form:"content" validate:"required"`
	TargetAudience Audience `json:"targetAudience" form:"targetAudience" validate:"required,oneof=ALL STUDENTS TEACHERS DEPARTMENT"`
	Department     string   `json:"department" form:"department" validate:"required_if=TargetAudience DEPARTMENT"`
	Priority       Priority `json:"priority" form:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	ExpiryDate     string   `json:"expiryDate" form:"expiryDate"`
}

// UpdateNoticeRequest edits an existing notice. Pointer fields distinguish
// "absent" from zero values.
type UpdateNoticeRequest struct {
	Title          *string   `json:"title" form:"title"`
	Content        *string   `json:"content" form:"content"`
	TargetAudience *Audience `json:"targetAudience" form:"targetAudience" validate:"omitempty,oneof=ALL STUDENTS TEACHERS DEPARTMENT"`
	Department     *string   `json:"department" form:"department"`
	Priority       *Priority `json:"priority" form:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	ExpiryDate     *string   `json:"expiryDate" form:"expiryDate"`
	IsActive       *bool     `json:"isActive" form:"isActive"`
}
