package academic

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AttendanceStatus is the per-day marking for one student in one subject.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "PRESENT"
	StatusAbsent  AttendanceStatus = "ABSENT"
	StatusLate    AttendanceStatus = "LATE"
)

// ValidStatus reports whether s is a known attendance status.
func ValidStatus(s AttendanceStatus) bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate:
		return true
	}
	return false
}

// ScheduleEntry is one recurring class slot for a subject.
type ScheduleEntry struct {
	Day       string `bson:"day" json:"day" validate:"required,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY SUNDAY"`
	StartTime string `bson:"startTime" json:"startTime" validate:"required"`
	EndTime   string `bson:"endTime" json:"endTime" validate:"required"`
	Room      string `bson:"room,omitempty" json:"room,omitempty"`
}

// Subject is a course offering. Enrollment is a set: a student appears in
// enrolledStudents at most once.
type Subject struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Name             string               `bson:"name" json:"name"`
	Code             string               `bson:"code" json:"code"`
	Department       string               `bson:"department" json:"department"`
	Semester         int                  `bson:"semester" json:"semester"`
	Credits          int                  `bson:"credits" json:"credits"`
	TeacherID        primitive.ObjectID   `bson:"teacher,omitempty" json:"teacher,omitempty"`
	Description      string               `bson:"description,omitempty" json:"description,omitempty"`
	Schedule         []ScheduleEntry      `bson:"schedule,omitempty" json:"schedule,omitempty"`
	Prerequisites    []primitive.ObjectID `bson:"prerequisites,omitempty" json:"prerequisites,omitempty"`
	IsActive         bool                 `bson:"isActive" json:"isActive"`
	EnrolledStudents []primitive.ObjectID `bson:"enrolledStudents,omitempty" json:"enrolledStudents,omitempty"`
	CreatedAt        time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// Attendance is one student's marking for one subject on one day. The store
// enforces a unique (student, subject, date) compound index.
type Attendance struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	StudentID      primitive.ObjectID `bson:"student" json:"student"`
	SubjectID      primitive.ObjectID `bson:"subject" json:"subject"`
	TeacherID      primitive.ObjectID `bson:"teacher" json:"teacher"`
	Date           time.Time          `bson:"date" json:"date"`
	Status         AttendanceStatus   `bson:"status" json:"status"`
	Remarks        string             `bson:"remarks,omitempty" json:"remarks,omitempty"`
	LastModifiedBy primitive.ObjectID `bson:"lastModifiedBy,omitempty" json:"lastModifiedBy,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// AttendanceSummary aggregates a student's markings, optionally scoped to one
// subject.
type AttendanceSummary struct {
	Present    int64   `json:"present"`
	Absent     int64   `json:"absent"`
	Late       int64   `json:"late"`
	Total      int64   `json:"total"`
	Percentage float64 `json:"percentage"`
}

// ComputeSummary derives the summary from per-status counts. With no records
// the percentage is 0, never a division error.
func ComputeSummary(counts map[AttendanceStatus]int64) AttendanceSummary {
	summary := AttendanceSummary{
		Present: counts[StatusPresent],
		Absent:  counts[StatusAbsent],
		Late:    counts[StatusLate],
	}
	summary.Total = summary.Present + summary.Absent + summary.Late
	if summary.Total > 0 {
		summary.Percentage = float64(summary.Present) / float64(summary.Total) * 100
	}
	return summary
}

// CreateSubjectRequest creates a new course offering.
type CreateSubjectRequest struct {
	Name          string          `json:"name" validate:"required"`
	Code          string          `json:"code" validate:"required"`
	Department    string          `json:"department" validate:"required"`
	Semester      int             `json:"semester" validate:"required,min=1"`
	Credits       int             `json:"credits" validate:"required,min=1"`
	TeacherID     string          `json:"teacherId" validate:"omitempty,len=24"`
	Description   string          `json:"description"`
	Schedule      []ScheduleEntry `json:"schedule" validate:"omitempty,dive"`
	Prerequisites []string        `json:"prerequisites" validate:"omitempty,dive,len=24"`
}

// UpdateSubjectRequest carries the admin-side subject update. Pointer fields
// distinguish "absent" from zero values.
type UpdateSubjectRequest struct {
	Name          *string          `json:"name"`
	Code          *string          `json:"code"`
	Department    *string          `json:"department"`
	Semester      *int             `json:"semester" validate:"omitempty,min=1"`
	Credits       *int             `json:"credits" validate:"omitempty,min=1"`
	TeacherID     *string          `json:"teacherId" validate:"omitempty,len=24"`
	Description   *string          `json:"description"`
	Schedule      *[]ScheduleEntry `json:"schedule" validate:"omitempty,dive"`
	IsActive      *bool            `json:"isActive"`
}

// EnrollmentRequest names the student to enroll or remove.
type EnrollmentRequest struct {
	StudentID string `json:"studentId" validate:"required,len=24"`
}

// AttendanceEntry is one student's marking inside a bulk submission.
type AttendanceEntry struct {
	StudentID string           `json:"studentId" validate:"required,len=24"`
	Status    AttendanceStatus `json:"status" validate:"required,oneof=PRESENT ABSENT LATE"`
	Remarks   string           `json:"remarks"`
}

// MarkAttendanceRequest submits one class session's markings in bulk.
type MarkAttendanceRequest struct {
	SubjectID string            `json:"subjectId" validate:"required,len=24"`
	Date      string            `json:"date" validate:"required"`
	Records   []AttendanceEntry `json:"records" validate:"required,min=1,dive"`
}

// UpdateAttendanceRequest corrects a single marking.
type UpdateAttendanceRequest struct {
	Status  AttendanceStatus `json:"status" validate:"required,oneof=PRESENT ABSENT LATE"`
	Remarks *string          `json:"remarks"`
}
