package profile

import (
	"time"

	"CampusManager/internal/auth"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Student is the role profile extending a STUDENT user account.
type Student struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID        primitive.ObjectID `bson:"user" json:"user"`
	StudentID     string             `bson:"studentId" json:"studentId"` // Display code, e.g. STU001
	Department    string             `bson:"department" json:"department"`
	Semester      int                `bson:"semester" json:"semester"`
	Year          int                `bson:"year" json:"year"`
	RollNumber    string             `bson:"rollNumber" json:"rollNumber"`
	DateOfBirth   *time.Time         `bson:"dateOfBirth,omitempty" json:"dateOfBirth,omitempty"`
	Address       string             `bson:"address,omitempty" json:"address,omitempty"`
	ParentContact string             `bson:"parentContact,omitempty" json:"parentContact,omitempty"`
	AdmissionDate time.Time          `bson:"admissionDate" json:"admissionDate"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Teacher is the role profile extending a TEACHER user account.
type Teacher struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	UserID        primitive.ObjectID   `bson:"user" json:"user"`
	TeacherID     string               `bson:"teacherId" json:"teacherId"` // Display code, e.g. TCH001
	Department    string               `bson:"department" json:"department"`
	Designation   string               `bson:"designation" json:"designation"`
	Qualification string               `bson:"qualification" json:"qualification"`
	Experience    int                  `bson:"experience" json:"experience"`
	JoiningDate   time.Time            `bson:"joiningDate" json:"joiningDate"`
	Subjects      []primitive.ObjectID `bson:"subjects,omitempty" json:"subjects,omitempty"`
	CreatedAt     time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// Admin is the role profile extending an ADMIN user account.
type Admin struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID       primitive.ObjectID `bson:"user" json:"user"`
	AdminID      string             `bson:"adminId" json:"adminId"` // Display code, e.g. ADM001
	Department   string             `bson:"department,omitempty" json:"department,omitempty"`
	Designation  string             `bson:"designation" json:"designation"`
	Permissions  []string           `bson:"permissions" json:"permissions"`
	IsSuperAdmin bool               `bson:"isSuperAdmin" json:"isSuperAdmin"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Admin permissions.
const (
	PermViewDashboard    = "VIEW_DASHBOARD"
	PermManageStudents   = "MANAGE_STUDENTS"
	PermManageTeachers   = "MANAGE_TEACHERS"
	PermManageAdmins     = "MANAGE_ADMINS"
	PermManageNotices    = "MANAGE_NOTICES"
	PermViewAnalytics    = "VIEW_ANALYTICS"
	PermManageSubjects   = "MANAGE_SUBJECTS"
	PermManageAttendance = "MANAGE_ATTENDANCE"
	PermSystemSettings   = "SYSTEM_SETTINGS"
)

var validPermissions = map[string]bool{
	PermViewDashboard:    true,
	PermManageStudents:   true,
	PermManageTeachers:   true,
	PermManageAdmins:     true,
	PermManageNotices:    true,
	PermViewAnalytics:    true,
	PermManageSubjects:   true,
	PermManageAttendance: true,
	PermSystemSettings:   true,
}

// ValidPermissions reports whether every permission in the list is known.
func ValidPermissions(perms []string) bool {
	for _, p := range perms {
		if !validPermissions[p] {
			return false
		}
	}
	return true
}

// HasPermission reports whether an admin holds a permission. Super admins
// hold all of them.
func HasPermission(a *Admin, permission string) bool {
	if a.IsSuperAdmin {
		return true
	}
	for _, p := range a.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// StudentWithUser is the populated read shape joining profile and account.
type StudentWithUser struct {
	Student
	User *auth.User `json:"user"`
}

// TeacherWithUser is the populated read shape joining profile and account.
type TeacherWithUser struct {
	Teacher
	User *auth.User `json:"user"`
}

// CreateStudentRequest provisions a student account and profile in one unit.
type CreateStudentRequest struct {
	Email         string `json:"email" form:"email" validate:"required,email"`
	Password      string `json:"password" form:"password" validate:"required,min=6"`
	FirstName     string `json:"firstName" form:"firstName" validate:"required"`
	LastName      string `json:"lastName" form:"lastName" validate:"required"`
	Phone         string `json:"phone" form:"phone"`
	Department    string `json:"department" form:"department" validate:"required"`
	Semester      int    `json:"semester" form:"semester" validate:"required,min=1"`
	Year          int    `json:"year" form:"year" validate:"required"`
	RollNumber    string `json:"rollNumber" form:"rollNumber" validate:"required"`
	Address       string `json:"address" form:"address"`
	ParentContact string `json:"parentContact" form:"parentContact"`
}

// CreateTeacherRequest provisions a teacher account and profile in one unit.
type CreateTeacherRequest struct {
	Email         string `json:"email" form:"email" validate:"required,email"`
	Password      string `json:"password" form:"password" validate:"required,min=6"`
	FirstName     string `json:"firstName" form:"firstName" validate:"required"`
	LastName      string `json:"lastName" form:"lastName" validate:"required"`
	Phone         string `json:"phone" form:"phone"`
	Department    string `json:"department" form:"department" validate:"required"`
	Designation   string `json:"designation" form:"designation" validate:"required"`
	Qualification string `json:"qualification" form:"qualification" validate:"required"`
	Experience    int    `json:"experience" form:"experience" validate:"min=0"`
}

// AdminUpdateStudentRequest is the admin-side update; the field set is wider
// than what profile owners may touch. Pointer fields distinguish "absent"
// from zero values.
type AdminUpdateStudentRequest struct {
	FirstName     *string `json:"firstName" form:"firstName"`
	LastName      *string `json:"lastName" form:"lastName"`
	Phone         *string `json:"phone" form:"phone"`
	Department    *string `json:"department" form:"department"`
	Semester      *int    `json:"semester" form:"semester" validate:"omitempty,min=1"`
	Year          *int    `json:"year" form:"year"`
	Address       *string `json:"address" form:"address"`
	ParentContact *string `json:"parentContact" form:"parentContact"`
}

// AdminUpdateTeacherRequest is the admin-side teacher update.
type AdminUpdateTeacherRequest struct {
	FirstName     *string `json:"firstName" form:"firstName"`
	LastName      *string `json:"lastName" form:"lastName"`
	Phone         *string `json:"phone" form:"phone"`
	Department    *string `json:"department" form:"department"`
	Designation   *string `json:"designation" form:"designation"`
	Qualification *string `json:"qualification" form:"qualification"`
	Experience    *int    `json:"experience" form:"experience" validate:"omitempty,min=0"`
}

// UpdateOwnStudentRequest lists the only fields a student may change on
// their own profile.
type UpdateOwnStudentRequest struct {
	Address       *string `json:"address"`
	ParentContact *string `json:"parentContact"`
}

// UpdateOwnTeacherRequest lists the only fields a teacher may change on
// their own profile.
type UpdateOwnTeacherRequest struct {
	Qualification *string `json:"qualification"`
	Experience    *int    `json:"experience" validate:"omitempty,min=0"`
}

// UpdateAdminProfileRequest updates the admin's own user record.
type UpdateAdminProfileRequest struct {
	FirstName *string `json:"firstName" form:"firstName"`
	LastName  *string `json:"lastName" form:"lastName"`
}
