package academic

import (
	"net/http"
	"strconv"
	"time"

	"CampusManager/internal/auth"
	"CampusManager/pkg/response"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AcademicHandler exposes subject management and attendance over HTTP.
type AcademicHandler struct {
	service *AcademicService
}

func NewAcademicHandler(service *AcademicService) *AcademicHandler {
	return &AcademicHandler{service: service}
}

// CreateSubject registers a new course offering (admin).
func (h *AcademicHandler) CreateSubject(c echo.Context) error {
	var req CreateSubjectRequest
	if err := c.Bind(&req); err != nil {
		return response.NewBadRequestError("Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	subject, err := h.service.CreateSubject(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusCreated, "Subject created successfully", subject)
}

// ListSubjects supports department and semester query filters (admin).
func (h *AcademicHandler) ListSubjects(c echo.Context) error {
	semester, _ := strconv.Atoi(c.QueryParam("semester"))

	subjects, err := h.service.ListSubjects(c.Request().Context(), c.QueryParam("department"), semester)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "Subjects retrieved successfully", subjects)
}

// UpdateSubject applies the admin-side subject update.
func (h *AcademicHandler) UpdateSubject(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return response.NewBadRequestError("Invalid ID format")
	}

	var req UpdateSubjectRequest
	if err := c.Bind(&req); err != nil {
		return response.NewBadRequestError("Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	subject, err := h.service.UpdateSubject(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "Subject updated successfully", subject)
}

// DeleteSubject removes a subject and its attendance history (admin).
func (h *AcademicHandler) DeleteSubject(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return response.NewBadRequestError("Invalid ID format")
	}

	if err := h.service.DeleteSubject(c.Request().Context(), id); err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "Subject deleted successfully", nil)
}

// EnrollStudent adds a student to the subject roster (admin). Re-enrolling is
// not an error.
func (h *AcademicHandler) EnrollStudent(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return response.NewBadRequestError("Invalid ID format")
	}

	var req EnrollmentRequest
	if err := c.Bind(&req); err != nil {
		return response.NewBadRequestError("Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	changed, err := h.service.EnrollStudent(c.Request().Context(), id, req.StudentID)
	if err != nil {
		return err
	}
	if !changed {
		return response.Success(c, http.StatusOK, "Student already enrolled", nil)
	}
	return response.Success(c, http.StatusOK, "Student enrolled successfully", nil)
}

// RemoveStudent pulls a student from the subject roster (admin).
func (h *AcademicHandler) RemoveStudent(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return response.NewBadRequestError("Invalid ID format")
	}

	var req EnrollmentRequest
	if err := c.Bind(&req); err != nil {
		return response.NewBadRequestError("Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	changed, err := h.service.RemoveStudent(c.Request().Context(), id, req.StudentID)
	if err != nil {
		return err
	}
	if !changed {
		return response.Success(c, http.StatusOK, "Student was not enrolled", nil)
	}
	return response.Success(c, http.StatusOK, "Student removed successfully", nil)
}

// TeacherSubjects lists the acting teacher's subjects.
func (h *AcademicHandler) TeacherSubjects(c echo.Context) error {
	user := auth.CurrentUser(c)
	subjects, err := h.service.TeacherSubjects(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "Subjects retrieved successfully", subjects)
}

// SubjectStudents returns the populated roster for one of the acting
// teacher's subjects (?subjectId=).
func (h *AcademicHandler) SubjectStudents(c echo.Context) error {
	subjectID, err := primitive.ObjectIDFromHex(c.QueryParam("subjectId"))
	if err != nil {
		return response.NewBadRequestError("Invalid ID format")
	}

	user := auth.CurrentUser(c)
	roster, err := h.service.SubjectStudents(c.Request().Context(), user.ID, subjectID)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "Students retrieved successfully", roster)
}

// MarkAttendance submits one class session's markings in bulk (teacher).
func (h *AcademicHandler) MarkAttendance(c echo.Context) error {
	var req MarkAttendanceRequest
	if err := c.Bind(&req); err != nil {
		return response.NewBadRequestError("Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user := auth.CurrentUser(c)
	count, err := h.service.MarkAttendance(c.Request().Context(), user.ID, req)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "Attendance marked successfully", map[string]interface{}{"count": count})
}

// UpdateAttendance corrects a single marking (recording teacher only).
func (h *AcademicHandler) UpdateAttendance(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return response.NewBadRequestError("Invalid ID format")
	}

	var req UpdateAttendanceRequest
	if err := c.Bind(&req); err != nil {
		return response.NewBadRequestError("Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user := auth.CurrentUser(c)
	record, err := h.service.UpdateAttendance(c.Request().Context(), user.ID, id, req)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "Attendance updated successfully", record)
}

// ClassAttendance returns records and per-student totals for one subject
// (teacher), over an optional ?startDate=&endDate= range.
func (h *AcademicHandler) ClassAttendance(c echo.Context) error {
	subjectID, err := primitive.ObjectIDFromHex(c.Param("subjectId"))
	if err != nil {
		return response.NewBadRequestError("Invalid ID format")
	}

	from, to, err := queryDateRange(c)
	if err != nil {
		return err
	}

	user := auth.CurrentUser(c)
	report, err := h.service.ClassAttendance(c.Request().Context(), user.ID, subjectID, from, to)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "Attendance retrieved successfully", report)
}

// StudentAttendance lists the acting student's records, with optional
// ?subjectId= and date range filters.
func (h *AcademicHandler) StudentAttendance(c echo.Context) error {
	subjectID := primitive.NilObjectID
	if hex := c.QueryParam("subjectId"); hex != "" {
		var err error
		subjectID, err = primitive.ObjectIDFromHex(hex)
		if err != nil {
			return response.NewBadRequestError("Invalid ID format")
		}
	}

	from, to, err := queryDateRange(c)
	if err != nil {
		return err
	}

	user := auth.CurrentUser(c)
	records, err := h.service.StudentAttendance(c.Request().Context(), user.ID, subjectID, from, to)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "Attendance retrieved successfully", records)
}

// StudentSummary aggregates the acting student's markings, optionally scoped
// to ?subjectId=.
func (h *AcademicHandler) StudentSummary(c echo.Context) error {
	subjectID := primitive.NilObjectID
	if hex := c.QueryParam("subjectId"); hex != "" {
		var err error
		subjectID, err = primitive.ObjectIDFromHex(hex)
		if err != nil {
			return response.NewBadRequestError("Invalid ID format")
		}
	}

	user := auth.CurrentUser(c)
	summary, err := h.service.StudentSummary(c.Request().Context(), user.ID, subjectID)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "Attendance summary retrieved successfully", summary)
}

// StudentSubjects lists the subjects the acting student is enrolled in.
func (h *AcademicHandler) StudentSubjects(c echo.Context) error {
	user := auth.CurrentUser(c)
	subjects, err := h.service.StudentSubjects(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "Subjects retrieved successfully", subjects)
}

func queryDateRange(c echo.Context) (time.Time, time.Time, error) {
	var from, to time.Time
	if value := c.QueryParam("startDate"); value != "" {
		parsed, err := ParseDate(value)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = parsed
	}
	if value := c.QueryParam("endDate"); value != "" {
		parsed, err := ParseDate(value)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = parsed
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return time.Time{}, time.Time{}, response.NewBadRequestError("startDate must not be after endDate")
	}
	return from, to, nil
}
