package profile

import (
	"net/http"
	"strconv"

	"CampusManager/internal/auth"
	"CampusManager/internal/upload"
	"CampusManager/pkg/response"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProfileHandler exposes the admin-side student/teacher management and the
// self-service profile routes.
type ProfileHandler struct {
	service *ProfileService
	uploads *upload.Store
}

func NewProfileHandler(service *ProfileService, uploads *upload.Store) *ProfileHandler {
	return &ProfileHandler{service: service, uploads: uploads}
}

// CreateStudent accepts multipart form data with an optional profile image.
func (h *ProfileHandler) CreateStudent(c echo.Context) error {
	var req CreateStudentRequest
	if err := c.Bind(&req); err != nil {
		return response.NewBadRequestError("Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	image, err := h.uploads.SaveImage(c, "image")
	if err != nil {
		return err
	}

	student, err := h.service.CreateStudent(c.Request().Context(), req, imagePath(image))
	if err != nil {
		if image != nil {
			h.uploads.Delete(image.Path)
		}
		return err
	}
	return response.Success(c, http.StatusCreated, "Student created successfully", student)
}

// CreateTeacher accepts multipart form data with an optional profile image.
func (h *ProfileHandler) CreateTeacher(c echo.Context) error {
	var req CreateTeacherRequest
	if err := c.Bind(&req); err != nil {
		return response.NewBadRequestError("Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	image, err := h.uploads.SaveImage(c, "image")
	if err != nil {
		return err
	}

	teacher, err := h.service.CreateTeacher(c.Request().Context(), req, imagePath(image))
	if err != nil {
		if image != nil {
			h.uploads.Delete(image.Path)
		}
		return err
	}
	return response.Success(c, http.StatusCreated, "Teacher created successfully", teacher)
}

// ListStudents supports department, semester and year query filters.
func (h *ProfileHandler) ListStudents(c echo.Context) error {
	semester, _ := strconv.Atoi(c.QueryParam("semester"))
	year, _ := strconv.Atoi(c.QueryParam("year"))

	students, err := h.service.ListStudents(c.Request().Context(), c.QueryParam("department"), semester, year)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "Students retrieved successfully", students)
}

// ListTeachers supports a department query filter.
func (h *ProfileHandler) ListTeachers(c echo.Context) error {
	teachers, err := h.service.ListTeachers(c.Request().Context(), c.QueryParam("department"))
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "Teachers retrieved successfully", teachers)
}

// UpdateStudent is the admin-side update with the wider field set.
func (h *ProfileHandler) UpdateStudent(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return response.NewBadRequestError("Invalid ID format")
	}

	var req AdminUpdateStudentRequest
	if err := c.Bind(&req); err != nil {
		return response.NewBadRequestError("Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	image, err := h.uploads.SaveImage(c, "image")
	if err != nil {
		return err
	}

	student, err := h.service.UpdateStudentByAdmin(c.Request().Context(), id, req, imagePath(image))
	if err != nil {
		if image != nil {
			h.uploads.Delete(image.Path)
		}
		return err
	}
	return response.Success(c, http.StatusOK, "Student updated successfully", student)
}

// UpdateTeacher is the admin-side update with the wider field set.
func (h *ProfileHandler) UpdateTeacher(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return response.NewBadRequestError("Invalid ID format")
	}

	var req AdminUpdateTeacherRequest
	if err := c.Bind(&req); err != nil {
		return response.NewBadRequestError("Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	image, err := h.uploads.SaveImage(c, "image")
	if err != nil {
		return err
	}

	teacher, err := h.service.UpdateTeacherByAdmin(c.Request().Context(), id, req, imagePath(image))
	if err != nil {
		if image != nil {
			h.uploads.Delete(image.Path)
		}
		return err
	}
	return response.Success(c, http.StatusOK, "Teacher updated successfully", teacher)
}

// DeleteStudent removes the student profile and its user account.
func (h *ProfileHandler) DeleteStudent(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return response.NewBadRequestError("Invalid ID format")
	}

	if err := h.service.DeleteStudent(c.Request().Context(), id); err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "Student deleted successfully", nil)
}

// DeleteTeacher removes the teacher profile and its user account.
func (h *ProfileHandler) DeleteTeacher(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return response.NewBadRequestError("Invalid ID format")
	}

	if err := h.service.DeleteTeacher(c.Request().Context(), id); err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "Teacher deleted successfully", nil)
}

// GetOwnStudentProfile serves the logged-in student their populated profile.
func (h *ProfileHandler) GetOwnStudentProfile(c echo.Context) error {
	user := auth.CurrentUser(c)
	student, err := h.service.GetStudentByUser(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "Profile retrieved successfully", student)
}

// UpdateOwnStudentProfile restricts students to their whitelisted fields.
func (h *ProfileHandler) UpdateOwnStudentProfile(c echo.Context) error {
	var req UpdateOwnStudentRequest
	if err := c.Bind(&req); err != nil {
		return response.NewBadRequestError("Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user := auth.CurrentUser(c)
	student, err := h.service.UpdateOwnStudent(c.Request().Context(), user.ID, req)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "Profile updated successfully", student)
}

// GetOwnTeacherProfile serves the logged-in teacher their populated profile.
func (h *ProfileHandler) GetOwnTeacherProfile(c echo.Context) error {
	user := auth.CurrentUser(c)
	teacher, err := h.service.GetTeacherByUser(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "Profile retrieved successfully", teacher)
}

// UpdateOwnTeacherProfile restricts teachers to their whitelisted fields.
func (h *ProfileHandler) UpdateOwnTeacherProfile(c echo.Context) error {
	var req UpdateOwnTeacherRequest
	if err := c.Bind(&req); err != nil {
		return response.NewBadRequestError("Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user := auth.CurrentUser(c)
	teacher, err := h.service.UpdateOwnTeacher(c.Request().Context(), user.ID, req)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "Profile updated successfully", teacher)
}

// GetAdminProfile serves the logged-in admin their account and admin record.
func (h *ProfileHandler) GetAdminProfile(c echo.Context) error {
	user := auth.CurrentUser(c)
	admin, err := h.service.ProfileForUser(c.Request().Context(), user.ID, auth.RoleAdmin)
	if err != nil {
		return err
	}

	data := map[string]interface{}{"user": user}
	if admin != nil {
		data["admin"] = admin
	}
	return response.Success(c, http.StatusOK, "Profile retrieved successfully", data)
}

// UpdateAdminProfile lets an admin change their own name and image.
func (h *ProfileHandler) UpdateAdminProfile(c echo.Context) error {
	var req UpdateAdminProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.NewBadRequestError("Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	image, err := h.uploads.SaveImage(c, "image")
	if err != nil {
		return err
	}

	user := auth.CurrentUser(c)
	updated, err := h.service.UpdateAdminUser(c.Request().Context(), user.ID, req, imagePath(image))
	if err != nil {
		if image != nil {
			h.uploads.Delete(image.Path)
		}
		return err
	}
	return response.Success(c, http.StatusOK, "Profile updated successfully", updated)
}

func imagePath(file *upload.SavedFile) string {
	if file == nil {
		return ""
	}
	return file.Path
}
