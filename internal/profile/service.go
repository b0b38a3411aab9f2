package profile

import (
	"context"
	"time"

	"CampusManager/internal/auth"
	"CampusManager/pkg/response"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ProfileService implements the role-profile flows. Account and profile
// writes that must land together run inside one store transaction.
type ProfileService struct {
	repo     *ProfileRepository
	users    *auth.UserRepository
	counters *CounterRepository
	logger   *zap.Logger
}

func NewProfileService(repo *ProfileRepository, users *auth.UserRepository, counters *CounterRepository, logger *zap.Logger) *ProfileService {
	return &ProfileService{repo: repo, users: users, counters: counters, logger: logger}
}

// ProfileForUser satisfies auth.ProfileLoader.
func (s *ProfileService) ProfileForUser(ctx context.Context, userID primitive.ObjectID, role auth.Role) (interface{}, error) {
	switch role {
	case auth.RoleStudent:
		student, err := s.repo.FindStudentByUser(ctx, userID)
		if err != nil || student == nil {
			return nil, err
		}
		return student, nil
	case auth.RoleTeacher:
		teacher, err := s.repo.FindTeacherByUser(ctx, userID)
		if err != nil || teacher == nil {
			return nil, err
		}
		return teacher, nil
	case auth.RoleAdmin:
		admin, err := s.repo.FindAdminByUser(ctx, userID)
		if err != nil || admin == nil {
			return nil, err
		}
		return admin, nil
	}
	return nil, nil
}

// CreateStudent provisions the account and profile atomically. An email
// already registered under any role is rejected; no silent re-roling.
func (s *ProfileService) CreateStudent(ctx context.Context, req CreateStudentRequest, image string) (*StudentWithUser, error) {
	email := auth.NormalizeEmail(req.Email)

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, response.NewConflictError("Email already registered")
	}

	taken, err := s.repo.FindStudentByRollNumber(ctx, req.RollNumber)
	if err != nil {
		return nil, err
	}
	if taken != nil {
		return nil, response.NewConflictError("Roll number already exists")
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	seq, err := s.counters.Next(ctx, "student")
	if err != nil {
		return nil, err
	}

	user := &auth.User{
		ID:        primitive.NewObjectID(),
		Email:     email,
		Password:  hashed,
		Role:      auth.RoleStudent,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Image:     image,
		IsActive:  true,
	}
	student := &Student{
		ID:            primitive.NewObjectID(),
		UserID:        user.ID,
		StudentID:     FormatCode("STU", seq),
		Department:    req.Department,
		Semester:      req.Semester,
		Year:          req.Year,
		RollNumber:    req.RollNumber,
		Address:       req.Address,
		ParentContact: req.ParentContact,
		AdmissionDate: time.Now(),
	}

	err = s.repo.WithTransaction(ctx, func(sc mongo.SessionContext) error {
		if err := s.repo.InsertUserTx(sc, user); err != nil {
			return err
		}
		return s.repo.InsertStudentTx(sc, student)
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, response.NewConflictError("Duplicate student registration")
		}
		return nil, err
	}

	s.logger.Info("student created", zap.String("studentId", student.StudentID), zap.String("email", email))
	return &StudentWithUser{Student: *student, User: user}, nil
}

// CreateTeacher provisions the account and profile atomically.
func (s *ProfileService) CreateTeacher(ctx context.Context, req CreateTeacherRequest, image string) (*TeacherWithUser, error) {
	email := auth.NormalizeEmail(req.Email)

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, response.NewConflictError("Email already registered")
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	seq, err := s.counters.Next(ctx, "teacher")
	if err != nil {
		return nil, err
	}

	user := &auth.User{
		ID:        primitive.NewObjectID(),
		Email:     email,
		Password:  hashed,
		Role:      auth.RoleTeacher,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Image:     image,
		IsActive:  true,
	}
	teacher := &Teacher{
		ID:            primitive.NewObjectID(),
		UserID:        user.ID,
		TeacherID:     FormatCode("TCH", seq),
		Department:    req.Department,
		Designation:   req.Designation,
		Qualification: req.Qualification,
		Experience:    req.Experience,
		JoiningDate:   time.Now(),
	}

	err = s.repo.WithTransaction(ctx, func(sc mongo.SessionContext) error {
		if err := s.repo.InsertUserTx(sc, user); err != nil {
			return err
		}
		return s.repo.InsertTeacherTx(sc, teacher)
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, response.NewConflictError("Duplicate teacher registration")
		}
		return nil, err
	}

	s.logger.Info("teacher created", zap.String("teacherId", teacher.TeacherID), zap.String("email", email))
	return &TeacherWithUser{Teacher: *teacher, User: user}, nil
}

// ListStudents returns populated students, filterable by department,
// semester and year.
func (s *ProfileService) ListStudents(ctx context.Context, department string, semester, year int) ([]*StudentWithUser, error) {
	students, err := s.repo.ListStudents(ctx, department, semester, year)
	if err != nil {
		return nil, err
	}

	users, err := s.userMap(ctx, studentUserIDs(students))
	if err != nil {
		return nil, err
	}

	populated := make([]*StudentWithUser, 0, len(students))
	for _, student := range students {
		populated = append(populated, &StudentWithUser{Student: *student, User: users[student.UserID]})
	}
	return populated, nil
}

// ListTeachers returns populated teachers, filterable by department.
func (s *ProfileService) ListTeachers(ctx context.Context, department string) ([]*TeacherWithUser, error) {
	teachers, err := s.repo.ListTeachers(ctx, department)
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(teachers))
	for _, t := range teachers {
		ids = append(ids, t.UserID)
	}
	users, err := s.userMap(ctx, ids)
	if err != nil {
		return nil, err
	}

	populated := make([]*TeacherWithUser, 0, len(teachers))
	for _, teacher := range teachers {
		populated = append(populated, &TeacherWithUser{Teacher: *teacher, User: users[teacher.UserID]})
	}
	return populated, nil
}

// UpdateStudentByAdmin applies the wider admin field set, touching the user
// record for name/contact changes.
func (s *ProfileService) UpdateStudentByAdmin(ctx context.Context, id primitive.ObjectID, req AdminUpdateStudentRequest, image string) (*StudentWithUser, error) {
	student, err := s.repo.FindStudentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, response.NewNotFoundError("Student not found")
	}

	userFields := bson.M{}
	setString(userFields, "firstName", req.FirstName)
	setString(userFields, "lastName", req.LastName)
	setString(userFields, "phone", req.Phone)
	if image != "" {
		userFields["image"] = image
	}

	studentFields := bson.M{}
	setString(studentFields, "department", req.Department)
	setInt(studentFields, "semester", req.Semester)
	setInt(studentFields, "year", req.Year)
	setString(studentFields, "address", req.Address)
	setString(studentFields, "parentContact", req.ParentContact)

	if len(userFields) == 0 && len(studentFields) == 0 {
		return nil, response.NewBadRequestError("No valid update fields provided")
	}

	if len(userFields) > 0 {
		if err := s.users.UpdateFields(ctx, student.UserID, userFields); err != nil {
			return nil, err
		}
	}
	if len(studentFields) > 0 {
		if err := s.repo.UpdateStudentFields(ctx, student.ID, studentFields); err != nil {
			return nil, err
		}
	}

	return s.populatedStudent(ctx, student.ID)
}

// UpdateTeacherByAdmin applies the wider admin field set.
func (s *ProfileService) UpdateTeacherByAdmin(ctx context.Context, id primitive.ObjectID, req AdminUpdateTeacherRequest, image string) (*TeacherWithUser, error) {
	teacher, err := s.repo.FindTeacherByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if teacher == nil {
		return nil, response.NewNotFoundError("Teacher not found")
	}

	userFields := bson.M{}
	setString(userFields, "firstName", req.FirstName)
	setString(userFields, "lastName", req.LastName)
	setString(userFields, "phone", req.Phone)
	if image != "" {
		userFields["image"] = image
	}

	teacherFields := bson.M{}
	setString(teacherFields, "department", req.Department)
	setString(teacherFields, "designation", req.Designation)
	setString(teacherFields, "qualification", req.Qualification)
	setInt(teacherFields, "experience", req.Experience)

	if len(userFields) == 0 && len(teacherFields) == 0 {
		return nil, response.NewBadRequestError("No valid update fields provided")
	}

	if len(userFields) > 0 {
		if err := s.users.UpdateFields(ctx, teacher.UserID, userFields); err != nil {
			return nil, err
		}
	}
	if len(teacherFields) > 0 {
		if err := s.repo.UpdateTeacherFields(ctx, teacher.ID, teacherFields); err != nil {
			return nil, err
		}
	}

	return s.populatedTeacher(ctx, teacher.ID)
}

// UpdateOwnStudent lets a student touch only the whitelisted fields.
func (s *ProfileService) UpdateOwnStudent(ctx context.Context, userID primitive.ObjectID, req UpdateOwnStudentRequest) (*StudentWithUser, error) {
	fields := bson.M{}
	setString(fields, "address", req.Address)
	setString(fields, "parentContact", req.ParentContact)
	if len(fields) == 0 {
		return nil, response.NewBadRequestError("No valid update fields provided")
	}

	student, err := s.repo.UpdateStudentFieldsByUser(ctx, userID, fields)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, response.NewNotFoundError("Student profile not found")
	}
	return s.populatedStudent(ctx, student.ID)
}

// UpdateOwnTeacher lets a teacher touch only the whitelisted fields.
func (s *ProfileService) UpdateOwnTeacher(ctx context.Context, userID primitive.ObjectID, req UpdateOwnTeacherRequest) (*TeacherWithUser, error) {
	fields := bson.M{}
	setString(fields, "qualification", req.Qualification)
	setInt(fields, "experience", req.Experience)
	if len(fields) == 0 {
		return nil, response.NewBadRequestError("No valid update fields provided")
	}

	teacher, err := s.repo.UpdateTeacherFieldsByUser(ctx, userID, fields)
	if err != nil {
		return nil, err
	}
	if teacher == nil {
		return nil, response.NewNotFoundError("Teacher profile not found")
	}
	return s.populatedTeacher(ctx, teacher.ID)
}

// GetStudentByUser returns the populated profile for the acting student.
func (s *ProfileService) GetStudentByUser(ctx context.Context, userID primitive.ObjectID) (*StudentWithUser, error) {
	student, err := s.repo.FindStudentByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, response.NewNotFoundError("Student profile not found")
	}
	return s.populatedStudent(ctx, student.ID)
}

// GetTeacherByUser returns the populated profile for the acting teacher.
func (s *ProfileService) GetTeacherByUser(ctx context.Context, userID primitive.ObjectID) (*TeacherWithUser, error) {
	teacher, err := s.repo.FindTeacherByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if teacher == nil {
		return nil, response.NewNotFoundError("Teacher profile not found")
	}
	return s.populatedTeacher(ctx, teacher.ID)
}

// DeleteStudent cascades to the backing user account.
func (s *ProfileService) DeleteStudent(ctx context.Context, id primitive.ObjectID) error {
	student, err := s.repo.FindStudentByID(ctx, id)
	if err != nil {
		return err
	}
	if student == nil {
		return response.NewNotFoundError("Student not found")
	}
	return s.repo.DeleteStudentCascade(ctx, student)
}

// DeleteTeacher cascades to the backing user account.
func (s *ProfileService) DeleteTeacher(ctx context.Context, id primitive.ObjectID) error {
	teacher, err := s.repo.FindTeacherByID(ctx, id)
	if err != nil {
		return err
	}
	if teacher == nil {
		return response.NewNotFoundError("Teacher not found")
	}
	return s.repo.DeleteTeacherCascade(ctx, teacher)
}

// UpdateAdminUser updates the admin's own user record (name and image only).
func (s *ProfileService) UpdateAdminUser(ctx context.Context, userID primitive.ObjectID, req UpdateAdminProfileRequest, image string) (*auth.User, error) {
	fields := bson.M{}
	setString(fields, "firstName", req.FirstName)
	setString(fields, "lastName", req.LastName)
	if image != "" {
		fields["image"] = image
	}
	if len(fields) == 0 {
		return nil, response.NewBadRequestError("No valid update fields provided")
	}

	if err := s.users.UpdateFields(ctx, userID, fields); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, userID)
}

func (s *ProfileService) populatedStudent(ctx context.Context, id primitive.ObjectID) (*StudentWithUser, error) {
	student, err := s.repo.FindStudentByID(ctx, id)
	if err != nil || student == nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, student.UserID)
	if err != nil {
		return nil, err
	}
	return &StudentWithUser{Student: *student, User: user}, nil
}

func (s *ProfileService) populatedTeacher(ctx context.Context, id primitive.ObjectID) (*TeacherWithUser, error) {
	teacher, err := s.repo.FindTeacherByID(ctx, id)
	if err != nil || teacher == nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, teacher.UserID)
	if err != nil {
		return nil, err
	}
	return &TeacherWithUser{Teacher: *teacher, User: user}, nil
}

func (s *ProfileService) userMap(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*auth.User, error) {
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]*auth.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return byID, nil
}

func studentUserIDs(students []*Student) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(students))
	for _, st := range students {
		ids = append(ids, st.UserID)
	}
	return ids
}

func setString(fields bson.M, key string, value *string) {
	if value != nil {
		fields[key] = *value
	}
}

func setInt(fields bson.M, key string, value *int) {
	if value != nil {
		fields[key] = *value
	}
}
