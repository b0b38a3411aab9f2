package academic

import (
	"context"
	"time"

	"CampusManager/internal/auth"
	"CampusManager/internal/profile"
	"CampusManager/pkg/response"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// DateLayout is the wire format for attendance dates. Parsed dates are
// day-granular; the time component is always midnight UTC.
const DateLayout = "2006-01-02"

// AcademicService implements subject management, enrollment and attendance.
type AcademicService struct {
	repo     *AcademicRepository
	profiles *profile.ProfileRepository
	users    *auth.UserRepository
	logger   *zap.Logger
}

func NewAcademicService(repo *AcademicRepository, profiles *profile.ProfileRepository, users *auth.UserRepository, logger *zap.Logger) *AcademicService {
	return &AcademicService{repo: repo, profiles: profiles, users: users, logger: logger}
}

// ParseDate parses a day-granular wire date.
func ParseDate(value string) (time.Time, error) {
	day, err := time.ParseInLocation(DateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, response.NewBadRequestError("Invalid date format, expected YYYY-MM-DD")
	}
	return day, nil
}

// CreateSubject rejects duplicate codes before insert; the unique index backs
// this up against races. The teacher reference is resolved up front so a bad
// assignment never leaves a half-created subject behind.
func (s *AcademicService) CreateSubject(ctx context.Context, req CreateSubjectRequest) (*Subject, error) {
	teacherID := primitive.NilObjectID
	if req.TeacherID != "" {
		var err error
		teacherID, err = s.resolveTeacherID(ctx, req.TeacherID)
		if err != nil {
			return nil, err
		}
	}

	existing, err := s.repo.FindSubjectByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, response.NewConflictError("Subject code already exists")
	}

	subject := &Subject{
		ID:          primitive.NewObjectID(),
		Name:        req.Name,
		Code:        req.Code,
		Department:  req.Department,
		Semester:    req.Semester,
		Credits:     req.Credits,
		Description: req.Description,
		Schedule:    req.Schedule,
		IsActive:    true,
	}

	for _, hex := range req.Prerequisites {
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			return nil, response.NewBadRequestError("Invalid prerequisite ID")
		}
		subject.Prerequisites = append(subject.Prerequisites, id)
	}

	if err := s.repo.InsertSubject(ctx, subject); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, response.NewConflictError("Subject code already exists")
		}
		return nil, err
	}

	if !teacherID.IsZero() {
		if err := s.repo.ReassignTeacher(ctx, subject.ID, primitive.NilObjectID, teacherID); err != nil {
			return nil, err
		}
		subject.TeacherID = teacherID
	}

	s.logger.Info("subject created", zap.String("code", subject.Code))
	return subject, nil
}

// ListSubjects filters by department and semester.
func (s *AcademicService) ListSubjects(ctx context.Context, department string, semester int) ([]*Subject, error) {
	return s.repo.ListSubjects(ctx, department, semester)
}

// UpdateSubject applies the admin-side subject update, handling teacher
// reassignment via the enrolled set on both teacher records.
func (s *AcademicService) UpdateSubject(ctx context.Context, id primitive.ObjectID, req UpdateSubjectRequest) (*Subject, error) {
	subject, err := s.repo.FindSubjectByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if subject == nil {
		return nil, response.NewNotFoundError("Subject not found")
	}

	fields := bson.M{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Code != nil && *req.Code != subject.Code {
		taken, err := s.repo.FindSubjectByCode(ctx, *req.Code)
		if err != nil {
			return nil, err
		}
		if taken != nil {
			return nil, response.NewConflictError("Subject code already exists")
		}
		fields["code"] = *req.Code
	}
	if req.Department != nil {
		fields["department"] = *req.Department
	}
	if req.Semester != nil {
		fields["semester"] = *req.Semester
	}
	if req.Credits != nil {
		fields["credits"] = *req.Credits
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Schedule != nil {
		fields["schedule"] = *req.Schedule
	}
	if req.IsActive != nil {
		fields["isActive"] = *req.IsActive
	}

	if req.TeacherID == nil && len(fields) == 0 {
		return nil, response.NewBadRequestError("No valid update fields provided")
	}

	if len(fields) > 0 {
		if err := s.repo.UpdateSubjectFields(ctx, subject.ID, fields); err != nil {
			return nil, err
		}
	}

	if req.TeacherID != nil {
		newTeacher := primitive.NilObjectID
		if *req.TeacherID != "" {
			newTeacher, err = s.resolveTeacherID(ctx, *req.TeacherID)
			if err != nil {
				return nil, err
			}
		}
		if newTeacher != subject.TeacherID {
			if err := s.repo.ReassignTeacher(ctx, subject.ID, subject.TeacherID, newTeacher); err != nil {
				return nil, err
			}
		}
	}

	return s.repo.FindSubjectByID(ctx, subject.ID)
}

// DeleteSubject removes the subject, its attendance history and the teacher
// reference.
func (s *AcademicService) DeleteSubject(ctx context.Context, id primitive.ObjectID) error {
	subject, err := s.repo.FindSubjectByID(ctx, id)
	if err != nil {
		return err
	}
	if subject == nil {
		return response.NewNotFoundError("Subject not found")
	}
	return s.repo.DeleteSubjectCascade(ctx, subject)
}

// EnrollStudent is idempotent; the bool reports whether the set changed.
func (s *AcademicService) EnrollStudent(ctx context.Context, subjectID primitive.ObjectID, studentHex string) (bool, error) {
	studentID, err := primitive.ObjectIDFromHex(studentHex)
	if err != nil {
		return false, response.NewBadRequestError("Invalid ID format")
	}

	subject, err := s.repo.FindSubjectByID(ctx, subjectID)
	if err != nil {
		return false, err
	}
	if subject == nil {
		return false, response.NewNotFoundError("Subject not found")
	}

	student, err := s.profiles.FindStudentByID(ctx, studentID)
	if err != nil {
		return false, err
	}
	if student == nil {
		return false, response.NewNotFoundError("Student not found")
	}

	return s.repo.EnrollStudent(ctx, subjectID, studentID)
}

// RemoveStudent is idempotent; the bool reports whether the set changed.
func (s *AcademicService) RemoveStudent(ctx context.Context, subjectID primitive.ObjectID, studentHex string) (bool, error) {
	studentID, err := primitive.ObjectIDFromHex(studentHex)
	if err != nil {
		return false, response.NewBadRequestError("Invalid ID format")
	}

	subject, err := s.repo.FindSubjectByID(ctx, subjectID)
	if err != nil {
		return false, err
	}
	if subject == nil {
		return false, response.NewNotFoundError("Subject not found")
	}

	return s.repo.RemoveStudent(ctx, subjectID, studentID)
}

// TeacherSubjects lists the subjects taught by the acting teacher.
func (s *AcademicService) TeacherSubjects(ctx context.Context, teacherUserID primitive.ObjectID) ([]*Subject, error) {
	teacher, err := s.requireTeacher(ctx, teacherUserID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListSubjectsByTeacher(ctx, teacher.ID)
}

// SubjectStudents returns the populated enrollment roster of a subject taught
// by the acting teacher.
func (s *AcademicService) SubjectStudents(ctx context.Context, teacherUserID, subjectID primitive.ObjectID) ([]*profile.StudentWithUser, error) {
	teacher, err := s.requireTeacher(ctx, teacherUserID)
	if err != nil {
		return nil, err
	}
	subject, err := s.ownedSubject(ctx, teacher, subjectID)
	if err != nil {
		return nil, err
	}

	students, err := s.repo.FindStudentsByIDs(ctx, subject.EnrolledStudents)
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(students))
	for _, st := range students {
		ids = append(ids, st.UserID)
	}
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]*auth.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	roster := make([]*profile.StudentWithUser, 0, len(students))
	for _, st := range students {
		roster = append(roster, &profile.StudentWithUser{Student: *st, User: byID[st.UserID]})
	}
	return roster, nil
}

// MarkAttendance upserts one class session's markings. Only the teacher of
// record may submit; resubmitting a date overwrites that date's markings.
func (s *AcademicService) MarkAttendance(ctx context.Context, teacherUserID primitive.ObjectID, req MarkAttendanceRequest) (int, error) {
	teacher, err := s.requireTeacher(ctx, teacherUserID)
	if err != nil {
		return 0, err
	}

	subjectID, err := primitive.ObjectIDFromHex(req.SubjectID)
	if err != nil {
		return 0, response.NewBadRequestError("Invalid ID format")
	}
	subject, err := s.ownedSubject(ctx, teacher, subjectID)
	if err != nil {
		return 0, err
	}

	day, err := ParseDate(req.Date)
	if err != nil {
		return 0, err
	}

	records := make([]*Attendance, 0, len(req.Records))
	for _, entry := range req.Records {
		studentID, err := primitive.ObjectIDFromHex(entry.StudentID)
		if err != nil {
			return 0, response.NewBadRequestError("Invalid ID format")
		}
		records = append(records, &Attendance{
			StudentID:      studentID,
			SubjectID:      subject.ID,
			TeacherID:      teacher.ID,
			Date:           day,
			Status:         entry.Status,
			Remarks:        entry.Remarks,
			LastModifiedBy: teacherUserID,
		})
	}

	if err := s.repo.UpsertAttendanceBatch(ctx, records); err != nil {
		return 0, err
	}

	s.logger.Info("attendance marked",
		zap.String("subject", subject.Code),
		zap.String("date", req.Date),
		zap.Int("records", len(records)))
	return len(records), nil
}

// UpdateAttendance corrects one marking. Only the recording teacher may; a
// foreign record reads as not found.
func (s *AcademicService) UpdateAttendance(ctx context.Context, teacherUserID, id primitive.ObjectID, req UpdateAttendanceRequest) (*Attendance, error) {
	teacher, err := s.requireTeacher(ctx, teacherUserID)
	if err != nil {
		return nil, err
	}

	record, err := s.repo.FindAttendanceByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil || record.TeacherID != teacher.ID {
		return nil, response.NewNotFoundError("Attendance record not found")
	}

	fields := bson.M{
		"status":         req.Status,
		"lastModifiedBy": teacherUserID,
	}
	if req.Remarks != nil {
		fields["remarks"] = *req.Remarks
	}
	return s.repo.UpdateAttendanceFields(ctx, record.ID, fields)
}

// ClassReport is the teacher-facing attendance view for one subject.
type ClassReport struct {
	Records []*Attendance                `json:"records"`
	Totals  map[string]AttendanceSummary `json:"totals"` // keyed by student hex id
}

// ClassAttendance returns the records and per-student summaries for one of
// the acting teacher's subjects.
func (s *AcademicService) ClassAttendance(ctx context.Context, teacherUserID, subjectID primitive.ObjectID, from, to time.Time) (*ClassReport, error) {
	teacher, err := s.requireTeacher(ctx, teacherUserID)
	if err != nil {
		return nil, err
	}
	subject, err := s.ownedSubject(ctx, teacher, subjectID)
	if err != nil {
		return nil, err
	}

	records, err := s.repo.ListAttendance(ctx, subject.ID, primitive.NilObjectID, from, to)
	if err != nil {
		return nil, err
	}

	grouped, err := s.repo.CountByStudentAndStatus(ctx, subject.ID, from, to)
	if err != nil {
		return nil, err
	}
	totals := make(map[string]AttendanceSummary, len(grouped))
	for studentID, counts := range grouped {
		totals[studentID.Hex()] = ComputeSummary(counts)
	}

	if records == nil {
		records = []*Attendance{}
	}
	return &ClassReport{Records: records, Totals: totals}, nil
}

// StudentAttendance lists the acting student's records, optionally scoped to
// one subject and a date range.
func (s *AcademicService) StudentAttendance(ctx context.Context, studentUserID, subjectID primitive.ObjectID, from, to time.Time) ([]*Attendance, error) {
	student, err := s.requireStudent(ctx, studentUserID)
	if err != nil {
		return nil, err
	}
	records, err := s.repo.ListAttendance(ctx, subjectID, student.ID, from, to)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []*Attendance{}
	}
	return records, nil
}

// StudentSummary aggregates the acting student's markings.
func (s *AcademicService) StudentSummary(ctx context.Context, studentUserID, subjectID primitive.ObjectID) (AttendanceSummary, error) {
	student, err := s.requireStudent(ctx, studentUserID)
	if err != nil {
		return AttendanceSummary{}, err
	}
	counts, err := s.repo.CountByStatus(ctx, student.ID, subjectID)
	if err != nil {
		return AttendanceSummary{}, err
	}
	return ComputeSummary(counts), nil
}

// StudentSubjects lists the subjects the acting student is enrolled in.
func (s *AcademicService) StudentSubjects(ctx context.Context, studentUserID primitive.ObjectID) ([]*Subject, error) {
	student, err := s.requireStudent(ctx, studentUserID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListSubjectsByStudent(ctx, student.ID)
}

func (s *AcademicService) requireTeacher(ctx context.Context, userID primitive.ObjectID) (*profile.Teacher, error) {
	teacher, err := s.profiles.FindTeacherByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if teacher == nil {
		return nil, response.NewNotFoundError("Teacher profile not found")
	}
	return teacher, nil
}

func (s *AcademicService) requireStudent(ctx context.Context, userID primitive.ObjectID) (*profile.Student, error) {
	student, err := s.profiles.FindStudentByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, response.NewNotFoundError("Student profile not found")
	}
	return student, nil
}

// ownedSubject loads a subject only if the teacher is its teacher of record;
// existence is not revealed otherwise.
func (s *AcademicService) ownedSubject(ctx context.Context, teacher *profile.Teacher, subjectID primitive.ObjectID) (*Subject, error) {
	subject, err := s.repo.FindSubjectByID(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	if subject == nil || subject.TeacherID != teacher.ID {
		return nil, response.NewNotFoundError("Subject not found or unauthorized")
	}
	return subject, nil
}

func (s *AcademicService) resolveTeacherID(ctx context.Context, hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, response.NewBadRequestError("Invalid ID format")
	}
	teacher, err := s.profiles.FindTeacherByID(ctx, id)
	if err != nil {
		return primitive.NilObjectID, err
	}
	if teacher == nil {
		return primitive.NilObjectID, response.NewNotFoundError("Teacher not found")
	}
	return teacher.ID, nil
}
