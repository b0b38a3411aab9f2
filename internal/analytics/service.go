package analytics

import (
	"context"
	"time"

	"CampusManager/pkg/response"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const dateLayout = "2006-01-02"

// AnalyticsService assembles the admin dashboard and attendance reports.
type AnalyticsService struct {
	repo *AnalyticsRepository
}

func NewAnalyticsService(repo *AnalyticsRepository) *AnalyticsService {
	return &AnalyticsService{repo: repo}
}

// Dashboard gathers the headline counts and the per-department split.
func (s *AnalyticsService) Dashboard(ctx context.Context) (*DashboardReport, error) {
	students, err := s.repo.CountStudents(ctx)
	if err != nil {
		return nil, err
	}
	teachers, err := s.repo.CountTeachers(ctx)
	if err != nil {
		return nil, err
	}
	notices, err := s.repo.CountActiveNotices(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	byDepartment, err := s.repo.StudentsByDepartment(ctx)
	if err != nil {
		return nil, err
	}
	if byDepartment == nil {
		byDepartment = []DepartmentCount{}
	}

	return &DashboardReport{
		Students:      students,
		Teachers:      teachers,
		ActiveNotices: notices,
		Departments:   len(byDepartment),
		ByDepartment:  byDepartment,
	}, nil
}

// ValidateRange parses and orders the report bounds. The end bound is pushed
// to the last instant of its day so day-granular records on the end date are
// included.
func ValidateRange(startDate, endDate string) (time.Time, time.Time, error) {
	if startDate == "" || endDate == "" {
		return time.Time{}, time.Time{}, response.NewBadRequestError("startDate and endDate are required")
	}
	from, err := time.ParseInLocation(dateLayout, startDate, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, response.NewBadRequestError("Invalid date format, expected YYYY-MM-DD")
	}
	to, err := time.ParseInLocation(dateLayout, endDate, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, response.NewBadRequestError("Invalid date format, expected YYYY-MM-DD")
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, response.NewBadRequestError("startDate must not be after endDate")
	}
	return from, to.Add(24*time.Hour - time.Nanosecond), nil
}

// AttendanceReport builds the overall and per-day breakdowns over the range,
// optionally scoped to one department's students.
func (s *AnalyticsService) AttendanceReport(ctx context.Context, startDate, endDate, department string) (*AttendanceReport, error) {
	from, to, err := ValidateRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	var studentIDs []primitive.ObjectID
	if department != "" {
		studentIDs, err = s.repo.StudentIDsByDepartment(ctx, department)
		if err != nil {
			return nil, err
		}
		if studentIDs == nil {
			studentIDs = []primitive.ObjectID{}
		}
	}

	overall, err := s.repo.AttendanceByStatus(ctx, from, to, studentIDs)
	if err != nil {
		return nil, err
	}
	daily, err := s.repo.AttendanceByDay(ctx, from, to, studentIDs)
	if err != nil {
		return nil, err
	}
	if daily == nil {
		daily = []DailyBreakdown{}
	}

	return &AttendanceReport{
		StartDate: startDate,
		EndDate:   endDate,
		Overall:   overall,
		Daily:     daily,
	}, nil
}
