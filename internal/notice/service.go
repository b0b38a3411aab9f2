package notice

import (
	"context"
	"time"

	"CampusManager/internal/auth"
	"CampusManager/internal/profile"
	"CampusManager/internal/upload"
	"CampusManager/pkg/response"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// NoticeService implements notice publishing, targeting and the attachment
// lifecycle. Files on disk follow the notice document: replaced attachments
// and deleted notices never leave orphans behind.
type NoticeService struct {
	repo     *NoticeRepository
	profiles *profile.ProfileRepository
	uploads  *upload.Store
	logger   *zap.Logger
}

func NewNoticeService(repo *NoticeRepository, profiles *profile.ProfileRepository, uploads *upload.Store, logger *zap.Logger) *NoticeService {
	return &NoticeService{repo: repo, profiles: profiles, uploads: uploads, logger: logger}
}

// CreateNotice publishes a notice on behalf of the acting admin.
func (s *NoticeService) CreateNotice(ctx context.Context, createdBy primitive.ObjectID, req CreateNoticeRequest, attachments []upload.SavedFile) (*Notice, error) {
	if req.TargetAudience == AudienceDepartment && req.Department == "" {
		return nil, response.NewValidationError("Department is required for department notices", nil)
	}

	expiry, err := parseExpiry(req.ExpiryDate)
	if err != nil {
		return nil, err
	}

	priority := req.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	notice := &Notice{
		ID:             primitive.NewObjectID(),
		Title:          req.Title,
		Content:        req.Content,
		CreatedBy:      createdBy,
		TargetAudience: req.TargetAudience,
		Department:     req.Department,
		Priority:       priority,
		Attachments:    attachments,
		IsActive:       true,
		ExpiryDate:     expiry,
	}
	if err := s.repo.Insert(ctx, notice); err != nil {
		return nil, err
	}

	s.logger.Info("notice created",
		zap.String("title", notice.Title),
		zap.String("audience", string(notice.TargetAudience)))
	return notice, nil
}

// ListNotices returns every notice for the admin view.
func (s *NoticeService) ListNotices(ctx context.Context) ([]*Notice, error) {
	notices, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if notices == nil {
		notices = []*Notice{}
	}
	return notices, nil
}

// UpdateNotice edits a notice. New attachments replace the old set; the
// superseded files are deleted only after the update lands.
func (s *NoticeService) UpdateNotice(ctx context.Context, id primitive.ObjectID, req UpdateNoticeRequest, attachments []upload.SavedFile) (*Notice, error) {
	notice, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if notice == nil {
		return nil, response.NewNotFoundError("Notice not found")
	}

	audience := notice.TargetAudience
	if req.TargetAudience != nil {
		audience = *req.TargetAudience
	}
	department := notice.Department
	if req.Department != nil {
		department = *req.Department
	}
	if audience == AudienceDepartment && department == "" {
		return nil, response.NewValidationError("Department is required for department notices", nil)
	}

	fields := bson.M{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Content != nil {
		fields["content"] = *req.Content
	}
	if req.TargetAudience != nil {
		fields["targetAudience"] = *req.TargetAudience
	}
	if req.Department != nil {
		fields["department"] = *req.Department
	}
	if req.Priority != nil {
		fields["priority"] = *req.Priority
	}
	if req.IsActive != nil {
		fields["isActive"] = *req.IsActive
	}
	if req.ExpiryDate != nil {
		expiry, err := parseExpiry(*req.ExpiryDate)
		if err != nil {
			return nil, err
		}
		fields["expiryDate"] = expiry
	}
	if len(attachments) > 0 {
		fields["attachments"] = attachments
	}

	if len(fields) == 0 {
		return nil, response.NewBadRequestError("No valid update fields provided")
	}

	updated, err := s.repo.UpdateFields(ctx, notice.ID, fields)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, response.NewNotFoundError("Notice not found")
	}

	if len(attachments) > 0 {
		for _, old := range notice.Attachments {
			s.uploads.Delete(old.Path)
		}
	}
	return updated, nil
}

// DeleteNotice removes the notice and every attachment file.
func (s *NoticeService) DeleteNotice(ctx context.Context, id primitive.ObjectID) error {
	notice, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if notice == nil {
		return response.NewNotFoundError("Notice not found")
	}

	if err := s.repo.Delete(ctx, notice.ID); err != nil {
		return err
	}
	for _, attachment := range notice.Attachments {
		s.uploads.Delete(attachment.Path)
	}
	return nil
}

// VisibleNotices returns the notices the acting user may see: ALL, their
// role's audience, and their department's DEPARTMENT notices.
func (s *NoticeService) VisibleNotices(ctx context.Context, user *auth.User) ([]*Notice, error) {
	var audience Audience
	department := ""

	switch user.Role {
	case auth.RoleStudent:
		audience = AudienceStudents
		student, err := s.profiles.FindStudentByUser(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		if student != nil {
			department = student.Department
		}
	case auth.RoleTeacher:
		audience = AudienceTeachers
		teacher, err := s.profiles.FindTeacherByUser(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		if teacher != nil {
			department = teacher.Department
		}
	default:
		return nil, response.NewForbiddenError("Access denied")
	}

	notices, err := s.repo.ListVisible(ctx, audience, department, time.Now())
	if err != nil {
		return nil, err
	}
	if notices == nil {
		notices = []*Notice{}
	}
	return notices, nil
}

// MarkViewed records that the user opened the notice, at most once per user.
func (s *NoticeService) MarkViewed(ctx context.Context, id, userID primitive.ObjectID) error {
	notice, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if notice == nil {
		return response.NewNotFoundError("Notice not found")
	}
	return s.repo.MarkViewed(ctx, notice.ID, userID)
}

func parseExpiry(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return &parsed, nil
		}
	}
	return nil, response.NewBadRequestError("Invalid expiry date format")
}
