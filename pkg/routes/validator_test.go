package routes

import (
	"testing"

	"CampusManager/internal/academic"
	"CampusManager/internal/auth"
	"CampusManager/internal/notice"
)

func TestValidatorLoginRequest(t *testing.T) {
	v := NewValidator()

	valid := auth.LoginRequest{Email: "admin@cms.com", Password: "admin123"}
	if err := v.Validate(&valid); err != nil {
		t.Errorf("valid login rejected: %v", err)
	}

	if err := v.Validate(&auth.LoginRequest{Email: "not-an-email", Password: "admin123"}); err == nil {
		t.Error("bad email accepted")
	}
	if err := v.Validate(&auth.LoginRequest{Email: "admin@cms.com"}); err == nil {
		t.Error("missing password accepted")
	}
}

func TestValidatorDepartmentNoticeRequiresDepartment(t *testing.T) {
	v := NewValidator()

	missing := notice.CreateNoticeRequest{
		Title:          "Lab closed",
		Content:        "Electronics lab closed on Friday.",
		TargetAudience: notice.AudienceDepartment,
	}
	if err := v.Validate(&missing); err == nil {
		t.Error("DEPARTMENT notice without department accepted")
	}

	missing.Department = "Electronics"
	if err := v.Validate(&missing); err != nil {
		t.Errorf("valid department notice rejected: %v", err)
	}

	broadcast := notice.CreateNoticeRequest{
		Title:          "Holiday",
		Content:        "Campus closed.",
		TargetAudience: notice.AudienceAll,
	}
	if err := v.Validate(&broadcast); err != nil {
		t.Errorf("ALL notice without department rejected: %v", err)
	}
}

func TestValidatorNoticeAudienceEnum(t *testing.T) {
	v := NewValidator()

	req := notice.CreateNoticeRequest{
		Title:          "x",
		Content:        "y",
		TargetAudience: "EVERYONE",
	}
	if err := v.Validate(&req); err == nil {
		t.Error("unknown audience accepted")
	}
}

func TestValidatorMarkAttendanceRequest(t *testing.T) {
	v := NewValidator()

	valid := academic.MarkAttendanceRequest{
		SubjectID: "507f1f77bcf86cd799439011",
		Date:      "2025-03-17",
		Records: []academic.AttendanceEntry{
			{StudentID: "507f1f77bcf86cd799439012", Status: academic.StatusPresent},
		},
	}
	if err := v.Validate(&valid); err != nil {
		t.Errorf("valid submission rejected: %v", err)
	}

	empty := valid
	empty.Records = nil
	if err := v.Validate(&empty); err == nil {
		t.Error("empty record list accepted")
	}

	badStatus := valid
	badStatus.Records = []academic.AttendanceEntry{
		{StudentID: "507f1f77bcf86cd799439012", Status: "EXCUSED"},
	}
	if err := v.Validate(&badStatus); err == nil {
		t.Error("unknown status accepted")
	}

	badID := valid
	badID.SubjectID = "short"
	if err := v.Validate(&badID); err == nil {
		t.Error("malformed subject id accepted")
	}
}
