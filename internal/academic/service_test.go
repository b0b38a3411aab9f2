package academic

import (
	"context"
	"errors"
	"testing"

	"CampusManager/internal/profile"
	"CampusManager/pkg/response"

	"go.uber.org/zap"
)

// The repositories carry no live collections here; any store access panics.
// That property is what these tests lean on: request-level failures must
// surface before the first write.
func emptyService() *AcademicService {
	return NewAcademicService(&AcademicRepository{}, &profile.ProfileRepository{}, nil, zap.NewNop())
}

func TestCreateSubjectRejectsBadTeacherBeforeInsert(t *testing.T) {
	svc := emptyService()

	req := CreateSubjectRequest{
		Name:       "Signals",
		Code:       "EE201",
		Department: "Electronics",
		Semester:   3,
		Credits:    4,
		TeacherID:  "zzzzzzzzzzzzzzzzzzzzzzzz", // 24 chars, not hex
	}

	_, err := svc.CreateSubject(context.Background(), req)
	if err == nil {
		t.Fatal("malformed teacher reference accepted")
	}

	var apiErr *response.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T", err)
	}
	if apiErr.Code != 400 {
		t.Errorf("code = %d, want 400", apiErr.Code)
	}
}
