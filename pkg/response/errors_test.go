package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func handleError(t *testing.T, err error, development bool) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zap.NewNop(), development)(err, c)

	var envelope Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return rec, envelope
}

func TestErrorHandlerAPIError(t *testing.T) {
	rec, envelope := handleError(t, NewNotFoundError("Student not found"), false)

	if rec.Code != http.StatusNotFound {
		t.Errorf("code = %d, want 404", rec.Code)
	}
	if envelope.Status != "error" {
		t.Errorf("status = %q, want error", envelope.Status)
	}
	if envelope.Message != "Student not found" {
		t.Errorf("message = %q", envelope.Message)
	}
}

func TestErrorHandlerValidationErrors(t *testing.T) {
	type loginForm struct {
		Email    string `validate:"required,email"`
		Password string `validate:"required,min=6"`
	}
	err := validator.New().Struct(loginForm{Email: "not-an-email", Password: "x"})
	if err == nil {
		t.Fatal("expected validation failure")
	}

	rec, envelope := handleError(t, err, false)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("code = %d, want 400", rec.Code)
	}
	if envelope.Message != "Validation failed" {
		t.Errorf("message = %q", envelope.Message)
	}
	fields, ok := envelope.Errors.(map[string]interface{})
	if !ok {
		t.Fatalf("errors shape = %T", envelope.Errors)
	}
	if _, ok := fields["email"]; !ok {
		t.Error("missing email field error")
	}
	if _, ok := fields["password"]; !ok {
		t.Error("missing password field error")
	}
}

func TestErrorHandlerEchoHTTPError(t *testing.T) {
	rec, envelope := handleError(t, echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"), false)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("code = %d, want 405", rec.Code)
	}
	if envelope.Status != "error" {
		t.Errorf("status = %q", envelope.Status)
	}
}

func TestErrorHandlerHidesInternalDetail(t *testing.T) {
	rec, envelope := handleError(t, errors.New("connection refused to 10.0.0.1:27017"), false)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("code = %d, want 500", rec.Code)
	}
	if envelope.Message != "Internal Server Error" {
		t.Errorf("internal detail leaked: %q", envelope.Message)
	}
}

func TestErrorHandlerShowsDetailInDevelopment(t *testing.T) {
	_, envelope := handleError(t, errors.New("boom"), true)

	if envelope.Message != "boom" {
		t.Errorf("message = %q, want boom", envelope.Message)
	}
}

func TestSuccessEnvelope(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := Success(c, http.StatusCreated, "Created", map[string]string{"id": "1"}); err != nil {
		t.Fatalf("success: %v", err)
	}

	var envelope Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Status != "success" || envelope.Message != "Created" {
		t.Errorf("envelope = %+v", envelope)
	}
	if envelope.Errors != nil {
		t.Error("errors present on success envelope")
	}
}
