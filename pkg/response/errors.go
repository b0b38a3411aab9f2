package response

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// NewHTTPErrorHandler builds the single boundary handler that turns every
// error into the standard envelope. Store-level errors (duplicate key, bad
// ObjectID hex) are translated here so repositories and services do not have
// to wrap them individually. Internal detail is only exposed outside
// production when development mode is on.
func NewHTTPErrorHandler(logger *zap.Logger, development bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var apiErr *APIError
		if errors.As(err, &apiErr) {
			writeError(c, apiErr.Code, apiErr.Message, fieldErrors(apiErr.Fields))
			return
		}

		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			writeError(c, http.StatusBadRequest, "Validation failed", validationFields(verrs))
			return
		}

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			msg := http.StatusText(httpErr.Code)
			if s, ok := httpErr.Message.(string); ok {
				msg = s
			}
			writeError(c, httpErr.Code, msg, nil)
			return
		}

		if mongo.IsDuplicateKeyError(err) {
			writeError(c, http.StatusConflict, "Duplicate field value entered", nil)
			return
		}

		if errors.Is(err, primitive.ErrInvalidHex) {
			writeError(c, http.StatusBadRequest, "Invalid ID format", nil)
			return
		}

		logger.Error("unhandled error",
			zap.String("path", c.Request().URL.Path),
			zap.String("method", c.Request().Method),
			zap.Error(err))

		msg := "Internal Server Error"
		if development {
			msg = err.Error()
		}
		writeError(c, http.StatusInternalServerError, msg, nil)
	}
}

func writeError(c echo.Context, code int, message string, errs interface{}) {
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = Error(c, code, message, errs)
}

func fieldErrors(fields map[string]string) interface{} {
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func validationFields(verrs validator.ValidationErrors) map[string]string {
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[strings.ToLower(fe.Field()[:1])+fe.Field()[1:]] = validationMessage(fe)
	}
	return fields
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		return "Must be at least " + fe.Param()
	case "max":
		return "Must be at most " + fe.Param()
	case "oneof":
		return "Must be one of: " + fe.Param()
	default:
		return "Invalid value"
	}
}
