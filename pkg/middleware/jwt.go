package middleware

import (
	"strings"

	"CampusManager/internal/auth"
	"CampusManager/pkg/response"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContextClaimsKey is where the verified token claims are stored.
const ContextClaimsKey = "claims"

// ExtractToken pulls the access token from a request: the accessToken cookie
// wins, the Authorization bearer header is the fallback for API clients.
func ExtractToken(c echo.Context) string {
	if cookie, err := c.Cookie(auth.AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

// SessionMiddleware walks a request from token extraction through user load.
// Any failure short-circuits with 401 before the handler runs.
type SessionMiddleware struct {
	issuer *auth.TokenIssuer
	users  *auth.UserRepository
}

func NewSessionMiddleware(issuer *auth.TokenIssuer, users *auth.UserRepository) *SessionMiddleware {
	return &SessionMiddleware{issuer: issuer, users: users}
}

// Authenticate verifies the access token, loads the acting user and attaches
// both to the request context.
func (m *SessionMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := ExtractToken(c)
		if token == "" {
			return response.NewAuthError("Please log in to access this resource")
		}

		claims, err := m.issuer.ParseAccessToken(token)
		if err != nil {
			return response.NewAuthError("Invalid or expired token")
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			return response.NewAuthError("Invalid token")
		}

		user, err := m.users.FindByID(c.Request().Context(), userID)
		if err != nil {
			return err
		}
		if user == nil {
			return response.NewAuthError("User not found")
		}
		if !user.IsActive {
			return response.NewAuthError("User account is deactivated")
		}

		c.Set(auth.ContextUserKey, user)
		c.Set(ContextClaimsKey, claims)
		return next(c)
	}
}
