package auth

import (
	"net/http"

	"CampusManager/internal/config"
	"CampusManager/pkg/response"

	"github.com/labstack/echo/v4"
)

// ContextUserKey is where the session middleware stores the loaded *User.
const ContextUserKey = "user"

// CurrentUser returns the authenticated user attached by the session
// middleware, or nil on unauthenticated routes.
func CurrentUser(c echo.Context) *User {
	user, _ := c.Get(ContextUserKey).(*User)
	return user
}

// AuthHandler exposes the credential and token flows over HTTP.
type AuthHandler struct {
	service *AuthService
	issuer  *TokenIssuer
	secure  bool
}

func NewAuthHandler(service *AuthService, issuer *TokenIssuer, cfg *config.Config) *AuthHandler {
	return &AuthHandler{service: service, issuer: issuer, secure: cfg.IsProduction()}
}

// Login verifies credentials, sets both session cookies and returns the
// sanitized user with the token pair for non-browser clients.
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return response.NewBadRequestError("Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, profile, tokens, err := h.service.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	SetAuthCookies(c, tokens, h.issuer.AccessTTL(), h.issuer.RefreshTTL(), h.secure)

	data := map[string]interface{}{
		"user":         userPayload(user, profile),
		"accessToken":  tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
	}
	return response.Success(c, http.StatusOK, "Login successful", data)
}

// Logout clears both cookies. There is no server-side revocation.
func (h *AuthHandler) Logout(c echo.Context) error {
	ClearAuthCookies(c, h.secure)
	return response.Success(c, http.StatusOK, "Logout successful", nil)
}

// RefreshToken rotates the token pair. The refresh token is read from the
// cookie first, then from the JSON body for API clients.
func (h *AuthHandler) RefreshToken(c echo.Context) error {
	refreshToken := ""
	if cookie, err := c.Cookie(RefreshTokenCookie); err == nil {
		refreshToken = cookie.Value
	}
	if refreshToken == "" {
		var req RefreshRequest
		if err := c.Bind(&req); err == nil {
			refreshToken = req.RefreshToken
		}
	}

	tokens, err := h.service.Refresh(c.Request().Context(), refreshToken)
	if err != nil {
		return err
	}

	SetAuthCookies(c, tokens, h.issuer.AccessTTL(), h.issuer.RefreshTTL(), h.secure)
	return response.Success(c, http.StatusOK, "Tokens refreshed successfully", tokens)
}

// ChangePassword updates the password of the logged-in user.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return response.NewBadRequestError("Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.service.ChangePassword(c.Request().Context(), CurrentUser(c), req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "Password updated successfully", nil)
}

// ForgotPassword issues a reset token and mails it to the account owner.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return response.NewBadRequestError("Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.service.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "Password reset token sent", nil)
}

// ResetPassword consumes the token from the URL and sets the new password.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return response.NewBadRequestError("Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.service.ResetPassword(c.Request().Context(), c.Param("token"), req.Password); err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "Password reset successful", nil)
}

// Me returns the logged-in user and their role profile.
func (h *AuthHandler) Me(c echo.Context) error {
	user := CurrentUser(c)
	profile, err := h.service.Me(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "User data retrieved successfully", userPayload(user, profile))
}

func userPayload(user *User, profile interface{}) map[string]interface{} {
	payload := map[string]interface{}{
		"_id":       user.ID,
		"email":     user.Email,
		"role":      user.Role,
		"firstName": user.FirstName,
		"lastName":  user.LastName,
		"fullName":  FullName(user),
	}
	if user.Image != "" {
		payload["image"] = user.Image
	}
	if profile != nil {
		payload["profile"] = profile
	}
	return payload
}
