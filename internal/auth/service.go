package auth

import (
	"context"
	"fmt"
	"time"

	"CampusManager/internal/config"
	"CampusManager/pkg/response"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const resetTokenTTL = 10 * time.Minute

// TokenPair bundles the two session tokens handed to a client.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// ProfileLoader resolves the role-specific profile attached to a user
// account. Implemented by the profile service; an interface here keeps the
// dependency pointing outward.
type ProfileLoader interface {
	ProfileForUser(ctx context.Context, userID primitive.ObjectID, role Role) (interface{}, error)
}

// AuthService implements the credential and token flows.
type AuthService struct {
	repo     *UserRepository
	issuer   *TokenIssuer
	email    *config.EmailService
	profiles ProfileLoader
	logger   *zap.Logger
}

func NewAuthService(repo *UserRepository, issuer *TokenIssuer, email *config.EmailService, profiles ProfileLoader, logger *zap.Logger) *AuthService {
	return &AuthService{repo: repo, issuer: issuer, email: email, profiles: profiles, logger: logger}
}

// Login verifies credentials and mints a fresh token pair. Missing users,
// wrong passwords and deactivated accounts all collapse into the same 401 so
// the response does not leak which part failed.
func (s *AuthService) Login(ctx context.Context, email, password string) (*User, interface{}, *TokenPair, error) {
	user, err := s.repo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, nil, nil, err
	}
	if user == nil || !user.IsActive || !CheckPasswordHash(password, user.Password) {
		return nil, nil, nil, response.NewAuthError("Invalid credentials")
	}

	if err := s.repo.UpdateFields(ctx, user.ID, bson.M{"lastLogin": time.Now()}); err != nil {
		return nil, nil, nil, err
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, nil, err
	}

	profile, err := s.profiles.ProfileForUser(ctx, user.ID, user.Role)
	if err != nil {
		return nil, nil, nil, err
	}

	s.logger.Info("user logged in", zap.String("email", user.Email), zap.String("role", string(user.Role)))
	return user, profile, tokens, nil
}

// Refresh validates a refresh token and rotates the full pair. There is no
// revocation list; a refresh token stays valid until its natural expiry.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, response.NewAuthError("No refresh token provided")
	}

	claims, err := s.issuer.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, response.NewAuthError("Invalid refresh token")
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, response.NewAuthError("Invalid refresh token")
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, response.NewAuthError("Invalid refresh token")
	}

	return s.issueTokens(user)
}

// Me returns the current user together with their role profile.
func (s *AuthService) Me(ctx context.Context, user *User) (interface{}, error) {
	return s.profiles.ProfileForUser(ctx, user.ID, user.Role)
}

// ChangePassword re-hashes and persists after verifying the current password.
func (s *AuthService) ChangePassword(ctx context.Context, user *User, currentPassword, newPassword string) error {
	if !CheckPasswordHash(currentPassword, user.Password) {
		return response.NewAuthError("Current password is incorrect")
	}
	hashed, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.repo.UpdateFields(ctx, user.ID, bson.M{"password": hashed})
}

// ForgotPassword stores a one-way digest of a fresh random token with a
// ten-minute expiry and mails the raw token to the account email.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.repo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return err
	}
	if user == nil {
		return response.NewNotFoundError("User not found")
	}

	raw, digest, err := GenerateResetToken()
	if err != nil {
		return err
	}
	expires := time.Now().Add(resetTokenTTL)
	if err := s.repo.UpdateFields(ctx, user.ID, bson.M{
		"passwordResetToken":   digest,
		"passwordResetExpires": expires,
	}); err != nil {
		return err
	}

	body := fmt.Sprintf(
		"<p>A password reset was requested for your account.</p>"+
			"<p>Your reset token is <b>%s</b>. It expires in 10 minutes.</p>", raw)
	if err := s.email.SendEmail(user.Email, "Password Reset", body); err != nil {
		s.logger.Error("reset email delivery failed", zap.String("email", user.Email), zap.Error(err))
		return fmt.Errorf("failed to send reset password email")
	}
	return nil
}

// ResetPassword consumes a valid, unexpired reset token and sets the new
// password, clearing both reset fields in the same update.
func (s *AuthService) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	user, err := s.repo.FindByResetToken(ctx, HashResetToken(rawToken), time.Now())
	if err != nil {
		return err
	}
	if user == nil {
		return response.NewBadRequestError("Invalid or expired reset token")
	}

	hashed, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.repo.ClearResetToken(ctx, user.ID, hashed)
}

// EnsureDefaultAdmin seeds the default admin account when no admin exists.
func (s *AuthService) EnsureDefaultAdmin(ctx context.Context) error {
	count, err := s.repo.CountByRole(ctx, RoleAdmin)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := HashPassword("admin123")
	if err != nil {
		return err
	}
	admin := &User{
		ID:        primitive.NewObjectID(),
		Email:     "admin@cms.com",
		Password:  hashed,
		Role:      RoleAdmin,
		FirstName: "Campus",
		LastName:  "Administrator",
		IsActive:  true,
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		return err
	}
	s.logger.Info("default admin created", zap.String("email", admin.Email))
	return nil
}

func (s *AuthService) issueTokens(user *User) (*TokenPair, error) {
	access, err := s.issuer.GenerateAccessToken(user.ID.Hex(), user.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := s.issuer.GenerateRefreshToken(user.ID.Hex(), user.Role)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
