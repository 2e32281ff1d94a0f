package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/flintchat/flint/internal/model"
	"github.com/flintchat/flint/pkg/auth"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

// PresencePublisher publishes the online/offline transitions the session
// gate owns: online on login, offline before teardown on logout.
type PresencePublisher interface {
	SetOnline(userID uuid.UUID) error
	SetOffline(userID uuid.UUID) error
}

// AuthService is the session/identity gate. A failed credential operation
// surfaces one user-visible error and never partially authenticates.
type AuthService struct {
	users      UserStore
	jwtManager *auth.JWTManager
	presence   PresencePublisher
	rdb        *redis.Client
}

func NewAuthService(users UserStore, jwtManager *auth.JWTManager, presence PresencePublisher, rdb *redis.Client) *AuthService {
	return &AuthService{
		users:      users,
		jwtManager: jwtManager,
		presence:   presence,
		rdb:        rdb,
	}
}

// Register creates a new identity with empty friend, request and block
// sets, and signs the user in.
func (s *AuthService) Register(req model.RegisterRequest) (*model.LoginResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, model.ErrValidation
	}

	if _, err := s.users.FindByEmail(req.Email); err == nil {
		return nil, model.ErrUserExists
	} else if !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}
	if _, err := s.users.FindByUsername(username); err == nil {
		return nil, model.ErrUserExists
	} else if !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username: username,
		Email:    req.Email,
		Password: string(hashedPassword),
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	return s.issueSession(user)
}

// Login authenticates by email/password and publishes online presence
func (s *AuthService) Login(req model.LoginRequest) (*model.LoginResponse, error) {
	user, err := s.users.FindByEmail(req.Email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.ErrAuth
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, model.ErrAuth
	}

	return s.issueSession(user)
}

// Logout publishes offline presence first, then revokes the token for its
// remaining lifetime.
func (s *AuthService) Logout(userID uuid.UUID, tokenString string) error {
	if s.presence != nil {
		if err := s.presence.SetOffline(userID); err != nil {
			return err
		}
	}

	claims, err := s.jwtManager.ValidateToken(tokenString)
	if err != nil {
		return err
	}
	expiresIn := time.Until(claims.ExpiresAt.Time)
	if expiresIn <= 0 {
		return nil
	}
	return s.rdb.Set(context.Background(), "blacklist:"+tokenString, "revoked", expiresIn).Err()
}

// ChangePassword reauthenticates with the current password before setting
// the new one.
func (s *AuthService) ChangePassword(userID uuid.UUID, req model.ChangePasswordRequest) error {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return model.ErrAuth
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(userID, string(hashedPassword))
}

// GetProfile returns the current user's profile
func (s *AuthService) GetProfile(userID uuid.UUID) (*model.UserResponse, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, err
	}
	resp := user.ToResponse()
	return &resp, nil
}

// UpdateProfile updates the user's display name and/or avatar
func (s *AuthService) UpdateProfile(userID uuid.UUID, req model.UpdateProfileRequest) (*model.UserResponse, error) {
	if err := s.users.UpdateProfile(userID, strings.TrimSpace(req.Username), req.Avatar); err != nil {
		return nil, err
	}
	return s.GetProfile(userID)
}

// SearchUsers searches for users by username
func (s *AuthService) SearchUsers(query string, excludeUserID uuid.UUID) ([]model.UserResponse, error) {
	users, err := s.users.SearchUsers(query, excludeUserID, 20)
	if err != nil {
		return nil, err
	}
	return toResponses(users), nil
}

// RegisterDevice registers a device for push notifications
func (s *AuthService) RegisterDevice(userID uuid.UUID, req model.RegisterDeviceRequest) error {
	return s.users.AddDevice(userID, req.FCMToken, req.DeviceType)
}

func (s *AuthService) issueSession(user *model.User) (*model.LoginResponse, error) {
	token, err := s.jwtManager.GenerateToken(user.ID, user.Email, user.Username)
	if err != nil {
		return nil, err
	}

	if s.presence != nil {
		if err := s.presence.SetOnline(user.ID); err != nil {
			return nil, err
		}
		user.IsOnline = true
	}

	return &model.LoginResponse{
		Token: token,
		User:  user.ToResponse(),
	}, nil
}
