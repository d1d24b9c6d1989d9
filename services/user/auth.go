package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	userRepo "moviemate/database/repository/user"
	"moviemate/models"
	"moviemate/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// tokenDuration is how long issued auth tokens remain valid.
const tokenDuration = 72 * time.Hour

// DefaultUserService is the production UserService.
type DefaultUserService struct {
	Repo   userRepo.UserRepository
	Logger *zap.Logger
}

// Register creates a new account with hashed credentials and default
// preferences.
func (s *DefaultUserService) Register(req RegisterRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.ToLower(strings.TrimSpace(req.Username))

	if existing, err := s.Repo.GetByEmailWithProjection(email, bson.M{"id": 1}); err != nil {
		return nil, fmt.Errorf("register: lookup by email failed: %w", err)
	} else if existing != nil {
		return nil, fmt.Errorf("an account with email %s already exists", email)
	}
	if existing, err := s.Repo.GetByUsernameWithProjection(username, bson.M{"id": 1}); err != nil {
		return nil, fmt.Errorf("register: lookup by username failed: %w", err)
	} else if existing != nil {
		return nil, fmt.Errorf("username %s is already taken", username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("register: failed to hash password: %w", err)
	}

	u := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Preferences:  models.DefaultPreferences(),
	}
	if err := s.Repo.Create(u); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	s.Logger.Info("user registered", zap.String("userID", u.ID), zap.String("username", username))
	return u, nil
}

// Authenticate verifies credentials and issues a signed token. The token hash
// is stored on the user document and cached in Redis for the auth middleware.
func (s *DefaultUserService) Authenticate(email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.Repo.GetByEmailWithProjection(email, nil)
	if err != nil {
		return nil, "", fmt.Errorf("authenticate: %w", err)
	}
	if u == nil {
		return nil, "", fmt.Errorf("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", fmt.Errorf("invalid email or password")
	}

	token, err := utils.GenerateToken(u.ID, u.Email, tokenDuration)
	if err != nil {
		return nil, "", fmt.Errorf("authenticate: failed to generate token: %w", err)
	}

	tokenHash := utils.HashToken(token)
	if err := s.Repo.UpdateSetDocument(u.ID, bson.M{"token_hash": tokenHash}); err != nil {
		return nil, "", fmt.Errorf("authenticate: failed to store token hash: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := utils.GetAuthCacheClient().Set(ctx, utils.AuthCachePrefix+u.ID, tokenHash, time.Hour).Err(); err != nil {
		// Cache is an optimization; the middleware falls back to the document.
		s.Logger.Warn("failed to cache auth token", zap.String("userID", u.ID), zap.Error(err))
	}

	u.TokenHash = tokenHash
	return u, token, nil
}

// RevokeToken invalidates the user's current token.
func (s *DefaultUserService) RevokeToken(userID string) error {
	if err := s.Repo.UpdateSetDocument(userID, bson.M{"token_hash": ""}); err != nil {
		return fmt.Errorf("revoke: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := utils.GetAuthCacheClient().Del(ctx, utils.AuthCachePrefix+userID).Err(); err != nil {
		s.Logger.Warn("failed to evict auth cache entry", zap.String("userID", userID), zap.Error(err))
	}
	return nil
}
