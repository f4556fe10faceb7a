package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/material-inventory-backend/internal/data/repos"
	"github.com/yungbote/material-inventory-backend/internal/domain"
	"github.com/yungbote/material-inventory-backend/internal/pkg/logger"
	"github.com/yungbote/material-inventory-backend/internal/platform/apierr"
)

const bcryptCost = 10

type AuthService interface {
	Register(ctx context.Context, email, password, name string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	Logout(ctx context.Context, token string) error
	Check(ctx context.Context, token string) (*domain.User, error)
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	sessions      SessionService
	avatarService AvatarService
}

func NewAuthService(db *gorm.DB, baseLog *logger.Logger, userRepo repos.UserRepo, sessionService SessionService, avatarService AvatarService) AuthService {
	return &authService{
		db:            db,
		log:           baseLog.With("service", "AuthService"),
		userRepo:      userRepo,
		sessions:      sessionService,
		avatarService: avatarService,
	}
}

func (as *authService) Register(ctx context.Context, email, password, name string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if email == "" || password == "" || name == "" {
		return nil, apierr.InvalidArgument("Please provide all required fields")
	}

	existing, err := as.userRepo.GetByEmail(ctx, nil, email)
	if err != nil {
		return nil, fmt.Errorf("check existing email: %w", err)
	}
	if existing != nil {
		return nil, apierr.Conflict("Email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:       uuid.New(),
		Email:    email,
		Password: string(hash),
		Name:     name,
		Role:     domain.RoleUser,
	}

	if as.avatarService != nil {
		avatarURL, avErr := as.avatarService.Generate(ctx, name)
		if avErr != nil {
			as.log.Warn("Avatar generation failed (continuing without one)", "error", avErr)
		} else {
			user.AvatarURL = avatarURL
		}
	}

	if err := as.userRepo.Create(ctx, nil, user); err != nil {
		if repos.IsDuplicate(err) {
			return nil, apierr.Conflict("Email already registered")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	as.log.Info("New user registered", "email", user.Email)
	return user, nil
}

func (as *authService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", apierr.InvalidArgument("Please provide email and password")
	}

	user, err := as.userRepo.GetByEmail(ctx, nil, email)
	if err != nil {
		return nil, "", fmt.Errorf("load user by email: %w", err)
	}
	// Same message either way so the response does not reveal which
	// part was wrong.
	if user == nil {
		return nil, "", apierr.Unauthorized("Invalid email or password")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, "", apierr.Unauthorized("Invalid email or password")
	}

	token, err := as.sessions.Issue(ctx, user)
	if err != nil {
		return nil, "", fmt.Errorf("issue session: %w", err)
	}
	as.log.Info("User logged in", "email", user.Email)
	return user, token, nil
}

func (as *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return as.sessions.Revoke(ctx, token)
}

// Check reports the session's user, or nil when the caller is not
// authenticated. It never fails on a bad token; the endpoint answers
// {isAuthenticated: false} instead of an error.
func (as *authService) Check(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, nil
	}
	session, err := as.sessions.Validate(ctx, token)
	if err != nil {
		if apierr.From(err).Code == apierr.CodeUnauthorized {
			return nil, nil
		}
		return nil, err
	}
	user, err := as.userRepo.GetByID(ctx, nil, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("load session user: %w", err)
	}
	return user, nil
}
