package user

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jwalitptl/booking-api/internal/model"
	"github.com/jwalitptl/booking-api/internal/repository"
	"github.com/jwalitptl/booking-api/pkg/auth"
	apperrors "github.com/jwalitptl/booking-api/pkg/errors"
)

const bcryptCost = 12

// Service handles patient registration and login. The administrator account
// is configured, not stored: its credentials short-circuit the user table.
type Service struct {
	repo          repository.UserRepository
	jwtSvc        *auth.JWTService
	adminEmail    string
	adminPassword string
}

func NewService(repo repository.UserRepository, jwtSvc *auth.JWTService, adminEmail, adminPassword string) *Service {
	return &Service{
		repo:          repo,
		jwtSvc:        jwtSvc,
		adminEmail:    strings.ToLower(strings.TrimSpace(adminEmail)),
		adminPassword: strings.TrimSpace(adminPassword),
	}
}

func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.TokenResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || strings.TrimSpace(req.Password) == "" ||
		strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return nil, apperrors.InvalidRequest("first name, last name, email and password are required", nil)
	}

	if email == s.adminEmail {
		return nil, apperrors.InvalidRequest("this email address is reserved", nil)
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.InvalidRequest("email is already registered", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(req.Password)), bcryptCost)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	now := time.Now()
	u := &model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Phone:        strings.TrimSpace(req.Phone),
		Role:         model.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, apperrors.Internal(err)
	}

	return s.issueToken(u)
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	password := strings.TrimSpace(req.Password)
	if email == "" || password == "" {
		return nil, apperrors.InvalidRequest("email and password are required", nil)
	}

	if email == s.adminEmail && password == s.adminPassword {
		return s.issueToken(&model.User{
			ID:    uuid.NewSHA1(uuid.NameSpaceOID, []byte(s.adminEmail)),
			Email: s.adminEmail,
			Role:  model.RoleAdmin,
		})
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid credentials")
	}
	if u.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, apperrors.Unauthorized("invalid credentials")
	}

	return s.issueToken(u)
}

func (s *Service) issueToken(u *model.User) (*model.TokenResponse, error) {
	token, err := s.jwtSvc.GenerateToken(model.Caller{
		UserID: u.ID,
		Email:  u.Email,
		Role:   u.Role,
	})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &model.TokenResponse{AccessToken: token, User: u}, nil
}

// ListPatients returns the registered patient accounts for the admin panel.
func (s *Service) ListPatients(ctx context.Context, caller model.Caller) ([]*model.User, error) {
	if !caller.IsAdmin() {
		return nil, apperrors.Unauthorized("administrator role required")
	}
	patients, err := s.repo.ListPatients(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return patients, nil
}
