package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"kubeserve/internal/core/domain"
	"kubeserve/internal/core/ports/output"
)

const tenantSetupAttempts = 3

type UserService struct {
	userRepo  ports.UserRepository
	tenants   ports.TenantManager
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewUserService(userRepo ports.UserRepository, tenants ports.TenantManager, jwtSecret string, tokenTTL time.Duration) *UserService {
	return &UserService{
		userRepo:  userRepo,
		tenants:   tenants,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

// Register creates the user and then provisions their tenant namespace.
// Tenant setup is best-effort here: every step is idempotent, so a failure is
// logged and registration still succeeds, to be completed on a later retry.
func (s *UserService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := domain.NewUser(email, string(hash))
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.setupTenant(ctx, user.ID)
	return user, nil
}

func (s *UserService) setupTenant(ctx context.Context, ownerID uuid.UUID) {
	if s.tenants == nil {
		return
	}

	err := retry.Do(
		func() error {
			_, err := s.tenants.SetupTenant(ctx, ownerID)
			return err
		},
		retry.Attempts(tenantSetupAttempts),
		retry.Context(ctx),
	)
	if err != nil {
		log.WithError(err).WithField("owner_id", ownerID).
			Warn("tenant setup failed, first deployment will surface the gap")
	}
}

// Login verifies credentials and issues a signed access token.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", domain.ErrInvalidCredentials
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
	})

	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}
