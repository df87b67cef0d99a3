package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"parkwise/application/dto"
	"parkwise/application/ports"
	"parkwise/domain/core/entities"
	"parkwise/domain/core/valueobjects"
	pkgerrors "parkwise/pkg/errors"
)

const invalidCredentials = "invalid email or password"

// AuthService registers accounts and issues tokens.
type AuthService struct {
	users   ports.UserRepository
	offices ports.OfficeRepository
	hasher  ports.PasswordHasher
	tokens  ports.TokenIssuer
	metrics ports.MetricsRecorder
	logger  *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	users ports.UserRepository,
	offices ports.OfficeRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	metrics ports.MetricsRecorder,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:   users,
		offices: offices,
		hasher:  hasher,
		tokens:  tokens,
		metrics: metrics,
		logger:  logger,
	}
}

// Register creates a customer account in an existing office.
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (err error) {
	defer recordOperation(ctx, s.metrics, "Register", time.Now(), &err)

	if _, err := s.offices.GetOfficeByID(ctx, req.OfficeID); err != nil {
		return err
	}
	_, err = s.createUser(ctx, req.Name, req.Email, req.Password, req.OfficeID, valueobjects.RoleCustomer)
	return err
}

// CreateAdmin creates an administrator. Admins may have no office.
func (s *AuthService) CreateAdmin(ctx context.Context, name, email, password, officeID string) (*entities.User, error) {
	if officeID != "" {
		if _, err := s.offices.GetOfficeByID(ctx, officeID); err != nil {
			return nil, err
		}
	}
	return s.createUser(ctx, name, email, password, officeID, valueobjects.RoleAdmin)
}

func (s *AuthService) createUser(ctx context.Context, name, email, password, officeID string, role valueobjects.Role) (*entities.User, error) {
	if password == "" {
		return nil, pkgerrors.NewValidationError("password is required")
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to hash password")
	}

	user, err := entities.NewUser(name, email, hash, officeID, role)
	if err != nil {
		return nil, err
	}
	if err := s.users.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User registered",
		zap.String("userID", user.ID),
		zap.String("role", role.String()),
		zap.String("officeID", officeID),
	)
	return user, nil
}

// Login verifies credentials and returns a signed token. Unknown emails and
// wrong passwords fail identically.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (resp *dto.TokenResponse, err error) {
	defer recordOperation(ctx, s.metrics, "Login", time.Now(), &err)

	user, err := s.users.GetByEmail(ctx, entities.NormalizeEmail(req.Email))
	if pkgerrors.IsNotFound(err) {
		return nil, pkgerrors.NewUnauthorizedError(invalidCredentials)
	}
	if err != nil {
		return nil, err
	}
	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		s.logger.Debug("Password mismatch", zap.String("userID", user.ID))
		return nil, pkgerrors.NewUnauthorizedError(invalidCredentials)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to issue token")
	}
	return &dto.TokenResponse{JWT: token}, nil
}
