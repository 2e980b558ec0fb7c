package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/acrobase/backend/internal/catalog"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrUserNotFound indicates no user exists for the requested identifier.
	ErrUserNotFound = errors.New("users: user not found")
	// ErrDuplicateUsername indicates the username is already taken.
	ErrDuplicateUsername = errors.New("users: duplicate username")
	// ErrInvalidCredentials indicates the username/password pair did not match.
	ErrInvalidCredentials = errors.New("users: invalid credentials")
	// ErrInvalidRegistration indicates a registration field was empty.
	ErrInvalidRegistration = errors.New("users: invalid registration")

	errMissingDatabase   = errors.New("users: database connection required")
	errMissingIDProvider = errors.New("users: id provider required")
	errMissingHasher     = errors.New("users: password hasher required")

	noOpLogger = zap.NewNop()
)

// PasswordHasher hashes plaintext credentials and verifies them against a
// stored hash. The hash format is opaque to this package.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) error
}

// ServiceConfig describes the dependencies required for account management.
type ServiceConfig struct {
	Database   *gorm.DB
	IDProvider catalog.IDProvider
	Hasher     PasswordHasher
	Logger     *zap.Logger
}

// Service manages account registration, lookup, and credential checks.
type Service struct {
	db         *gorm.DB
	idProvider catalog.IDProvider
	hasher     PasswordHasher
	logger     *zap.Logger
}

// NewService constructs the user service after validating its dependencies.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, errMissingDatabase
	}
	if cfg.IDProvider == nil {
		return nil, errMissingIDProvider
	}
	if cfg.Hasher == nil {
		return nil, errMissingHasher
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}
	return &Service{
		db:         cfg.Database,
		idProvider: cfg.IDProvider,
		hasher:     cfg.Hasher,
		logger:     logger,
	}, nil
}

// RegisterRequest carries the fields supplied at registration.
type RegisterRequest struct {
	Name        string
	Username    string
	Password    string
	DeviceToken string
}

// Register creates a new account with a hashed credential. The username is a
// case-sensitive unique key; a collision fails with ErrDuplicateUsername.
func (s *Service) Register(ctx context.Context, request RegisterRequest) (Public, error) {
	name := strings.TrimSpace(request.Name)
	username := strings.TrimSpace(request.Username)
	if name == "" || username == "" || request.Password == "" {
		return Public{}, ErrInvalidRegistration
	}

	var existing User
	err := s.db.WithContext(ctx).Where("username = ?", username).Take(&existing).Error
	if err == nil {
		return Public{}, fmt.Errorf("%w: %q", ErrDuplicateUsername, username)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("username lookup failed", zap.Error(err), zap.String("username", username))
		return Public{}, err
	}

	hashedPassword, err := s.hasher.Hash(request.Password)
	if err != nil {
		s.logger.Error("password hashing failed", zap.Error(err))
		return Public{}, err
	}

	identifier, err := s.idProvider.NewID()
	if err != nil {
		s.logger.Error("id generation failed", zap.Error(err))
		return Public{}, err
	}

	user := User{
		ID:          identifier,
		Name:        name,
		Username:    username,
		Password:    hashedPassword,
		DeviceToken: strings.TrimSpace(request.DeviceToken),
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		// The unique index backstops a concurrent registration of the same
		// username.
		var raced User
		if lookupErr := s.db.WithContext(ctx).Where("username = ?", username).Take(&raced).Error; lookupErr == nil {
			return Public{}, fmt.Errorf("%w: %q", ErrDuplicateUsername, username)
		}
		s.logger.Error("user insert failed", zap.Error(err), zap.String("username", username))
		return Public{}, err
	}

	return user.ToPublic(), nil
}

// Authenticate resolves the username and verifies the supplied password
// against the stored hash. Both failure modes collapse into
// ErrInvalidCredentials so callers cannot probe for registered usernames.
func (s *Service) Authenticate(ctx context.Context, username, password string) (Public, error) {
	var user User
	err := s.db.WithContext(ctx).Where("username = ?", username).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Public{}, ErrInvalidCredentials
	}
	if err != nil {
		s.logger.Error("user lookup failed", zap.Error(err), zap.String("username", username))
		return Public{}, err
	}
	if err := s.hasher.Verify(password, user.Password); err != nil {
		return Public{}, ErrInvalidCredentials
	}
	return user.ToPublic(), nil
}

// GetUser resolves a user by identifier into the public projection.
func (s *Service) GetUser(ctx context.Context, userID string) (Public, error) {
	var user User
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Public{}, ErrUserNotFound
	}
	if err != nil {
		s.logger.Error("user lookup failed", zap.Error(err), zap.String("user_id", userID))
		return Public{}, err
	}
	return user.ToPublic(), nil
}

// ListUsers returns every account as a public projection.
func (s *Service) ListUsers(ctx context.Context) ([]Public, error) {
	var records []User
	if err := s.db.WithContext(ctx).Find(&records).Error; err != nil {
		s.logger.Error("user list failed", zap.Error(err))
		return nil, err
	}
	projections := make([]Public, 0, len(records))
	for _, record := range records {
		projections = append(projections, record.ToPublic())
	}
	return projections, nil
}

// UserExists reports whether the identifier references a registered user. It
// satisfies the catalog.OwnerDirectory dependency.
func (s *Service) UserExists(ctx context.Context, userID string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&User{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		s.logger.Error("user existence check failed", zap.Error(err), zap.String("user_id", userID))
		return false, err
	}
	return count > 0, nil
}
