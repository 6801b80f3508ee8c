// Package auth gates every login behind a per-account failure throttle:
// repeated bad passwords freeze the account for a lock window, and the
// counter update is transactional so two racing failures cannot both
// slip past the threshold.
package auth

import (
	"errors"
	"fmt"
	"time"

	"local-butler-api/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrLocked means the account is frozen by the login throttle. The
	// message deliberately carries no unlock time.
	ErrLocked     = errors.New("account temporarily locked, try again later")
	ErrEmailTaken = errors.New("email already registered")
	ErrBadRole    = errors.New("invalid role")
)

// Config tunes the login throttle.
type Config struct {
	LockThreshold int           // consecutive failures that trigger a lock
	LockWindow    time.Duration // how long the lock holds
}

var DefaultConfig = Config{
	LockThreshold: 5,
	LockWindow:    15 * time.Minute,
}

type Service struct {
	db  *gorm.DB
	cfg Config
	now func() time.Time
}

func NewService(db *gorm.DB, cfg Config) *Service {
	if cfg.LockThreshold <= 0 {
		cfg.LockThreshold = DefaultConfig.LockThreshold
	}
	if cfg.LockWindow <= 0 {
		cfg.LockWindow = DefaultConfig.LockWindow
	}
	return &Service{db: db, cfg: cfg, now: time.Now}
}

// Register creates a new account with a bcrypt-hashed password.
func (s *Service) Register(name, email, password string, role models.UserRole, phone string) (*models.User, error) {
	if !models.ValidRole(role) {
		return nil, ErrBadRole
	}

	var existing models.User
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Phone:        phone,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// Authenticate checks the password under the lockout state machine:
//
//   - while the lock window holds, return ErrLocked without comparing
//     passwords (a locked account must not reveal password correctness);
//   - an expired lock admits the attempt but keeps the counter until a
//     success resets it;
//   - a mismatch increments the counter, and the attempt that reaches
//     the threshold sets the lock while still reporting plain
//     ErrInvalidCredentials.
//
// The whole read-modify-write runs in one transaction per account, so
// two concurrent failures at threshold-1 cannot both dodge the lock.
func (s *Service) Authenticate(email, password string) (*models.User, error) {
	var user *models.User
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var u models.User
		if err := tx.Where("email = ?", email).First(&u).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidCredentials
			}
			return fmt.Errorf("load user: %w", err)
		}

		now := s.now()
		if u.LockedAt(now) && u.FailedLoginAttempts >= s.cfg.LockThreshold {
			return ErrLocked
		}

		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
			attempts := u.FailedLoginAttempts + 1
			updates := map[string]interface{}{
				"failed_login_attempts": gorm.Expr("failed_login_attempts + 1"),
			}
			if attempts >= s.cfg.LockThreshold {
				updates["locked_until"] = now.Add(s.cfg.LockWindow)
			}
			if err := tx.Model(&u).Updates(updates).Error; err != nil {
				return fmt.Errorf("record failed attempt: %w", err)
			}
			return ErrInvalidCredentials
		}

		if err := tx.Model(&u).Updates(map[string]interface{}{
			"failed_login_attempts": 0,
			"locked_until":          nil,
		}).Error; err != nil {
			return fmt.Errorf("reset throttle: %w", err)
		}
		u.FailedLoginAttempts = 0
		u.LockedUntil = nil
		user = &u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUser loads an account by id.
func (s *Service) GetUser(id uint) (*models.User, error) {
	var u models.User
	if err := s.db.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// ListUsers returns accounts, optionally filtered by role.
func (s *Service) ListUsers(role models.UserRole) ([]models.User, error) {
	query := s.db
	if role != "" {
		query = query.Where("role = ?", role)
	}
	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
