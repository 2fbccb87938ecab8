package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already registered")
)

// NewUser is the validated input of a registration.
type NewUser struct {
	Name          string
	Email         string
	ContactNumber int64
	Password      string
}

// Store persists users through gorm.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func NormalizeName(name string) string {
	return cases.Title(language.Und).String(strings.TrimSpace(name))
}

// Register creates a user with a hashed password. The first account ever
// created is given the admin role. A second registration for the same
// normalized email returns ErrEmailTaken, including when two registrations
// race past the existence check and the unique index rejects the loser.
// On postgres registrations take an advisory lock, so two concurrent first
// registrations cannot both become admin.
func (s *Store) Register(ctx context.Context, in NewUser) (*User, error) {
	hashed, err := HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := User{
		Name:          NormalizeName(in.Name),
		Email:         NormalizeEmail(in.Email),
		ContactNumber: in.ContactNumber,
		PasswordHash:  hashed,
		Role:          RoleUser,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockRegistrations(tx); err != nil {
			return err
		}

		var existing int64
		if err := tx.Model(&User{}).Where("email = ?", user.Email).Count(&existing).Error; err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if existing > 0 {
			return ErrEmailTaken
		}

		var total int64
		if err := tx.Model(&User{}).Count(&total).Error; err != nil {
			return fmt.Errorf("count users: %w", err)
		}
		if total == 0 {
			user.Role = RoleAdmin
		}

		return tx.Create(&user).Error
	})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) || errors.Is(err, gorm.ErrDuplicatedKey) || s.emailExists(ctx, user.Email) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// registrationLockKey names the postgres advisory lock held by Register.
const registrationLockKey int64 = 0x61647672 // "advr"

// lockRegistrations serializes registrations for the rest of tx, so the
// email check and the first-user count see every earlier registration.
// SQLite runs on a single connection and is already serialized.
func lockRegistrations(tx *gorm.DB) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", registrationLockKey).Error; err != nil {
		return fmt.Errorf("lock registrations: %w", err)
	}
	return nil
}

func (s *Store) emailExists(ctx context.Context, email string) bool {
	var n int64
	if err := s.db.WithContext(ctx).Model(&User{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return false
	}
	return n > 0
}

func (s *Store) ByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	if err := s.db.WithContext(ctx).First(&u, "email = ?", NormalizeEmail(email)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &u, nil
}

func (s *Store) ByID(ctx context.Context, id uint) (*User, error) {
	var u User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}
	return &u, nil
}

// Authenticate looks the user up by email and verifies the password.
// It returns ErrNotFound or ErrPasswordMismatch for the two business
// failures so callers can report them differently.
func (s *Store) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.ByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := CheckPassword(u.PasswordHash, password); err != nil {
		if errors.Is(err, ErrPasswordMismatch) {
			return nil, ErrPasswordMismatch
		}
		return nil, fmt.Errorf("check password for user %d: %w", u.ID, err)
	}
	return u, nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&User{}).Count(&n).Error
	return n, err
}
