package users

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Sentinel errors surfaced to handlers. Lookup misses and password mismatches
// both come back as ErrInvalidCredentials so a caller cannot tell which
// emails have accounts.
var (
	ErrMissingFields      = errors.New("all fields are required")
	ErrBadRole            = errors.New("unknown role")
	ErrBadDepartment      = errors.New("unknown department")
	ErrExists             = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("user not found")
)

// dummyHash is compared against when the email has no account, so a signin
// against a missing account costs the same as one against a real account.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Store is the persistence surface the service needs.
type Store interface {
	Insert(ctx context.Context, u User) (User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	ListStudents(ctx context.Context) ([]User, error)
}

// Service handles signup and credential verification.
type Service struct {
	store Store
}

// NewService creates a service backed by a user store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// SignUp validates the fields, rejects duplicate emails, hashes the password
// and persists the new user.
func (s *Service) SignUp(ctx context.Context, name, email, password, role, department string) (User, error) {
	if name == "" || email == "" || password == "" || role == "" || department == "" {
		return User{}, ErrMissingFields
	}
	if !ValidRole(role) {
		return User{}, ErrBadRole
	}
	if !ValidDepartment(department) {
		return User{}, ErrBadDepartment
	}

	existing, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return User{}, err
	}
	if existing != nil {
		return User{}, ErrExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	return s.store.Insert(ctx, User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Department:   department,
	})
}

// SignIn verifies the credentials and returns the matching user. All failures
// other than missing input collapse into ErrInvalidCredentials.
func (s *Service) SignIn(ctx context.Context, email, password string) (User, error) {
	if email == "" || password == "" {
		return User{}, ErrMissingFields
	}

	u, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return User{}, err
	}
	if u == nil {
		_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
		return User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return *u, nil
}

// Get returns the user for an id, or ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (User, error) {
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	if u == nil {
		return User{}, ErrNotFound
	}
	return *u, nil
}

// Students returns the candidate set for identity resolution.
func (s *Service) Students(ctx context.Context) ([]User, error) {
	return s.store.ListStudents(ctx)
}
