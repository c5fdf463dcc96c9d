package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/rlst8/rlst8/platform/go/authn"
	"github.com/rlst8/rlst8/platform/go/persistence"
)

// FieldErrors maps request fields to validation issues.
type FieldErrors map[string][]string

// ValidationError is returned when the input payload is invalid.
type ValidationError struct {
	Fields FieldErrors
}

func (v *ValidationError) Error() string {
	return "validation error"
}

// Domain sentinel errors.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoAccount          = errors.New("no account for signed-in user")
)

const minPasswordLength = 6

// OrgCreator is the persistence surface the registration saga needs.
type OrgCreator interface {
	CreateOrgWithAdmin(ctx context.Context, org persistence.CreateOrgParams, admin persistence.CreateAdminParams) (persistence.Organization, persistence.User, error)
}

// UserReader resolves the account row after a successful sign-in.
type UserReader interface {
	GetByEmail(ctx context.Context, email string) (persistence.User, error)
}

// RegisterInput is the company onboarding payload.
type RegisterInput struct {
	Email       string
	Password    string
	FullName    string
	Phone       *string
	CompanyName string
}

// RegisterResult is the committed outcome of a registration.
type RegisterResult struct {
	Organization persistence.Organization
	Admin        persistence.User
}

// SignInResult is the account attached to a verified credential pair.
type SignInResult struct {
	User persistence.User
}

// Service runs registration and sign-in against the hosted auth provider
// and the organization store.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (RegisterResult, error)
	SignIn(ctx context.Context, email, password string) (SignInResult, error)
}

type service struct {
	provider authn.Provider
	orgs     OrgCreator
	users    UserReader
	logger   *zap.Logger
}

// New constructs a registration Service instance.
func New(provider authn.Provider, orgs OrgCreator, users UserReader, logger *zap.Logger) Service {
	if provider == nil {
		panic("auth provider is required")
	}
	if orgs == nil {
		panic("org store is required")
	}
	if users == nil {
		panic("user store is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &service{provider: provider, orgs: orgs, users: users, logger: logger}
}

// Register onboards a new company: it creates the auth principal first, then
// the organization and its admin user in one database transaction. If the
// database step fails, the freshly created principal is deleted so a retry
// with the same email can succeed. The delete is best effort; a failure there
// is logged and the originating error is still returned.
func (s *service) Register(ctx context.Context, input RegisterInput) (RegisterResult, error) {
	if err := validateRegisterInput(input); err != nil {
		return RegisterResult{}, err
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	principal, err := s.provider.CreateUser(ctx, email, input.Password)
	if err != nil {
		if errors.Is(err, authn.ErrUserExists) {
			return RegisterResult{}, ErrEmailTaken
		}
		return RegisterResult{}, fmt.Errorf("create auth user: %w", err)
	}

	org, admin, err := s.orgs.CreateOrgWithAdmin(ctx,
		persistence.CreateOrgParams{
			Name:         strings.TrimSpace(input.CompanyName),
			ContactEmail: &email,
			ContactPhone: input.Phone,
		},
		persistence.CreateAdminParams{
			AuthUserID: principal.UID,
			Email:      email,
			FullName:   strings.TrimSpace(input.FullName),
			Phone:      input.Phone,
			Role:       persistence.RoleCompanyAdmin,
		})
	if err != nil {
		if deleteErr := s.provider.DeleteUser(ctx, principal.UID); deleteErr != nil {
			s.logger.Error("registration rollback failed, auth user orphaned",
				zap.String("auth_user_id", principal.UID),
				zap.Error(deleteErr))
		}
		if errors.Is(err, persistence.ErrUserConflict) {
			return RegisterResult{}, ErrEmailTaken
		}
		return RegisterResult{}, fmt.Errorf("persist registration: %w", err)
	}

	return RegisterResult{Organization: org, Admin: admin}, nil
}

// SignIn verifies the credential pair with the auth provider and resolves
// the account row for the email.
func (s *service) SignIn(ctx context.Context, email, password string) (SignInResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return SignInResult{}, ErrInvalidCredentials
	}

	principal, err := s.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		if errors.Is(err, authn.ErrInvalidCredentials) {
			return SignInResult{}, ErrInvalidCredentials
		}
		return SignInResult{}, fmt.Errorf("sign in: %w", err)
	}

	user, err := s.users.GetByEmail(ctx, principal.Email)
	if err != nil {
		if errors.Is(err, persistence.ErrUserNotFound) {
			return SignInResult{}, ErrNoAccount
		}
		return SignInResult{}, fmt.Errorf("resolve signed-in user: %w", err)
	}

	return SignInResult{User: user}, nil
}

func validateRegisterInput(input RegisterInput) error {
	fields := FieldErrors{}

	email := strings.TrimSpace(input.Email)
	if email == "" {
		fields["email"] = append(fields["email"], "email is required")
	} else if !strings.Contains(email, "@") {
		fields["email"] = append(fields["email"], "email is invalid")
	}

	if len(input.Password) < minPasswordLength {
		fields["password"] = append(fields["password"], fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	if strings.TrimSpace(input.FullName) == "" {
		fields["fullName"] = append(fields["fullName"], "full name is required")
	}

	if strings.TrimSpace(input.CompanyName) == "" {
		fields["companyName"] = append(fields["companyName"], "company name is required")
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
