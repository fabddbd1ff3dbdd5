package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/nimasrn/ledger-api/internal/model"
	"github.com/nimasrn/ledger-api/pkg/logger"
	"github.com/nimasrn/ledger-api/pkg/mailer"
)

const resetMailSubject = "Password Reset Request"

var (
	ErrInvalidCredentials = model.InvalidCredentials("Invalid credentials")
	ErrIncorrectPassword  = model.InvalidCredentials("Incorrect old password")
	ErrAdminNotFound      = model.Validation("Admin not found")
	ErrInvalidResetToken  = model.Validation("Invalid token")
	ErrNoToken            = model.Unauthorized("No token, authorization denied")
	ErrSessionInvalid     = model.Unauthorized("Invalid token")
)

type AdminRepository interface {
	GetByEmail(ctx context.Context, email string) (*model.Admin, error)
	CreateIfMissing(ctx context.Context, email, passwordHash string) (bool, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

type Options struct {
	SessionTTL  time.Duration
	ResetTTL    time.Duration
	FrontendURL string
}

type Service struct {
	admins AdminRepository
	tokens *TokenIssuer
	mailer mailer.Mailer
	opts   Options
}

func NewService(admins AdminRepository, tokens *TokenIssuer, m mailer.Mailer, opts Options) *Service {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = time.Hour
	}
	if opts.ResetTTL <= 0 {
		opts.ResetTTL = 15 * time.Minute
	}
	return &Service{admins: admins, tokens: tokens, mailer: m, opts: opts}
}

func (s *Service) SessionTTL() time.Duration {
	return s.opts.SessionTTL
}

// Login checks the credentials and issues a session token. Unknown email and
// wrong password produce the same error.
func (s *Service) Login(ctx context.Context, req model.LoginRequest) (string, *model.Admin, error) {
	if err := req.Validate(); err != nil {
		return "", nil, err
	}

	admin, err := s.admins.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !CheckPassword(admin.PasswordHash, req.Password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(admin.Email, PurposeSession, s.opts.SessionTTL)
	if err != nil {
		return "", nil, pkgerrors.Wrap(err, "issue session token")
	}

	logger.Info("admin logged in", "admin_id", admin.ID)
	return token, admin, nil
}

// Authenticate resolves a session token to its admin.
func (s *Service) Authenticate(ctx context.Context, token string) (*model.Admin, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	claims, err := s.tokens.Parse(token, PurposeSession)
	if err != nil {
		return nil, ErrSessionInvalid
	}

	admin, err := s.admins.GetByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, ErrSessionInvalid
		}
		return nil, err
	}
	return admin, nil
}

func (s *Service) ChangePassword(ctx context.Context, admin *model.Admin, req model.ChangePasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	current, err := s.admins.GetByEmail(ctx, admin.Email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return ErrIncorrectPassword
		}
		return err
	}
	if !CheckPassword(current.PasswordHash, req.OldPassword) {
		return ErrIncorrectPassword
	}

	return s.setPassword(ctx, current, req.NewPassword)
}

// ForgotPassword mails a short-lived reset link to the admin.
func (s *Service) ForgotPassword(ctx context.Context, req model.ForgotPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	admin, err := s.admins.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return ErrAdminNotFound
		}
		return err
	}

	token, err := s.tokens.Issue(admin.Email, PurposeReset, s.opts.ResetTTL)
	if err != nil {
		return pkgerrors.Wrap(err, "issue reset token")
	}

	return s.mailer.Send(ctx, admin.Email, resetMailSubject, resetMailBody(s.ResetURL(token)))
}

func (s *Service) ResetURL(token string) string {
	return strings.TrimRight(s.opts.FrontendURL, "/") + "/reset-password/" + token
}

func (s *Service) ResetPassword(ctx context.Context, req model.ResetPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	claims, err := s.tokens.Parse(req.ResetToken, PurposeReset)
	if err != nil {
		return ErrInvalidResetToken
	}

	admin, err := s.admins.GetByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}

	return s.setPassword(ctx, admin, req.NewPassword)
}

// EnsureAdmin seeds the admin account when its email is not registered yet.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return false, model.Validation("admin email and password are required")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return false, err
	}
	created, err := s.admins.CreateIfMissing(ctx, email, hash)
	if err != nil {
		return false, err
	}
	if created {
		logger.Info("admin account seeded", "email", email)
	}
	return created, nil
}

func (s *Service) setPassword(ctx context.Context, admin *model.Admin, password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	if err := s.admins.UpdatePassword(ctx, admin.ID, hash); err != nil {
		return err
	}
	logger.Info("admin password changed", "admin_id", admin.ID)
	return nil
}

func resetMailBody(url string) string {
	return `<p>You requested to reset your password. Please use the link below:</p>
<a href="` + url + `">Reset Password</a>
<p>If you didn't request this, you can ignore this email.</p>`
}
