package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/config"
	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/domain"
	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/mail"
	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/repository"
	fbauth "firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/api/idtoken"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

type AuthService struct {
	Config       config.Config
	Users        repository.UserRepository
	Resets       repository.PasswordResetRepository
	Categories   repository.CategoryRepository
	Mailer       *mail.Client
	Logger       *slog.Logger
	FirebaseAuth *fbauth.Client
}

type AuthResult struct {
	AccessToken  string
	RefreshToken string
	User         domain.User
	ExpiresAt    time.Time
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
}

type LoginInput struct {
	Email    string
	Password string
}

type GoogleLoginInput struct {
	IDToken string
	Email   string
	Name    string
	Phone   string
}

type RefreshInput struct {
	RefreshToken string
}

type TeamMemberInput struct {
	Name       string
	Email      string
	Phone      string
	Password   string
	Role       domain.UserRole
	BaseSalary int64
	BaseHours  int
}

// Register creates a new manager account. The account anchors its own company:
// team members created later carry this user's id as company_id.
func (s AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user, err := s.Users.Create(ctx, repository.CreateUserParams{
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		Role:         domain.RoleManager,
		PasswordHash: ptr(string(hash)),
		IsGoogle:     false,
	})
	if err != nil {
		if repository.IsDuplicate(err) {
			return nil, fmt.Errorf("email already used")
		}
		return nil, err
	}

	if err := s.Categories.EnsureDefaults(ctx, CompanyOf(user)); err != nil {
		s.logWarn("seed default categories", err)
	}
	return s.issueTokens(user)
}

// CreateTeamMember adds a staff or manager account under the caller's company.
func (s AuthService) CreateTeamMember(ctx context.Context, companyID int64, in TeamMemberInput) (*domain.User, error) {
	if in.Role == "" {
		in.Role = domain.RoleStaff
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user, err := s.Users.Create(ctx, repository.CreateUserParams{
		CompanyID:    &companyID,
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		Role:         in.Role,
		BaseSalary:   in.BaseSalary,
		BaseHours:    in.BaseHours,
		PasswordHash: ptr(string(hash)),
	})
	if err != nil {
		if repository.IsDuplicate(err) {
			return nil, fmt.Errorf("email already used")
		}
		return nil, err
	}
	return user, nil
}

func (s AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	user, err := s.Users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issueTokens(user)
}

func (s AuthService) LoginWithGoogle(ctx context.Context, in GoogleLoginInput) (*AuthResult, error) {
	// Prefer Firebase verification when configured, else raw Google ID token.
	switch {
	case s.FirebaseAuth != nil:
		if _, err := s.FirebaseAuth.VerifyIDToken(ctx, in.IDToken); err != nil {
			return nil, fmt.Errorf("firebase token invalid: %w", err)
		}
	case s.Config.GoogleClientID != "":
		if _, err := idtoken.Validate(ctx, in.IDToken, s.Config.GoogleClientID); err != nil {
			return nil, fmt.Errorf("google token invalid: %w", err)
		}
	}

	user, err := s.Users.GetByEmail(ctx, in.Email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		user, err = s.Users.Create(ctx, repository.CreateUserParams{
			Name:     in.Name,
			Email:    in.Email,
			Phone:    in.Phone,
			Role:     domain.RoleManager,
			IsGoogle: true,
		})
		if err != nil {
			return nil, err
		}
		if seedErr := s.Categories.EnsureDefaults(ctx, CompanyOf(user)); seedErr != nil {
			s.logWarn("seed default categories", seedErr)
		}
	}
	return s.issueTokens(user)
}

func (s AuthService) Refresh(ctx context.Context, in RefreshInput) (*AuthResult, error) {
	token, err := jwt.Parse(in.RefreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.Config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if claims["token_type"] != "refresh" {
		return nil, ErrInvalidToken
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return s.issueTokens(user)
}

// ForgotPassword issues a one-time reset token and mails a reset link.
// It reports success regardless of whether the account exists.
func (s AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}

	token := uuid.NewString()
	if _, err := s.Resets.Create(ctx, user.ID, token, time.Now().Add(s.Config.ResetTokenTTL)); err != nil {
		return err
	}

	link := s.Config.PublicBaseURL + "/reset-password?token=" + token
	_, err = s.Mailer.Send(ctx, mail.Message{
		To:      []string{user.Email},
		Subject: "Password reset",
		HTML: fmt.Sprintf(
			`<p>Hello %s,</p><p>Use the link below to pick a new password. It expires in %s.</p><p><a href="%s">%s</a></p>`,
			user.Name, s.Config.ResetTokenTTL, link, link,
		),
	})
	if err != nil {
		s.logWarn("send reset email", err)
		if errors.Is(err, mail.ErrNotConfigured) {
			return nil
		}
		return fmt.Errorf("send reset email: %w", err)
	}
	return nil
}

func (s AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	reset, err := s.Resets.Consume(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.Users.UpdatePassword(ctx, reset.UserID, string(hash))
}

func (s AuthService) ChangePassword(ctx context.Context, userID int64, current, newPassword string) error {
	user, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.PasswordHash == nil {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(current)); err != nil {
		return ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.Users.UpdatePassword(ctx, userID, string(hash))
}

// CompanyOf resolves the tenant id for a user. Accounts created by Register
// anchor their own company, so a nil company_id means the user is the anchor.
func CompanyOf(u *domain.User) int64 {
	if u.CompanyID != nil {
		return *u.CompanyID
	}
	return u.ID
}

func (s AuthService) issueTokens(user *domain.User) (*AuthResult, error) {
	now := time.Now()
	accessExp := now.Add(s.Config.AccessTokenTTL)
	refreshExp := now.Add(s.Config.RefreshTokenTTL)

	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":        fmt.Sprintf("%d", user.ID),
		"email":      user.Email,
		"name":       user.Name,
		"role":       user.Role,
		"company":    fmt.Sprintf("%d", CompanyOf(user)),
		"token_type": "access",
		"exp":        accessExp.Unix(),
		"iat":        now.Unix(),
	}).SignedString([]byte(s.Config.JWTSecret))
	if err != nil {
		return nil, err
	}

	refresh, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":        fmt.Sprintf("%d", user.ID),
		"token_type": "refresh",
		"exp":        refreshExp.Unix(),
		"iat":        now.Unix(),
	}).SignedString([]byte(s.Config.JWTSecret))
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         *user,
		ExpiresAt:    accessExp,
	}, nil
}

func (s AuthService) logWarn(msg string, err error) {
	if s.Logger != nil {
		s.Logger.Warn(msg, "err", err)
	}
}

func ptr[T any](v T) *T { return &v }
