package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"taskplanner/internal/apperr"
	"taskplanner/internal/model"
	"taskplanner/internal/repository"
)

const tokenIssuer = "taskplanner"

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ErrInvalidCredentials is returned for an unknown email or a wrong password.
var ErrInvalidCredentials = apperr.Unauthorized("Invalid email or password")

// AuthService handles accounts and bearer tokens.
type AuthService struct {
	users  *repository.UserRepository
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewAuthService(users *repository.UserRepository, secret string, ttl time.Duration) *AuthService {
	return &AuthService{users: users, secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Signup creates an account and returns a token for it.
func (s *AuthService) Signup(ctx context.Context, email, password, confirmation string) (string, *model.User, error) {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return "", nil, err
	}
	if err := validatePassword(password, confirmation); err != nil {
		return "", nil, err
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return "", nil, apperr.Conflict("email", "Email has already been taken")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, storeError("user", "find user", err)
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}
	user := &model.User{Email: email, PasswordDigest: string(digest)}
	if err := s.users.Create(ctx, user); err != nil {
		return "", nil, storeError("user", "create user", err)
	}

	token, err := s.issue(user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Login checks credentials and returns a fresh token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.verify(ctx, email, password)
	if err != nil {
		return "", nil, err
	}
	token, err := s.issue(user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Authenticate validates a bearer token and returns the user ID it names.
// Tokens of deleted accounts are rejected.
func (s *AuthService) Authenticate(ctx context.Context, token string) (uint, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(tokenIssuer), jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return 0, apperr.Unauthorized("Invalid or expired token")
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Unauthorized("Invalid or expired token")
	}
	if _, err := s.users.FindByID(ctx, uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperr.Unauthorized("Invalid or expired token")
		}
		return 0, storeError("user", "find user", err)
	}
	return uint(id), nil
}

func (s *AuthService) CurrentUser(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, storeError("user", "find user", err)
	}
	return user, nil
}

// UpdateEmail changes the login email of the account.
func (s *AuthService) UpdateEmail(ctx context.Context, userID uint, email string) (*model.User, error) {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	user, err := s.CurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Email == email {
		return user, nil
	}
	if existing, err := s.users.FindByEmail(ctx, email); err == nil && existing.ID != userID {
		return nil, apperr.Conflict("email", "Email has already been taken")
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storeError("user", "find user", err)
	}
	if err := s.users.UpdateEmail(ctx, user, email); err != nil {
		return nil, storeError("user", "update user", err)
	}
	user.Email = email
	return user, nil
}

// UpdatePassword replaces the password after checking the current one.
func (s *AuthService) UpdatePassword(ctx context.Context, userID uint, current, password, confirmation string) error {
	user, err := s.CurrentUser(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordDigest), []byte(current)) != nil {
		return apperr.Validation("current_password", "Current password is incorrect")
	}
	if err := validatePassword(password, confirmation); err != nil {
		return err
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return storeError("user", "update password", s.users.UpdatePasswordDigest(ctx, user, string(digest)))
}

// DeleteUser removes the account with all its categories and tasks.
func (s *AuthService) DeleteUser(ctx context.Context, userID uint) error {
	return storeError("user", "delete user", s.users.Delete(ctx, userID))
}

// LinkTelegram attaches a Telegram chat to the account owning the credentials.
func (s *AuthService) LinkTelegram(ctx context.Context, telegramID int64, email, password string) (*model.User, error) {
	user, err := s.verify(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := s.users.LinkTelegram(ctx, user.ID, telegramID); err != nil {
		return nil, storeError("user", "link telegram", err)
	}
	user.TelegramID = &telegramID
	return user, nil
}

// UserByTelegram returns the account linked to a Telegram chat.
func (s *AuthService) UserByTelegram(ctx context.Context, telegramID int64) (*model.User, error) {
	user, err := s.users.FindByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, storeError("user", "find user", err)
	}
	return user, nil
}

// LinkedUsers lists accounts with a Telegram chat attached.
func (s *AuthService) LinkedUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.users.ListLinked(ctx)
	if err != nil {
		return nil, storeError("user", "list users", err)
	}
	return users, nil
}

func (s *AuthService) verify(ctx context.Context, email, password string) (*model.User, error) {
	email = normalizeEmail(email)
	if email == "" && password == "" {
		return nil, apperr.Validation("", "Please enter both email and password")
	}
	if email == "" {
		return nil, apperr.Validation("email", "Please enter your email")
	}
	if password == "" {
		return nil, apperr.Validation("password", "Please enter your password")
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, storeError("user", "find user", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordDigest), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthService) issue(userID uint) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   strconv.FormatUint(uint64(userID), 10),
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return apperr.Validation("email", "Please enter your email")
	}
	if !emailPattern.MatchString(email) {
		return apperr.Validation("email", "Please enter a valid email address")
	}
	return nil
}

func validatePassword(password, confirmation string) error {
	if password == "" {
		return apperr.Validation("password", "Password Invalid")
	}
	if password != confirmation {
		return apperr.Validation("password_confirmation", "Passwords do not match")
	}
	return nil
}
