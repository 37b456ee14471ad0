package user

import (
	"agriVest/domain"
	"agriVest/pkg/logger"
	"agriVest/pkg/metrics"
	"agriVest/pkg/utils"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// UserRepository contract interface
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindByUsername(ctx context.Context, username string) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindAll(ctx context.Context, filter domain.UserFilter) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// TokenRepository contract interface
type TokenRepository interface {
	FindByUserID(ctx context.Context, userID uint) (domain.AuthToken, error)
	FindByKey(ctx context.Context, key string) (domain.AuthToken, error)
	CreateIfAbsent(ctx context.Context, token domain.AuthToken) (domain.AuthToken, error)
	DeleteByUserID(ctx context.Context, userID uint) error
}

// Notifier records in-app notifications.
type Notifier interface {
	Notify(ctx context.Context, userID uint, title, message string) error
}

// Mailer sends outbound mail.
type Mailer interface {
	Send(ctx context.Context, mail domain.Mail) error
}

type Config struct {
	JWTSecret        string
	AdminEmail       string
	DefaultFromEmail string
}

type userService struct {
	userRepo  UserRepository
	tokenRepo TokenRepository
	validate  *validator.Validate
	notifier  Notifier
	mailer    Mailer
	cfg       Config
}

const (
	SubjectWelcome    = "Welcome to Agricvest 🌱"
	EmailBodyWelcome  = "Hi %s,\n\nWelcome to Agricvest! Your account has been successfully created.\n\nThank you for joining us!"
	SubjectAdminAlert = "New User Registered on Agricvest"
	EmailBodyAdmin    = "A new user has registered: %s (%s)"

	NotificationWelcomeTitle   = "Welcome to Agricvest 🌿"
	NotificationWelcomeMessage = "Your account has been successfully created. We're happy to have you!"
	NotificationLoginTitle     = "Login Successful"
	NotificationLoginMessage   = "Welcome back to AgricVest, %s!"
)

func NewUserService(
	userRepo UserRepository,
	tokenRepo TokenRepository,
	validate *validator.Validate,
	notifier Notifier,
	mailer Mailer,
	cfg Config,
) *userService {
	return &userService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		validate:  validate,
		notifier:  notifier,
		mailer:    mailer,
		cfg:       cfg,
	}
}

type RegisterInput struct {
	Username  string
	Email     string
	Phone     string
	Role      string
	Password  string
	Password2 string
}

// Register creates the account, then fires the welcome mail, the admin alert
// and the welcome notification in that order. A side-effect failure is
// returned as-is; the account stays created.
func (s *userService) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	if in.Password != in.Password2 {
		return domain.User{}, fmt.Errorf("%w: password fields didn't match", domain.ErrValidation)
	}

	if !domain.ValidRoles[in.Role] {
		return domain.User{}, fmt.Errorf("%w: %q is not a valid role", domain.ErrValidation, in.Role)
	}

	if err := s.validate.Var(in.Email, "required,email"); err != nil {
		logger.Error("Invalid email format", err)
		return domain.User{}, fmt.Errorf("%w: enter a valid email address", domain.ErrValidation)
	}

	if err := checkPasswordPolicy(in.Password, in.Username, in.Email); err != nil {
		return domain.User{}, err
	}

	if _, err := s.userRepo.FindByUsername(ctx, in.Username); err == nil {
		return domain.User{}, fmt.Errorf("%w: a user with that username already exists", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, err
	}

	if _, err := s.userRepo.FindByEmail(ctx, in.Email); err == nil {
		return domain.User{}, fmt.Errorf("%w: a user with that email already exists", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, err
	}

	passwordHash, err := utils.HashPassword(in.Password)
	if err != nil {
		logger.Error("Failed to hash password", err)
		return domain.User{}, errors.New("failed to hash password")
	}

	newUser := domain.User{
		Username:   in.Username,
		Email:      in.Email,
		Password:   string(passwordHash),
		Role:       in.Role,
		IsVerified: true,
		IsActive:   true,
	}
	if phone := strings.TrimSpace(in.Phone); phone != "" {
		newUser.Phone = &phone
	}

	if err := s.userRepo.Create(ctx, &newUser); err != nil {
		logger.Error("Failed to create new user", err)
		return domain.User{}, err
	}

	newUser.Password = ""
	metrics.Registrations.Inc()
	logger.Info("User registered", "user_id", newUser.ID, "role", newUser.Role)

	err = s.mailer.Send(ctx, domain.Mail{
		Subject: SubjectWelcome,
		Body:    fmt.Sprintf(EmailBodyWelcome, newUser.Username),
		From:    s.cfg.DefaultFromEmail,
		To:      []string{newUser.Email},
	})
	if err != nil {
		logger.Error("Failed to send welcome email", err)
		return newUser, err
	}

	err = s.mailer.Send(ctx, domain.Mail{
		Subject: SubjectAdminAlert,
		Body:    fmt.Sprintf(EmailBodyAdmin, newUser.Username, newUser.Email),
		From:    s.cfg.DefaultFromEmail,
		To:      []string{s.cfg.AdminEmail},
	})
	if err != nil {
		logger.Error("Failed to send admin alert email", err)
		return newUser, err
	}

	if err := s.notifier.Notify(ctx, newUser.ID, NotificationWelcomeTitle, NotificationWelcomeMessage); err != nil {
		return newUser, err
	}

	return newUser, nil
}

// Login checks the credentials and returns the user's bearer token, issuing
// one only if none exists yet.
func (s *userService) Login(ctx context.Context, username, password string) (string, domain.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return "", domain.User{}, err
		}
		metrics.Logins.WithLabelValues("rejected").Inc()
		logger.Warn("Login for unknown user", "username", username)
		return "", domain.User{}, domain.ErrUnauthenticated
	}

	if !utils.CheckPassword(password, user.Password) || !user.IsActive {
		metrics.Logins.WithLabelValues("rejected").Inc()
		logger.Warn("Login rejected", "user_id", user.ID)
		return "", domain.User{}, domain.ErrUnauthenticated
	}

	token, err := s.getOrCreateToken(ctx, user)
	if err != nil {
		logger.Error("Failed to issue token", err)
		return "", domain.User{}, errors.New("failed to generate token")
	}

	if err := s.notifier.Notify(ctx, user.ID, NotificationLoginTitle, fmt.Sprintf(NotificationLoginMessage, user.Username)); err != nil {
		return "", domain.User{}, err
	}

	metrics.Logins.WithLabelValues("accepted").Inc()

	user.Password = ""
	return token.Key, user, nil
}

func (s *userService) getOrCreateToken(ctx context.Context, user domain.User) (domain.AuthToken, error) {
	token, err := s.tokenRepo.FindByUserID(ctx, user.ID)
	if err == nil {
		return token, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.AuthToken{}, err
	}

	key, err := utils.GenerateJWT(s.cfg.JWTSecret, strconv.FormatUint(uint64(user.ID), 10), user.Role)
	if err != nil {
		return domain.AuthToken{}, err
	}

	return s.tokenRepo.CreateIfAbsent(ctx, domain.AuthToken{
		Key:       key,
		UserID:    user.ID,
		CreatedAt: time.Now(),
	})
}

// Authenticate resolves a bearer token to its active user. The token must be
// correctly signed and still on record.
func (s *userService) Authenticate(ctx context.Context, key string) (domain.User, error) {
	claims, err := utils.ParseJWT(s.cfg.JWTSecret, key)
	if err != nil {
		return domain.User{}, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}

	token, err := s.tokenRepo.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, fmt.Errorf("%w: token revoked", domain.ErrUnauthenticated)
		}
		return domain.User{}, err
	}

	if strconv.FormatUint(uint64(token.UserID), 10) != claims.UserID {
		return domain.User{}, fmt.Errorf("%w: token owner mismatch", domain.ErrUnauthenticated)
	}

	user, err := s.userRepo.FindByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, fmt.Errorf("%w: user gone", domain.ErrUnauthenticated)
		}
		return domain.User{}, err
	}

	if !user.IsActive {
		return domain.User{}, fmt.Errorf("%w: user inactive", domain.ErrUnauthenticated)
	}

	user.Password = ""
	return user, nil
}

// Logout revokes the user's token.
func (s *userService) Logout(ctx context.Context, userID uint) error {
	if err := s.tokenRepo.DeleteByUserID(ctx, userID); err != nil {
		logger.Error("Failed to delete token", err)
		return err
	}

	return nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("Failed to get user by ID", err)
		return domain.User{}, err
	}

	user.Password = ""
	return user, nil
}

// ListUsers backs the administrative user listing.
func (s *userService) ListUsers(ctx context.Context, filter domain.UserFilter) ([]domain.User, error) {
	users, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		logger.Error("Failed to get all users", err)
		return nil, err
	}

	for i := range users {
		users[i].Password = ""
	}

	return users, nil
}

// UpdateUserFlags lets staff activate, verify or promote an account.
// Deactivating an account also revokes its token.
func (s *userService) UpdateUserFlags(ctx context.Context, id uint, patch domain.UserFlagsPatch) (domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("Failed to get user by ID", err)
		return domain.User{}, err
	}

	patch.Apply(&user)

	if err := s.userRepo.Update(ctx, &user); err != nil {
		logger.Error("Failed to update user", err)
		return domain.User{}, err
	}

	if !user.IsActive {
		if err := s.tokenRepo.DeleteByUserID(ctx, user.ID); err != nil {
			logger.Error("Failed to revoke token of inactive user", err)
			return domain.User{}, err
		}
	}

	logger.Info("User flags updated", "user_id", user.ID, "is_active", user.IsActive, "is_staff", user.IsStaff)

	user.Password = ""
	return user, nil
}
