package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aaravmahajanofficial/qkart-storefront/internal/api/middleware"
	appErrors "github.com/aaravmahajanofficial/qkart-storefront/internal/errors"
	"github.com/aaravmahajanofficial/qkart-storefront/internal/models"
	"github.com/aaravmahajanofficial/qkart-storefront/internal/notify"
	repository "github.com/aaravmahajanofficial/qkart-storefront/internal/repositories"
	"github.com/aaravmahajanofficial/qkart-storefront/internal/telemetry"
	"github.com/go-playground/validator/v10"
)

const (
	MsgUsernameRequired = "Username is a required field"
	MsgUsernameTooShort = "Username must be at least 6 characters"
	MsgPasswordRequired = "Password is a required field"
	MsgPasswordTooShort = "Password must be at least 6 characters"
	MsgPasswordMismatch = "Passwords do not match"

	MsgRegistered   = "Registered successfully"
	MsgLoggedIn     = "Logged in successfully"
	MsgLogoutFailed = "Could not log out, the saved session could not be removed"
)

type fieldRule struct {
	field   string
	tag     string
	message string
}

// Checked in order; the first failing rule wins.
var registrationRules = []fieldRule{
	{"Username", "required", MsgUsernameRequired},
	{"Username", "min", MsgUsernameTooShort},
	{"Password", "required", MsgPasswordRequired},
	{"ConfirmPassword", "required", MsgPasswordRequired},
	{"Password", "min", MsgPasswordTooShort},
	{"ConfirmPassword", "eqfield", MsgPasswordMismatch},
}

var loginRules = []fieldRule{
	{"Username", "required", MsgUsernameRequired},
	{"Password", "required", MsgPasswordRequired},
}

type UserService struct {
	repo     repository.UserRepository
	sessions *SessionService
	cart     *CartService
	notifier notify.Notifier
	validate *validator.Validate
}

func NewUserService(repo repository.UserRepository, sessions *SessionService, cart *CartService, notifier notify.Notifier) *UserService {
	return &UserService{
		repo:     repo,
		sessions: sessions,
		cart:     cart,
		notifier: notifier,
		validate: validator.New(),
	}
}

// ValidateRegistration returns the first failing check, or nil.
func (s *UserService) ValidateRegistration(req *models.RegisterRequest) error {
	return s.check(req, registrationRules)
}

func (s *UserService) ValidateLogin(req *models.LoginRequest) error {
	return s.check(req, loginRules)
}

// Register validates the form and, only if it passes, creates the account.
func (s *UserService) Register(ctx context.Context, req *models.RegisterRequest) error {

	ctx, span := telemetry.StartSpan(ctx, "UserService.Register")
	defer span.End()

	logger := middleware.LoggerFromContext(ctx)

	if err := s.ValidateRegistration(req); err != nil {
		s.notifier.Notify(notify.VariantWarning, err.Error())
		return err
	}

	_, err := s.repo.Register(ctx, &models.RegisterPayload{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		telemetry.RecordError(span, err)
		logger.Error("Registration failed", slog.String("username", req.Username), slog.String("error", err.Error()))
		s.notifier.Notify(notify.VariantError, appErrors.UserMessage(err, appErrors.MsgBackendUnavailable))
		return err
	}

	logger.Info("User registered", slog.String("username", req.Username))

	s.notifier.Notify(notify.VariantSuccess, MsgRegistered)
	return nil
}

// Login authenticates and persists the resulting session.
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.Session, error) {

	ctx, span := telemetry.StartSpan(ctx, "UserService.Login")
	defer span.End()

	logger := middleware.LoggerFromContext(ctx)

	if err := s.ValidateLogin(req); err != nil {
		s.notifier.Notify(notify.VariantWarning, err.Error())
		return nil, err
	}

	res, err := s.repo.Login(ctx, req)
	if err != nil {
		telemetry.RecordError(span, err)
		logger.Error("Login failed", slog.String("username", req.Username), slog.String("error", err.Error()))
		s.notifier.Notify(notify.VariantError, appErrors.UserMessage(err, appErrors.MsgBackendUnavailable))
		return nil, err
	}

	session := models.Session{
		Username: res.Username,
		Token:    res.Token,
		Balance:  res.Balance,
	}
	if session.Username == "" {
		session.Username = req.Username
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		telemetry.RecordError(span, err)
		logger.Error("Failed to persist session", slog.String("error", err.Error()))
		s.notifier.Notify(notify.VariantError, appErrors.MsgBackendUnavailable)
		return nil, err
	}

	logger.Info("User logged in", slog.String("username", session.Username))

	s.notifier.Notify(notify.VariantSuccess, MsgLoggedIn)
	return &session, nil
}

// Logout forgets the session and the local cart.
func (s *UserService) Logout(ctx context.Context) error {

	logger := middleware.LoggerFromContext(ctx)

	username := s.sessions.Current().Username

	if err := s.sessions.Clear(ctx); err != nil {
		logger.Error("Failed to clear session", slog.String("error", err.Error()))
		s.notifier.Notify(notify.VariantError, MsgLogoutFailed)
		return err
	}

	if s.cart != nil {
		s.cart.Reset()
	}

	logger.Info("User logged out", slog.String("username", username))
	return nil
}

func (s *UserService) check(req any, rules []fieldRule) error {

	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return appErrors.InternalError("Failed to validate form").WithError(err)
	}

	failed := make(map[[2]string]bool, len(validationErrs))
	for _, fe := range validationErrs {
		failed[[2]string{fe.StructField(), fe.Tag()}] = true
	}

	for _, rule := range rules {
		if failed[[2]string{rule.field, rule.tag}] {
			return appErrors.ValidationError(rule.message)
		}
	}

	return appErrors.ValidationError(validationErrs[0].Error())
}
