package service

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/aaravmahajanofficial/qkart-storefront/internal/api/middleware"
	appErrors "github.com/aaravmahajanofficial/qkart-storefront/internal/errors"
	"github.com/aaravmahajanofficial/qkart-storefront/internal/models"
	repository "github.com/aaravmahajanofficial/qkart-storefront/internal/repositories"
)

// Keys under which the session is persisted.
const (
	SessionKeyToken    = "token"
	SessionKeyUsername = "username"
	SessionKeyBalance  = "balance"
)

// SessionService keeps the logged-in user's credentials in memory and
// mirrors them to the persistent store.
type SessionService struct {
	repo repository.SessionRepository
	now  func() time.Time

	mu      sync.RWMutex
	current models.Session
}

func NewSessionService(repo repository.SessionRepository) *SessionService {
	return &SessionService{repo: repo, now: time.Now}
}

// WithClock replaces the clock used for token expiry checks.
func (s *SessionService) WithClock(now func() time.Time) *SessionService {
	s.now = now
	return s
}

// Load restores the persisted session. A missing or expired token leaves
// the user logged out.
func (s *SessionService) Load(ctx context.Context) (models.Session, error) {

	logger := middleware.LoggerFromContext(ctx)

	var session models.Session

	values := map[string]*string{
		SessionKeyToken:    &session.Token,
		SessionKeyUsername: &session.Username,
	}
	for key, dest := range values {
		value, _, getErr := s.repo.Get(ctx, key)
		if getErr != nil {
			return models.Session{}, appErrors.StorageError("Failed to read session").WithError(getErr)
		}
		*dest = value
	}

	balance, ok, err := s.repo.Get(ctx, SessionKeyBalance)
	if err != nil {
		return models.Session{}, appErrors.StorageError("Failed to read session").WithError(err)
	}
	if ok && balance != "" {
		if session.Balance, err = strconv.ParseFloat(balance, 64); err != nil {
			logger.Warn("Ignoring malformed stored balance", slog.String("balance", balance))
			session.Balance = 0
		}
	}

	if !session.Authenticated(s.now()) {
		if session.Token != "" {
			logger.Info("Stored session has expired", slog.String("username", session.Username))
		}
		session = models.Session{}
	}

	s.mu.Lock()
	s.current = session
	s.mu.Unlock()

	return session, nil
}

// Save persists a freshly logged-in session.
func (s *SessionService) Save(ctx context.Context, session models.Session) error {

	values := []struct{ key, value string }{
		{SessionKeyToken, session.Token},
		{SessionKeyUsername, session.Username},
		{SessionKeyBalance, strconv.FormatFloat(session.Balance, 'f', -1, 64)},
	}

	for _, v := range values {
		if err := s.repo.Set(ctx, v.key, v.value); err != nil {
			return appErrors.StorageError("Failed to save session").WithError(err)
		}
	}

	s.mu.Lock()
	s.current = session
	s.mu.Unlock()

	return nil
}

// Clear forgets the session both in memory and in the store.
// The in-memory session survives a failed store delete, so the user is
// never shown as logged out while the token is still persisted.
func (s *SessionService) Clear(ctx context.Context) error {

	if err := s.repo.Clear(ctx); err != nil {
		return appErrors.StorageError("Failed to clear session").WithError(err)
	}

	s.mu.Lock()
	s.current = models.Session{}
	s.mu.Unlock()

	return nil
}

// Current returns the in-memory session, or the zero session once the
// token has expired.
func (s *SessionService) Current() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.current.Authenticated(s.now()) {
		return models.Session{}
	}

	return s.current
}

func (s *SessionService) LoggedIn() bool {
	return s.Current().Token != ""
}
