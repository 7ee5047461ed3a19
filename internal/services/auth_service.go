package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"storefront/internal/logger"
	"storefront/internal/metrics"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/storage"

	"github.com/dgrijalva/jwt-go"
	"go.uber.org/zap"
)

// AuthSettings tunes AuthService.
type AuthSettings struct {
	// AutoProvision makes Login create an account for an unknown identifier.
	// When false, Login fails with ErrUserNotFound instead.
	AutoProvision bool
	JWTSecret     string
	TokenTTL      time.Duration
}

// AuthService is the session store: it owns the known users and the single
// current session of this client.
type AuthService struct {
	users    repositories.UserRepository
	sessions repositories.SessionRepository
	policy   IdentityPolicy
	hasher   PasswordHasher
	settings AuthSettings

	mu      sync.RWMutex
	state   models.SessionState
	current *models.Session
}

// NewAuthService creates a new AuthService. Call Init before serving requests.
func NewAuthService(users repositories.UserRepository, sessions repositories.SessionRepository,
	policy IdentityPolicy, hasher PasswordHasher, settings AuthSettings) *AuthService {
	if settings.TokenTTL <= 0 {
		settings.TokenTTL = 24 * time.Hour
	}
	return &AuthService{
		users:    users,
		sessions: sessions,
		policy:   policy,
		hasher:   hasher,
		settings: settings,
		state:    models.SessionUninitialized,
	}
}

// Init rehydrates the persisted session and returns the resulting state.
func (s *AuthService) Init(ctx context.Context) models.SessionState {
	session := s.sessions.Get(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = session
	if session != nil {
		s.state = models.SessionActive
	} else {
		s.state = models.SessionAnonymous
	}
	return s.state
}

// State reports whether the session is still loading, absent or active.
func (s *AuthService) State() models.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Current returns a copy of the active session, or nil.
func (s *AuthService) Current() *models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	session := *s.current
	return &session
}

// KnownUsers returns every registered user.
func (s *AuthService) KnownUsers(ctx context.Context) []models.User {
	return s.users.GetAll(ctx)
}

// Register creates an account and signs it in.
func (s *AuthService) Register(ctx context.Context, identifier, displayName, password string) (*models.Session, error) {
	id, err := s.policy.Normalize(identifier)
	if err != nil {
		return nil, s.fail("register", err)
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, s.fail("register", invalid("displayName", "Display name is required."))
	}
	if err := s.policy.ValidatePassword(password); err != nil {
		return nil, s.fail("register", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.find(ctx, id) != nil {
		return nil, s.fail("register", fmt.Errorf("%w: %s", ErrDuplicateUser, id))
	}
	user, err := s.provision(ctx, id, displayName, password)
	if err != nil {
		return nil, s.fail("register", err)
	}

	metrics.AuthAttemptsTotal.WithLabelValues("register", "success").Inc()
	return s.establish(ctx, *user), nil
}

// Login signs in an existing account, or provisions one when AutoProvision is set.
// A failed login never changes the current session.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*models.Session, error) {
	if strings.TrimSpace(identifier) == "" || strings.TrimSpace(password) == "" {
		return nil, s.fail("login", invalid("credentials", "Username and password are required."))
	}
	id, err := s.policy.Normalize(identifier)
	if err != nil {
		return nil, s.fail("login", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user := s.find(ctx, id)
	if user == nil {
		if !s.settings.AutoProvision {
			return nil, s.fail("login", fmt.Errorf("%w: %s", ErrUserNotFound, id))
		}
		if err := s.policy.ValidatePassword(password); err != nil {
			return nil, s.fail("login", err)
		}
		if user, err = s.provision(ctx, id, id, password); err != nil {
			return nil, s.fail("login", err)
		}
		logger.Get().Info("account provisioned on first login", zap.String("user", id))
	} else if !s.hasher.Matches(user.PasswordDigest, password) {
		return nil, s.fail("login", ErrAuthentication)
	}

	metrics.AuthAttemptsTotal.WithLabelValues("login", "success").Inc()
	return s.establish(ctx, *user), nil
}

// Logout clears the session. Calling it without a session is a no-op.
func (s *AuthService) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	storage.Swallow("session.clear", s.sessions.Clear(ctx))
	s.current = nil
	s.state = models.SessionAnonymous
}

func (s *AuthService) find(ctx context.Context, id string) *models.User {
	for _, u := range s.users.GetAll(ctx) {
		if s.policy.Equal(u.Identifier, id) {
			return &u
		}
	}
	return nil
}

func (s *AuthService) provision(ctx context.Context, id, displayName, password string) (*models.User, error) {
	digest, err := s.hasher.Digest(password)
	if err != nil {
		return nil, err
	}
	user := models.User{
		Identifier:     id,
		DisplayName:    displayName,
		Phone:          s.policy.Phone(id),
		PasswordDigest: digest,
	}
	storage.Swallow("users.create", s.users.Create(ctx, user))
	return &user, nil
}

func (s *AuthService) establish(ctx context.Context, user models.User) *models.Session {
	session := models.NewSession(user)
	storage.Swallow("session.save", s.sessions.Save(ctx, session))
	s.current = &session
	s.state = models.SessionActive

	out := session
	return &out
}

func (s *AuthService) fail(op string, err error) error {
	metrics.AuthAttemptsTotal.WithLabelValues(op, "failure").Inc()
	return err
}

// IssueToken signs a session token for the given session.
func (s *AuthService) IssueToken(session models.Session) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username":    session.Identifier,
		"displayName": session.DisplayName,
		"exp":         now.Add(s.settings.TokenTTL).Unix(),
		"iat":         now.Unix(),
	})

	tokenString, err := token.SignedString([]byte(s.settings.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses a session token and checks that it still belongs to
// the current session. Tokens issued before a logout or a sign-in by another
// user are rejected.
func (s *AuthService) ValidateToken(tokenString string) (*models.Session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.settings.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: invalid token: %v", ErrAuthentication, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", ErrAuthentication)
	}

	username, _ := claims["username"].(string)
	current := s.Current()
	if current == nil || !s.policy.Equal(current.Identifier, username) {
		return nil, fmt.Errorf("%w: token does not match the active session", ErrNoSession)
	}
	return current, nil
}
