package auth

import (
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/addreeh/ph-shopping-list/internal/model"
	"github.com/addreeh/ph-shopping-list/internal/store"
)

// MinPasswordLength is enforced before any store access.
const MinPasswordLength = 6

// User-facing errors. The messages are the exact strings shown in the UI.
var (
	ErrInvalidCredentials = errors.New("Credenciales incorrectas")
	ErrUsernameTaken      = errors.New("El nombre de usuario ya existe")
	ErrUsernameRequired   = errors.New("El nombre de usuario es requerido")
	ErrPasswordMismatch   = errors.New("Las contraseñas no coinciden")
	ErrPasswordTooShort   = errors.New("La contraseña debe tener al menos 6 caracteres")
	ErrAccountCreation    = errors.New("Error al crear la cuenta")
)

// Credentials is the result of a successful login or registration.
type Credentials struct {
	User  model.User `json:"user"`
	Token string     `json:"token"`
}

// Service implements the authentication state machine: validation happens
// before any store access, and an invalid or expired session silently
// demotes to anonymous instead of failing.
type Service struct {
	users    *store.UserStore
	sessions *store.SessionStore
	logger   *slog.Logger
}

func NewService(users *store.UserStore, sessions *store.SessionStore, logger *slog.Logger) *Service {
	return &Service{users: users, sessions: sessions, logger: logger}
}

// Login checks the password against the stored hash and issues a session.
func (s *Service) Login(username, password string) (*Credentials, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	hash, err := s.users.GetPasswordHash(username)
	if err != nil {
		s.logger.Error("login lookup", "error", err)
		return nil, ErrInvalidCredentials
	}
	if hash == "" {
		// Unknown user. Burn a comparison anyway so timing doesn't leak
		// whether the username exists.
		bcrypt.CompareHashAndPassword([]byte("$2a$10$0000000000000000000000"), []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByUsername(username)
	if err != nil || user == nil {
		s.logger.Error("login user fetch", "error", err)
		return nil, ErrInvalidCredentials
	}

	sess, err := s.sessions.Create(user.ID)
	if err != nil {
		s.logger.Error("create session", "error", err)
		return nil, ErrInvalidCredentials
	}

	return &Credentials{User: *user, Token: sess.Token}, nil
}

// Register validates the input locally, then creates the user and a session.
// Validation order matches the sign-up form: confirmation match, username
// required, minimum password length.
func (s *Service) Register(username, displayName, password, passwordConfirm string) (*Credentials, error) {
	if password != passwordConfirm {
		return nil, ErrPasswordMismatch
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if len(password) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = username
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("hash password", "error", err)
		return nil, ErrAccountCreation
	}

	user, err := s.users.Create(username, displayName, string(hash))
	if err != nil {
		if errors.Is(err, store.ErrDuplicateUsername) {
			return nil, ErrUsernameTaken
		}
		s.logger.Error("create user", "error", err)
		return nil, ErrAccountCreation
	}

	sess, err := s.sessions.Create(user.ID)
	if err != nil {
		s.logger.Error("create session", "error", err)
		return nil, ErrAccountCreation
	}

	return &Credentials{User: *user, Token: sess.Token}, nil
}

// Logout invalidates the session best-effort. A store failure is logged
// but never reported: the caller always ends up logged out.
func (s *Service) Logout(token string) {
	if token == "" {
		return
	}
	if err := s.sessions.DeleteByToken(token); err != nil {
		s.logger.Error("logout", "error", err)
	}
}

// CurrentUser resolves a session token to its user. Any rejection
// (missing token, expired session, store error) yields (nil, nil): the
// caller treats it as anonymous and clears its cookie.
func (s *Service) CurrentUser(token string) (*model.User, *model.Session) {
	if token == "" {
		return nil, nil
	}

	sess, err := s.sessions.GetByToken(token)
	if err != nil {
		s.logger.Error("resolve session", "error", err)
		return nil, nil
	}
	if sess == nil {
		return nil, nil
	}

	user, err := s.users.GetByID(sess.UserID)
	if err != nil {
		s.logger.Error("resolve session user", "error", err)
		return nil, nil
	}
	if user == nil {
		return nil, nil
	}
	return user, sess
}
