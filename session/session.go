// Package session owns the mock user registry and the current-session
// pointer. Accounts are demo fixtures: passwords are stored and compared
// as plain strings on purpose, there is nothing worth protecting in a
// storefront that only exists inside one storage profile.
package session

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	storeerrors "github.com/dailystore/storefront/internal/errors"
	"github.com/dailystore/storefront/kvstore"
)

// Storage keys for the registry and session pointer documents.
const (
	RegistryKey = "dailystore_users_v1"
	SessionKey  = "dailystore_session_v1"
)

// User is a registry record, keyed by its lowercased email.
type User struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// pointer is the persisted session document.
type pointer struct {
	Email string `json:"email"`
}

type Store struct {
	kv  kvstore.Store
	log zerolog.Logger
}

func New(kv kvstore.Store, log zerolog.Logger) (*Store, error) {
	if kv == nil {
		return nil, errors.New("[session.New] kv store is required")
	}
	return &Store{kv: kv, log: log}, nil
}

// Register inserts a new user record. The email is lowercased before
// both the duplicate check and the insertion, so two spellings of the
// same address cannot coexist. Fails with ErrDuplicateEmail.
func (s *Store) Register(name, email, password string) error {
	email = normalizeEmail(email)

	registry := s.registry()
	if _, exists := registry[email]; exists {
		return storeerrors.ErrDuplicateEmail
	}

	registry[email] = User{Name: name, Email: email, Password: password}
	if err := s.saveRegistry(registry); err != nil {
		return errors.Wrap(err, "[session.Register] persist registry")
	}
	return nil
}

// Login checks credentials and, on success, stores the session pointer
// and returns the matched record. Fails with ErrUnknownUser or
// ErrWrongPassword.
func (s *Store) Login(email, password string) (User, error) {
	email = normalizeEmail(email)

	registry := s.registry()
	user, ok := registry[email]
	if !ok {
		return User{}, storeerrors.ErrUnknownUser
	}
	if user.Password != password {
		return User{}, storeerrors.ErrWrongPassword
	}

	raw, err := json.Marshal(pointer{Email: email})
	if err != nil {
		return User{}, errors.Wrap(err, "[session.Login] marshal pointer")
	}
	if err := s.kv.Write(SessionKey, string(raw)); err != nil {
		return User{}, errors.Wrap(err, "[session.Login] persist pointer")
	}
	return user, nil
}

// Logout removes the session pointer. Calling it while logged out is a
// no-op.
func (s *Store) Logout() error {
	if err := s.kv.Remove(SessionKey); err != nil {
		return errors.Wrap(err, "[session.Logout] remove pointer")
	}
	return nil
}

// CurrentUser resolves the session pointer against the registry. A
// missing pointer, a malformed document, or a pointer at an email no
// longer in the registry all report "nobody is logged in", never an
// error.
func (s *Store) CurrentUser() (User, bool) {
	raw, ok := s.kv.Read(SessionKey)
	if !ok {
		return User{}, false
	}

	var p pointer
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		s.log.Warn().Err(err).Msg("session document malformed, treating as logged out")
		return User{}, false
	}
	if p.Email == "" {
		return User{}, false
	}

	user, ok := s.registry()[normalizeEmail(p.Email)]
	return user, ok
}

// registry decodes the stored user registry; absent or malformed
// documents yield an empty registry.
func (s *Store) registry() map[string]User {
	raw, ok := s.kv.Read(RegistryKey)
	if !ok {
		return map[string]User{}
	}

	registry := map[string]User{}
	if err := json.Unmarshal([]byte(raw), &registry); err != nil {
		s.log.Warn().Err(err).Msg("user registry malformed, treating as empty")
		return map[string]User{}
	}
	return registry
}

func (s *Store) saveRegistry(registry map[string]User) error {
	raw, err := json.Marshal(registry)
	if err != nil {
		return errors.Wrap(err, "[session.saveRegistry] marshal registry")
	}
	if err := s.kv.Write(RegistryKey, string(raw)); err != nil {
		return errors.Wrap(err, "[session.saveRegistry] write document")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
