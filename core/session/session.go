// Package session holds the client-side session record of the operator CLI:
// the authenticated identity plus its bearer token, persisted to disk so a
// restart does not lose the session. Identity claims are decoded from the
// token as presented and trusted, not re-verified; the server is the only
// party that checks signatures.
package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// Identity mirrors the token claims the server issues at login.
type Identity struct {
	Username      string `json:"username"`
	Role          string `json:"role"`
	InstitutionID int    `json:"institutionId,omitempty"`
}

// Session is the active authentication state.
type Session struct {
	Token string   `json:"token"`
	User  Identity `json:"user"`
}

func (s Session) IsZero() bool { return s.Token == "" }

// Store is the single source of truth for "who is logged in".
// It owns the persisted record; consumers only read it.
type Store struct {
	path string

	mu          sync.RWMutex
	sess        Session
	initialized bool
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath places the session file under the user config dir.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "edutrack", "session.json")
}

// Initialize reads any persisted session record. Malformed or partial data is
// treated as "no session"; Initialize never fails because of it. It always
// marks the store initialized so consumers can distinguish "not yet checked"
// from "checked and absent".
func (st *Store) Initialize() {
	st.mu.Lock()
	defer st.mu.Unlock()
	defer func() { st.initialized = true }()

	st.sess = Session{}
	data, err := os.ReadFile(st.path)
	if err != nil {
		return
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return
	}
	if sess.Token == "" || sess.User.Username == "" || sess.User.Role == "" {
		return
	}
	st.sess = sess
}

func (st *Store) Initialized() bool {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.initialized
}

// Current returns the active session, if any.
func (st *Store) Current() (Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.sess, !st.sess.IsZero()
}

// Login makes the given token and identity the active session and persists
// them immediately. The caller is expected to have already confirmed a
// successful authentication response.
func (st *Store) Login(token string, ident Identity) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	sess := Session{Token: token, User: ident}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding session")
	}
	if err := os.MkdirAll(filepath.Dir(st.path), 0o700); err != nil {
		return errors.Wrap(err, "creating session dir")
	}
	if err := os.WriteFile(st.path, data, 0o600); err != nil {
		return errors.Wrap(err, "persisting session")
	}
	st.sess = sess
	st.initialized = true
	return nil
}

// Logout clears the active session and its persisted copy. Idempotent.
func (st *Store) Logout() error {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.sess = Session{}
	st.initialized = true
	if err := os.Remove(st.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing session file")
	}
	return nil
}
