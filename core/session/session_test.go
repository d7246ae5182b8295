package session

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "session.json"))
}

func TestStore_roundTrip(t *testing.T) {
	st := newTestStore(t)
	st.Initialize()
	if !st.Initialized() {
		t.Fatal("Initialized() = false after Initialize()")
	}
	if _, ok := st.Current(); ok {
		t.Fatal("Current() reports a session before login")
	}

	ident := Identity{Username: "awe", Role: "INSTITUTION_ADMIN", InstitutionID: 12}
	if err := st.Login("tok-123", ident); err != nil {
		t.Fatalf("Login() failed: %v", err)
	}

	// a fresh store must see the persisted record
	st2 := NewStore(st.path)
	st2.Initialize()
	sess, ok := st2.Current()
	if !ok {
		t.Fatal("Current() = none; want the persisted session")
	}
	if sess.Token != "tok-123" || sess.User != ident {
		t.Errorf("unexpected session: %+v", sess)
	}
}

func TestStore_initializeFailsOpen(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing file", ""},
		{"corrupt JSON", "{nope"},
		{"missing token", `{"user": {"username": "awe", "role": "ADMIN"}}`},
		{"missing identity", `{"token": "tok-123", "user": {"username": "awe"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newTestStore(t)
			if tt.data != "" {
				if err := os.WriteFile(st.path, []byte(tt.data), 0o600); err != nil {
					t.Fatalf("WriteFile() failed: %v", err)
				}
			}

			st.Initialize()
			if !st.Initialized() {
				t.Error("Initialized() = false after Initialize()")
			}
			if sess, ok := st.Current(); ok {
				t.Errorf("Current() = %+v; want no session", sess)
			}
		})
	}
}

func TestStore_logout(t *testing.T) {
	st := newTestStore(t)
	st.Initialize()
	if err := st.Login("tok-123", Identity{Username: "awe", Role: "ADMIN"}); err != nil {
		t.Fatalf("Login() failed: %v", err)
	}

	if err := st.Logout(); err != nil {
		t.Fatalf("Logout() failed: %v", err)
	}
	if _, ok := st.Current(); ok {
		t.Error("Current() reports a session after logout")
	}
	if _, err := os.Stat(st.path); !os.IsNotExist(err) {
		t.Errorf("session file still exists after logout (err: %v)", err)
	}

	// logging out twice is fine
	if err := st.Logout(); err != nil {
		t.Errorf("second Logout() failed: %v", err)
	}
}
