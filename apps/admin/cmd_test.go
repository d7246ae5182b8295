package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"

	"github.com/edutrack/backend/core/session"
	"github.com/edutrack/backend/core/user"
	inmemdb "github.com/edutrack/backend/storage/database/inmem"
	testutil "github.com/edutrack/backend/tests"
)

var usrRepo user.Repository

func setup(t *testing.T) *commandLine {
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open() failed: %v", err)
	}
	usrRepo = inmemdb.NewUserRepository(db)

	sessions := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	sessions.Initialize()

	return &commandLine{
		usrRepo:    usrRepo,
		sessions:   sessions,
		httpClient: &http.Client{Timeout: time.Second},
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	migrateRunFunc = func(db *sql.DB, command string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s requires a VERSION argument", command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create requires a NAME argument")
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to requires a VERSION argument"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create requires a NAME argument"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to requires a VERSION argument"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "reset", args: []string{"migrate", "reset"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
		{name: "create", args: []string{"migrate", "create", "course", "sql"}},
		{name: "fix", args: []string{"migrate", "fix"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != nil {
				if tt.wantErr != nil {
					if err != tt.wantErr {
						t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
					}
				} else if tt.wantErrStr != "" {
					if err.Error() != tt.wantErrStr {
						t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
					}
				} else {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
			}
		})
	}
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli := setup(t)

	usr := testutil.CreateUser(t, usrRepo, "Awe", "awe", "awe@test.cd", "mdr", user.RoleAdmin, 0, true)

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "username but no password", args: []string{"resetpassword", "-username", "lol"}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-username", "lol"}, extra: extra{pwd: "lol"}, wantErr: user.ErrNotFound},
		{name: "reset with username", args: []string{"resetpassword", "-username", usr.Username}, extra: extra{pwd: "lol"}},
		{name: "reset with email", args: []string{"resetpassword", "-username", usr.Email}, extra: extra{pwd: "lmao"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			if extra, ok := tt.extra.(extra); ok {
				return []byte(extra.pwd), nil
			}
			return nil, nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err == nil {
				refreshedUsr, err := usrRepo.GetUserByID(context.Background(), usr.ID)
				if err != nil {
					t.Fatalf("GetUserByID() failed, %v", err)
				}
				if bytes.Equal(refreshedUsr.PasswordHash, usr.PasswordHash) {
					t.Error("failed to update new password")
				}
			} else if err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func Test_commandLine_addUser(t *testing.T) {
	cli := setup(t)

	readPasswordFunc = func(fd int) ([]byte, error) { return []byte("s3cret"), nil }

	if err := cli.run([]string{"admin", "adduser", "-username", "root", "-email", "root@test.cd", "-role", user.RoleSuperAdmin}); err != nil {
		t.Fatalf("cli.run() failed: %v", err)
	}

	usr, err := usrRepo.GetUserByUsername(context.Background(), "root")
	if err != nil {
		t.Fatalf("GetUserByUsername() failed: %v", err)
	}
	if usr.Role != user.RoleSuperAdmin {
		t.Errorf("Role = %s, want %s", usr.Role, user.RoleSuperAdmin)
	}
	if !usr.IsActive {
		t.Error("expected user to be active")
	}
	if err := usr.CheckPassword("s3cret"); err != nil {
		t.Errorf("CheckPassword() failed: %v", err)
	}

	// running again updates instead of duplicating
	readPasswordFunc = func(fd int) ([]byte, error) { return []byte("n3w-pwd"), nil }
	if err := cli.run([]string{"admin", "adduser", "-username", "root", "-email", "root@test.cd"}); err != nil {
		t.Fatalf("cli.run() failed: %v", err)
	}
	refreshed, err := usrRepo.GetUserByUsername(context.Background(), "root")
	if err != nil {
		t.Fatalf("GetUserByUsername() failed: %v", err)
	}
	if refreshed.ID != usr.ID {
		t.Errorf("expected update of user %d, got new user %d", usr.ID, refreshed.ID)
	}
	if err := refreshed.CheckPassword("n3w-pwd"); err != nil {
		t.Errorf("CheckPassword() failed: %v", err)
	}

	// invalid role
	if err := cli.run([]string{"admin", "adduser", "-username", "x", "-email", "x@test.cd", "-role", "GOD"}); err != errHelp {
		t.Errorf("cli.run() error = %v, wantErr %v", err, errHelp)
	}
}

func Test_commandLine_session(t *testing.T) {
	cli := setup(t)

	token := signTestToken(t, "awe", user.RoleInstitutionAdmin, 12)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			var data struct {
				Username string `json:"username"`
				Password string `json:"password"`
			}
			_ = json.NewDecoder(r.Body).Decode(&data)
			if data.Password != "mdr" {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "authentication failed"})
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]string{"token": token})
		case "/api/auth/logout":
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()
	cli.apiBaseURL = srv.URL

	// whoami before login
	if err := cli.whoami(); err != nil {
		t.Fatalf("whoami() failed: %v", err)
	}
	if _, ok := cli.sessions.Current(); ok {
		t.Fatal("expected no active session")
	}

	// failed login leaves no session
	readPasswordFunc = func(fd int) ([]byte, error) { return []byte("wrong"), nil }
	if err := cli.run([]string{"admin", "login", "-username", "awe"}); err == nil {
		t.Fatal("expected login to fail")
	}
	if _, ok := cli.sessions.Current(); ok {
		t.Fatal("expected no active session after failed login")
	}

	// successful login persists the session
	readPasswordFunc = func(fd int) ([]byte, error) { return []byte("mdr"), nil }
	if err := cli.run([]string{"admin", "login", "-username", "awe"}); err != nil {
		t.Fatalf("cli.run() failed: %v", err)
	}
	sess, ok := cli.sessions.Current()
	if !ok {
		t.Fatal("expected an active session")
	}
	if sess.User.Username != "awe" || sess.User.Role != user.RoleInstitutionAdmin || sess.User.InstitutionID != 12 {
		t.Errorf("unexpected session identity: %+v", sess.User)
	}

	// logout clears it; logging out twice is fine
	if err := cli.run([]string{"admin", "logout"}); err != nil {
		t.Fatalf("cli.run() failed: %v", err)
	}
	if _, ok := cli.sessions.Current(); ok {
		t.Fatal("expected no active session after logout")
	}
	if err := cli.run([]string{"admin", "logout"}); err != nil {
		t.Fatalf("second logout failed: %v", err)
	}
}

func signTestToken(t *testing.T, uname, role string, institutionID int) string {
	t.Helper()

	claims := sessionClaims{
		StandardClaims: jwt.StandardClaims{Subject: "1", ExpiresAt: time.Now().Add(time.Hour).Unix()},
		Username:       uname,
		Role:           role,
		InstitutionID:  institutionID,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("signing test token: %v", err)
	}
	return token
}
