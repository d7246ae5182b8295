package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"

	"github.com/edutrack/backend/core"
	"github.com/edutrack/backend/core/session"
)

// sessionClaims is the subset of the server's token claims the CLI records.
// The token is decoded as presented; only the server verifies signatures.
type sessionClaims struct {
	jwt.StandardClaims
	Username      string `json:"username"`
	Role          string `json:"role"`
	InstitutionID int    `json:"institutionId,omitempty"`
}

func (cli *commandLine) login(uname, pwd string) error {
	body, err := json.Marshal(map[string]string{
		"username": core.CleanString(uname, true /* lower */),
		"password": pwd,
	})
	if err != nil {
		return errors.Wrap(err, "encoding login request")
	}

	resp, err := cli.httpClient.Post(cli.apiBaseURL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "calling login API")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return errors.New(apiErr.Error)
		}
		return errors.Errorf("login failed: %s", resp.Status)
	}

	var data struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return errors.Wrap(err, "decoding login response")
	}

	claims := new(sessionClaims)
	if _, _, err := new(jwt.Parser).ParseUnverified(data.Token, claims); err != nil {
		return errors.Wrap(err, "decoding token")
	}

	ident := session.Identity{
		Username:      claims.Username,
		Role:          claims.Role,
		InstitutionID: claims.InstitutionID,
	}
	if err := cli.sessions.Login(data.Token, ident); err != nil {
		return err
	}
	fmt.Printf("Logged in as %s (%s)\n", ident.Username, ident.Role)
	return nil
}

func (cli *commandLine) logout() error {
	sess, ok := cli.sessions.Current()
	if ok {
		// best effort server-side revocation; the local session goes either way
		req, err := http.NewRequest(http.MethodPost, cli.apiBaseURL+"/api/auth/logout", nil)
		if err == nil {
			req.Header.Set("Authorization", "Bearer "+sess.Token)
			if resp, err := cli.httpClient.Do(req); err == nil {
				resp.Body.Close()
			}
		}
	}
	if err := cli.sessions.Logout(); err != nil {
		return err
	}
	fmt.Println("Logged out.")
	return nil
}

func (cli *commandLine) whoami() error {
	sess, ok := cli.sessions.Current()
	if !ok {
		fmt.Println("Not logged in.")
		return nil
	}
	if sess.User.InstitutionID > 0 {
		fmt.Printf("%s (%s) @ institution %d\n", sess.User.Username, sess.User.Role, sess.User.InstitutionID)
	} else {
		fmt.Printf("%s (%s)\n", sess.User.Username, sess.User.Role)
	}
	return nil
}
