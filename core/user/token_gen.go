package user

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base32"
	"encoding/base64"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/edutrack/backend/core"
)

// Password reset tokens: "<base32 day-stamp>-<hmac signature>". The signature
// covers the user's ID, password hash and last login, so a token stops
// verifying as soon as the password changes or the user logs in.

var (
	tokenSalt = []byte("edutrack.backend.core.user.token_gen")
	NowFunc   = time.Now // mockable

	errInvalidToken = errors.New("invalid token")
	errTokenExpired = errors.New("token expired")
)

var b32 = base32.StdEncoding.WithPadding(base32.NoPadding)

// EncodeUID base64 encodes a User ID for use in reset links.
func EncodeUID(usr User) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.Itoa(usr.ID)))
}

// DecodeUID reverses EncodeUID.
func DecodeUID(uid string) (int, error) {
	idBytes, err := base64.RawURLEncoding.DecodeString(uid)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(string(idBytes))
}

// MakeToken generates a password reset token for usr, stamped with today.
func MakeToken(usr User) (string, error) {
	return tokenForDay(usr, daysSinceEpoch(NowFunc()))
}

func verifyToken(usr User, token string) error {
	if token == "" {
		return errInvalidToken
	}
	stamp, ok := tokenStamp(token)
	if !ok {
		return errInvalidToken
	}

	expected, err := tokenForDay(usr, stamp)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(expected), []byte(token)) == 0 {
		return errInvalidToken
	}

	maxAge := int(core.Conf.PasswordResetTimeoutDelta / (24 * time.Hour))
	if daysSinceEpoch(NowFunc())-stamp > maxAge {
		return errTokenExpired
	}
	return nil
}

func tokenStamp(token string) (int, bool) {
	parts := strings.SplitN(token, "-", 2)
	if len(parts) < 2 {
		return 0, false
	}
	data, err := b32.DecodeString(parts[0])
	if err != nil {
		return 0, false
	}
	stamp, err := strconv.Atoi(string(data))
	if err != nil {
		return 0, false
	}
	return stamp, true
}

func tokenForDay(usr User, stamp int) (string, error) {
	var val bytes.Buffer
	val.WriteString(strconv.Itoa(usr.ID))
	val.Write(usr.PasswordHash)
	if !usr.LastLogin.IsZero() {
		val.WriteString(usr.LastLogin.String())
	}
	val.WriteString(strconv.Itoa(stamp))

	key := sha256.Sum256(append(tokenSalt, core.Conf.SecretKey...))
	h := hmac.New(sha256.New, key[:])
	if _, err := h.Write(val.Bytes()); err != nil {
		return "", err
	}
	sig := base64.RawURLEncoding.EncodeToString(h.Sum(nil))

	return b32.EncodeToString([]byte(strconv.Itoa(stamp))) + "-" + sig, nil
}

// daysSinceEpoch counts days since 2001-01-01, the token's time unit.
func daysSinceEpoch(t time.Time) int {
	ref := time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)
	return int(math.Ceil(t.Sub(ref).Hours() / 24))
}
