// internal/form/csrf.go
//
// TechHub: Forms subsystem, stateless CSRF tokens and fill-time checks.
//
// Context
//   Every rendered form embeds a hidden `csrf_token`.  The token is
//   self-verifying, so no server-side session is needed:
//
//      base64url( nonce | unixMicro | HMAC_SHA256(secret, nonce+unixMicro) )
//
//   •  nonce: 16 random bytes, making each rendered form unique.  The
//      registration handler also uses the whole token as the key that
//      collapses duplicate posts of one rendered form.
//   •  unixMicro: issue time, 8 bytes, big-endian.
//   •  HMAC: proves we issued it.
//
//   VerifySubmission checks the signature, then the fill time.  A form posted
//   faster than forms.min_fill is treated as automated, and one older than
//   forms.max_age has expired.
//
// Workflow
//   •  Configure(Settings) once at boot (cmd/web).  Tests call it too.
//   •  GenerateToken() per render.
//   •  VerifySubmission(tok) per POST; nil or one of the Err* sentinels.
//
//------------------------------------------------------------------------------

package form

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

const tokenBytes = 16 + 8 + sha256.Size // nonce + ts + sig

// Submission rejections.
var (
	ErrBadToken = errors.New("invalid security token")
	ErrTooFast  = errors.New("form submitted too quickly")
	ErrExpired  = errors.New("form expired")
)

// RejectionMessage returns the user-facing text for a VerifySubmission error.
func RejectionMessage(err error) string {
	switch {
	case errors.Is(err, ErrTooFast):
		return "Form submitted too quickly.  Please take a moment to fill in the fields."
	case errors.Is(err, ErrExpired):
		return "This form has expired.  Please reload the page and submit again."
	default:
		return "Security token invalid.  Please refresh and try again."
	}
}

// Settings tune token verification.
type Settings struct {
	Secret  string        // HMAC key; random per process when empty
	MinFill time.Duration // minimum time between render and post
	MaxAge  time.Duration // token lifetime
}

var (
	csrfMu   sync.RWMutex
	settings = Settings{MaxAge: 30 * time.Minute}
	key      []byte
)

// Configure installs s.  An empty secret gets a random key, which means
// tokens do not survive a restart and are not shared between replicas.
func Configure(s Settings) {
	csrfMu.Lock()
	defer csrfMu.Unlock()
	configureLocked(s)
}

func configureLocked(s Settings) {
	k := []byte(s.Secret)
	if len(k) == 0 {
		k = make([]byte, 32)
		_, _ = rand.Read(k)
		zap.S().Warn("security.csrf_key not set, using a random per-process key")
	}
	if s.MaxAge <= 0 {
		s.MaxAge = 30 * time.Minute
	}
	settings, key = s, k
}

// GenerateToken creates a new token.  Call once per render.
func GenerateToken() (string, error) {
	return generateAt(time.Now())
}

func generateAt(now time.Time) (string, error) {
	sec, _ := current()

	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	ts := make([]byte, 8)
	binary.BigEndian.PutUint64(ts, uint64(now.UnixMicro()))

	buf := make([]byte, 0, tokenBytes)
	buf = append(buf, nonce...)
	buf = append(buf, ts...)
	buf = append(buf, sign(sec, nonce, ts)...)
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// VerifySubmission checks tok's signature and fill time.
func VerifySubmission(tok string) error {
	sec, s := current()

	raw, err := base64.RawURLEncoding.DecodeString(tok)
	if err != nil || len(raw) != tokenBytes {
		return ErrBadToken
	}
	nonce, tsBytes, sig := raw[:16], raw[16:24], raw[24:]
	if !hmac.Equal(sig, sign(sec, nonce, tsBytes)) {
		return ErrBadToken
	}

	issued := time.UnixMicro(int64(binary.BigEndian.Uint64(tsBytes)))
	age := time.Since(issued)
	switch {
	case age < -time.Minute: // clock skew beyond tolerance
		return ErrBadToken
	case age < s.MinFill:
		return ErrTooFast
	case age > s.MaxAge:
		return ErrExpired
	}
	return nil
}

func sign(sec, nonce, ts []byte) []byte {
	mac := hmac.New(sha256.New, sec)
	mac.Write(nonce)
	mac.Write(ts)
	return mac.Sum(nil)
}

// current returns the key and settings, generating a key on first use when
// Configure was never called.
func current() ([]byte, Settings) {
	csrfMu.RLock()
	k, s := key, settings
	csrfMu.RUnlock()
	if k != nil {
		return k, s
	}

	csrfMu.Lock()
	defer csrfMu.Unlock()
	if key == nil {
		configureLocked(settings)
	}
	return key, settings
}
