package auth

import (
	"fmt"
	"net/http"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/google/uuid"
)

// Cookie names.
const (
	SessionCookieName = "QN_session"
	FlashCookieName   = "QN_flash"
)

const (
	tokenIssuer   = "quick-note"
	tokenAudience = "quick-note-web"

	// SessionTTL is how long a session cookie stays valid.
	SessionTTL = 30 * 24 * time.Hour
	// FlashTTL bounds how long an unread flash message survives.
	FlashTTL = 10 * time.Minute

	claimUserID  = "userId"
	claimMessage = "message"
)

// SessionManager issues and verifies sealed session and flash cookies. It
// holds no per-user state; everything lives in the encrypted cookie value.
type SessionManager struct {
	key    paseto.V4SymmetricKey
	secure bool
	now    func() time.Time
}

// NewSessionManager creates a manager from a 32-byte secret. secure controls
// the Secure attribute on every cookie it writes.
func NewSessionManager(secret []byte, secure bool) (*SessionManager, error) {
	if len(secret) != keyLength {
		return nil, fmt.Errorf("session secret must be %d bytes, got %d", keyLength, len(secret))
	}
	key, err := paseto.V4SymmetricKeyFromBytes(secret)
	if err != nil {
		return nil, fmt.Errorf("create session key: %w", err)
	}
	return &SessionManager{key: key, secure: secure, now: time.Now}, nil
}

// StartUserSession returns a cookie that authenticates userID for SessionTTL.
func (m *SessionManager) StartUserSession(userID string) (*http.Cookie, error) {
	value, err := m.seal(claimUserID, userID, SessionTTL)
	if err != nil {
		return nil, err
	}
	return m.cookie(SessionCookieName, value, SessionTTL), nil
}

// GetUserID returns the user ID carried by a valid session cookie. Missing,
// tampered, expired or malformed cookies all yield "", false.
func (m *SessionManager) GetUserID(cookies []*http.Cookie) (string, bool) {
	return m.open(cookies, SessionCookieName, claimUserID)
}

// EndUserSession returns a cookie that makes the browser drop the session.
func (m *SessionManager) EndUserSession() *http.Cookie {
	return m.expired(SessionCookieName)
}

// SetFlash returns a cookie carrying a one-shot message for the next page load.
func (m *SessionManager) SetFlash(message string) (*http.Cookie, error) {
	value, err := m.seal(claimMessage, message, FlashTTL)
	if err != nil {
		return nil, err
	}
	return m.cookie(FlashCookieName, value, FlashTTL), nil
}

// ReadFlash returns the pending flash message, or "" if there is none.
func (m *SessionManager) ReadFlash(cookies []*http.Cookie) string {
	msg, _ := m.open(cookies, FlashCookieName, claimMessage)
	return msg
}

// ClearFlash returns a cookie that consumes the flash message.
func (m *SessionManager) ClearFlash() *http.Cookie {
	return m.expired(FlashCookieName)
}

func (m *SessionManager) seal(claim, value string, ttl time.Duration) (string, error) {
	now := m.now()

	token := paseto.NewToken()
	token.SetIssuer(tokenIssuer)
	token.SetAudience(tokenAudience)
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(now.Add(ttl))
	token.SetJti(uuid.NewString())
	if err := token.Set(claim, value); err != nil {
		return "", fmt.Errorf("set %s claim: %w", claim, err)
	}

	return token.V4Encrypt(m.key, nil), nil
}

func (m *SessionManager) open(cookies []*http.Cookie, name, claim string) (string, bool) {
	var raw string
	for _, c := range cookies {
		if c.Name == name {
			raw = c.Value
			break
		}
	}
	if raw == "" {
		return "", false
	}

	parser := paseto.NewParserWithoutExpiryCheck()
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.IssuedBy(tokenIssuer))
	parser.AddRule(paseto.ValidAt(m.now()))

	token, err := parser.ParseV4Local(m.key, raw, nil)
	if err != nil {
		return "", false
	}

	value, err := token.GetString(claim)
	if err != nil || value == "" {
		return "", false
	}
	return value, true
}

func (m *SessionManager) cookie(name, value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (m *SessionManager) expired(name string) *http.Cookie {
	c := m.cookie(name, "", 0)
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0)
	return c
}
