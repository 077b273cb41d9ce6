package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"net/http"
	"strings"

	"golang.org/x/crypto/hkdf"

	"github.com/yndnr/dms-portal/internal/core/domain"
)

// DefaultCookieName is the name of the tab session cookie.
const DefaultCookieName = "dms_tab"

// cookieKeyInfo binds the derived key to its purpose.
const cookieKeyInfo = "dms-portal tab cookie v1"

// CookieCodec signs and verifies tab session cookies.
//
// The cookie carries no Expires or Max-Age, so browsers drop it when the
// browsing session ends.
type CookieCodec struct {
	name   string
	key    []byte
	secure bool
}

// NewCookieCodec derives the signing key from secret with HKDF-SHA256.
func NewCookieCodec(name, secret string, secure bool) (*CookieCodec, error) {
	if name == "" {
		name = DefaultCookieName
	}
	if len(secret) < 16 {
		return nil, domain.ErrInvalidArgument.WithDetails("cookie secret must be at least 16 bytes")
	}

	key := make([]byte, sha256.Size)
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte(cookieKeyInfo))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, domain.ErrInternal.WithCause(err)
	}

	return &CookieCodec{name: name, key: key, secure: secure}, nil
}

// Name returns the cookie name.
func (c *CookieCodec) Name() string {
	return c.name
}

// Encode returns the signed cookie value for id.
func (c *CookieCodec) Encode(id ID) string {
	return string(id) + "." + c.sign(id)
}

// Decode verifies value and returns the tab session ID.
func (c *CookieCodec) Decode(value string) (ID, error) {
	raw, sig, ok := strings.Cut(value, ".")
	if !ok {
		return "", domain.ErrSessionCookieInvalid.WithDetails("missing signature")
	}
	id := ID(raw)
	if !id.Valid() {
		return "", domain.ErrSessionCookieInvalid.WithDetails("malformed id")
	}
	if !hmac.Equal([]byte(sig), []byte(c.sign(id))) {
		return "", domain.ErrSessionCookieInvalid.WithDetails("signature mismatch")
	}
	return id, nil
}

// Read extracts and verifies the tab session ID from r.
func (c *CookieCodec) Read(r *http.Request) (ID, error) {
	ck, err := r.Cookie(c.name)
	if err != nil {
		return "", domain.ErrSessionNotFound.WithCause(err)
	}
	return c.Decode(ck.Value)
}

// Write sets the tab cookie for id on w.
func (c *CookieCodec) Write(w http.ResponseWriter, id ID) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    c.Encode(id),
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Expire removes the tab cookie from the browser.
func (c *CookieCodec) Expire(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c *CookieCodec) sign(id ID) string {
	mac := hmac.New(sha256.New, c.key)
	mac.Write([]byte(id))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
