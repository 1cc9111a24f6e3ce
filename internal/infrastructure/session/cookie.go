package session

import (
	"net/http"
	"time"

	"blog-backend/pkg/jwt"
)

// CookieOptions configures the browser cookie that points at a session.
type CookieOptions struct {
	Name     string
	Path     string
	Secure   bool
	SameSite http.SameSite
}

// Cookies reads and writes signed session cookies. The cookie value is a JWT
// whose "sid" claim is the session id.
type Cookies struct {
	opts   CookieOptions
	signer *jwt.Manager
}

func NewCookies(opts CookieOptions, signer *jwt.Manager) *Cookies {
	if opts.Name == "" {
		opts.Name = "blog_session"
	}
	if opts.Path == "" {
		opts.Path = "/"
	}
	if opts.SameSite == 0 {
		opts.SameSite = http.SameSiteLaxMode
	}
	return &Cookies{opts: opts, signer: signer}
}

func (c *Cookies) Name() string { return c.opts.Name }

// Write sets the cookie for sess.
func (c *Cookies) Write(w http.ResponseWriter, sess *Session) error {
	ttl := time.Until(sess.ExpiresAt)
	value, err := c.signer.SignSession(sess.ID, sess.UserID, ttl)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     c.opts.Name,
		Value:    value,
		Path:     c.opts.Path,
		Expires:  sess.ExpiresAt,
		MaxAge:   int(ttl.Seconds()),
		Secure:   c.opts.Secure,
		HttpOnly: true,
		SameSite: c.opts.SameSite,
	})
	return nil
}

// Read returns the session id carried by the request cookie. Missing,
// tampered or expired cookies yield ok=false.
func (c *Cookies) Read(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(c.opts.Name)
	if err != nil || cookie.Value == "" {
		return "", false
	}

	claims, err := c.signer.ParseSession(cookie.Value)
	if err != nil {
		return "", false
	}
	return claims.SessionID, true
}

func (c *Cookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.opts.Name,
		Value:    "",
		Path:     c.opts.Path,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   c.opts.Secure,
		HttpOnly: true,
		SameSite: c.opts.SameSite,
	})
}
