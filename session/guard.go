// Package session holds the admin authentication state. The backend's opaque
// bearer token is wrapped in a signed JWT and stored in a single HTTP-only
// cookie. Validity of the backend token is discovered lazily on the first
// failing call; the backend independently rejects unauthorized mutations.
package session

import (
	"context"
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/backend"
	"github.com/trezcool/shule/core"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrServer             = errors.New("login failed, please try again later")
)

// Claims wraps the backend bearer token in signed form.
type Claims struct {
	jwt.StandardClaims
	BackendToken string `json:"btk,omitempty"`
}

type Guard struct {
	client     *backend.Client
	conf       *core.Config
	cookieName string
	loginURL   string
}

func NewGuard(client *backend.Client, conf *core.Config) *Guard {
	return &Guard{
		client:     client,
		conf:       conf,
		cookieName: conf.SessionCookie,
		loginURL:   "/admin/login",
	}
}

// Login authenticates against the backend and stores the returned token.
// Fails with ErrInvalidCredentials on 401, ErrServer otherwise.
func (g *Guard) Login(c echo.Context, email, password string) error {
	var resp struct {
		Token string `json:"token"`
	}
	body := map[string]string{"email": core.CleanString(email, true), "password": password}
	if err := g.client.PostJSON(c.Request().Context(), "/admin/login", body, &resp); err != nil {
		if backend.IsAuthFailure(err) {
			return ErrInvalidCredentials
		}
		return ErrServer
	}
	if resp.Token == "" {
		return ErrServer
	}

	signed, err := g.sign(resp.Token)
	if err != nil {
		return ErrServer
	}
	g.setCookie(c, signed, g.conf.JWTExpirationDelta)
	return nil
}

// Logout drops the session. The backend call is best-effort; the cookie is
// always cleared and calling Logout twice is harmless.
func (g *Guard) Logout(c echo.Context) {
	if tok := g.Token(c); tok != "" {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
		defer cancel()
		_ = g.client.WithToken(tok).PostJSON(ctx, "/admin/logout", nil, nil)
	}
	g.Expire(c)
}

// Expire clears the session cookie without calling the backend.
// Used when any admin call surfaces an authentication failure.
func (g *Guard) Expire(c echo.Context) {
	g.setCookie(c, "", -time.Hour)
}

// Token returns the stored backend bearer token, or "" when anonymous.
func (g *Guard) Token(c echo.Context) string {
	cookie, err := c.Cookie(g.cookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}

	claims := new(Claims)
	token, err := jwt.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return g.conf.SecretKey, nil
	})
	if err != nil || !token.Valid {
		return ""
	}
	return claims.BackendToken
}

// IsAuthenticated reports whether a stored token is present. Synchronous;
// no server round-trip.
func (g *Guard) IsAuthenticated(c echo.Context) bool {
	return g.Token(c) != ""
}

// Client returns the backend client bound to the request's session token.
func (g *Guard) Client(c echo.Context) *backend.Client {
	return g.client.WithToken(g.Token(c))
}

// Middleware gates admin routes: anonymous requests are redirected to the
// login screen without rendering admin children.
func (g *Guard) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !g.IsAuthenticated(c) {
				return c.Redirect(http.StatusFound, g.loginURL)
			}
			return next(c)
		}
	}
}

func (g *Guard) sign(backendToken string) (string, error) {
	now := time.Now()
	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    g.conf.AppName,
			ExpiresAt: now.Add(g.conf.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		BackendToken: backendToken,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(g.conf.SecretKey)
}

func (g *Guard) setCookie(c echo.Context, value string, maxAge time.Duration) {
	cookie := &http.Cookie{
		Name:     g.cookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   !g.conf.Debug,
	}
	if maxAge < 0 {
		cookie.MaxAge = -1
	} else {
		cookie.Expires = time.Now().Add(maxAge)
	}
	c.SetCookie(cookie)
}
