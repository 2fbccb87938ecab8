package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pritamgurung97/Adverts-Nepal/internal/users"
)

const (
	CookieName  = "session"
	identityKey = "identity"
)

// UserStore is the slice of the credential store that auth needs.
type UserStore interface {
	Register(ctx context.Context, in users.NewUser) (*users.User, error)
	Authenticate(ctx context.Context, email, password string) (*users.User, error)
	ByID(ctx context.Context, id uint) (*users.User, error)
}

// Provider turns session cookies into identities and back.
type Provider struct {
	tokens   *TokenIssuer
	sessions SessionStore
	users    UserStore
	secure   bool
	log      logrus.FieldLogger
}

func NewProvider(tokens *TokenIssuer, sessions SessionStore, users UserStore, secureCookie bool, log logrus.FieldLogger) *Provider {
	return &Provider{tokens: tokens, sessions: sessions, users: users, secure: secureCookie, log: log}
}

// Identify resolves the session cookie into an Identity and stores it on
// the context. Invalid, expired or revoked sessions become anonymous and
// their cookie is cleared.
func (p *Provider) Identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(identityKey, p.resolve(c))
		c.Next()
	}
}

func (p *Provider) resolve(c *gin.Context) Identity {
	raw, err := c.Cookie(CookieName)
	if err != nil || raw == "" {
		return Anonymous
	}

	claims, err := p.tokens.Parse(raw)
	if err != nil {
		p.clearCookie(c)
		return Anonymous
	}

	ctx := c.Request.Context()
	userID, live, err := p.sessions.Lookup(ctx, claims.ID)
	if err != nil {
		p.log.WithError(err).Error("session lookup failed")
		return Anonymous
	}
	if !live || userID != claims.UserID {
		p.clearCookie(c)
		return Anonymous
	}

	u, err := p.users.ByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			p.sessions.Revoke(ctx, claims.ID)
			p.clearCookie(c)
		} else {
			p.log.WithError(err).WithField("user_id", claims.UserID).Error("load session user")
		}
		return Anonymous
	}

	return Identity{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Role:          u.Role,
		SessionID:     claims.ID,
		Authenticated: true,
	}
}

// IdentityFrom returns the identity Identify stored, or Anonymous.
func IdentityFrom(c *gin.Context) Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(Identity); ok {
			return id
		}
	}
	return Anonymous
}

// WithIdentity adapts a handler that takes the caller's identity as an
// explicit argument.
func WithIdentity(h func(*gin.Context, Identity)) gin.HandlerFunc {
	return func(c *gin.Context) {
		h(c, IdentityFrom(c))
	}
}

// Start opens a session for u and sets the cookie.
func (p *Provider) Start(c *gin.Context, u *users.User) error {
	sid := uuid.NewString()
	token, err := p.tokens.Issue(u, sid)
	if err != nil {
		return err
	}
	if err := p.sessions.Create(c.Request.Context(), sid, u.ID, p.tokens.TTL()); err != nil {
		return err
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(p.tokens.TTL().Seconds()),
		HttpOnly: true,
		Secure:   p.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// End revokes the caller's session, if any, and clears the cookie.
func (p *Provider) End(c *gin.Context, id Identity) {
	if id.SessionID != "" {
		if err := p.sessions.Revoke(c.Request.Context(), id.SessionID); err != nil {
			p.log.WithError(err).WithField("user_id", id.ID).Warn("revoke session")
		}
	}
	p.clearCookie(c)
}

func (p *Provider) clearCookie(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   p.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
