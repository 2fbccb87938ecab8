package auth

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pritamgurung97/Adverts-Nepal/internal/web"
)

// OriginPolicy controls how the request's own origin is resolved.
//
// X-Forwarded-Proto is only honoured when TrustForwardedProto is set, since
// any client can send it.
type OriginPolicy struct {
	TrustForwardedProto bool
}

// RequireSameOrigin rejects state-changing requests that carry a session
// cookie unless their Origin or Referer names this site. Requests without a
// session cookie pass through; they have no session to ride on.
func RequireSameOrigin(policy OriginPolicy, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := c.Cookie(CookieName); err != nil {
			c.Next()
			return
		}
		if !HasSameOriginProof(c.Request, policy) {
			log.WithFields(logrus.Fields{
				"path":    c.Request.URL.Path,
				"origin":  c.Request.Header.Get("Origin"),
				"referer": c.Request.Header.Get("Referer"),
			}).Warn("cross-origin request rejected")
			web.Error(c, http.StatusForbidden, IdentityFrom(c), "This request did not come from this site.")
			c.Abort()
			return
		}
		c.Next()
	}
}

// HasSameOriginProof reports whether Origin, or failing that Referer,
// matches the scheme, host and port the request was sent to.
func HasSameOriginProof(r *http.Request, policy OriginPolicy) bool {
	scheme, host, port := requestOrigin(r, policy)
	if host == "" {
		return false
	}
	if origin := strings.TrimSpace(r.Header.Get("Origin")); origin != "" {
		return sameOrigin(origin, scheme, host, port)
	}
	if referer := strings.TrimSpace(r.Header.Get("Referer")); referer != "" {
		return sameOrigin(referer, scheme, host, port)
	}
	return false
}

func sameOrigin(raw, scheme, host, port string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	s := strings.ToLower(u.Scheme)
	if s == "" || s != scheme {
		return false
	}
	if strings.ToLower(u.Hostname()) != host {
		return false
	}
	p := u.Port()
	if p == "" {
		p = defaultPort(s)
	}
	return p != "" && p == port
}

func requestOrigin(r *http.Request, policy OriginPolicy) (scheme, host, port string) {
	scheme = "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if policy.TrustForwardedProto {
		if fwd := strings.ToLower(strings.TrimSpace(r.Header.Get("X-Forwarded-Proto"))); fwd == "http" || fwd == "https" {
			scheme = fwd
		}
	}

	u, err := url.Parse("//" + strings.TrimSpace(r.Host))
	if err != nil {
		return scheme, "", ""
	}
	host = strings.ToLower(u.Hostname())
	port = u.Port()
	if port == "" {
		port = defaultPort(scheme)
	}
	return scheme, host, port
}

func defaultPort(scheme string) string {
	switch scheme {
	case "https":
		return "443"
	case "http":
		return "80"
	}
	return ""
}
