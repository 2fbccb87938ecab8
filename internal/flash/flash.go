// Package flash carries one-time notices across a redirect in a cookie.
package flash

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const CookieName = "flash"

type Kind string

const (
	KindInfo  Kind = "info"
	KindError Kind = "error"
)

type Notice struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

func Info(msg string) Notice  { return Notice{Kind: KindInfo, Message: msg} }
func Error(msg string) Notice { return Notice{Kind: KindError, Message: msg} }

// Write stores a notice for the next page render.
func Write(c *gin.Context, notice Notice) {
	if strings.TrimSpace(notice.Message) == "" {
		return
	}
	if notice.Kind == "" {
		notice.Kind = KindInfo
	}
	payload, err := json.Marshal(notice)
	if err != nil {
		return
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     CookieName,
		Value:    base64.RawURLEncoding.EncodeToString(payload),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ReadAndClear returns the pending notice, if any, and expires the cookie.
func ReadAndClear(c *gin.Context) (Notice, bool) {
	cookie, err := c.Request.Cookie(CookieName)
	if err != nil {
		return Notice{}, false
	}
	Clear(c)

	decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(cookie.Value))
	if err != nil {
		return Notice{}, false
	}
	var notice Notice
	if err := json.Unmarshal(decoded, &notice); err != nil || notice.Message == "" {
		return Notice{}, false
	}
	return notice, true
}

func Clear(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
