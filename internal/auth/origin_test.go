package auth

import (
	"crypto/tls"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pritamgurung97/Adverts-Nepal/internal/web"
)

func TestHasSameOriginProof(t *testing.T) {
	cases := []struct {
		name    string
		host    string
		tls     bool
		headers map[string]string
		policy  OriginPolicy
		want    bool
	}{
		{"matching origin", "ads.example:8080", false, map[string]string{"Origin": "http://ads.example:8080"}, OriginPolicy{}, true},
		{"default port", "ads.example", false, map[string]string{"Origin": "http://ads.example"}, OriginPolicy{}, true},
		{"explicit default port", "ads.example", false, map[string]string{"Origin": "http://ads.example:80"}, OriginPolicy{}, true},
		{"host is case-insensitive", "Ads.Example", false, map[string]string{"Origin": "http://ADS.example"}, OriginPolicy{}, true},
		{"referer fallback", "ads.example", false, map[string]string{"Referer": "http://ads.example/view-ad/1"}, OriginPolicy{}, true},
		{"origin wins over referer", "ads.example", false, map[string]string{"Origin": "https://evil.example", "Referer": "http://ads.example/"}, OriginPolicy{}, false},
		{"foreign host", "ads.example", false, map[string]string{"Origin": "http://evil.example"}, OriginPolicy{}, false},
		{"foreign port", "ads.example:8080", false, map[string]string{"Origin": "http://ads.example:9090"}, OriginPolicy{}, false},
		{"scheme mismatch", "ads.example", false, map[string]string{"Origin": "https://ads.example"}, OriginPolicy{}, false},
		{"tls request", "ads.example", true, map[string]string{"Origin": "https://ads.example"}, OriginPolicy{}, true},
		{"opaque origin", "ads.example", false, map[string]string{"Origin": "null"}, OriginPolicy{}, false},
		{"no headers", "ads.example", false, nil, OriginPolicy{}, false},
		{"forwarded proto ignored by default", "ads.example", false,
			map[string]string{"Origin": "https://ads.example", "X-Forwarded-Proto": "https"}, OriginPolicy{}, false},
		{"forwarded proto trusted", "ads.example", false,
			map[string]string{"Origin": "https://ads.example", "X-Forwarded-Proto": "https"}, OriginPolicy{TrustForwardedProto: true}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/post-ad", nil)
			req.Host = tc.host
			if tc.tls {
				req.TLS = &tls.ConnectionState{}
			}
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tc.want, HasSameOriginProof(req, tc.policy))
		})
	}
}

func TestRequireSameOrigin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tmpl, err := web.Templates()
	require.NoError(t, err)
	log := logrus.New()
	log.SetOutput(io.Discard)

	reached := 0
	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.POST("/post-ad", RequireSameOrigin(OriginPolicy{}, log), func(c *gin.Context) {
		reached++
		c.Status(http.StatusNoContent)
	})

	send := func(cookie bool, origin string) int {
		req := httptest.NewRequest(http.MethodPost, "http://ads.example/post-ad", nil)
		if cookie {
			req.AddCookie(&http.Cookie{Name: CookieName, Value: "token"})
		}
		if origin != "" {
			req.Header.Set("Origin", origin)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusForbidden, send(true, "https://evil.example"))
	assert.Equal(t, http.StatusForbidden, send(true, ""))
	assert.Equal(t, 0, reached)

	assert.Equal(t, http.StatusNoContent, send(true, "http://ads.example"))
	assert.Equal(t, http.StatusNoContent, send(false, "https://evil.example"))
	assert.Equal(t, 2, reached)
}
