package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareCountsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/view-ad/:ad_id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/view-ad/1", "/view-ad/2", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Requests.WithLabelValues("/view-ad/:ad_id", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("unmatched", "GET", "404")))
}

func TestHandlerExposesCounters(t *testing.T) {
	m := New()
	m.AdsPosted.Inc()
	m.Logins.WithLabelValues(LoginWrongPassword).Inc()

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "adverts_ads_posted_total 1")
	assert.Contains(t, w.Body.String(), `adverts_logins_total{outcome="wrong_password"} 1`)
}
