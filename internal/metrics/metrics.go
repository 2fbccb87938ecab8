// Package metrics exposes Prometheus counters for requests and classifieds
// activity.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "adverts"

// Login outcomes.
const (
	LoginSuccess       = "success"
	LoginUnknownEmail  = "unknown_email"
	LoginWrongPassword = "wrong_password"
)

type Metrics struct {
	registry *prometheus.Registry

	Requests       *prometheus.CounterVec
	Registrations  prometheus.Counter
	Logins         *prometheus.CounterVec
	AdsPosted      prometheus.Counter
	AdsEdited      prometheus.Counter
	AdsDeleted     prometheus.Counter
	CommentsPosted prometheus.Counter
}

// New builds a Metrics set on its own registry so tests never collide on
// the process-global default registerer.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		Registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "registrations_total",
			Help: "Accounts created.",
		}),
		Logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "logins_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"}),
		AdsPosted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "ads_posted_total",
			Help: "Ads created.",
		}),
		AdsEdited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "ads_edited_total",
			Help: "Ads edited by their owner.",
		}),
		AdsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "ads_deleted_total",
			Help: "Ads removed by an administrator.",
		}),
		CommentsPosted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "comments_posted_total",
			Help: "Comments created.",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Requests, m.Registrations, m.Logins,
		m.AdsPosted, m.AdsEdited, m.AdsDeleted, m.CommentsPosted,
	)
	return m
}

// Middleware counts every request by its route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.Requests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
