// Package server assembles the gin engine: middleware, templates and
// routes.
package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pritamgurung97/Adverts-Nepal/internal/admin"
	"github.com/pritamgurung97/Adverts-Nepal/internal/ads"
	"github.com/pritamgurung97/Adverts-Nepal/internal/api"
	"github.com/pritamgurung97/Adverts-Nepal/internal/auth"
	"github.com/pritamgurung97/Adverts-Nepal/internal/logging"
	"github.com/pritamgurung97/Adverts-Nepal/internal/metrics"
	"github.com/pritamgurung97/Adverts-Nepal/internal/users"
	"github.com/pritamgurung97/Adverts-Nepal/internal/web"
)

// Models lists every table the application owns, in dependency order.
var Models = []interface{}{&users.User{}, &ads.Ad{}, &ads.Comment{}}

type Deps struct {
	DB           *gorm.DB
	Sessions     auth.SessionStore
	Tokens       *auth.TokenIssuer
	Metrics      *metrics.Metrics
	Log          *logrus.Logger
	SecureCookie bool
	// TrustForwardedProto lets a TLS-terminating proxy report the scheme for
	// same-origin checks.
	TrustForwardedProto bool
}

func New(d Deps) (*gin.Engine, error) {
	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	userStore := users.NewStore(d.DB)
	adStore := ads.NewStore(d.DB)
	provider := auth.NewProvider(d.Tokens, d.Sessions, userStore, d.SecureCookie, d.Log)

	authHandler := auth.NewHandler(userStore, provider, d.Metrics, d.Log)
	adHandler := ads.NewHandler(adStore, d.Metrics, d.Log)
	adminHandler := admin.NewHandler(adStore, d.Metrics, d.Log)
	apiHandler := api.NewHandler(adStore, d.Log)

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		d.Log.WithField("panic", recovered).Error("recovered from panic")
		c.AbortWithStatus(http.StatusInternalServerError)
	}))
	r.Use(logging.Middleware(d.Log))
	r.Use(d.Metrics.Middleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	apiGroup := r.Group("/api")
	apiGroup.GET("/ads", apiHandler.ListAdsHandler)
	apiGroup.GET("/ads/:ad_id", apiHandler.GetAdHandler)

	site := r.Group("/")
	site.Use(provider.Identify())
	sameOrigin := auth.RequireSameOrigin(auth.OriginPolicy{TrustForwardedProto: d.TrustForwardedProto}, d.Log)
	{
		site.GET("/", auth.WithIdentity(adHandler.List))
		site.GET("/about", auth.WithIdentity(about))

		site.GET("/register", auth.WithIdentity(authHandler.RegisterPage))
		site.POST("/register", sameOrigin, auth.WithIdentity(authHandler.Register))
		site.GET("/login", auth.WithIdentity(authHandler.LoginPage))
		site.POST("/login", sameOrigin, auth.WithIdentity(authHandler.Login))
		site.GET("/logout", auth.WithIdentity(authHandler.Logout))

		site.GET("/post-ad", auth.WithIdentity(adHandler.PostPage))
		site.POST("/post-ad", sameOrigin, auth.WithIdentity(adHandler.Post))
		site.GET("/view-ad/:ad_id", auth.WithIdentity(adHandler.View))
		site.POST("/view-ad/:ad_id", sameOrigin, auth.WithIdentity(adHandler.Comment))
		site.GET("/edit-ad/:ad_id/:owner_id", auth.WithIdentity(adHandler.EditPage))
		site.POST("/edit-ad/:ad_id/:owner_id", sameOrigin, auth.WithIdentity(adHandler.Edit))

		// delete is a GET link, so it needs the check explicitly
		site.GET("/delete/:ad_id", sameOrigin, auth.WithIdentity(adminHandler.DeleteAdHandler))
	}

	r.NoRoute(provider.Identify(), auth.WithIdentity(func(c *gin.Context, id auth.Identity) {
		web.Error(c, http.StatusNotFound, id, "Page not found.")
	}))

	return r, nil
}

func about(c *gin.Context, id auth.Identity) {
	web.Render(c, http.StatusOK, "about.html", id, gin.H{"Title": "About"})
}
