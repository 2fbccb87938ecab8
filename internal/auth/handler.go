package auth

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pritamgurung97/Adverts-Nepal/internal/flash"
	"github.com/pritamgurung97/Adverts-Nepal/internal/metrics"
	"github.com/pritamgurung97/Adverts-Nepal/internal/users"
	"github.com/pritamgurung97/Adverts-Nepal/internal/web"
)

const (
	MsgEmailTaken     = "You've already signed up with that email, log in instead!"
	MsgUnknownEmail   = "That email does not exist, please try again."
	MsgWrongPassword  = "Password incorrect, please try again."
	msgInternalFailed = "Something went wrong, please try again."
)

type registerForm struct {
	Name          string `form:"name" binding:"required,notblank,max=250"`
	Email         string `form:"email" binding:"required,email,max=250"`
	ContactNumber string `form:"contact_number" binding:"required,number"`
	Password      string `form:"password" binding:"required,notblank"`
}

type loginForm struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required,notblank"`
}

// Handler serves registration, login and logout.
type Handler struct {
	users    UserStore
	provider *Provider
	metrics  *metrics.Metrics
	log      logrus.FieldLogger
}

func NewHandler(users UserStore, provider *Provider, m *metrics.Metrics, log logrus.FieldLogger) *Handler {
	return &Handler{users: users, provider: provider, metrics: m, log: log}
}

func (h *Handler) RegisterPage(c *gin.Context, id Identity) {
	h.renderRegister(c, http.StatusOK, id, registerForm{}, nil)
}

func (h *Handler) Register(c *gin.Context, id Identity) {
	var form registerForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderRegister(c, http.StatusBadRequest, id, form, web.FieldErrors(err))
		return
	}
	contact, err := strconv.ParseInt(form.ContactNumber, 10, 64)
	if err != nil {
		h.renderRegister(c, http.StatusBadRequest, id, form, map[string]string{"contact_number": "Must be a whole number."})
		return
	}

	u, err := h.users.Register(c.Request.Context(), users.NewUser{
		Name:          form.Name,
		Email:         form.Email,
		ContactNumber: contact,
		Password:      form.Password,
	})
	if errors.Is(err, users.ErrEmailTaken) {
		flash.Write(c, flash.Error(MsgEmailTaken))
		web.Redirect(c, "/login")
		return
	}
	if err != nil {
		h.log.WithError(err).Error("register user")
		web.Error(c, http.StatusInternalServerError, id, msgInternalFailed)
		return
	}

	h.metrics.Registrations.Inc()
	h.log.WithFields(logrus.Fields{"user_id": u.ID, "role": u.Role}).Info("user registered")

	if err := h.provider.Start(c, u); err != nil {
		h.log.WithError(err).WithField("user_id", u.ID).Error("start session")
		web.Error(c, http.StatusInternalServerError, id, msgInternalFailed)
		return
	}
	web.Redirect(c, "/")
}

func (h *Handler) LoginPage(c *gin.Context, id Identity) {
	h.renderLogin(c, http.StatusOK, id, loginForm{}, nil, "")
}

func (h *Handler) Login(c *gin.Context, id Identity) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderLogin(c, http.StatusBadRequest, id, form, web.FieldErrors(err), "")
		return
	}

	u, err := h.users.Authenticate(c.Request.Context(), form.Email, form.Password)
	switch {
	case errors.Is(err, users.ErrNotFound):
		h.metrics.Logins.WithLabelValues(metrics.LoginUnknownEmail).Inc()
		flash.Write(c, flash.Error(MsgUnknownEmail))
		web.Redirect(c, "/login")
		return
	case errors.Is(err, users.ErrPasswordMismatch):
		h.metrics.Logins.WithLabelValues(metrics.LoginWrongPassword).Inc()
		h.renderLogin(c, http.StatusUnauthorized, id, form, nil, MsgWrongPassword)
		return
	case err != nil:
		h.log.WithError(err).Error("authenticate")
		web.Error(c, http.StatusInternalServerError, id, msgInternalFailed)
		return
	}

	if err := h.provider.Start(c, u); err != nil {
		h.log.WithError(err).WithField("user_id", u.ID).Error("start session")
		web.Error(c, http.StatusInternalServerError, id, msgInternalFailed)
		return
	}
	h.metrics.Logins.WithLabelValues(metrics.LoginSuccess).Inc()
	web.Redirect(c, "/")
}

// Logout always succeeds, whether or not the caller was signed in.
func (h *Handler) Logout(c *gin.Context, id Identity) {
	h.provider.End(c, id)
	web.Redirect(c, "/")
}

func (h *Handler) renderRegister(c *gin.Context, status int, id Identity, form registerForm, errs map[string]string) {
	form.Password = ""
	web.Render(c, status, "register.html", id, gin.H{
		"Title":  "Register",
		"Form":   form,
		"Errors": errs,
	})
}

func (h *Handler) renderLogin(c *gin.Context, status int, id Identity, form loginForm, errs map[string]string, msg string) {
	form.Password = ""
	web.Render(c, status, "login.html", id, gin.H{
		"Title":   "Log In",
		"Form":    form,
		"Errors":  errs,
		"Message": msg,
	})
}
