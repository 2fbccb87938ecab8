package web

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupForm struct {
	Name    string `form:"name" binding:"required,notblank"`
	Email   string `form:"email" binding:"required,email"`
	Contact string `form:"contact_number" binding:"required,number"`
	Image   string `form:"img_url" binding:"omitempty,url"`
}

func bindForm(t *testing.T, values url.Values) error {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(values.Encode()))
	c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	var f signupForm
	return c.ShouldBind(&f)
}

func TestFieldErrorsUsesFormNames(t *testing.T) {
	err := bindForm(t, url.Values{"email": {"not-an-email"}, "contact_number": {"12a"}, "img_url": {"nope"}})
	require.Error(t, err)

	errs := FieldErrors(err)
	assert.Equal(t, "This field is required.", errs["name"])
	assert.Equal(t, "Invalid email address.", errs["email"])
	assert.Equal(t, "Must be a whole number.", errs["contact_number"])
	assert.Equal(t, "Invalid URL.", errs["img_url"])
}

func TestFieldErrorsValidForm(t *testing.T) {
	err := bindForm(t, url.Values{"name": {"a"}, "email": {"a@x.com"}, "contact_number": {"555"}})
	require.NoError(t, err)
	assert.Empty(t, FieldErrors(err))
}

func TestFieldErrorsNonValidation(t *testing.T) {
	errs := FieldErrors(errors.New("boom"))
	assert.Contains(t, errs, FormKey)
}

func TestFieldErrorsBlankIsRequired(t *testing.T) {
	err := bindForm(t, url.Values{"name": {"  \t "}, "email": {"a@x.com"}, "contact_number": {"555"}})
	require.Error(t, err)
	assert.Equal(t, map[string]string{"name": "This field is required."}, FieldErrors(err))
}
