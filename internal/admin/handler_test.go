package admin

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pritamgurung97/Adverts-Nepal/internal/ads"
	"github.com/pritamgurung97/Adverts-Nepal/internal/auth"
	"github.com/pritamgurung97/Adverts-Nepal/internal/metrics"
	"github.com/pritamgurung97/Adverts-Nepal/internal/users"
	"github.com/pritamgurung97/Adverts-Nepal/internal/web"
)

type fakeRemover struct {
	deleted []uint
	err     error
}

func (f *fakeRemover) Delete(_ context.Context, id uint) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func newRouter(t *testing.T, h *Handler, caller auth.Identity) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tmpl, err := web.Templates()
	require.NoError(t, err)
	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.GET("/delete/:ad_id", func(c *gin.Context) { h.DeleteAdHandler(c, caller) })
	return r
}

func TestDeleteAdHandler(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	admin := auth.Identity{ID: 1, Name: "Root", Role: users.RoleAdmin, Authenticated: true}
	member := auth.Identity{ID: 2, Name: "Sam", Role: users.RoleUser, Authenticated: true}

	tests := []struct {
		name       string
		caller     auth.Identity
		path       string
		removeErr  error
		wantStatus int
		wantIDs    []uint
	}{
		{name: "admin deletes", caller: admin, path: "/delete/7", wantStatus: http.StatusFound, wantIDs: []uint{7}},
		{name: "member forbidden", caller: member, path: "/delete/7", wantStatus: http.StatusForbidden},
		{name: "anonymous forbidden", caller: auth.Anonymous, path: "/delete/7", wantStatus: http.StatusForbidden},
		{name: "admin with role but signed out", caller: auth.Identity{ID: 1, Role: users.RoleAdmin}, path: "/delete/7", wantStatus: http.StatusForbidden},
		{name: "missing ad", caller: admin, path: "/delete/7", removeErr: ads.ErrNotFound, wantStatus: http.StatusNotFound},
		{name: "bad id", caller: admin, path: "/delete/zero", wantStatus: http.StatusNotFound},
		{name: "store failure", caller: admin, path: "/delete/7", removeErr: errors.New("disk full"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remover := &fakeRemover{err: tt.removeErr}
			m := metrics.New()
			r := newRouter(t, NewHandler(remover, m, log), tt.caller)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantIDs, remover.deleted)
			if tt.wantStatus == http.StatusFound {
				assert.Equal(t, "/", w.Header().Get("Location"))
				assert.Equal(t, 1.0, testutil.ToFloat64(m.AdsDeleted))
			} else {
				assert.Zero(t, testutil.ToFloat64(m.AdsDeleted))
			}
		})
	}
}
