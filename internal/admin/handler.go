package admin

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pritamgurung97/Adverts-Nepal/internal/ads"
	"github.com/pritamgurung97/Adverts-Nepal/internal/auth"
	"github.com/pritamgurung97/Adverts-Nepal/internal/metrics"
	"github.com/pritamgurung97/Adverts-Nepal/internal/web"
)

// AdRemover deletes an ad and everything that references it.
type AdRemover interface {
	Delete(ctx context.Context, id uint) error
}

type Handler struct {
	ads     AdRemover
	metrics *metrics.Metrics
	log     logrus.FieldLogger
}

func NewHandler(ads AdRemover, m *metrics.Metrics, log logrus.FieldLogger) *Handler {
	return &Handler{ads: ads, metrics: m, log: log}
}

// DeleteAdHandler removes an ad and its comments. Only administrators may
// call it; there is no confirmation step.
func (h *Handler) DeleteAdHandler(c *gin.Context, id auth.Identity) {
	if !auth.IsAdmin(id) {
		web.Error(c, http.StatusForbidden, id, "Only administrators can delete ads.")
		return
	}
	adID, ok := ads.ParamID(c, "ad_id")
	if !ok {
		web.Error(c, http.StatusNotFound, id, "That ad does not exist.")
		return
	}

	if err := h.ads.Delete(c.Request.Context(), adID); err != nil {
		if errors.Is(err, ads.ErrNotFound) {
			web.Error(c, http.StatusNotFound, id, "That ad does not exist.")
			return
		}
		h.log.WithError(err).WithField("ad_id", adID).Error("delete ad")
		web.Error(c, http.StatusInternalServerError, id, "Something went wrong, please try again.")
		return
	}

	h.metrics.AdsDeleted.Inc()
	h.log.WithFields(logrus.Fields{"ad_id": adID, "admin_id": id.ID}).Info("ad deleted")
	web.Redirect(c, "/")
}
