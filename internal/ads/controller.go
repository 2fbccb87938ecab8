package ads

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pritamgurung97/Adverts-Nepal/internal/auth"
	"github.com/pritamgurung97/Adverts-Nepal/internal/flash"
	"github.com/pritamgurung97/Adverts-Nepal/internal/metrics"
	"github.com/pritamgurung97/Adverts-Nepal/internal/web"
)

const (
	MsgLoginToComment = "You need to login or register to comment."
	MsgLoginToPost    = "You need to login or register to post an ad."
	msgNotFound       = "That ad does not exist."
	msgForbidden      = "You are not allowed to do that."
	msgInternalFailed = "Something went wrong, please try again."
)

type adForm struct {
	Title       string `form:"title" binding:"required,notblank,max=250"`
	Description string `form:"description" binding:"required,notblank"`
	Price       string `form:"price" binding:"required,number"`
	ImageURL    string `form:"img_url" binding:"omitempty,url,max=250"`
}

func (f adForm) fields() (Fields, error) {
	price, err := strconv.ParseInt(f.Price, 10, 64)
	if err != nil {
		return Fields{}, err
	}
	return Fields{Title: f.Title, Description: f.Description, Price: price, ImageURL: f.ImageURL}, nil
}

func formFromAd(ad *Ad) adForm {
	return adForm{
		Title:       ad.Title,
		Description: ad.Description,
		Price:       strconv.FormatInt(ad.Price, 10),
		ImageURL:    ad.ImageURL,
	}
}

type commentForm struct {
	Text string `form:"comment_text" binding:"required,notblank"`
}

// Handler serves the ad list, ad detail with comments, and ad posting and
// editing.
type Handler struct {
	store   *Store
	metrics *metrics.Metrics
	log     logrus.FieldLogger
}

func NewHandler(store *Store, m *metrics.Metrics, log logrus.FieldLogger) *Handler {
	return &Handler{store: store, metrics: m, log: log}
}

func (h *Handler) List(c *gin.Context, id auth.Identity) {
	list, err := h.store.List(c.Request.Context())
	if err != nil {
		h.fail(c, id, err)
		return
	}
	web.Render(c, http.StatusOK, "index.html", id, gin.H{"Ads": list})
}

func (h *Handler) PostPage(c *gin.Context, id auth.Identity) {
	if !id.Authenticated {
		flash.Write(c, flash.Error(MsgLoginToPost))
		web.Redirect(c, "/login")
		return
	}
	h.renderForm(c, http.StatusOK, id, "/post-ad", false, adForm{}, nil)
}

func (h *Handler) Post(c *gin.Context, id auth.Identity) {
	if !id.Authenticated {
		flash.Write(c, flash.Error(MsgLoginToPost))
		web.Redirect(c, "/login")
		return
	}

	var form adForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderForm(c, http.StatusBadRequest, id, "/post-ad", false, form, web.FieldErrors(err))
		return
	}
	fields, err := form.fields()
	if err != nil {
		h.renderForm(c, http.StatusBadRequest, id, "/post-ad", false, form, map[string]string{"price": "Must be a whole number."})
		return
	}

	ad, err := h.store.Create(c.Request.Context(), id.ID, fields)
	if err != nil {
		h.fail(c, id, err)
		return
	}
	h.metrics.AdsPosted.Inc()
	h.log.WithFields(logrus.Fields{"ad_id": ad.ID, "user_id": id.ID}).Info("ad posted")
	web.Redirect(c, "/")
}

func (h *Handler) View(c *gin.Context, id auth.Identity) {
	adID, ok := ParamID(c, "ad_id")
	if !ok {
		web.Error(c, http.StatusNotFound, id, msgNotFound)
		return
	}
	h.renderView(c, http.StatusOK, id, adID, "", nil)
}

// Comment accepts a comment from an authenticated caller and re-renders the
// ad with the updated comment list. Anonymous callers are sent to login and
// nothing is stored.
func (h *Handler) Comment(c *gin.Context, id auth.Identity) {
	adID, ok := ParamID(c, "ad_id")
	if !ok {
		web.Error(c, http.StatusNotFound, id, msgNotFound)
		return
	}
	if !id.Authenticated {
		flash.Write(c, flash.Error(MsgLoginToComment))
		web.Redirect(c, "/login")
		return
	}

	var form commentForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderView(c, http.StatusBadRequest, id, adID, form.Text, web.FieldErrors(err))
		return
	}

	cm, err := h.store.AddComment(c.Request.Context(), adID, id.ID, form.Text)
	if err != nil {
		h.fail(c, id, err)
		return
	}
	h.metrics.CommentsPosted.Inc()
	h.log.WithFields(logrus.Fields{"ad_id": adID, "comment_id": cm.ID, "user_id": id.ID}).Info("comment posted")
	h.renderView(c, http.StatusOK, id, adID, "", nil)
}

func (h *Handler) EditPage(c *gin.Context, id auth.Identity) {
	ad, ok := h.ownedAd(c, id)
	if !ok {
		return
	}
	h.renderForm(c, http.StatusOK, id, editPath(ad), true, formFromAd(ad), nil)
}

func (h *Handler) Edit(c *gin.Context, id auth.Identity) {
	ad, ok := h.ownedAd(c, id)
	if !ok {
		return
	}

	var form adForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderForm(c, http.StatusBadRequest, id, editPath(ad), true, form, web.FieldErrors(err))
		return
	}
	fields, err := form.fields()
	if err != nil {
		h.renderForm(c, http.StatusBadRequest, id, editPath(ad), true, form, map[string]string{"price": "Must be a whole number."})
		return
	}

	if err := h.store.Update(c.Request.Context(), ad.ID, fields); err != nil {
		h.fail(c, id, err)
		return
	}
	h.metrics.AdsEdited.Inc()
	h.log.WithFields(logrus.Fields{"ad_id": ad.ID, "user_id": id.ID}).Info("ad edited")
	web.Redirect(c, fmt.Sprintf("/view-ad/%d", ad.ID))
}

// ownedAd applies the owner-only guard before anything is loaded, then
// confirms the stored owner matches the owner named in the URL.
func (h *Handler) ownedAd(c *gin.Context, id auth.Identity) (*Ad, bool) {
	ownerID, ok := ParamID(c, "owner_id")
	if !ok || !auth.IsOwner(id, ownerID) {
		web.Error(c, http.StatusForbidden, id, msgForbidden)
		return nil, false
	}
	adID, ok := ParamID(c, "ad_id")
	if !ok {
		web.Error(c, http.StatusNotFound, id, msgNotFound)
		return nil, false
	}

	ad, err := h.store.Get(c.Request.Context(), adID)
	if err != nil {
		h.fail(c, id, err)
		return nil, false
	}
	if ad.UserID != ownerID {
		web.Error(c, http.StatusForbidden, id, msgForbidden)
		return nil, false
	}
	return ad, true
}

func (h *Handler) renderView(c *gin.Context, status int, id auth.Identity, adID uint, text string, errs map[string]string) {
	ad, err := h.store.Get(c.Request.Context(), adID)
	if err != nil {
		h.fail(c, id, err)
		return
	}
	web.Render(c, status, "view.html", id, gin.H{
		"Title":       ad.Title,
		"Ad":          ad,
		"CommentText": text,
		"Errors":      errs,
	})
}

func (h *Handler) renderForm(c *gin.Context, status int, id auth.Identity, action string, editing bool, form adForm, errs map[string]string) {
	title := "Post an ad"
	if editing {
		title = "Edit ad"
	}
	web.Render(c, status, "post.html", id, gin.H{
		"Title":   title,
		"Action":  action,
		"Editing": editing,
		"Form":    form,
		"Errors":  errs,
	})
}

func (h *Handler) fail(c *gin.Context, id auth.Identity, err error) {
	if errors.Is(err, ErrNotFound) {
		web.Error(c, http.StatusNotFound, id, msgNotFound)
		return
	}
	h.log.WithError(err).WithField("path", c.Request.URL.Path).Error("ads handler")
	web.Error(c, http.StatusInternalServerError, id, msgInternalFailed)
}

func editPath(ad *Ad) string {
	return fmt.Sprintf("/edit-ad/%d/%d", ad.ID, ad.UserID)
}

// ParamID parses a positive integer path parameter.
func ParamID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
