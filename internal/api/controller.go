package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pritamgurung97/Adverts-Nepal/internal/ads"
)

type AdResponse struct {
	ID          uint              `json:"id"`
	Title       string            `json:"title"`
	Slug        string            `json:"slug"`
	Price       int64             `json:"price"`
	Description string            `json:"description"`
	ImageURL    string            `json:"img_url,omitempty"`
	Date        string            `json:"date"`
	Owner       OwnerResponse     `json:"owner"`
	Comments    []CommentResponse `json:"comments,omitempty"`
}

type OwnerResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type CommentResponse struct {
	ID     uint          `json:"id"`
	Text   string        `json:"text"`
	Author OwnerResponse `json:"author"`
}

func toResponse(ad *ads.Ad) AdResponse {
	resp := AdResponse{
		ID:          ad.ID,
		Title:       ad.Title,
		Slug:        ad.Slug,
		Price:       ad.Price,
		Description: ad.Description,
		ImageURL:    ad.ImageURL,
		Date:        ad.Date,
		Owner:       OwnerResponse{ID: ad.Author.ID, Name: ad.Author.Name},
	}
	for _, cm := range ad.Comments {
		resp.Comments = append(resp.Comments, CommentResponse{
			ID:     cm.ID,
			Text:   cm.Text,
			Author: OwnerResponse{ID: cm.Author.ID, Name: cm.Author.Name},
		})
	}
	return resp
}

// AdReader is the read side of the ad store.
type AdReader interface {
	List(ctx context.Context) ([]ads.Ad, error)
	Get(ctx context.Context, id uint) (*ads.Ad, error)
}

// Handler serves read-only JSON views of ads. Contact details and emails
// are never exposed.
type Handler struct {
	ads AdReader
	log logrus.FieldLogger
}

func NewHandler(ads AdReader, log logrus.FieldLogger) *Handler {
	return &Handler{ads: ads, log: log}
}

// ListAdsHandler returns every ad.
func (h *Handler) ListAdsHandler(c *gin.Context) {
	list, err := h.ads.List(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("api list ads")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	data := make([]AdResponse, 0, len(list))
	for i := range list {
		data = append(data, toResponse(&list[i]))
	}
	c.JSON(http.StatusOK, gin.H{"data": data})
}

// GetAdHandler returns a single ad with its comments.
func (h *Handler) GetAdHandler(c *gin.Context) {
	id, ok := ads.ParamID(c, "ad_id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "ad not found"})
		return
	}

	ad, err := h.ads.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ads.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ad not found"})
			return
		}
		h.log.WithError(err).WithField("ad_id", id).Error("api get ad")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": toResponse(ad)})
}
