package ads

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("ad not found")

// Fields are the owner-editable parts of an ad.
type Fields struct {
	Title       string
	Description string
	Price       int64
	ImageURL    string
}

type Store struct {
	db  *gorm.DB
	now func() time.Time
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Create stamps today's date and persists a new ad owned by ownerID.
func (s *Store) Create(ctx context.Context, ownerID uint, f Fields) (*Ad, error) {
	if ownerID == 0 {
		return nil, errors.New("create ad: owner is required")
	}
	ad := Ad{
		Title:       strings.TrimSpace(f.Title),
		Slug:        slug.Make(f.Title),
		Price:       f.Price,
		Description: f.Description,
		ImageURL:    strings.TrimSpace(f.ImageURL),
		Date:        s.now().Format(DateLayout),
		UserID:      ownerID,
	}
	if err := s.db.WithContext(ctx).Create(&ad).Error; err != nil {
		return nil, fmt.Errorf("create ad: %w", err)
	}
	return &ad, nil
}

// List returns every ad with its owner, in storage order.
func (s *Store) List(ctx context.Context) ([]Ad, error) {
	var list []Ad
	if err := s.db.WithContext(ctx).Preload("Author").Order("id ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list ads: %w", err)
	}
	return list, nil
}

// Get loads an ad with its owner and its comments in insertion order.
func (s *Store) Get(ctx context.Context, id uint) (*Ad, error) {
	var ad Ad
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("comments.id ASC") }).
		Preload("Comments.Author").
		First(&ad, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get ad %d: %w", id, err)
	}
	return &ad, nil
}

// Update overwrites the editable fields in place. Owner and date never change.
func (s *Store) Update(ctx context.Context, id uint, f Fields) error {
	res := s.db.WithContext(ctx).Model(&Ad{ID: id}).
		Select("Title", "Slug", "Price", "Description", "ImageURL").
		Updates(Ad{
			Title:       strings.TrimSpace(f.Title),
			Slug:        slug.Make(f.Title),
			Price:       f.Price,
			Description: f.Description,
			ImageURL:    strings.TrimSpace(f.ImageURL),
		})
	if res.Error != nil {
		return fmt.Errorf("update ad %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an ad together with its comments.
func (s *Store) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("ad_id = ?", id).Delete(&Comment{}).Error; err != nil {
			return fmt.Errorf("delete comments of ad %d: %w", id, err)
		}
		res := tx.Delete(&Ad{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete ad %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// AddComment attaches a comment by authorID to the ad.
func (s *Store) AddComment(ctx context.Context, adID, authorID uint, text string) (*Comment, error) {
	if authorID == 0 {
		return nil, errors.New("add comment: author is required")
	}
	cm := Comment{AdID: adID, UserID: authorID, Text: strings.TrimSpace(text)}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&Ad{}).Where("id = ?", adID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return tx.Create(&cm).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("add comment to ad %d: %w", adID, err)
	}
	return &cm, nil
}
