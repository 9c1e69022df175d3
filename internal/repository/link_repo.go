package repository

import (
	"sync"
	"time"

	"kefu/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LinkPatch carries the fields of a partial update; nil means unchanged.
type LinkPatch struct {
	Name          *string `json:"name"`
	URL           *string `json:"url"`
	ImageURL      *string `json:"imageUrl"`
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	ButtonText    *string `json:"buttonText"`
	AutoRedirect  *bool   `json:"autoRedirect"`
	RedirectDelay *int    `json:"redirectDelay"`
	IsActive      *bool   `json:"isActive"`
}

func (p LinkPatch) Apply(l *models.ChatLink) {
	if p.Name != nil {
		l.Name = *p.Name
	}
	if p.URL != nil {
		l.URL = *p.URL
	}
	if p.ImageURL != nil {
		l.ImageURL = *p.ImageURL
	}
	if p.Title != nil {
		l.Title = *p.Title
	}
	if p.Description != nil {
		l.Description = *p.Description
	}
	if p.ButtonText != nil {
		l.ButtonText = *p.ButtonText
	}
	if p.AutoRedirect != nil {
		l.AutoRedirect = *p.AutoRedirect
	}
	if p.RedirectDelay != nil {
		l.RedirectDelay = *p.RedirectDelay
	}
	if p.IsActive != nil {
		l.IsActive = *p.IsActive
	}
}

type LinkRepository interface {
	// List returns links newest first.
	List() ([]models.ChatLink, error)
	GetByID(id string) (*models.ChatLink, error)
	Create(l *models.ChatLink) error
	Update(id string, patch LinkPatch) (*models.ChatLink, error)
	// Delete removes the link; deleting an unknown id is not an error.
	Delete(id string) error
}

type linkRepository struct {
	db *gorm.DB
}

func NewLinkRepository(db *gorm.DB) LinkRepository {
	return &linkRepository{db: db}
}

func (r *linkRepository) List() ([]models.ChatLink, error) {
	list := []models.ChatLink{}
	err := r.db.Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *linkRepository) GetByID(id string) (*models.ChatLink, error) {
	var l models.ChatLink
	if err := r.db.First(&l, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &l, nil
}

func (r *linkRepository) Create(l *models.ChatLink) error {
	// Select all columns so false/zero values are written instead of the
	// column defaults.
	return r.db.Select("*").Create(l).Error
}

func (r *linkRepository) Update(id string, patch LinkPatch) (*models.ChatLink, error) {
	var l models.ChatLink
	if err := r.db.First(&l, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	patch.Apply(&l)
	if err := r.db.Save(&l).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *linkRepository) Delete(id string) error {
	return r.db.Delete(&models.ChatLink{}, "id = ?", id).Error
}

type memoryLinkRepository struct {
	mu    sync.RWMutex
	links []models.ChatLink
}

func NewMemoryLinkRepository() LinkRepository {
	return &memoryLinkRepository{links: []models.ChatLink{*models.DefaultLink()}}
}

func (r *memoryLinkRepository) List() ([]models.ChatLink, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.ChatLink{}, r.links...), nil
}

func (r *memoryLinkRepository) GetByID(id string) (*models.ChatLink, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.links {
		if r.links[i].ID == id {
			l := r.links[i]
			return &l, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryLinkRepository) Create(l *models.ChatLink) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.links = append([]models.ChatLink{*l}, r.links...)
	return nil
}

func (r *memoryLinkRepository) Update(id string, patch LinkPatch) (*models.ChatLink, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.links {
		if r.links[i].ID == id {
			patch.Apply(&r.links[i])
			l := r.links[i]
			return &l, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryLinkRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.links[:0]
	for _, l := range r.links {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	r.links = kept
	return nil
}
