package repository

import (
	"kefu/internal/models"

	"gorm.io/gorm"
)

// TemplatePatch carries the fields of a partial update; nil means unchanged.
type TemplatePatch struct {
	Title    *string
	Content  *string
	Category *string
	Order    *int
}

func (p TemplatePatch) apply(t *models.MessageTemplate) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Content != nil {
		t.Content = *p.Content
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Order != nil {
		t.Order = *p.Order
	}
}

type TemplateRepository interface {
	List(adminID string) ([]models.MessageTemplate, error)
	Create(t *models.MessageTemplate) error
	Update(id string, patch TemplatePatch) (*models.MessageTemplate, error)
	Delete(id string) error
}

type templateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &templateRepository{db: db}
}

func (r *templateRepository) List(adminID string) ([]models.MessageTemplate, error) {
	list := []models.MessageTemplate{}
	err := r.db.Where("admin_id = ?", adminID).Order("sort_order ASC").Order("created_at ASC").Find(&list).Error
	return list, err
}

func (r *templateRepository) Create(t *models.MessageTemplate) error {
	return r.db.Create(t).Error
}

func (r *templateRepository) Update(id string, patch TemplatePatch) (*models.MessageTemplate, error) {
	var t models.MessageTemplate
	if err := r.db.First(&t, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	patch.apply(&t)
	if err := r.db.Save(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *templateRepository) Delete(id string) error {
	res := r.db.Delete(&models.MessageTemplate{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// unavailableTemplateRepository backs templates when no database is
// configured: reads are empty and writes fail with ErrNoDatabase.
type unavailableTemplateRepository struct{}

func (unavailableTemplateRepository) List(string) ([]models.MessageTemplate, error) {
	return []models.MessageTemplate{}, nil
}

func (unavailableTemplateRepository) Create(*models.MessageTemplate) error { return ErrNoDatabase }

func (unavailableTemplateRepository) Update(string, TemplatePatch) (*models.MessageTemplate, error) {
	return nil, ErrNoDatabase
}

func (unavailableTemplateRepository) Delete(string) error { return ErrNoDatabase }
