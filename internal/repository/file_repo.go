package repository

import (
	"sync"

	"kefu/internal/models"

	"gorm.io/gorm"
)

type FileRepository interface {
	Create(f *models.FileUpload) error
	// ListRecent returns up to limit uploads, newest first.
	ListRecent(limit int) ([]models.FileUpload, error)
}

type fileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) FileRepository {
	return &fileRepository{db: db}
}

func (r *fileRepository) Create(f *models.FileUpload) error {
	return r.db.Create(f).Error
}

func (r *fileRepository) ListRecent(limit int) ([]models.FileUpload, error) {
	list := []models.FileUpload{}
	err := r.db.Order("created_at DESC").Limit(limit).Find(&list).Error
	return list, err
}

type memoryFileRepository struct {
	mu    sync.RWMutex
	files []models.FileUpload
}

func NewMemoryFileRepository() FileRepository {
	return &memoryFileRepository{}
}

func (r *memoryFileRepository) Create(f *models.FileUpload) error {
	f.EnsureID()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files = append(r.files, *f)
	return nil
}

func (r *memoryFileRepository) ListRecent(limit int) ([]models.FileUpload, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := []models.FileUpload{}
	for i := len(r.files) - 1; i >= 0 && len(list) < limit; i-- {
		list = append(list, r.files[i])
	}
	return list, nil
}
