package repository

import (
	"errors"
	"sync"

	"kefu/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileRepository interface {
	// Get returns the stored profile, or the defaults under the given id.
	Get(id string) (*models.Admin, error)
	Save(a *models.Admin) error
	// Ensure creates the admin with default fields if it does not exist.
	Ensure(id string) error
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Get(id string) (*models.Admin, error) {
	var a models.Admin
	err := r.db.First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		def := models.DefaultAdmin()
		def.ID = id
		return def, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *profileRepository) Save(a *models.Admin) error {
	return r.db.Save(a).Error
}

func (r *profileRepository) Ensure(id string) error {
	def := models.DefaultAdmin()
	def.ID = id
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(def).Error
}

type memoryProfileRepository struct {
	mu       sync.RWMutex
	profiles map[string]models.Admin
}

func NewMemoryProfileRepository() ProfileRepository {
	def := models.DefaultAdmin()
	return &memoryProfileRepository{profiles: map[string]models.Admin{def.ID: *def}}
}

func (r *memoryProfileRepository) Get(id string) (*models.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if a, ok := r.profiles[id]; ok {
		return &a, nil
	}
	def := models.DefaultAdmin()
	def.ID = id
	return def, nil
}

func (r *memoryProfileRepository) Save(a *models.Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[a.ID] = *a
	return nil
}

func (r *memoryProfileRepository) Ensure(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[id]; !ok {
		def := models.DefaultAdmin()
		def.ID = id
		r.profiles[id] = *def
	}
	return nil
}
