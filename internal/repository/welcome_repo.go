package repository

import (
	"errors"

	"kefu/internal/models"

	"gorm.io/gorm"
)

type WelcomeRepository interface {
	Get() (*models.WelcomeConfig, error)
	Save(c *models.WelcomeConfig) error
}

type welcomeRepository struct {
	db *gorm.DB
}

func NewWelcomeRepository(db *gorm.DB) WelcomeRepository {
	return &welcomeRepository{db: db}
}

func (r *welcomeRepository) Get() (*models.WelcomeConfig, error) {
	var c models.WelcomeConfig
	err := r.db.First(&c, models.WelcomeConfigID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.DefaultWelcomeConfig(), nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *welcomeRepository) Save(c *models.WelcomeConfig) error {
	c.ID = models.WelcomeConfigID
	return r.db.Save(c).Error
}

// memoryWelcomeRepository serves the defaults and refuses to save, so an
// operator is told the change was not persisted.
type memoryWelcomeRepository struct{}

func NewMemoryWelcomeRepository() WelcomeRepository {
	return memoryWelcomeRepository{}
}

func (memoryWelcomeRepository) Get() (*models.WelcomeConfig, error) {
	return models.DefaultWelcomeConfig(), nil
}

func (memoryWelcomeRepository) Save(*models.WelcomeConfig) error { return ErrNoDatabase }
