package repository

import (
	"sync"
	"time"

	"kefu/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VisitorRepository interface {
	// Touch creates the visitor or refreshes its last-seen data.
	Touch(v *models.Visitor) error
	// Ensure creates an empty visitor record if id is unknown.
	Ensure(id string) error
	GetByID(id string) (*models.Visitor, error)
}

type visitorRepository struct {
	db *gorm.DB
}

func NewVisitorRepository(db *gorm.DB) VisitorRepository {
	return &visitorRepository{db: db}
}

func (r *visitorRepository) Touch(v *models.Visitor) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"ip", "user_agent", "last_seen_at"}),
	}).Create(v).Error
}

func (r *visitorRepository) Ensure(id string) error {
	v := &models.Visitor{ID: id, LastSeenAt: time.Now()}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(v).Error
}

func (r *visitorRepository) GetByID(id string) (*models.Visitor, error) {
	var v models.Visitor
	if err := r.db.First(&v, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &v, nil
}

type memoryVisitorRepository struct {
	mu       sync.RWMutex
	visitors map[string]models.Visitor
}

func NewMemoryVisitorRepository() VisitorRepository {
	return &memoryVisitorRepository{visitors: make(map[string]models.Visitor)}
}

func (r *memoryVisitorRepository) Touch(v *models.Visitor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.visitors[v.ID]; ok {
		existing.IP = v.IP
		existing.UserAgent = v.UserAgent
		existing.LastSeenAt = v.LastSeenAt
		r.visitors[v.ID] = existing
		return nil
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = v.LastSeenAt
	}
	r.visitors[v.ID] = *v
	return nil
}

func (r *memoryVisitorRepository) Ensure(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.visitors[id]; !ok {
		now := time.Now()
		r.visitors[id] = models.Visitor{ID: id, LastSeenAt: now, CreatedAt: now}
	}
	return nil
}

func (r *memoryVisitorRepository) GetByID(id string) (*models.Visitor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.visitors[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &v, nil
}
