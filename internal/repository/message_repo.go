package repository

import (
	"sync"

	"kefu/internal/models"

	"gorm.io/gorm"
)

// MessageFilter narrows a history query. UserID selects one visitor's thread
// (plus messages addressed to nobody); Limit keeps the newest entries.
type MessageFilter struct {
	UserID string
	Limit  int
}

func (f MessageFilter) matches(m *models.Message) bool {
	if f.UserID == "" {
		return true
	}
	return m.UserID == nil || *m.UserID == f.UserID
}

type MessageRepository interface {
	List(filter MessageFilter) ([]models.Message, error)
	Create(m *models.Message) error
	DeleteAll() error
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// List returns messages oldest first.
func (r *messageRepository) List(filter MessageFilter) ([]models.Message, error) {
	q := r.db.Model(&models.Message{})
	if filter.UserID != "" {
		q = q.Where("user_id = ? OR user_id IS NULL", filter.UserID)
	}
	if filter.Limit > 0 {
		q = q.Order("created_at DESC").Limit(filter.Limit)
	} else {
		q = q.Order("created_at ASC")
	}
	list := []models.Message{}
	if err := q.Find(&list).Error; err != nil {
		return nil, err
	}
	if filter.Limit > 0 {
		reverse(list)
	}
	return list, nil
}

func (r *messageRepository) Create(m *models.Message) error {
	return r.db.Create(m).Error
}

func (r *messageRepository) DeleteAll() error {
	return r.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Message{}).Error
}

type memoryMessageRepository struct {
	mu       sync.RWMutex
	messages []models.Message
}

func NewMemoryMessageRepository() MessageRepository {
	return &memoryMessageRepository{}
}

func (r *memoryMessageRepository) List(filter MessageFilter) ([]models.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := []models.Message{}
	for i := range r.messages {
		if filter.matches(&r.messages[i]) {
			list = append(list, r.messages[i])
		}
	}
	if filter.Limit > 0 && len(list) > filter.Limit {
		list = list[len(list)-filter.Limit:]
	}
	return list, nil
}

func (r *memoryMessageRepository) Create(m *models.Message) error {
	m.EnsureID()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, *m)
	return nil
}

func (r *memoryMessageRepository) DeleteAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = nil
	return nil
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
