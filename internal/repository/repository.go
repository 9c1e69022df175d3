package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrNoDatabase = errors.New("database not configured")
)

// Repositories bundles every store. With a nil db each store is backed by
// process-local data, which is what the widget serves when no database is
// configured.
type Repositories struct {
	Messages   MessageRepository
	Visitors   VisitorRepository
	Profiles   ProfileRepository
	Templates  TemplateRepository
	Links      LinkRepository
	Welcome    WelcomeRepository
	Files      FileRepository
	Persistent bool
}

func New(db *gorm.DB) *Repositories {
	if db == nil {
		return &Repositories{
			Messages:  NewMemoryMessageRepository(),
			Visitors:  NewMemoryVisitorRepository(),
			Profiles:  NewMemoryProfileRepository(),
			Templates: unavailableTemplateRepository{},
			Links:     NewMemoryLinkRepository(),
			Welcome:   NewMemoryWelcomeRepository(),
			Files:     NewMemoryFileRepository(),
		}
	}
	return &Repositories{
		Messages:   NewMessageRepository(db),
		Visitors:   NewVisitorRepository(db),
		Profiles:   NewProfileRepository(db),
		Templates:  NewTemplateRepository(db),
		Links:      NewLinkRepository(db),
		Welcome:    NewWelcomeRepository(db),
		Files:      NewFileRepository(db),
		Persistent: true,
	}
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
