package models

// All lists every model for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&Admin{},
		&Visitor{},
		&Message{},
		&MessageTemplate{},
		&ChatLink{},
		&WelcomeConfig{},
		&FileUpload{},
	}
}
