package models

// All lists every table in migration order.
func All() []interface{} {
	return []interface{}{
		&Guru{},
		&Student{},
		&Enrollment{},
		&Session{},
		&Transaction{},
		&Review{},
		&Chat{},
		&ChatMessage{},
		&Content{},
	}
}
