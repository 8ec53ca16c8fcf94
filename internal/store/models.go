package store

import "time"

// ProjectRecord is a row of the project library. CardsData holds the JSON
// card record; undo history is never stored.
type ProjectRecord struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	PublicID  string    `gorm:"size:21;uniqueIndex" json:"public_id"`
	Name      string    `gorm:"not null;size:100" json:"name"`
	CardsData []byte    `json:"-"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ProjectRecord) TableName() string {
	return "projects"
}
