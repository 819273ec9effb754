package models

const MaxTagNameLength = 30

// Tag is part of a managed vocabulary. Tags are created explicitly, never
// auto-created from free text, and are shared between revisions.
type Tag struct {
	ID   uint   `json:"id" gorm:"primarykey"`
	Name string `json:"name" gorm:"uniqueIndex;not null"`
}
