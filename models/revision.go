package models

import "time"

const (
	MaxTitleLength   = 120
	MaxSummaryLength = 200
)

// Revision is one immutable version of a post's content. Edits never mutate a
// revision; they append a new one and move the owning post's latest pointer.
type Revision struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	PostID    uint      `json:"post_id" gorm:"not null;index"`
	Post      *Post     `json:"-" gorm:"foreignKey:PostID"`
	Title     string    `json:"title" gorm:"not null"`
	Summary   string    `json:"summary" gorm:"not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	Tags      []Tag     `json:"tags" gorm:"many2many:revision_tags;"`
	Files     []File    `json:"files" gorm:"foreignKey:RevisionID"`
	CreatedAt time.Time `json:"created_at"`
}

// SearchDocument is the text the full-text index is built from.
func (r *Revision) SearchDocument() string {
	return r.Title + " " + r.Summary + " " + r.Content
}
