package models

// Post is the durable identity of a piece of content. Its content lives in an
// append-only chain of revisions; LatestRevisionID tracks the one currently
// presented as current. It is null only while the first revision is being
// created inside the same transaction.
type Post struct {
	ID               uint       `json:"id" gorm:"primarykey"`
	IsGuideline      bool       `json:"is_guideline" gorm:"not null"`
	LatestRevisionID *uint      `json:"latest_revision_id"`
	LatestRevision   *Revision  `json:"latest_revision,omitempty" gorm:"foreignKey:LatestRevisionID"`
	Revisions        []Revision `json:"revisions,omitempty" gorm:"foreignKey:PostID"`
}
