package models

const MaxFileNameLength = 200

// File tracks one uploaded attachment. StorageKey is generated at save time
// and never reused; the bytes live in the object store under that key. A file
// is owned by exactly one revision and is deleted with it.
type File struct {
	ID          uint   `json:"id" gorm:"primarykey"`
	DisplayName string `json:"name" gorm:"not null"`
	StorageKey  string `json:"-" gorm:"uniqueIndex;not null"`
	RevisionID  uint   `json:"revision_id" gorm:"not null;index"`
}
