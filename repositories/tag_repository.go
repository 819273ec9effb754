package repositories

import (
	"guidelines-cms/models"

	"gorm.io/gorm"
)

type TagRepository interface {
	WithTx(tx *gorm.DB) TagRepository
	Create(tag *models.Tag) error
	GetByName(name string) (*models.Tag, error)
	GetByNames(names []string) ([]models.Tag, error)
	GetByID(id uint) (*models.Tag, error)
	GetAll() ([]models.Tag, error)
	Delete(id uint) error
	ClearAssociations(id uint) error
}

type tagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) WithTx(tx *gorm.DB) TagRepository {
	return &tagRepository{db: tx}
}

func (r *tagRepository) Create(tag *models.Tag) error {
	return r.db.Create(tag).Error
}

func (r *tagRepository) GetByName(name string) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.Where("name = ?", name).First(&tag).Error
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) GetByNames(names []string) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.Where("name IN ?", names).Find(&tags).Error
	return tags, err
}

func (r *tagRepository) GetByID(id uint) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.First(&tag, id).Error
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) GetAll() ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.Order("name").Find(&tags).Error
	return tags, err
}

func (r *tagRepository) Delete(id uint) error {
	return r.db.Delete(&models.Tag{}, id).Error
}

// ClearAssociations removes the revision links of a tag. Deleting a tag never
// deletes revisions, only the join rows.
func (r *tagRepository) ClearAssociations(id uint) error {
	return r.db.Exec("DELETE FROM revision_tags WHERE tag_id = ?", id).Error
}
