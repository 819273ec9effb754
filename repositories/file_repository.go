package repositories

import (
	"guidelines-cms/models"

	"gorm.io/gorm"
)

type FileRepository interface {
	WithTx(tx *gorm.DB) FileRepository
	Create(file *models.File) error
	GetByID(id uint) (*models.File, error)
	GetAll() ([]models.File, error)
	GetByRevisionIDs(revisionIDs []uint) ([]models.File, error)
	Delete(id uint) error
	DeleteByRevisionIDs(revisionIDs []uint) error
	Count() (int64, error)
}

type fileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) FileRepository {
	return &fileRepository{db: db}
}

func (r *fileRepository) WithTx(tx *gorm.DB) FileRepository {
	return &fileRepository{db: tx}
}

func (r *fileRepository) Create(file *models.File) error {
	return r.db.Create(file).Error
}

func (r *fileRepository) GetByID(id uint) (*models.File, error) {
	var file models.File
	err := r.db.First(&file, id).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *fileRepository) GetAll() ([]models.File, error) {
	var files []models.File
	err := r.db.Order("id").Find(&files).Error
	return files, err
}

func (r *fileRepository) GetByRevisionIDs(revisionIDs []uint) ([]models.File, error) {
	if len(revisionIDs) == 0 {
		return nil, nil
	}
	var files []models.File
	err := r.db.Where("revision_id IN ?", revisionIDs).Find(&files).Error
	return files, err
}

func (r *fileRepository) Delete(id uint) error {
	return r.db.Delete(&models.File{}, id).Error
}

func (r *fileRepository) DeleteByRevisionIDs(revisionIDs []uint) error {
	if len(revisionIDs) == 0 {
		return nil
	}
	return r.db.Where("revision_id IN ?", revisionIDs).Delete(&models.File{}).Error
}

func (r *fileRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.File{}).Count(&count).Error
	return count, err
}
