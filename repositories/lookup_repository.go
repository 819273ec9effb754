package repositories

import (
	"guidelines-cms/models"

	"gorm.io/gorm"
)

// Sites and subjects are small managed vocabularies referenced by questions.

type SiteRepository interface {
	Create(site *models.Site) error
	GetByID(id uint) (*models.Site, error)
	GetByName(name string) (*models.Site, error)
	GetAll() ([]models.Site, error)
	Delete(id uint) error
}

type siteRepository struct {
	db *gorm.DB
}

func NewSiteRepository(db *gorm.DB) SiteRepository {
	return &siteRepository{db: db}
}

func (r *siteRepository) Create(site *models.Site) error {
	return r.db.Create(site).Error
}

func (r *siteRepository) GetByID(id uint) (*models.Site, error) {
	var site models.Site
	if err := r.db.First(&site, id).Error; err != nil {
		return nil, err
	}
	return &site, nil
}

func (r *siteRepository) GetByName(name string) (*models.Site, error) {
	var site models.Site
	if err := r.db.Where("name = ?", name).First(&site).Error; err != nil {
		return nil, err
	}
	return &site, nil
}

func (r *siteRepository) GetAll() ([]models.Site, error) {
	var sites []models.Site
	err := r.db.Order("name").Find(&sites).Error
	return sites, err
}

func (r *siteRepository) Delete(id uint) error {
	return r.db.Delete(&models.Site{}, id).Error
}

type SubjectRepository interface {
	Create(subject *models.Subject) error
	GetByID(id uint) (*models.Subject, error)
	GetByName(name string) (*models.Subject, error)
	GetAll() ([]models.Subject, error)
	Delete(id uint) error
}

type subjectRepository struct {
	db *gorm.DB
}

func NewSubjectRepository(db *gorm.DB) SubjectRepository {
	return &subjectRepository{db: db}
}

func (r *subjectRepository) Create(subject *models.Subject) error {
	return r.db.Create(subject).Error
}

func (r *subjectRepository) GetByID(id uint) (*models.Subject, error) {
	var subject models.Subject
	if err := r.db.First(&subject, id).Error; err != nil {
		return nil, err
	}
	return &subject, nil
}

func (r *subjectRepository) GetByName(name string) (*models.Subject, error) {
	var subject models.Subject
	if err := r.db.Where("name = ?", name).First(&subject).Error; err != nil {
		return nil, err
	}
	return &subject, nil
}

func (r *subjectRepository) GetAll() ([]models.Subject, error) {
	var subjects []models.Subject
	err := r.db.Order("name").Find(&subjects).Error
	return subjects, err
}

func (r *subjectRepository) Delete(id uint) error {
	return r.db.Delete(&models.Subject{}, id).Error
}
