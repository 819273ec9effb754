package services

import (
	"errors"

	"guidelines-cms/models"
	"guidelines-cms/repositories"

	"gorm.io/gorm"
)

type SiteService interface {
	CreateSite(req models.CreateSiteRequest) (*models.Site, error)
	GetSites() ([]models.Site, error)
	GetSite(id uint) (*models.Site, error)
	DeleteSite(id uint) error
}

type siteService struct {
	siteRepo repositories.SiteRepository
}

func NewSiteService(siteRepo repositories.SiteRepository) SiteService {
	return &siteService{siteRepo: siteRepo}
}

func (s *siteService) CreateSite(req models.CreateSiteRequest) (*models.Site, error) {
	if req.Name == "" {
		return nil, models.ErrorValidation{Message: "`name` field is required"}
	}

	if _, err := s.siteRepo.GetByName(req.Name); err == nil {
		return nil, models.ErrorConflict{Message: "a site with this name already exists"}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	site := &models.Site{Name: req.Name}
	if err := s.siteRepo.Create(site); err != nil {
		return nil, err
	}
	return site, nil
}

func (s *siteService) GetSites() ([]models.Site, error) {
	return s.siteRepo.GetAll()
}

func (s *siteService) GetSite(id uint) (*models.Site, error) {
	site, err := s.siteRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorNotFound{Message: "site not found"}
		}
		return nil, err
	}
	return site, nil
}

func (s *siteService) DeleteSite(id uint) error {
	if _, err := s.GetSite(id); err != nil {
		return err
	}
	return s.siteRepo.Delete(id)
}

type SubjectService interface {
	CreateSubject(req models.CreateSubjectRequest) (*models.Subject, error)
	GetSubjects() ([]models.Subject, error)
	GetSubject(id uint) (*models.Subject, error)
	DeleteSubject(id uint) error
}

type subjectService struct {
	subjectRepo repositories.SubjectRepository
}

func NewSubjectService(subjectRepo repositories.SubjectRepository) SubjectService {
	return &subjectService{subjectRepo: subjectRepo}
}

func (s *subjectService) CreateSubject(req models.CreateSubjectRequest) (*models.Subject, error) {
	if req.Name == "" {
		return nil, models.ErrorValidation{Message: "`name` field is required"}
	}

	if _, err := s.subjectRepo.GetByName(req.Name); err == nil {
		return nil, models.ErrorConflict{Message: "a subject with this name already exists"}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	subject := &models.Subject{Name: req.Name}
	if err := s.subjectRepo.Create(subject); err != nil {
		return nil, err
	}
	return subject, nil
}

func (s *subjectService) GetSubjects() ([]models.Subject, error) {
	return s.subjectRepo.GetAll()
}

func (s *subjectService) GetSubject(id uint) (*models.Subject, error) {
	subject, err := s.subjectRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorNotFound{Message: "subject not found"}
		}
		return nil, err
	}
	return subject, nil
}

func (s *subjectService) DeleteSubject(id uint) error {
	if _, err := s.GetSubject(id); err != nil {
		return err
	}
	return s.subjectRepo.Delete(id)
}
