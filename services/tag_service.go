package services

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"guidelines-cms/models"
	"guidelines-cms/repositories"

	"gorm.io/gorm"
)

type TagService interface {
	CreateTag(req models.CreateTagRequest) (*models.Tag, error)
	GetTags() ([]models.Tag, error)
	GetTag(id uint) (*models.Tag, error)
	DeleteTag(id uint) error
	// ResolveAll maps tag names to existing tags inside the given
	// transaction. Any unknown name fails the whole call; tags are never
	// created from free text.
	ResolveAll(tx *gorm.DB, names []string) ([]models.Tag, error)
}

type tagService struct {
	db      *gorm.DB
	tagRepo repositories.TagRepository
}

func NewTagService(db *gorm.DB, tagRepo repositories.TagRepository) TagService {
	return &tagService{db: db, tagRepo: tagRepo}
}

func (s *tagService) CreateTag(req models.CreateTagRequest) (*models.Tag, error) {
	if req.Name == "" {
		return nil, models.ErrorValidation{Message: "`name` field is required"}
	}
	if utf8.RuneCountInString(req.Name) > models.MaxTagNameLength {
		return nil, models.ErrorValidation{
			Message: fmt.Sprintf("`name` must not be more than %d characters", models.MaxTagNameLength),
		}
	}

	_, err := s.tagRepo.GetByName(req.Name)
	if err == nil {
		return nil, models.ErrorConflict{Message: "a tag with this name already exists"}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	tag := &models.Tag{Name: req.Name}
	if err := s.tagRepo.Create(tag); err != nil {
		// The unique index catches creations racing past the lookup.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.ErrorConflict{Message: "a tag with this name already exists"}
		}
		return nil, err
	}

	return tag, nil
}

func (s *tagService) GetTags() ([]models.Tag, error) {
	return s.tagRepo.GetAll()
}

func (s *tagService) GetTag(id uint) (*models.Tag, error) {
	tag, err := s.tagRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorNotFound{Message: "tag not found"}
		}
		return nil, err
	}
	return tag, nil
}

func (s *tagService) DeleteTag(id uint) error {
	if _, err := s.tagRepo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ErrorNotFound{Message: "tag not found"}
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.tagRepo.WithTx(tx)
		if err := repo.ClearAssociations(id); err != nil {
			return err
		}
		return repo.Delete(id)
	})
}

func (s *tagService) ResolveAll(tx *gorm.DB, names []string) ([]models.Tag, error) {
	if len(names) == 0 {
		return nil, nil
	}

	found, err := s.tagRepo.WithTx(tx).GetByNames(names)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]models.Tag, len(found))
	for _, tag := range found {
		byName[tag.Name] = tag
	}

	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		tag, ok := byName[name]
		if !ok {
			return nil, models.ErrorValidation{Message: fmt.Sprintf("unknown tag %q", name)}
		}
		tags = append(tags, tag)
	}

	return tags, nil
}
