package repositories

import (
	"guidelines-cms/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuestionRepository interface {
	WithTx(tx *gorm.DB) QuestionRepository
	CreateBatch(questions []*models.Question) error
	GetByID(id uint) (*models.Question, error)
	// GetByIDsForUpdate loads questions with row-level locks where the
	// dialect supports them, serializing concurrent resolution attempts.
	GetByIDsForUpdate(ids []uint) ([]models.Question, error)
	GetAll() ([]models.Question, error)
	GetResolvedBy(postID uint) ([]models.Question, error)
	Update(q *models.Question) error
	Delete(id uint) error
	Resolve(ids []uint, postID uint) error
	Migrate(ids []uint, postID uint) error
	UnlinkByPost(postID uint) error
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) WithTx(tx *gorm.DB) QuestionRepository {
	return &questionRepository{db: tx}
}

func (r *questionRepository) CreateBatch(questions []*models.Question) error {
	return r.db.Create(questions).Error
}

func (r *questionRepository) GetByID(id uint) (*models.Question, error) {
	var q models.Question
	err := r.db.
		Preload("Site").
		Preload("Subject").
		Preload("ResolvedBy.LatestRevision.Tags").
		First(&q, id).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *questionRepository) GetByIDsForUpdate(ids []uint) ([]models.Question, error) {
	query := r.db
	// SELECT ... FOR UPDATE is a syntax error on sqlite; the test driver
	// runs single-writer anyway.
	if r.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var questions []models.Question
	err := query.Where("id IN ?", ids).Find(&questions).Error
	return questions, err
}

func (r *questionRepository) GetAll() ([]models.Question, error) {
	var questions []models.Question
	err := r.db.
		Preload("Site").
		Preload("Subject").
		Order("id").
		Find(&questions).Error
	return questions, err
}

func (r *questionRepository) GetResolvedBy(postID uint) ([]models.Question, error) {
	var questions []models.Question
	err := r.db.Where("resolved_by_id = ?", postID).Find(&questions).Error
	return questions, err
}

func (r *questionRepository) Update(q *models.Question) error {
	return r.db.Save(q).Error
}

func (r *questionRepository) Delete(id uint) error {
	return r.db.Delete(&models.Question{}, id).Error
}

func (r *questionRepository) Resolve(ids []uint, postID uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Model(&models.Question{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{"resolved": true, "resolved_by_id": postID}).Error
}

// Migrate reassigns resolved_by without touching the resolved flag.
func (r *questionRepository) Migrate(ids []uint, postID uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Model(&models.Question{}).
		Where("id IN ?", ids).
		Update("resolved_by_id", postID).Error
}

func (r *questionRepository) UnlinkByPost(postID uint) error {
	return r.db.Model(&models.Question{}).
		Where("resolved_by_id = ?", postID).
		Updates(map[string]interface{}{"resolved": false, "resolved_by_id": nil}).Error
}
