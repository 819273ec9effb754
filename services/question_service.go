package services

import (
	"errors"
	"fmt"

	"guidelines-cms/models"
	"guidelines-cms/repositories"

	"gorm.io/gorm"
)

type QuestionService interface {
	CreateQuestions(req models.CreateQuestionsRequest) ([]models.Question, error)
	GetQuestion(id uint) (*models.Question, error)
	GetQuestions() ([]models.Question, error)
	UpdateText(id uint, text string) (*models.Question, error)
	DeleteQuestion(id uint) error

	// ResolveDirect marks a single question resolved by a post in its own
	// transaction. Used by the standalone resolve endpoint.
	ResolveDirect(questionID, postID uint) (*models.Question, error)

	// Resolve is the batch linker used while adding a revision. It validates
	// every id against the locked rows before writing anything: one missing
	// or already-resolved question fails the whole batch.
	Resolve(tx *gorm.DB, ids []uint, postID uint) ([]models.Question, error)
	// UnlinkAll clears resolution state for every question the post
	// resolved. Used only by the post-deletion cascade.
	UnlinkAll(tx *gorm.DB, postID uint) error
	// Migrate re-points resolved_by when content is superseded while the
	// post survives. Since resolution targets the post, not the revision,
	// this is a steady-state no-op kept for older-schema data.
	Migrate(tx *gorm.DB, ids []uint, postID uint) error
}

type questionService struct {
	db           *gorm.DB
	questionRepo repositories.QuestionRepository
	siteRepo     repositories.SiteRepository
	subjectRepo  repositories.SubjectRepository
	postRepo     repositories.PostRepository
	userRepo     repositories.UserRepository
	notifier     Notifier
}

func NewQuestionService(
	db *gorm.DB,
	questionRepo repositories.QuestionRepository,
	siteRepo repositories.SiteRepository,
	subjectRepo repositories.SubjectRepository,
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	notifier Notifier,
) QuestionService {
	return &questionService{
		db:           db,
		questionRepo: questionRepo,
		siteRepo:     siteRepo,
		subjectRepo:  subjectRepo,
		postRepo:     postRepo,
		userRepo:     userRepo,
		notifier:     notifier,
	}
}

func (s *questionService) CreateQuestions(req models.CreateQuestionsRequest) ([]models.Question, error) {
	if req.Site == "" {
		return nil, models.ErrorValidation{Message: "site is required"}
	}
	if !req.Grade.Valid() {
		return nil, models.ErrorValidation{Message: fmt.Sprintf("invalid grade %q", req.Grade)}
	}
	if req.Specialty == "" {
		return nil, models.ErrorValidation{Message: "specialty is required"}
	}
	if len(req.Questions) == 0 {
		return nil, models.ErrorValidation{Message: "at least one question must be given"}
	}

	site, err := s.siteRepo.GetByName(req.Site)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorValidation{Message: "site does not exist"}
		}
		return nil, err
	}

	if req.User != nil {
		if _, err := s.userRepo.GetByID(*req.User); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.ErrorValidation{Message: "user does not exist"}
			}
			return nil, err
		}
	}

	// Validate the whole batch before writing anything.
	questions := make([]*models.Question, 0, len(req.Questions))
	for _, item := range req.Questions {
		if item.Subject == "" {
			return nil, models.ErrorValidation{Message: "subject is required"}
		}
		if item.Text == "" {
			return nil, models.ErrorValidation{Message: "text is required"}
		}

		subject, err := s.subjectRepo.GetByName(item.Subject)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.ErrorValidation{Message: fmt.Sprintf("subject %q does not exist", item.Subject)}
			}
			return nil, err
		}

		questions = append(questions, &models.Question{
			SiteID:    site.ID,
			Grade:     req.Grade,
			Specialty: req.Specialty,
			SubjectID: subject.ID,
			Text:      item.Text,
			UserID:    req.User,
		})
	}

	if err := s.questionRepo.CreateBatch(questions); err != nil {
		return nil, err
	}

	created := make([]models.Question, 0, len(questions))
	for _, q := range questions {
		loaded, err := s.questionRepo.GetByID(q.ID)
		if err != nil {
			return nil, err
		}
		created = append(created, *loaded)
	}
	return created, nil
}

func (s *questionService) GetQuestion(id uint) (*models.Question, error) {
	q, err := s.questionRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorNotFound{Message: "question not found"}
		}
		return nil, err
	}
	return q, nil
}

func (s *questionService) GetQuestions() ([]models.Question, error) {
	return s.questionRepo.GetAll()
}

func (s *questionService) UpdateText(id uint, text string) (*models.Question, error) {
	if text == "" {
		return nil, models.ErrorValidation{Message: "text is required"}
	}

	q, err := s.GetQuestion(id)
	if err != nil {
		return nil, err
	}

	q.Text = text
	if err := s.questionRepo.Update(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *questionService) DeleteQuestion(id uint) error {
	if _, err := s.GetQuestion(id); err != nil {
		return err
	}
	return s.questionRepo.Delete(id)
}

func (s *questionService) ResolveDirect(questionID, postID uint) (*models.Question, error) {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorValidation{Message: "invalid post ID"}
		}
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		_, err := s.Resolve(tx, []uint{questionID}, postID)
		return err
	})
	if err != nil {
		return nil, err
	}

	q, err := s.questionRepo.GetByID(questionID)
	if err != nil {
		return nil, err
	}

	s.notifier.NotifyQuestionResolved(q, post)

	return q, nil
}

func (s *questionService) Resolve(tx *gorm.DB, ids []uint, postID uint) ([]models.Question, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	repo := s.questionRepo.WithTx(tx)

	// Phase one: lock and validate every question. Row locks serialize this
	// against concurrent resolution attempts on the same rows.
	locked, err := repo.GetByIDsForUpdate(ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]models.Question, len(locked))
	for _, q := range locked {
		byID[q.ID] = q
	}

	for _, id := range ids {
		q, ok := byID[id]
		if !ok {
			return nil, models.ErrorValidation{Message: fmt.Sprintf("question %d does not exist", id)}
		}
		if q.Resolved {
			return nil, models.ErrorValidation{Message: fmt.Sprintf("question %d is already resolved", id)}
		}
	}

	// Phase two: apply.
	if err := repo.Resolve(ids, postID); err != nil {
		return nil, err
	}

	resolved := make([]models.Question, 0, len(ids))
	for _, id := range ids {
		q := byID[id]
		q.Resolved = true
		q.ResolvedByID = &postID
		resolved = append(resolved, q)
	}
	return resolved, nil
}

func (s *questionService) UnlinkAll(tx *gorm.DB, postID uint) error {
	return s.questionRepo.WithTx(tx).UnlinkByPost(postID)
}

func (s *questionService) Migrate(tx *gorm.DB, ids []uint, postID uint) error {
	return s.questionRepo.WithTx(tx).Migrate(ids, postID)
}
