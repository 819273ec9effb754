package services

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"guidelines-cms/models"
	"guidelines-cms/repositories"

	"gorm.io/gorm"
)

type PostService interface {
	// CreatePost creates a post together with its first revision. The whole
	// operation is one transaction: any validation, tag or file failure
	// leaves nothing behind.
	CreatePost(req models.CreatePostRequest, files []FileUpload, allowedExtensions []string) (*models.Post, error)
	// AddRevision appends an immutable revision and moves the latest
	// pointer. Question resolution is all-or-nothing: one invalid id in
	// Resolves fails the call before the revision is persisted.
	AddRevision(postID uint, req models.CreateRevisionRequest, files []FileUpload, allowedExtensions []string) (*models.Revision, error)
	DeleteRevision(revisionID uint) error
	DeletePost(postID uint) error
	GetPost(postID uint) (*models.Post, error)
	GetPosts() ([]models.Post, error)
	GetLatest(postID uint) (*models.Revision, error)
	GetRevision(revisionID uint) (*models.Revision, error)
	GetRevisions(postID uint) ([]models.Revision, error)
}

type postService struct {
	db           *gorm.DB
	postRepo     repositories.PostRepository
	questionRepo repositories.QuestionRepository
	tagService   TagService
	fileService  FileService
	questionSvc  QuestionService
	notifier     Notifier
}

func NewPostService(
	db *gorm.DB,
	postRepo repositories.PostRepository,
	questionRepo repositories.QuestionRepository,
	tagService TagService,
	fileService FileService,
	questionSvc QuestionService,
	notifier Notifier,
) PostService {
	return &postService{
		db:           db,
		postRepo:     postRepo,
		questionRepo: questionRepo,
		tagService:   tagService,
		fileService:  fileService,
		questionSvc:  questionSvc,
		notifier:     notifier,
	}
}

func validateRevisionFields(title, summary, content string) error {
	if title == "" {
		return models.ErrorValidation{Message: "`title` field is required"}
	}
	if utf8.RuneCountInString(title) > models.MaxTitleLength {
		return models.ErrorValidation{
			Message: fmt.Sprintf("`title` must not be more than %d characters", models.MaxTitleLength),
		}
	}
	if summary == "" {
		return models.ErrorValidation{Message: "`summary` field is required"}
	}
	if utf8.RuneCountInString(summary) > models.MaxSummaryLength {
		return models.ErrorValidation{
			Message: fmt.Sprintf("`summary` must not be more than %d characters", models.MaxSummaryLength),
		}
	}
	if content == "" {
		return models.ErrorValidation{Message: "`content` field is required"}
	}
	return nil
}

func (s *postService) CreatePost(req models.CreatePostRequest, files []FileUpload, allowedExtensions []string) (*models.Post, error) {
	if err := validateRevisionFields(req.Title, req.Summary, req.Content); err != nil {
		return nil, err
	}

	var post *models.Post
	var rev *models.Revision
	var savedKeys []string

	err := s.db.Transaction(func(tx *gorm.DB) error {
		tags, err := s.tagService.ResolveAll(tx, req.Tags)
		if err != nil {
			return err
		}

		repo := s.postRepo.WithTx(tx)

		post = &models.Post{IsGuideline: req.IsGuideline}
		if err := repo.Create(post); err != nil {
			return err
		}

		rev = &models.Revision{
			PostID:  post.ID,
			Title:   req.Title,
			Summary: req.Summary,
			Content: req.Content,
			Tags:    tags,
		}
		if err := repo.CreateRevision(rev); err != nil {
			return err
		}

		keys, err := s.attachAll(tx, rev.ID, files, allowedExtensions)
		savedKeys = keys
		if err != nil {
			return err
		}

		post.LatestRevisionID = &rev.ID
		return repo.Update(post)
	})
	if err != nil {
		s.fileService.RemoveBytes(savedKeys)
		return nil, err
	}

	s.notifier.NotifyNewRevision(rev)

	return s.GetPost(post.ID)
}

func (s *postService) AddRevision(postID uint, req models.CreateRevisionRequest, files []FileUpload, allowedExtensions []string) (*models.Revision, error) {
	if err := validateRevisionFields(req.Title, req.Summary, req.Content); err != nil {
		return nil, err
	}

	post, err := s.GetPost(postID)
	if err != nil {
		return nil, err
	}

	var rev *models.Revision
	var resolved []models.Question
	var savedKeys []string

	err = s.db.Transaction(func(tx *gorm.DB) error {
		tags, err := s.tagService.ResolveAll(tx, req.Tags)
		if err != nil {
			return err
		}

		// Fail closed on the question batch before persisting anything.
		resolved, err = s.questionSvc.Resolve(tx, req.Resolves, post.ID)
		if err != nil {
			return err
		}

		repo := s.postRepo.WithTx(tx)

		rev = &models.Revision{
			PostID:  post.ID,
			Title:   req.Title,
			Summary: req.Summary,
			Content: req.Content,
			Tags:    tags,
		}
		if err := repo.CreateRevision(rev); err != nil {
			return err
		}

		keys, err := s.attachAll(tx, rev.ID, files, allowedExtensions)
		savedKeys = keys
		if err != nil {
			return err
		}

		post.LatestRevisionID = &rev.ID
		post.LatestRevision = nil
		return repo.Update(post)
	})
	if err != nil {
		s.fileService.RemoveBytes(savedKeys)
		return nil, err
	}

	s.notifier.NotifyNewRevision(rev)
	for i := range resolved {
		s.notifier.NotifyQuestionResolved(&resolved[i], post)
	}

	return s.GetRevision(rev.ID)
}

// attachAll returns the storage keys of every upload whose bytes landed, even
// when a later upload fails. A rollback drops the metadata rows but not the
// bytes, so the caller must remove the returned keys on transaction failure.
func (s *postService) attachAll(tx *gorm.DB, revisionID uint, files []FileUpload, allowedExtensions []string) ([]string, error) {
	keys := make([]string, 0, len(files))
	for _, up := range files {
		file, err := s.fileService.Attach(tx, revisionID, up, allowedExtensions)
		if err != nil {
			return keys, err
		}
		keys = append(keys, file.StorageKey)
	}
	return keys, nil
}

func (s *postService) DeleteRevision(revisionID uint) error {
	rev, err := s.GetRevision(revisionID)
	if err != nil {
		return err
	}

	var orphanedKeys []string

	err = s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.postRepo.WithTx(tx)

		count, err := repo.CountRevisions(rev.PostID)
		if err != nil {
			return err
		}

		if count == 1 {
			// Sole revision: the whole post goes with it.
			keys, err := s.deletePostCascade(tx, rev.PostID)
			if err != nil {
				return err
			}
			orphanedKeys = keys
			return nil
		}

		post, err := repo.GetByID(rev.PostID)
		if err != nil {
			return err
		}

		isLatest := post.LatestRevisionID != nil && *post.LatestRevisionID == rev.ID

		if isLatest {
			next, err := repo.LatestRemaining(post.ID, rev.ID)
			if err != nil {
				return err
			}
			post.LatestRevisionID = &next.ID
			post.LatestRevision = nil
			if err := repo.Update(post); err != nil {
				return err
			}

			// The post identity is unchanged, so questions it resolves
			// simply present the new latest revision. Kept for data
			// migrated from the older sibling-row schema.
			resolved, err := s.questionRepo.WithTx(tx).GetResolvedBy(post.ID)
			if err != nil {
				return err
			}
			ids := make([]uint, 0, len(resolved))
			for _, q := range resolved {
				ids = append(ids, q.ID)
			}
			if err := s.questionSvc.Migrate(tx, ids, post.ID); err != nil {
				return err
			}
		}

		keys, err := s.deleteRevisionRows(tx, rev)
		if err != nil {
			return err
		}
		orphanedKeys = keys
		return nil
	})
	if err != nil {
		return err
	}

	s.fileService.RemoveBytes(orphanedKeys)
	return nil
}

func (s *postService) DeletePost(postID uint) error {
	if _, err := s.GetPost(postID); err != nil {
		return err
	}

	var orphanedKeys []string
	err := s.db.Transaction(func(tx *gorm.DB) error {
		keys, err := s.deletePostCascade(tx, postID)
		orphanedKeys = keys
		return err
	})
	if err != nil {
		return err
	}

	s.fileService.RemoveBytes(orphanedKeys)
	return nil
}

// deleteRevisionRows removes one revision, its tag links and file metadata.
// Returns the storage keys whose bytes should be cleaned up after commit.
func (s *postService) deleteRevisionRows(tx *gorm.DB, rev *models.Revision) ([]string, error) {
	repo := s.postRepo.WithTx(tx)

	keys, err := s.fileService.DetachByRevisions(tx, []uint{rev.ID})
	if err != nil {
		return nil, err
	}
	if err := repo.ClearRevisionTags([]uint{rev.ID}); err != nil {
		return nil, err
	}
	if err := repo.DeleteRevision(rev.ID); err != nil {
		return nil, err
	}
	return keys, nil
}

// deletePostCascade removes a post, all its revisions, their tag links and
// file metadata, then unlinks every question the post resolved in a single
// pass.
func (s *postService) deletePostCascade(tx *gorm.DB, postID uint) ([]string, error) {
	repo := s.postRepo.WithTx(tx)

	revs, err := repo.GetRevisions(postID)
	if err != nil {
		return nil, err
	}

	revIDs := make([]uint, 0, len(revs))
	for _, r := range revs {
		revIDs = append(revIDs, r.ID)
	}

	if err := tx.Model(&models.Post{}).Where("id = ?", postID).
		Update("latest_revision_id", nil).Error; err != nil {
		return nil, err
	}

	var keys []string
	if len(revIDs) > 0 {
		var err error
		keys, err = s.fileService.DetachByRevisions(tx, revIDs)
		if err != nil {
			return nil, err
		}
		if err := repo.ClearRevisionTags(revIDs); err != nil {
			return nil, err
		}
	}
	if err := repo.DeleteRevisions(postID); err != nil {
		return nil, err
	}

	if err := s.questionSvc.UnlinkAll(tx, postID); err != nil {
		return nil, err
	}

	return keys, repo.Delete(postID)
}

func (s *postService) GetPost(postID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorNotFound{Message: "post not found"}
		}
		return nil, err
	}
	return post, nil
}

func (s *postService) GetPosts() ([]models.Post, error) {
	return s.postRepo.GetAll()
}

func (s *postService) GetLatest(postID uint) (*models.Revision, error) {
	post, err := s.GetPost(postID)
	if err != nil {
		return nil, err
	}
	if post.LatestRevision == nil {
		return nil, models.ErrorNotFound{Message: "post has no revisions"}
	}
	return post.LatestRevision, nil
}

func (s *postService) GetRevision(revisionID uint) (*models.Revision, error) {
	rev, err := s.postRepo.GetRevision(revisionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorNotFound{Message: "revision not found"}
		}
		return nil, err
	}
	return rev, nil
}

func (s *postService) GetRevisions(postID uint) ([]models.Revision, error) {
	if _, err := s.GetPost(postID); err != nil {
		return nil, err
	}
	return s.postRepo.GetRevisions(postID)
}
