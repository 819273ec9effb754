package services

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"guidelines-cms/models"
	"guidelines-cms/repositories"
	"guidelines-cms/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FileUpload is one attachment submitted with a revision.
type FileUpload struct {
	Name    string
	Content io.Reader
}

type FileService interface {
	// Attach validates the upload, writes bytes to storage and commits
	// metadata inside the caller's transaction. Bytes go first: a crash
	// before commit leaves an orphaned object, never metadata without bytes.
	Attach(tx *gorm.DB, revisionID uint, up FileUpload, allowedExtensions []string) (*models.File, error)
	// AttachToRevision is the standalone upload path. It checks the target
	// revision exists and runs Attach in its own transaction.
	AttachToRevision(revisionID uint, up FileUpload, allowedExtensions []string) (*models.File, error)
	Detach(fileID uint) error
	// DetachByRevisions removes file metadata for the given revisions inside
	// the caller's transaction and returns the orphaned storage keys for
	// post-commit cleanup.
	DetachByRevisions(tx *gorm.DB, revisionIDs []uint) ([]string, error)
	Open(fileID uint) (io.ReadCloser, *models.File, error)
	GetFiles() ([]models.File, error)
	// RemoveBytes is best-effort cleanup used by cascade deletes after their
	// transaction commits. Failures are logged, never propagated.
	RemoveBytes(keys []string)
}

type fileService struct {
	db       *gorm.DB
	fileRepo repositories.FileRepository
	store    storage.Storage
	logger   *zap.Logger
}

func NewFileService(db *gorm.DB, fileRepo repositories.FileRepository, store storage.Storage, logger *zap.Logger) FileService {
	return &fileService{db: db, fileRepo: fileRepo, store: store, logger: logger}
}

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// storageKey builds a globally unique object key: creation timestamp, random
// suffix, then the sanitized display name so keys stay readable on disk.
func storageKey(displayName string) string {
	name := unsafeKeyChars.ReplaceAllString(displayName, "_")
	return fmt.Sprintf("%d_%s_%s", time.Now().UnixNano(), uuid.NewString()[:8], name)
}

func extensionAllowed(name string, allowed []string) bool {
	idx := strings.LastIndex(name, ".")
	if idx < 0 || idx == len(name)-1 {
		return false
	}
	ext := strings.ToLower(name[idx+1:])
	for _, a := range allowed {
		if ext == strings.ToLower(a) {
			return true
		}
	}
	return false
}

func (s *fileService) Attach(tx *gorm.DB, revisionID uint, up FileUpload, allowedExtensions []string) (*models.File, error) {
	if up.Name == "" {
		return nil, models.ErrorValidation{Message: "file `name` field is required"}
	}
	if utf8.RuneCountInString(up.Name) > models.MaxFileNameLength {
		return nil, models.ErrorValidation{
			Message: fmt.Sprintf("file name must not be more than %d characters", models.MaxFileNameLength),
		}
	}
	if !extensionAllowed(up.Name, allowedExtensions) {
		return nil, models.ErrorValidation{
			Message: fmt.Sprintf("for security reasons, files of this type are not allowed; allowed types: %s",
				strings.Join(allowedExtensions, ", ")),
		}
	}

	key := storageKey(up.Name)

	if err := s.store.Save(key, up.Content); err != nil {
		if errors.Is(err, storage.ErrKeyExists) {
			return nil, models.ErrorStorageCollision{Key: key}
		}
		return nil, models.ErrorStorageIO{Message: "saving file bytes: " + err.Error()}
	}

	file := &models.File{
		DisplayName: up.Name,
		StorageKey:  key,
		RevisionID:  revisionID,
	}
	if err := s.fileRepo.WithTx(tx).Create(file); err != nil {
		// Metadata failed after the bytes landed; take the object back out.
		s.RemoveBytes([]string{key})
		return nil, err
	}

	return file, nil
}

func (s *fileService) AttachToRevision(revisionID uint, up FileUpload, allowedExtensions []string) (*models.File, error) {
	var file *models.File
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var rev models.Revision
		if err := tx.First(&rev, revisionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrorNotFound{Message: "revision not found"}
			}
			return err
		}

		attached, err := s.Attach(tx, revisionID, up, allowedExtensions)
		if err != nil {
			return err
		}
		file = attached
		return nil
	})
	if err != nil {
		return nil, err
	}
	return file, nil
}

func (s *fileService) Detach(fileID uint) error {
	file, err := s.fileRepo.GetByID(fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ErrorNotFound{Message: "file not found"}
		}
		return err
	}

	// Bytes first, then metadata. A missing object is fine; any other
	// storage failure still must not block the metadata delete.
	s.RemoveBytes([]string{file.StorageKey})

	return s.fileRepo.Delete(fileID)
}

func (s *fileService) DetachByRevisions(tx *gorm.DB, revisionIDs []uint) ([]string, error) {
	repo := s.fileRepo.WithTx(tx)

	files, err := repo.GetByRevisionIDs(revisionIDs)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(files))
	for _, f := range files {
		keys = append(keys, f.StorageKey)
	}

	if err := repo.DeleteByRevisionIDs(revisionIDs); err != nil {
		return nil, err
	}
	return keys, nil
}

func (s *fileService) Open(fileID uint) (io.ReadCloser, *models.File, error) {
	file, err := s.fileRepo.GetByID(fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, models.ErrorNotFound{Message: "file not found"}
		}
		return nil, nil, err
	}

	rc, err := s.store.Open(file.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, models.ErrorNotFound{Message: "file bytes not found"}
		}
		return nil, nil, models.ErrorStorageIO{Message: "reading file bytes: " + err.Error()}
	}

	return rc, file, nil
}

func (s *fileService) GetFiles() ([]models.File, error) {
	return s.fileRepo.GetAll()
}

func (s *fileService) RemoveBytes(keys []string) {
	for _, key := range keys {
		if err := s.store.Delete(key); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				s.logger.Warn("stored object already gone", zap.String("key", key))
				continue
			}
			s.logger.Error("failed to delete stored object", zap.String("key", key), zap.Error(err))
		}
	}
}
