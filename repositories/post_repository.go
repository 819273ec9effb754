package repositories

import (
	"guidelines-cms/models"

	"gorm.io/gorm"
)

type PostRepository interface {
	WithTx(tx *gorm.DB) PostRepository
	Create(post *models.Post) error
	Update(post *models.Post) error
	Delete(id uint) error
	GetByID(id uint) (*models.Post, error)
	GetByIDs(ids []uint) ([]models.Post, error)
	GetAll() ([]models.Post, error)
	Count() (int64, error)

	CreateRevision(rev *models.Revision) error
	GetRevision(id uint) (*models.Revision, error)
	GetRevisions(postID uint) ([]models.Revision, error)
	CountRevisions(postID uint) (int64, error)
	// LatestRemaining returns the newest revision of a post other than the
	// excluded one, ordered by created_at then id descending.
	LatestRemaining(postID, excludeID uint) (*models.Revision, error)
	DeleteRevision(id uint) error
	DeleteRevisions(postID uint) error
	ClearRevisionTags(revisionIDs []uint) error
	CountAllRevisions() (int64, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) WithTx(tx *gorm.DB) PostRepository {
	return &postRepository{db: tx}
}

func (r *postRepository) Create(post *models.Post) error {
	return r.db.Create(post).Error
}

func (r *postRepository) Update(post *models.Post) error {
	return r.db.Save(post).Error
}

func (r *postRepository) Delete(id uint) error {
	return r.db.Delete(&models.Post{}, id).Error
}

func (r *postRepository) GetByID(id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.
		Preload("LatestRevision.Tags").
		Preload("LatestRevision.Files").
		First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetByIDs(ids []uint) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.
		Preload("LatestRevision.Tags").
		Preload("LatestRevision.Files").
		Where("id IN ?", ids).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) GetAll() ([]models.Post, error) {
	var posts []models.Post
	err := r.db.
		Preload("LatestRevision.Tags").
		Preload("LatestRevision.Files").
		Order("id").
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Post{}).Count(&count).Error
	return count, err
}

func (r *postRepository) CreateRevision(rev *models.Revision) error {
	return r.db.Create(rev).Error
}

func (r *postRepository) GetRevision(id uint) (*models.Revision, error) {
	var rev models.Revision
	err := r.db.
		Preload("Tags").
		Preload("Files").
		First(&rev, id).Error
	if err != nil {
		return nil, err
	}
	return &rev, nil
}

func (r *postRepository) GetRevisions(postID uint) ([]models.Revision, error) {
	var revs []models.Revision
	err := r.db.
		Preload("Tags").
		Preload("Files").
		Where("post_id = ?", postID).
		Order("created_at desc, id desc").
		Find(&revs).Error
	return revs, err
}

func (r *postRepository) CountRevisions(postID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Revision{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}

func (r *postRepository) LatestRemaining(postID, excludeID uint) (*models.Revision, error) {
	var rev models.Revision
	err := r.db.
		Where("post_id = ? AND id <> ?", postID, excludeID).
		Order("created_at desc, id desc").
		First(&rev).Error
	if err != nil {
		return nil, err
	}
	return &rev, nil
}

func (r *postRepository) DeleteRevision(id uint) error {
	return r.db.Delete(&models.Revision{}, id).Error
}

func (r *postRepository) DeleteRevisions(postID uint) error {
	return r.db.Where("post_id = ?", postID).Delete(&models.Revision{}).Error
}

func (r *postRepository) ClearRevisionTags(revisionIDs []uint) error {
	if len(revisionIDs) == 0 {
		return nil
	}
	return r.db.Exec("DELETE FROM revision_tags WHERE revision_id IN ?", revisionIDs).Error
}

func (r *postRepository) CountAllRevisions() (int64, error) {
	var count int64
	err := r.db.Model(&models.Revision{}).Count(&count).Error
	return count, err
}
