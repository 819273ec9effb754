package services

import (
	"path/filepath"
	"testing"

	"guidelines-cms/config"
	"guidelines-cms/models"
	"guidelines-cms/repositories"
	"guidelines-cms/storage"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var testExtensions = []string{"pdf", "doc", "docx", "png", "jpg"}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	return db
}

// testStack wires real repositories and services over a throwaway database,
// local storage and a no-op notifier.
type testStack struct {
	db          *gorm.DB
	store       storage.Storage
	storeDir    string
	tags        TagService
	files       FileService
	questions   QuestionService
	posts       PostService
	tagRepo     repositories.TagRepository
	postRepo    repositories.PostRepository
	fileRepo    repositories.FileRepository
	questRepo   repositories.QuestionRepository
	siteRepo    repositories.SiteRepository
	subjectRepo repositories.SubjectRepository
	userRepo    repositories.UserRepository
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()

	db := newTestDB(t)
	storeDir := t.TempDir()
	store, err := storage.NewLocalStorage(storeDir, zap.NewNop())
	require.NoError(t, err)

	tagRepo := repositories.NewTagRepository(db)
	postRepo := repositories.NewPostRepository(db)
	fileRepo := repositories.NewFileRepository(db)
	questRepo := repositories.NewQuestionRepository(db)
	siteRepo := repositories.NewSiteRepository(db)
	subjectRepo := repositories.NewSubjectRepository(db)
	userRepo := repositories.NewUserRepository(db)

	notifier := NoopNotifier{}
	tags := NewTagService(db, tagRepo)
	files := NewFileService(db, fileRepo, store, zap.NewNop())
	questions := NewQuestionService(db, questRepo, siteRepo, subjectRepo, postRepo, userRepo, notifier)
	posts := NewPostService(db, postRepo, questRepo, tags, files, questions, notifier)

	return &testStack{
		db:          db,
		store:       store,
		storeDir:    storeDir,
		tags:        tags,
		files:       files,
		questions:   questions,
		posts:       posts,
		tagRepo:     tagRepo,
		postRepo:    postRepo,
		fileRepo:    fileRepo,
		questRepo:   questRepo,
		siteRepo:    siteRepo,
		subjectRepo: subjectRepo,
		userRepo:    userRepo,
	}
}

func (ts *testStack) mustCreateTag(t *testing.T, name string) *models.Tag {
	t.Helper()
	tag, err := ts.tags.CreateTag(models.CreateTagRequest{Name: name})
	require.NoError(t, err)
	return tag
}

func (ts *testStack) mustCreatePost(t *testing.T, req models.CreatePostRequest) *models.Post {
	t.Helper()
	post, err := ts.posts.CreatePost(req, nil, testExtensions)
	require.NoError(t, err)
	return post
}
