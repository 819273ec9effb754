package main

import (
	"log"
	"net/http"

	"guidelines-cms/config"
	"guidelines-cms/handlers"
	"guidelines-cms/helper"
	"guidelines-cms/middleware"
	"guidelines-cms/models"
	"guidelines-cms/repositories"
	"guidelines-cms/services"
	"guidelines-cms/storage"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/go-playground/validator.v9"
	en_translations "gopkg.in/go-playground/validator.v9/translations/en"
)

func newHTTPHelper() (*helper.HTTPHelper, error) {
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")

	validate := validator.New()
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &helper.HTTPHelper{Validate: validate, Translator: trans}, nil
}

func newStorage(cfg *config.Config, logger *zap.Logger) (storage.Storage, error) {
	if cfg.StorageDriver == "minio" {
		return storage.NewMinioStorage(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL, logger)
	}
	return storage.NewLocalStorage(cfg.UploadDir, logger)
}

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		logger.Fatal("connecting to database", zap.Error(err))
	}

	store, err := newStorage(cfg, logger)
	if err != nil {
		logger.Fatal("initializing storage", zap.Error(err))
	}

	httpHelper, err := newHTTPHelper()
	if err != nil {
		logger.Fatal("initializing validator", zap.Error(err))
	}
	middleware.HTTPHelper = httpHelper

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	postRepo := repositories.NewPostRepository(db)
	tagRepo := repositories.NewTagRepository(db)
	fileRepo := repositories.NewFileRepository(db)
	questionRepo := repositories.NewQuestionRepository(db)
	siteRepo := repositories.NewSiteRepository(db)
	subjectRepo := repositories.NewSubjectRepository(db)
	deviceRepo := repositories.NewDeviceRepository(db)
	searchRepo := repositories.NewSearchRepository(db)

	// Initialize services
	notifier := services.NewExpoNotifier(deviceRepo, logger)
	authService := services.NewAuthService(userRepo)
	tagService := services.NewTagService(db, tagRepo)
	fileService := services.NewFileService(db, fileRepo, store, logger)
	questionService := services.NewQuestionService(db, questionRepo, siteRepo, subjectRepo, postRepo, userRepo, notifier)
	postService := services.NewPostService(db, postRepo, questionRepo, tagService, fileService, questionService, notifier)
	searchService := services.NewSearchService(searchRepo, postRepo, tagRepo)
	siteService := services.NewSiteService(siteRepo)
	subjectService := services.NewSubjectService(subjectRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	postHandler := handlers.NewPostHandler(postService, cfg.AllowedExtensions)
	tagHandler := handlers.NewTagHandler(tagService)
	fileHandler := handlers.NewFileHandler(fileService, cfg.AllowedExtensions, logger)
	questionHandler := handlers.NewQuestionHandler(questionService)
	searchHandler := handlers.NewSearchHandler(searchService)
	lookupHandler := handlers.NewLookupHandler(siteService, subjectService)
	deviceHandler := handlers.NewDeviceHandler(deviceRepo)

	authHandler.Helper = httpHelper
	postHandler.Helper = httpHelper
	tagHandler.Helper = httpHelper
	fileHandler.Helper = httpHelper
	questionHandler.Helper = httpHelper
	searchHandler.Helper = httpHelper
	lookupHandler.Helper = httpHelper
	deviceHandler.Helper = httpHelper

	// Setup router
	router := gin.Default()

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// API routes
	v1 := router.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Public read and intake routes
		v1.GET("/posts", postHandler.GetPosts)
		v1.GET("/posts/:id", postHandler.GetPost)
		v1.GET("/posts/:id/latest", postHandler.GetLatest)
		v1.GET("/posts/:id/revisions", postHandler.GetRevisions)
		v1.GET("/revisions/:revision_id", postHandler.GetRevision)
		v1.GET("/search/posts/:query", searchHandler.SearchPosts)
		v1.GET("/tags", tagHandler.GetTags)
		v1.GET("/tags/:id", tagHandler.GetTag)
		v1.GET("/sites", lookupHandler.GetSites)
		v1.GET("/subjects", lookupHandler.GetSubjects)
		v1.GET("/files/:id/view", fileHandler.ViewFile)
		v1.GET("/files/:id/download", fileHandler.DownloadFile)
		v1.POST("/questions", questionHandler.CreateQuestions)
		v1.POST("/devices", deviceHandler.RegisterDevice)
		v1.DELETE("/devices", deviceHandler.UnregisterDevice)

		// Protected routes
		protected := v1.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			// Profile
			protected.GET("/profile", authHandler.Profile)

			// Posts and revisions
			protected.POST("/posts", postHandler.CreatePost)
			protected.DELETE("/posts/:id", postHandler.DeletePost)
			protected.POST("/posts/:id/revisions", postHandler.CreateRevision)
			protected.DELETE("/revisions/:revision_id", postHandler.DeleteRevision)

			// Files
			protected.GET("/files", fileHandler.GetFiles)
			protected.POST("/revisions/:revision_id/files", fileHandler.AttachFile)
			protected.DELETE("/files/:id", fileHandler.DetachFile)

			// Questions
			protected.GET("/questions", questionHandler.GetQuestions)
			protected.GET("/questions/:id", questionHandler.GetQuestion)
			protected.PUT("/questions/:id", questionHandler.UpdateQuestion)
			protected.DELETE("/questions/:id", questionHandler.DeleteQuestion)
			protected.POST("/questions/:id/resolve/:post_id", questionHandler.ResolveQuestion)

			// Admin-only catalog management
			admin := protected.Group("/")
			admin.Use(middleware.RequireRole(string(models.RoleAdmin)))
			{
				admin.POST("/tags", tagHandler.CreateTag)
				admin.DELETE("/tags/:id", tagHandler.DeleteTag)
				admin.POST("/sites", lookupHandler.CreateSite)
				admin.DELETE("/sites/:id", lookupHandler.DeleteSite)
				admin.POST("/subjects", lookupHandler.CreateSubject)
				admin.DELETE("/subjects/:id", lookupHandler.DeleteSubject)
			}
		}
	}

	logger.Info("server starting", zap.String("port", cfg.Port))
	log.Fatal(http.ListenAndServe(":"+cfg.Port, router))
}
