package main

import (
	"context"
	"log"
	"strings"
	"time"

	"eonestep.com/institutebackend/internal/config"
	"eonestep.com/institutebackend/internal/handler"
	"eonestep.com/institutebackend/internal/middleware"
	"eonestep.com/institutebackend/internal/model"
	"eonestep.com/institutebackend/internal/repository"
	"eonestep.com/institutebackend/internal/service"
	"eonestep.com/institutebackend/pkg/database"
	"eonestep.com/institutebackend/pkg/mailer"
	"eonestep.com/institutebackend/pkg/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.AppEnv)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	db := database.Connect()
	if err := migrate(db); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}

	if cfg.AppEnv == "development" {
		if err := seedAdminUser(db); err != nil {
			logger.Fatal("failed to seed admin user", zap.Error(err))
		}
		if err := seedDemoFranchises(db); err != nil {
			logger.Fatal("failed to seed demo franchises", zap.Error(err))
		}
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	rdb := connectRedis(cfg, logger)

	var meiliClient meilisearch.ServiceManager
	if cfg.MeiliSearchHost != "" {
		meiliClient = meilisearch.New(cfg.MeiliSearchHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	}

	fileStorage, err := storage.NewCloudinaryStorage(cfg.CloudinaryFolder)
	if err != nil {
		logger.Fatal("failed to initialize cloudinary storage", zap.Error(err))
	}

	mail := mailer.New(mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		UseTLS:   cfg.SMTPUseTLS,
	})

	userRepo := repository.NewUserRepository(db)
	franchiseRepo := repository.NewFranchiseRepository(db)
	studentRepo := repository.NewStudentRepository(db)

	searchService := service.NewStudentSearchService(meiliClient)

	authService := service.NewAuthService(
		userRepo, franchiseRepo, mail, rdb,
		cfg.JWTSecret, cfg.JWTTTL, cfg.ResetTokenTTL, cfg.FrontendURL,
	)
	franchiseService := service.NewFranchiseService(franchiseRepo, userRepo, studentRepo, fileStorage, mail)
	studentService := service.NewStudentService(studentRepo, fileStorage, searchService)
	certificateService := service.NewCertificateService(studentRepo)

	authHandler := handler.NewAuthHandler(authService, rdb, cfg.RateLimitLogin)
	franchiseHandler := handler.NewFranchiseHandler(franchiseService, rdb, cfg.RateLimitApply)
	studentHandler := handler.NewStudentHandler(studentService, certificateService)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTSecret)

	router := gin.Default()
	setupCORS(router, cfg.AllowedOrigins)

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/forgot-password", authHandler.ForgotPassword)
			auth.GET("/reset-password", authHandler.VerifyResetToken)
			auth.POST("/reset-password", authHandler.ResetPassword)
			auth.POST("/register", authMiddleware.RequireAuth(model.RoleAdmin), authHandler.Register)
			auth.POST("/change-password", authMiddleware.RequireAuth(), authHandler.ChangePassword)
		}

		franchise := api.Group("/franchise")
		{
			franchise.POST("/apply", franchiseHandler.Apply)

			franchise.GET("", authMiddleware.RequireAuth(model.RoleAdmin), franchiseHandler.List)
			franchise.GET("/pending", authMiddleware.RequireAuth(model.RoleAdmin), franchiseHandler.ListPending)
			franchise.PATCH("/:id/approve", authMiddleware.RequireAuth(model.RoleAdmin), franchiseHandler.Approve)
			franchise.PATCH("/:id/suspend", authMiddleware.RequireAuth(model.RoleAdmin), franchiseHandler.Suspend)
			franchise.PATCH("/:id/hard-password-reset", authMiddleware.RequireAuth(model.RoleAdmin), franchiseHandler.HardPasswordReset)

			franchise.GET("/:id", authMiddleware.RequireAuth(model.RoleAdmin, model.RoleFranchise), franchiseHandler.Get)
			franchise.PUT("/:id/edit", authMiddleware.RequireAuth(model.RoleAdmin, model.RoleFranchise), franchiseHandler.Update)
		}

		students := api.Group("/students")
		{
			students.POST("/certificate", studentHandler.Certificate)

			students.POST("/register", authMiddleware.RequireAuth(model.RoleFranchise), studentHandler.Register)
			students.PUT("/register/:id", authMiddleware.RequireAuth(model.RoleAdmin, model.RoleFranchise), studentHandler.Update)
			students.GET("", authMiddleware.RequireAuth(model.RoleFranchise), studentHandler.List)
			students.GET("/all", authMiddleware.RequireAuth(model.RoleAdmin), studentHandler.ListAll)

			students.GET("/:id", authMiddleware.RequireAuth(model.RoleAdmin, model.RoleFranchise), studentHandler.Get)
			students.GET("/:id/course-details", authMiddleware.RequireAuth(model.RoleAdmin, model.RoleFranchise), studentHandler.GetCourseDetails)
			students.PUT("/:id/course-details", authMiddleware.RequireAuth(model.RoleAdmin, model.RoleFranchise), studentHandler.UpdateCourseDetails)
		}
	}

	logger.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.AppEnv))
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server exited with error", zap.Error(err))
	}
}

func newLogger(appEnv string) (*zap.Logger, error) {
	if appEnv == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func connectRedis(cfg *config.Config, logger *zap.Logger) *redis.Client {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal("invalid REDIS_URL", zap.Error(err))
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		// Rate limiting and password reset tokens degrade without Redis;
		// the rest of the API keeps working.
		logger.Warn("redis unreachable", zap.Error(err))
	}

	return rdb
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	origins := strings.Split(allowedOrigins, ",")

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Franchise{},
		&model.User{},
		&model.Student{},
		&model.Course{},
	)
}

func seedAdminUser(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.User{}).
		Where("email = ?", "admin@eonestep.com").
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := model.User{
		Email:    "admin@eonestep.com",
		Password: string(hashed),
		Role:     model.RoleAdmin,
	}

	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	zap.L().Info("admin user seeded", zap.String("email", admin.Email))
	return nil
}

// seedDemoFranchises inserts a couple of sample tenants so the dashboard and
// approval flows have data on a fresh database. No-op once any franchise exists.
func seedDemoFranchises(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Franchise{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	samples := []model.Franchise{
		{
			Name:          "Ravi Kumar",
			Email:         "demo.approved@eonestep.com",
			InstituteName: "Sunrise Computer Academy",
			Address:       "12 MG Road",
			City:          "Pune",
			State:         "Maharashtra",
			Country:       "India",
			Phone:         "9800000001",
			Status:        model.StatusApproved,
		},
		{
			Name:          "Anita Sharma",
			Email:         "demo.pending@eonestep.com",
			InstituteName: "Bright Future Institute",
			Address:       "4 Station Lane",
			City:          "Jaipur",
			State:         "Rajasthan",
			Country:       "India",
			Phone:         "9800000002",
			Status:        model.StatusPending,
		},
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for i := range samples {
			if err := tx.Create(&samples[i]).Error; err != nil {
				return err
			}
			code := model.FranchiseCode(samples[i].ID)
			if err := tx.Model(&samples[i]).Update("code", code).Error; err != nil {
				return err
			}
		}
		zap.L().Info("demo franchises seeded", zap.Int("count", len(samples)))
		return nil
	})
}
