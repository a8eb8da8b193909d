// Package server assembles the gin engine: global middleware, the public and
// authenticated route groups, health, metrics and Swagger endpoints.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"nurture/internal/handlers"
	"nurture/internal/metrics"
	"nurture/internal/middleware"
	"nurture/internal/services"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth            *handlers.AuthHandler
	Pregnancy       *handlers.PregnancyHandler
	KickCount       *handlers.KickCountHandler
	Weight          *handlers.WeightHandler
	Symptom         *handlers.SymptomHandler
	Medication      *handlers.MedicationHandler
	BirthPlan       *handlers.BirthPlanHandler
	Consultation    *handlers.ConsultationHandler
	Shopping        *handlers.ShoppingHandler
	Photo           *handlers.PhotoHandler
	Diary           *handlers.DiaryHandler
	Community       *handlers.CommunityHandler
	BabyDevelopment *handlers.BabyDevelopmentHandler
	Upload          *handlers.UploadHandler
	Analytics       *handlers.AnalyticsHandler
}

// Options carries the collaborators the middleware needs.
type Options struct {
	Sessions  services.SessionServicer
	Analytics services.AnalyticsServicer
	Metrics   *metrics.Metrics

	// Requests per minute per client IP on login and password reset.
	AuthRateLimit int
}

// NewRouter builds the application router.
func NewRouter(h Handlers, opts Options) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.Metrics(opts.Metrics))
	if opts.Analytics != nil {
		router.Use(middleware.AccessLog(opts.Analytics))
	}
	router.Use(cors())
	router.Use(middleware.ErrorHandler())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if opts.Metrics != nil {
		router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	v1 := router.Group("/api/v1")

	// Public routes
	limited := middleware.RateLimit(middleware.NewIPRateLimiter(opts.AuthRateLimit), opts.Metrics)
	auth := v1.Group("/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", limited, h.Auth.Login)
	auth.POST("/forgot-password", limited, h.Auth.ForgotPassword)
	auth.POST("/verify-reset-token", limited, h.Auth.VerifyResetToken)
	auth.POST("/reset-password", limited, h.Auth.ResetPassword)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(opts.Sessions))

	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/auth/me", h.Auth.GetProfile)
	protected.PUT("/auth/profile", h.Auth.UpdateProfile)

	pregnancies := protected.Group("/pregnancies")
	pregnancies.POST("", h.Pregnancy.CreatePregnancy)
	pregnancies.GET("", h.Pregnancy.GetPregnancies)
	pregnancies.GET("/active", h.Pregnancy.GetActivePregnancy)
	pregnancies.GET("/:id", h.Pregnancy.GetPregnancy)
	pregnancies.PUT("/:id", h.Pregnancy.UpdatePregnancy)
	pregnancies.POST("/:id/deactivate", h.Pregnancy.DeactivatePregnancy)

	pregnancies.POST("/:id/kick-counts", h.KickCount.CreateKickCount)
	pregnancies.GET("/:id/kick-counts", h.KickCount.GetKickCounts)
	pregnancies.GET("/:id/kick-counts/today", h.KickCount.GetTodaysKickCount)
	protected.DELETE("/kick-counts/:id", h.KickCount.DeleteKickCount)

	pregnancies.POST("/:id/weight-entries", h.Weight.CreateWeightEntry)
	pregnancies.GET("/:id/weight-entries", h.Weight.GetWeightEntries)
	pregnancies.GET("/:id/weight-entries/latest", h.Weight.GetLatestWeight)
	protected.PUT("/weight-entries/:id", h.Weight.UpdateWeightEntry)
	protected.DELETE("/weight-entries/:id", h.Weight.DeleteWeightEntry)

	pregnancies.POST("/:id/symptoms", h.Symptom.CreateSymptom)
	pregnancies.GET("/:id/symptoms", h.Symptom.GetSymptoms)
	protected.DELETE("/symptoms/:id", h.Symptom.DeleteSymptom)

	pregnancies.POST("/:id/medications", h.Medication.CreateMedication)
	pregnancies.GET("/:id/medications", h.Medication.GetMedications)
	protected.PUT("/medications/:id", h.Medication.UpdateMedication)
	protected.DELETE("/medications/:id", h.Medication.DeleteMedication)

	pregnancies.GET("/:id/birth-plan", h.BirthPlan.GetBirthPlan)
	pregnancies.PUT("/:id/birth-plan", h.BirthPlan.SaveBirthPlan)
	protected.DELETE("/birth-plans/:id", h.BirthPlan.DeleteBirthPlan)

	pregnancies.POST("/:id/consultations", h.Consultation.CreateConsultation)
	pregnancies.GET("/:id/consultations", h.Consultation.GetConsultations)
	pregnancies.GET("/:id/consultations/upcoming", h.Consultation.GetUpcomingConsultations)
	protected.GET("/consultations/next", h.Consultation.GetNextConsultation)
	protected.PUT("/consultations/:id", h.Consultation.UpdateConsultation)
	protected.DELETE("/consultations/:id", h.Consultation.DeleteConsultation)

	pregnancies.POST("/:id/shopping-items", h.Shopping.CreateShoppingItem)
	pregnancies.GET("/:id/shopping-items", h.Shopping.GetShoppingItems)
	protected.PUT("/shopping-items/:id", h.Shopping.UpdateShoppingItem)
	protected.DELETE("/shopping-items/:id", h.Shopping.DeleteShoppingItem)

	pregnancies.POST("/:id/photos", h.Photo.CreatePhoto)
	pregnancies.GET("/:id/photos", h.Photo.GetPhotos)
	protected.PUT("/photos/:id", h.Photo.UpdatePhoto)
	protected.DELETE("/photos/:id", h.Photo.DeletePhoto)

	pregnancies.POST("/:id/diary-entries", h.Diary.CreateDiaryEntry)
	pregnancies.GET("/:id/diary-entries", h.Diary.GetDiaryEntries)
	protected.GET("/diary-entries/:id", h.Diary.GetDiaryEntry)
	protected.PUT("/diary-entries/:id", h.Diary.UpdateDiaryEntry)
	protected.DELETE("/diary-entries/:id", h.Diary.DeleteDiaryEntry)
	protected.POST("/diary-entries/:id/attachments", h.Diary.AddAttachment)
	protected.DELETE("/diary-attachments/:id", h.Diary.DeleteAttachment)

	community := protected.Group("/community")
	community.POST("/posts", h.Community.CreatePost)
	community.GET("/posts", h.Community.GetPosts)
	community.GET("/posts/:id", h.Community.GetPost)
	community.DELETE("/posts/:id", h.Community.DeletePost)
	community.POST("/posts/:id/like", h.Community.LikePost)
	community.DELETE("/posts/:id/like", h.Community.UnlikePost)
	community.GET("/posts/:id/comments", h.Community.GetComments)
	community.POST("/posts/:id/comments", h.Community.AddComment)
	community.DELETE("/comments/:id", h.Community.DeleteComment)

	protected.GET("/baby-development", h.BabyDevelopment.GetAll)
	protected.GET("/baby-development/:week", h.BabyDevelopment.GetByWeek)

	protected.POST("/objects/upload", h.Upload.CreateUpload)
	protected.POST("/analytics/page-view", h.Analytics.RecordPageView)

	return router
}

// cors allows any origin and answers preflights directly.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
