package server

import (
	"time"

	"gorm.io/gorm"

	"nurture/internal/handlers"
	"nurture/internal/metrics"
	"nurture/internal/notifier"
	"nurture/internal/objectstore"
	"nurture/internal/services"
)

// Services groups the storage-backed services of one database.
type Services struct {
	User            services.UserServicer
	Session         services.SessionServicer
	PasswordReset   services.PasswordResetServicer
	Pregnancy       services.PregnancyServicer
	KickCount       services.KickCountServicer
	Weight          services.WeightServicer
	Symptom         services.SymptomServicer
	Medication      services.MedicationServicer
	BirthPlan       services.BirthPlanServicer
	Consultation    services.ConsultationServicer
	Shopping        services.ShoppingServicer
	Photo           services.PhotoServicer
	Diary           services.DiaryServicer
	Community       services.CommunityServicer
	BabyDevelopment services.BabyDevelopmentServicer
	Analytics       services.AnalyticsServicer
	Audit           services.AuditServicer
	Notification    services.NotificationServicer
}

// ServiceConfig holds the settings services need beyond the database.
type ServiceConfig struct {
	Location      *time.Location
	SessionTTL    time.Duration
	RememberMeTTL time.Duration
	Notifier      notifier.Notifier
	Metrics       *metrics.Metrics
}

// NewServices builds every service against db.
func NewServices(db *gorm.DB, cfg ServiceConfig) *Services {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	n := cfg.Notifier
	if n == nil {
		n = notifier.NewLogNotifier()
	}

	return &Services{
		User:            services.NewUserService(db),
		Session:         services.NewSessionService(db, cfg.SessionTTL, cfg.RememberMeTTL),
		PasswordReset:   services.NewPasswordResetService(db),
		Pregnancy:       services.NewPregnancyService(db),
		KickCount:       services.NewKickCountService(db, loc),
		Weight:          services.NewWeightService(db),
		Symptom:         services.NewSymptomService(db),
		Medication:      services.NewMedicationService(db),
		BirthPlan:       services.NewBirthPlanService(db),
		Consultation:    services.NewConsultationService(db),
		Shopping:        services.NewShoppingService(db),
		Photo:           services.NewPhotoService(db),
		Diary:           services.NewDiaryService(db),
		Community:       services.NewCommunityService(db),
		BabyDevelopment: services.NewBabyDevelopmentService(db),
		Analytics:       services.NewAnalyticsService(db),
		Audit:           services.NewAuditService(db),
		Notification:    services.NewNotificationService(db, n, loc, cfg.Metrics),
	}
}

// NewHandlers builds the HTTP handlers on top of s. A nil presigner makes
// upload requests fail with STORAGE_NOT_CONFIGURED.
func NewHandlers(s *Services, presigner objectstore.Presigner, cookieSecure bool) Handlers {
	return Handlers{
		Auth:            handlers.NewAuthHandler(s.User, s.Session, s.PasswordReset, s.Notification, s.Audit, cookieSecure),
		Pregnancy:       handlers.NewPregnancyHandler(s.Pregnancy, s.Audit),
		KickCount:       handlers.NewKickCountHandler(s.KickCount),
		Weight:          handlers.NewWeightHandler(s.Weight),
		Symptom:         handlers.NewSymptomHandler(s.Symptom),
		Medication:      handlers.NewMedicationHandler(s.Medication),
		BirthPlan:       handlers.NewBirthPlanHandler(s.BirthPlan, s.Audit),
		Consultation:    handlers.NewConsultationHandler(s.Consultation, s.Audit),
		Shopping:        handlers.NewShoppingHandler(s.Shopping),
		Photo:           handlers.NewPhotoHandler(s.Photo),
		Diary:           handlers.NewDiaryHandler(s.Diary),
		Community:       handlers.NewCommunityHandler(s.Community, s.Audit),
		BabyDevelopment: handlers.NewBabyDevelopmentHandler(s.BabyDevelopment),
		Upload:          handlers.NewUploadHandler(presigner),
		Analytics:       handlers.NewAnalyticsHandler(s.Analytics),
	}
}
