package services

import (
	"errors"
	"fmt"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "nurture/internal/errors"
	"nurture/internal/logger"
	"nurture/internal/models"
)

// babyDevelopmentService serves the weekly development reference table,
// seeding it on first access when it is empty.
type babyDevelopmentService struct {
	db     *gorm.DB
	mu     sync.Mutex
	seeded bool
}

// NewBabyDevelopmentService creates a new BabyDevelopmentServicer.
func NewBabyDevelopmentService(db *gorm.DB) BabyDevelopmentServicer {
	return &babyDevelopmentService{db: db}
}

// GetByWeek returns the reference data for a gestational week.
func (s *babyDevelopmentService) GetByWeek(week int) (*models.BabyDevelopment, error) {
	if week < 1 || week > 42 {
		return nil, apperrors.WithFields(apperrors.ErrValidation, map[string]string{"week": "must be between 1 and 42"})
	}
	if err := s.ensureSeeded(); err != nil {
		return nil, err
	}

	var dev models.BabyDevelopment
	if err := s.db.Where("week = ?", week).First(&dev).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBabyDevelopmentNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &dev, nil
}

// GetAll returns every known week in order.
func (s *babyDevelopmentService) GetAll() ([]models.BabyDevelopment, error) {
	if err := s.ensureSeeded(); err != nil {
		return nil, err
	}
	var all []models.BabyDevelopment
	if err := s.db.Order("week ASC").Find(&all).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return all, nil
}

func (s *babyDevelopmentService) ensureSeeded() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seeded {
		return nil
	}

	var count int64
	if err := s.db.Model(&models.BabyDevelopment{}).Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		rows := babyDevelopmentSeed()
		// Another process may be seeding at the same time; the unique week
		// index turns its rows into no-ops here.
		if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		logger.Get().Infow("seeded baby development data", "weeks", len(rows))
	}
	s.seeded = true
	return nil
}

type weekSeed struct {
	week        int
	comparison  string
	lengthCm    float64
	weightGrams float64
	baby        string
	mother      string
}

func babyDevelopmentSeed() []models.BabyDevelopment {
	rows := make([]models.BabyDevelopment, 0, len(weekSeeds))
	for _, w := range weekSeeds {
		rows = append(rows, models.BabyDevelopment{
			Week:            w.week,
			Size:            fmt.Sprintf("%.1f cm", w.lengthCm),
			Weight:          formatGrams(w.weightGrams),
			Comparison:      w.comparison,
			BabyDevelopment: w.baby,
			MotherChanges:   w.mother,
			LengthCm:        w.lengthCm,
			WeightGrams:     w.weightGrams,
		})
	}
	return rows
}

func formatGrams(g float64) string {
	switch {
	case g < 1:
		return "< 1 g"
	case g >= 1000:
		return fmt.Sprintf("%.2f kg", g/1000)
	default:
		return fmt.Sprintf("%.0f g", g)
	}
}

var weekSeeds = []weekSeed{
	{4, "poppy seed", 0.1, 0, "The embryo implants in the uterine lining and the placenta starts to form.", "A missed period is often the first sign; hCG levels begin to rise."},
	{5, "sesame seed", 0.2, 0, "The neural tube, which becomes the brain and spinal cord, is forming.", "Breast tenderness and fatigue are common."},
	{6, "lentil", 0.6, 0, "A tiny heart begins to beat and facial features start to appear.", "Morning sickness may begin."},
	{7, "blueberry", 1.3, 1, "Arm and leg buds grow and the brain develops rapidly.", "Frequent urination and food aversions are common."},
	{8, "raspberry", 1.6, 1, "Fingers and toes begin to form and the embryo starts to move.", "The uterus is growing; clothes may feel tighter."},
	{9, "cherry", 2.3, 2, "Essential organs have begun to develop and muscles are forming.", "Mood swings and bloating are common."},
	{10, "strawberry", 3.1, 4, "Vital organs are in place and starting to function.", "Veins may become more visible as blood volume increases."},
	{11, "fig", 4.1, 7, "The baby can open and close its fists and bones begin to harden.", "Nausea may start to ease for some."},
	{12, "lime", 5.4, 14, "Reflexes develop and the kidneys start producing urine.", "The risk of miscarriage drops significantly."},
	{13, "lemon", 7.4, 23, "Fingerprints are forming and vocal cords develop.", "Energy often returns as the second trimester begins."},
	{14, "peach", 8.7, 43, "The baby can squint, frown and may suck its thumb.", "Appetite may increase."},
	{15, "apple", 10.1, 70, "The baby senses light and the skeleton keeps hardening.", "Nasal congestion and gum sensitivity can appear."},
	{16, "avocado", 11.6, 100, "The eyes can make small movements and the heart pumps about 25 litres of blood a day.", "Some feel the first flutters of movement."},
	{17, "pear", 13, 140, "Fat stores begin to develop under the skin.", "Round ligament pain may appear as the belly grows."},
	{18, "bell pepper", 14.2, 190, "The ears are in their final position and hearing develops.", "Dizziness can occur; rise slowly."},
	{19, "mango", 15.3, 240, "A protective coating called vernix covers the skin.", "Backaches and leg cramps are common."},
	{20, "banana", 25.6, 300, "The baby swallows amniotic fluid and produces meconium.", "The halfway point; the anatomy scan is usually done around now."},
	{21, "carrot", 26.7, 360, "Movements become stronger and more coordinated.", "Stretch marks may start to appear."},
	{22, "papaya", 27.8, 430, "Senses of touch and taste develop.", "Feet may swell slightly."},
	{23, "grapefruit", 28.9, 501, "The baby can hear sounds from outside the womb.", "Braxton Hicks contractions may begin."},
	{24, "cantaloupe", 30, 600, "The lungs develop branches and surfactant-producing cells.", "Glucose screening is typically done between weeks 24 and 28."},
	{25, "cauliflower", 34.6, 660, "The baby responds to familiar voices.", "Heartburn and trouble sleeping are common."},
	{26, "lettuce", 35.6, 760, "The eyes begin to open.", "Blood pressure is monitored closely from here on."},
	{27, "rutabaga", 36.6, 875, "The brain is very active and sleep cycles are forming.", "The third trimester is about to begin."},
	{28, "eggplant", 37.6, 1005, "The baby can blink and may have eyelashes.", "Shortness of breath and fatigue may return."},
	{29, "butternut squash", 38.6, 1153, "Muscles and lungs continue to mature.", "Kicks become frequent; counting them is a good habit."},
	{30, "cabbage", 39.9, 1319, "Bone marrow takes over red blood cell production.", "Mood swings and clumsiness are common."},
	{31, "coconut", 41.1, 1502, "The baby can turn its head from side to side.", "Leaking colostrum is possible."},
	{32, "jicama", 42.4, 1702, "Toenails and fingernails have formed.", "Visits to the doctor may become more frequent."},
	{33, "pineapple", 43.7, 1918, "The bones are hardening, except for the skull.", "Sleep may be harder to come by."},
	{34, "honeydew melon", 45, 2146, "The central nervous system and lungs are maturing.", "Vision may blur temporarily due to fluid retention."},
	{35, "coconut cluster", 46.2, 2383, "Most of the basic physical development is complete.", "Pelvic pressure increases as the baby drops lower."},
	{36, "romaine lettuce", 47.4, 2622, "The baby is shedding the downy hair that covered the body.", "Weekly check-ups usually begin."},
	{37, "swiss chard", 48.6, 2859, "The baby practises breathing, sucking and gripping.", "The baby is considered early term."},
	{38, "leek", 49.8, 3083, "Organs are ready for life outside the womb.", "Watch for signs of labour."},
	{39, "mini watermelon", 50.7, 3288, "The brain is still developing rapidly.", "The baby is considered full term."},
	{40, "small pumpkin", 51.2, 3462, "The baby is ready to be born.", "The due date has arrived; only a few babies arrive exactly on it."},
}
