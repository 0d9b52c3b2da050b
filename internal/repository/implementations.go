package repository

import (
	"gorm.io/gorm"

	"github.com/wakatake-dev/faqbot/internal/models"
)

// QuestionLogRepositoryImpl implements models.QuestionLogRepository.
type QuestionLogRepositoryImpl struct {
	db *gorm.DB
}

func NewQuestionLogRepository(db *gorm.DB) models.QuestionLogRepository {
	return &QuestionLogRepositoryImpl{db: db}
}

func (r *QuestionLogRepositoryImpl) Create(log *models.QuestionLog) error {
	return r.db.Create(log).Error
}

// PopularQuestionRepositoryImpl implements models.PopularQuestionRepository.
type PopularQuestionRepositoryImpl struct {
	db *gorm.DB
}

func NewPopularQuestionRepository(db *gorm.DB) models.PopularQuestionRepository {
	return &PopularQuestionRepositoryImpl{db: db}
}

func (r *PopularQuestionRepositoryImpl) IncrementCount(questionText string, responseTimeMs int) error {
	return r.db.Exec(`
		INSERT INTO popular_questions (question_text, ask_count, avg_response_time_ms, last_asked, created_at, updated_at)
		VALUES (?, 1, ?, NOW(), NOW(), NOW())
		ON CONFLICT (question_text)
		DO UPDATE SET
			ask_count = popular_questions.ask_count + 1,
			avg_response_time_ms = (popular_questions.avg_response_time_ms * popular_questions.ask_count + ?) / (popular_questions.ask_count + 1),
			last_asked = NOW(),
			updated_at = NOW()
	`, questionText, responseTimeMs, responseTimeMs).Error
}

func (r *PopularQuestionRepositoryImpl) GetTop(limit int) ([]models.PopularQuestion, error) {
	var questions []models.PopularQuestion
	err := r.db.Order("ask_count DESC").
		Limit(limit).
		Find(&questions).Error
	return questions, err
}

// SystemHealthRepositoryImpl implements models.SystemHealthRepository.
type SystemHealthRepositoryImpl struct {
	db *gorm.DB
}

func NewSystemHealthRepository(db *gorm.DB) models.SystemHealthRepository {
	return &SystemHealthRepositoryImpl{db: db}
}

func (r *SystemHealthRepositoryImpl) UpdateServiceHealth(serviceName, status string, responseTimeMs int, errorMsg string) error {
	return r.db.Exec(`
		INSERT INTO system_health (service_name, status, response_time_ms, error_message, checked_at)
		VALUES (?, ?, ?, ?, NOW())
	`, serviceName, status, responseTimeMs, errorMsg).Error
}

func (r *SystemHealthRepositoryImpl) GetServiceHealth(serviceName string) (*models.SystemHealth, error) {
	var health models.SystemHealth
	err := r.db.Where("service_name = ?", serviceName).
		Order("checked_at DESC").
		First(&health).Error
	if err != nil {
		return nil, err
	}
	return &health, nil
}

func (r *SystemHealthRepositoryImpl) GetAllServicesHealth() ([]models.SystemHealth, error) {
	var health []models.SystemHealth
	err := r.db.Raw(`
		SELECT DISTINCT ON (service_name) *
		FROM system_health
		ORDER BY service_name, checked_at DESC
	`).Scan(&health).Error
	return health, err
}

// Manager bundles the repositories the handlers need.
type Manager struct {
	QuestionLog     models.QuestionLogRepository
	PopularQuestion models.PopularQuestionRepository
	SystemHealth    models.SystemHealthRepository
}

func NewManager(db *gorm.DB) *Manager {
	return &Manager{
		QuestionLog:     NewQuestionLogRepository(db),
		PopularQuestion: NewPopularQuestionRepository(db),
		SystemHealth:    NewSystemHealthRepository(db),
	}
}
