package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Ayash-Bera/mentor/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepositoryImpl implements UserRepository
type UserRepositoryImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) models.UserRepository {
	return &UserRepositoryImpl{db: db}
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepositoryImpl) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// QuestionnaireRepositoryImpl implements QuestionnaireRepository
type QuestionnaireRepositoryImpl struct {
	db *gorm.DB
}

func NewQuestionnaireRepository(db *gorm.DB) models.QuestionnaireRepository {
	return &QuestionnaireRepositoryImpl{db: db}
}

func (r *QuestionnaireRepositoryImpl) GetByUserID(ctx context.Context, userID uint) (*models.QuestionnaireAnswer, error) {
	var answers models.QuestionnaireAnswer
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&answers).Error
	if err != nil {
		return nil, err
	}
	return &answers, nil
}

func (r *QuestionnaireRepositoryImpl) Submit(ctx context.Context, answers *models.QuestionnaireAnswer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.QuestionnaireAnswer{}).
			Where("user_id = ?", answers.UserID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return models.ErrAlreadySubmitted
		}

		if err := tx.Create(answers).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return models.ErrAlreadySubmitted
			}
			return err
		}

		res := tx.Model(&models.User{}).
			Where("id = ?", answers.UserID).
			Updates(map[string]interface{}{
				"profile_label":           answers.ProfileLabel,
				"questionnaire_completed": true,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// InteractionRepositoryImpl implements InteractionRepository
type InteractionRepositoryImpl struct {
	db *gorm.DB
}

func NewInteractionRepository(db *gorm.DB) models.InteractionRepository {
	return &InteractionRepositoryImpl{db: db}
}

func (r *InteractionRepositoryImpl) Record(ctx context.Context, interaction *models.Interaction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(interaction).Error; err != nil {
			return err
		}

		res := tx.Model(&models.User{}).
			Where("id = ?", interaction.UserID).
			UpdateColumn("interaction_count", gorm.Expr("interaction_count + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *InteractionRepositoryImpl) GetForUser(ctx context.Context, userID, id uint) (*models.Interaction, error) {
	var interaction models.Interaction
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&interaction).Error
	if err != nil {
		return nil, err
	}
	return &interaction, nil
}

func (r *InteractionRepositoryImpl) RecentByUser(ctx context.Context, userID uint, limit int) ([]models.Interaction, error) {
	var interactions []models.Interaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&interactions).Error
	return interactions, err
}

func (r *InteractionRepositoryImpl) RecentHelpfulByUser(ctx context.Context, userID uint, limit int) ([]models.Interaction, error) {
	var interactions []models.Interaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND helpful = ?", userID, true).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&interactions).Error
	return interactions, err
}

func (r *InteractionRepositoryImpl) ApplyFeedback(ctx context.Context, userID, id uint, update models.FeedbackUpdate, quality models.QualityFunc) (*models.Interaction, error) {
	var interaction models.Interaction
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// sqlite has no row locks and the driver drops the clause
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ?", id, userID).
			First(&interaction).Error
		if err != nil {
			return err
		}

		if update.Helpful != nil {
			interaction.Helpful = update.Helpful
		}
		if update.Understanding != nil {
			interaction.Understanding = update.Understanding
		}
		interaction.InteractionQuality = quality(interaction.Helpful, interaction.Understanding)

		return tx.Model(&interaction).Updates(map[string]interface{}{
			"helpful":             interaction.Helpful,
			"understanding":       interaction.Understanding,
			"interaction_quality": interaction.InteractionQuality,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &interaction, nil
}

// SystemHealthRepositoryImpl implements SystemHealthRepository
type SystemHealthRepositoryImpl struct {
	db *gorm.DB
}

func NewSystemHealthRepository(db *gorm.DB) models.SystemHealthRepository {
	return &SystemHealthRepositoryImpl{db: db}
}

func (r *SystemHealthRepositoryImpl) UpdateServiceHealth(ctx context.Context, serviceName, status string, responseTime int, errorMsg string) error {
	return r.db.WithContext(ctx).Create(&models.SystemHealth{
		ServiceName:    serviceName,
		Status:         status,
		ResponseTimeMs: responseTime,
		ErrorMessage:   errorMsg,
		CheckedAt:      time.Now(),
	}).Error
}

// latest row per service; portable across postgres and sqlite
func (r *SystemHealthRepositoryImpl) latest(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	sub := db.Model(&models.SystemHealth{}).
		Select("MAX(id)").
		Group("service_name")
	return db.Where("id IN (?)", sub).
		Order("service_name")
}

func (r *SystemHealthRepositoryImpl) GetAllServicesHealth(ctx context.Context) ([]models.SystemHealth, error) {
	var health []models.SystemHealth
	err := r.latest(ctx).Find(&health).Error
	return health, err
}

// RepositoryManager bundles all repositories
type RepositoryManager struct {
	User          models.UserRepository
	Questionnaire models.QuestionnaireRepository
	Interaction   models.InteractionRepository
	SystemHealth  models.SystemHealthRepository
}

func NewRepositoryManager(db *gorm.DB) *RepositoryManager {
	return &RepositoryManager{
		User:          NewUserRepository(db),
		Questionnaire: NewQuestionnaireRepository(db),
		Interaction:   NewInteractionRepository(db),
		SystemHealth:  NewSystemHealthRepository(db),
	}
}
