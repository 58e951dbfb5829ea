package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yungbote/gazelab-backend/internal/domain"
	"github.com/yungbote/gazelab-backend/internal/platform/logger"
)

type StepRepo interface {
	CreateMany(ctx context.Context, tx *gorm.DB, steps []*domain.Step) error
	GetByNumber(ctx context.Context, tx *gorm.DB, experimentID int, stepNumber int) (*domain.Step, error)
	ListByExperiment(ctx context.Context, tx *gorm.DB, experimentID int) ([]*domain.Step, error)
	CountByExperiment(ctx context.Context, tx *gorm.DB, experimentID int) (int64, error)
}

type stepRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStepRepo(db *gorm.DB, baseLog *logger.Logger) StepRepo {
	return &stepRepo{db: db, log: baseLog.With("repo", "StepRepo")}
}

func (r *stepRepo) CreateMany(ctx context.Context, tx *gorm.DB, steps []*domain.Step) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(steps) == 0 {
		return nil
	}

	// Step numbers must form the set 1..n regardless of slice order.
	seen := make(map[int]bool, len(steps))
	for _, step := range steps {
		if step.StepNumber < 1 || step.StepNumber > len(steps) || seen[step.StepNumber] {
			return domain.NewValidationError(
				"step numbers must be contiguous from 1, got %d in a batch of %d", step.StepNumber, len(steps))
		}
		seen[step.StepNumber] = true
	}

	return transaction.WithContext(ctx).Create(&steps).Error
}

func (r *stepRepo) GetByNumber(ctx context.Context, tx *gorm.DB, experimentID int, stepNumber int) (*domain.Step, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var step domain.Step
	if err := transaction.WithContext(ctx).
		Where("experiment_id = ? AND step_number = ?", experimentID, stepNumber).
		First(&step).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &step, nil
}

func (r *stepRepo) ListByExperiment(ctx context.Context, tx *gorm.DB, experimentID int) ([]*domain.Step, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var steps []*domain.Step
	if err := transaction.WithContext(ctx).
		Where("experiment_id = ?", experimentID).
		Order("step_number ASC").
		Find(&steps).Error; err != nil {
		return nil, err
	}
	return steps, nil
}

func (r *stepRepo) CountByExperiment(ctx context.Context, tx *gorm.DB, experimentID int) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&domain.Step{}).
		Where("experiment_id = ?", experimentID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
