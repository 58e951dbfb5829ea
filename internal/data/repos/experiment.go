package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yungbote/gazelab-backend/internal/domain"
	"github.com/yungbote/gazelab-backend/internal/platform/logger"
)

type ExperimentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, exp *domain.Experiment) error
	GetByID(ctx context.Context, tx *gorm.DB, experimentID int) (*domain.Experiment, error)
	// AdvanceStep bumps current_step by one, guarded on the value the
	// caller observed. Reports false when another submission advanced the
	// experiment first, so at most one advance lands per evaluated step.
	AdvanceStep(ctx context.Context, tx *gorm.DB, experimentID int, fromStep int) (bool, error)
}

type experimentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewExperimentRepo(db *gorm.DB, baseLog *logger.Logger) ExperimentRepo {
	return &experimentRepo{db: db, log: baseLog.With("repo", "ExperimentRepo")}
}

func (r *experimentRepo) Create(ctx context.Context, tx *gorm.DB, exp *domain.Experiment) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&domain.Experiment{}).
		Where("experiment_id = ?", exp.ExperimentID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrDuplicateExperiment
	}

	if exp.CurrentStep == 0 {
		exp.CurrentStep = 1
	}
	return transaction.WithContext(ctx).Create(exp).Error
}

func (r *experimentRepo) GetByID(ctx context.Context, tx *gorm.DB, experimentID int) (*domain.Experiment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var exp domain.Experiment
	if err := transaction.WithContext(ctx).
		Where("experiment_id = ?", experimentID).
		First(&exp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &exp, nil
}

func (r *experimentRepo) AdvanceStep(ctx context.Context, tx *gorm.DB, experimentID int, fromStep int) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Model(&domain.Experiment{}).
		Where("experiment_id = ? AND current_step = ?", experimentID, fromStep).
		Update("current_step", gorm.Expr("current_step + 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
