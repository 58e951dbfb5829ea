package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yungbote/gazelab-backend/internal/domain"
	"github.com/yungbote/gazelab-backend/internal/platform/logger"
)

type PrecautionRepo interface {
	Set(ctx context.Context, tx *gorm.DB, row *domain.Precaution) error
	GetByExperiment(ctx context.Context, tx *gorm.DB, experimentID int) (*domain.Precaution, error)
}

type precautionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPrecautionRepo(db *gorm.DB, baseLog *logger.Logger) PrecautionRepo {
	return &precautionRepo{db: db, log: baseLog.With("repo", "PrecautionRepo")}
}

func (r *precautionRepo) Set(ctx context.Context, tx *gorm.DB, row *domain.Precaution) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(row).Error
}

func (r *precautionRepo) GetByExperiment(ctx context.Context, tx *gorm.DB, experimentID int) (*domain.Precaution, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var row domain.Precaution
	if err := transaction.WithContext(ctx).
		Where("experiment_id = ?", experimentID).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}
