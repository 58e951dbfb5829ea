package services

import (
	"context"
	"encoding/json"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/gazelab-backend/internal/clients/gcp"
	"github.com/yungbote/gazelab-backend/internal/data/repos"
	"github.com/yungbote/gazelab-backend/internal/domain"
	"github.com/yungbote/gazelab-backend/internal/platform/logger"
)

// IngestService runs the upload pipeline: extract text from the manual,
// structure it, adapt it for gaze interaction, persist the result. The
// three writes happen in one transaction so a failure partway leaves no
// orphaned rows.
type IngestService interface {
	IngestManual(ctx context.Context, contents []byte, mimeType string) (*domain.AdaptedManual, error)
}

type ingestService struct {
	log         *logger.Logger
	db          *gorm.DB
	document    gcp.Document
	structuring StructuringService
	adaptation  AdaptationService
	experiments repos.ExperimentRepo
	steps       repos.StepRepo
	precautions repos.PrecautionRepo
}

func NewIngestService(
	log *logger.Logger,
	db *gorm.DB,
	document gcp.Document,
	structuring StructuringService,
	adaptation AdaptationService,
	experiments repos.ExperimentRepo,
	steps repos.StepRepo,
	precautions repos.PrecautionRepo,
) IngestService {
	return &ingestService{
		log:         log.With("service", "IngestService"),
		db:          db,
		document:    document,
		structuring: structuring,
		adaptation:  adaptation,
		experiments: experiments,
		steps:       steps,
		precautions: precautions,
	}
}

func (s *ingestService) IngestManual(ctx context.Context, contents []byte, mimeType string) (*domain.AdaptedManual, error) {
	text, err := s.document.ExtractText(ctx, contents, mimeType)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, domain.NewValidationError("no text could be extracted from the uploaded manual")
	}

	structured, err := s.structuring.Structure(ctx, text)
	if err != nil {
		return nil, err
	}

	adapted, err := s.adaptation.Adapt(ctx, structured)
	if err != nil {
		return nil, err
	}

	if err := s.persist(ctx, adapted); err != nil {
		return nil, err
	}

	s.log.Info("manual ingested",
		"experiment_id", adapted.ExperimentMetadata.ExperimentID,
		"steps", len(adapted.Procedure),
	)
	return adapted, nil
}

func (s *ingestService) persist(ctx context.Context, adapted *domain.AdaptedManual) error {
	experimentID := adapted.ExperimentMetadata.ExperimentID

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.experiments.Create(ctx, tx, &domain.Experiment{
			ExperimentID: experimentID,
			Title:        adapted.ExperimentMetadata.Title,
			Objective:    adapted.ExperimentMetadata.Objective,
			CurrentStep:  1,
		}); err != nil {
			return err
		}

		rows := make([]*domain.Step, 0, len(adapted.Procedure))
		for _, step := range adapted.Procedure {
			row, err := stepRecord(experimentID, step)
			if err != nil {
				return err
			}
			rows = append(rows, row)
		}
		if err := s.steps.CreateMany(ctx, tx, rows); err != nil {
			return err
		}

		list, err := json.Marshal(adapted.Precautions)
		if err != nil {
			return err
		}
		return s.precautions.Set(ctx, tx, &domain.Precaution{
			ExperimentID: experimentID,
			Precautions:  datatypes.JSON(list),
		})
	})
}
