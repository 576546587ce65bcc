package service

import (
	"context"

	"github.com/rs/zerolog/log"

	apperrors "github.com/serialcheck/serialcheck-server/internal/errors"
	"github.com/serialcheck/serialcheck-server/internal/model"
	"github.com/serialcheck/serialcheck-server/internal/repository"
)

// MaintenanceService backs the admin console operations on the serial store.
type MaintenanceService struct {
	serialRepo repository.SerialRepository
	limiter    *RateLimiter
}

func NewMaintenanceService(serialRepo repository.SerialRepository, limiter *RateLimiter) *MaintenanceService {
	return &MaintenanceService{
		serialRepo: serialRepo,
		limiter:    limiter,
	}
}

func (s *MaintenanceService) List(ctx context.Context) ([]model.SerialRecord, error) {
	records, err := s.serialRepo.FindAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to list serials")
		return nil, apperrors.Database("Failed to list serials", err)
	}
	return records, nil
}

// Add inserts or replaces the record for sn. status must be one of
// model.SerialStatuses exactly.
func (s *MaintenanceService) Add(ctx context.Context, sn, status string, note *string) (*model.UpsertSerialParams, error) {
	params := model.UpsertSerialParams{
		SerialNumber: SanitizeSerial(sn),
		Status:       model.SerialStatus(status),
		Note:         NormalizeNote(note),
	}
	if params.SerialNumber == "" || !params.Status.Valid() {
		return nil, apperrors.ValidationError("Serial and valid status required")
	}

	if err := s.serialRepo.Upsert(ctx, params); err != nil {
		log.Error().Err(err).Str("sn", params.SerialNumber).Msg("failed to save serial")
		return nil, apperrors.Database("Failed to save serial", err)
	}
	return &params, nil
}

func (s *MaintenanceService) Delete(ctx context.Context, sn string) error {
	sn = SanitizeSerial(sn)
	if sn == "" {
		return apperrors.NotFound("Serial")
	}

	deleted, err := s.serialRepo.Delete(ctx, sn)
	if err != nil {
		log.Error().Err(err).Str("sn", sn).Msg("failed to delete serial")
		return apperrors.Database("Failed to delete serial", err)
	}
	if deleted == 0 {
		return apperrors.NotFound("Serial")
	}
	return nil
}

// Clear removes every serial record and returns how many were removed.
func (s *MaintenanceService) Clear(ctx context.Context) (int64, error) {
	deleted, err := s.serialRepo.DeleteAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to clear serials")
		return 0, apperrors.Database("Failed to clear serials", err)
	}
	return deleted, nil
}

// Reformat rewrites every record whose serial, status or note is not in
// canonical form. Running it twice changes nothing the second time.
func (s *MaintenanceService) Reformat(ctx context.Context) (int, error) {
	records, err := s.serialRepo.FindAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to load serials for reformat")
		return 0, apperrors.Database("Failed to reformat database", err)
	}

	updated := 0
	for _, record := range records {
		params := model.UpsertSerialParams{
			SerialNumber: SanitizeSerial(record.SerialNumber),
			Status:       NormalizeStatus(string(record.Status)),
			Note:         NormalizeNote(record.Note),
		}
		if params.SerialNumber == "" {
			log.Warn().Str("sn", record.SerialNumber).Msg("skipping blank serial during reformat")
			continue
		}
		if params.SerialNumber == record.SerialNumber &&
			params.Status == record.Status &&
			equalNotes(params.Note, record.Note) {
			continue
		}

		if err := s.serialRepo.Rewrite(ctx, record.SerialNumber, params); err != nil {
			log.Error().Err(err).Str("sn", record.SerialNumber).Msg("failed to rewrite serial")
			return updated, apperrors.Database("Failed to reformat database", err)
		}
		updated++
	}

	return updated, nil
}

func (s *MaintenanceService) ResetRateLimits(ctx context.Context) error {
	if err := s.limiter.ResetAll(ctx); err != nil {
		log.Error().Err(err).Msg("failed to reset rate limits")
		return apperrors.Internal("Failed to reset rate limits")
	}
	return nil
}
