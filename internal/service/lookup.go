package service

import (
	"context"

	"github.com/rs/zerolog/log"

	apperrors "github.com/serialcheck/serialcheck-server/internal/errors"
	"github.com/serialcheck/serialcheck-server/internal/model"
	"github.com/serialcheck/serialcheck-server/internal/repository"
)

// MaxBulkSerials caps how many serials one bulk check looks up.
const MaxBulkSerials = 10

type CheckResult struct {
	Status model.SerialStatus `json:"status"`
	Note   *string            `json:"note,omitempty"`
}

var unknownResult = CheckResult{Status: model.SerialStatusUnknown}

type LookupService struct {
	serialRepo repository.SerialRepository
}

func NewLookupService(serialRepo repository.SerialRepository) *LookupService {
	return &LookupService{serialRepo: serialRepo}
}

// CheckOne reports the stored status of sn, or unknown when it is not recorded.
func (s *LookupService) CheckOne(ctx context.Context, sn string) (CheckResult, error) {
	sn = SanitizeSerial(sn)
	if sn == "" {
		return unknownResult, nil
	}

	record, err := s.serialRepo.FindBySerial(ctx, sn)
	if err != nil {
		log.Error().Err(err).Str("sn", sn).Msg("failed to look up serial")
		return CheckResult{}, apperrors.Database("Failed to check serial", err)
	}
	if record == nil {
		return unknownResult, nil
	}

	return CheckResult{Status: record.Status, Note: record.Note}, nil
}

// CheckBulk looks up the first MaxBulkSerials non-blank entries. Duplicates
// share one result.
func (s *LookupService) CheckBulk(ctx context.Context, serials []string) (map[string]CheckResult, error) {
	sns := bulkSerials(serials)
	if len(sns) == 0 {
		return nil, apperrors.ValidationError("Provide up to 10 serials")
	}

	records, err := s.serialRepo.FindBySerials(ctx, sns)
	if err != nil {
		log.Error().Err(err).Int("count", len(sns)).Msg("failed to look up serials")
		return nil, apperrors.Database("Failed to perform bulk check", err)
	}

	results := make(map[string]CheckResult, len(sns))
	for _, sn := range sns {
		results[sn] = unknownResult
	}
	for _, record := range records {
		results[record.SerialNumber] = CheckResult{Status: record.Status, Note: record.Note}
	}
	return results, nil
}

func bulkSerials(serials []string) []string {
	sns := make([]string, 0, MaxBulkSerials)
	seen := make(map[string]struct{}, MaxBulkSerials)
	taken := 0
	for _, raw := range serials {
		if taken == MaxBulkSerials {
			break
		}
		sn := SanitizeSerial(raw)
		if sn == "" {
			continue
		}
		taken++
		if _, ok := seen[sn]; ok {
			continue
		}
		seen[sn] = struct{}{}
		sns = append(sns, sn)
	}
	return sns
}
