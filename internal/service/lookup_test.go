package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/serialcheck/serialcheck-server/internal/errors"
	"github.com/serialcheck/serialcheck-server/internal/model"
)

func TestLookupService_CheckOne(t *testing.T) {
	ctx := context.Background()

	t.Run("returns stored status and note", func(t *testing.T) {
		repo := new(mockSerialRepo)
		repo.On("FindBySerial", mock.Anything, "SN-1").Return(&model.SerialRecord{
			SerialNumber: "SN-1",
			Status:       model.SerialStatusVerified,
			Note:         strPtr("boxed"),
		}, nil)

		result, err := NewLookupService(repo).CheckOne(ctx, "  SN-1 ")
		require.NoError(t, err)
		assert.Equal(t, model.SerialStatusVerified, result.Status)
		require.NotNil(t, result.Note)
		assert.Equal(t, "boxed", *result.Note)
		repo.AssertExpectations(t)
	})

	t.Run("absent serial is unknown", func(t *testing.T) {
		repo := new(mockSerialRepo)
		repo.On("FindBySerial", mock.Anything, "missing").Return(nil, nil)

		result, err := NewLookupService(repo).CheckOne(ctx, "missing")
		require.NoError(t, err)
		assert.Equal(t, CheckResult{Status: model.SerialStatusUnknown}, result)
	})

	t.Run("blank serial is unknown without a lookup", func(t *testing.T) {
		repo := new(mockSerialRepo)

		result, err := NewLookupService(repo).CheckOne(ctx, "   ")
		require.NoError(t, err)
		assert.Equal(t, model.SerialStatusUnknown, result.Status)
		repo.AssertNotCalled(t, "FindBySerial")
	})

	t.Run("store failure is a database error", func(t *testing.T) {
		repo := new(mockSerialRepo)
		repo.On("FindBySerial", mock.Anything, "SN-1").Return(nil, errors.New("disk I/O error"))

		_, err := NewLookupService(repo).CheckOne(ctx, "SN-1")
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeDatabase, apperrors.GetCode(err))
	})
}

func TestLookupService_CheckBulk(t *testing.T) {
	ctx := context.Background()

	t.Run("maps every requested serial", func(t *testing.T) {
		repo := new(mockSerialRepo)
		repo.On("FindBySerials", mock.Anything, []string{"A", "B", "C"}).Return([]model.SerialRecord{
			{SerialNumber: "A", Status: model.SerialStatusVerified},
			{SerialNumber: "C", Status: model.SerialStatusFake, Note: strPtr("clone")},
		}, nil)

		results, err := NewLookupService(repo).CheckBulk(ctx, []string{" A", "B", "", "C ", "A"})
		require.NoError(t, err)
		assert.Len(t, results, 3)
		assert.Equal(t, model.SerialStatusVerified, results["A"].Status)
		assert.Equal(t, model.SerialStatusUnknown, results["B"].Status)
		assert.Nil(t, results["B"].Note)
		assert.Equal(t, model.SerialStatusFake, results["C"].Status)
		assert.Equal(t, "clone", *results["C"].Note)
		repo.AssertExpectations(t)
	})

	t.Run("only the first ten serials are checked", func(t *testing.T) {
		serials := make([]string, 0, 15)
		for i := 0; i < 15; i++ {
			serials = append(serials, fmt.Sprintf("SN-%02d", i))
		}

		repo := new(mockSerialRepo)
		repo.On("FindBySerials", mock.Anything, serials[:MaxBulkSerials]).Return([]model.SerialRecord{}, nil)

		results, err := NewLookupService(repo).CheckBulk(ctx, serials)
		require.NoError(t, err)
		assert.Len(t, results, MaxBulkSerials)
		assert.NotContains(t, results, "SN-10")
	})

	t.Run("no usable serials is a validation error", func(t *testing.T) {
		repo := new(mockSerialRepo)
		svc := NewLookupService(repo)

		for _, input := range [][]string{nil, {}, {"", "  "}} {
			_, err := svc.CheckBulk(ctx, input)
			require.Error(t, err)
			appErr, ok := apperrors.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
			assert.Equal(t, "Provide up to 10 serials", appErr.Message)
		}
		repo.AssertNotCalled(t, "FindBySerials")
	})

	t.Run("store failure is a database error", func(t *testing.T) {
		repo := new(mockSerialRepo)
		repo.On("FindBySerials", mock.Anything, []string{"A"}).Return(nil, errors.New("locked"))

		_, err := NewLookupService(repo).CheckBulk(ctx, []string{"A"})
		assert.Equal(t, apperrors.ErrCodeDatabase, apperrors.GetCode(err))
	})
}
