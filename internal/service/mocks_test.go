package service

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"

	"github.com/serialcheck/serialcheck-server/internal/model"
	"github.com/serialcheck/serialcheck-server/internal/repository"
)

type mockSerialRepo struct {
	mock.Mock
}

func (m *mockSerialRepo) FindBySerial(ctx context.Context, sn string) (*model.SerialRecord, error) {
	args := m.Called(ctx, sn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SerialRecord), args.Error(1)
}

func (m *mockSerialRepo) FindBySerials(ctx context.Context, sns []string) ([]model.SerialRecord, error) {
	args := m.Called(ctx, sns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SerialRecord), args.Error(1)
}

func (m *mockSerialRepo) FindAll(ctx context.Context) ([]model.SerialRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SerialRecord), args.Error(1)
}

func (m *mockSerialRepo) Upsert(ctx context.Context, params model.UpsertSerialParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

func (m *mockSerialRepo) Delete(ctx context.Context, sn string) (int64, error) {
	args := m.Called(ctx, sn)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockSerialRepo) DeleteAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockSerialRepo) Rewrite(ctx context.Context, oldSN string, params model.UpsertSerialParams) error {
	args := m.Called(ctx, oldSN, params)
	return args.Error(0)
}

func (m *mockSerialRepo) WithTx(tx *sqlx.Tx) repository.SerialRepository {
	return m
}
