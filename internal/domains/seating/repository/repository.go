package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"maitred/infras/otel"
	"maitred/infras/postgres"
	"maitred/internal/domains/seating/model"
	"maitred/shared/constant"
	gDto "maitred/shared/dto"
	"maitred/shared/logger"
	gRepo "maitred/shared/repository"
)

type ServiceRecord interface {
	Insert(ctx context.Context, model model.ServiceRecord) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.ServiceRecord, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.ServiceRecord, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	GetOpen(ctx context.Context) ([]model.ServiceRecord, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.ServiceRecord]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) ServiceRecord {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.ServiceRecord](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// GetOpen lists every party still on the floor, longest-seated first. The
// host dashboard reads from this.
func (r *repositoryImpl) GetOpen(ctx context.Context) (res []model.ServiceRecord, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".service_record.GetOpen")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := "SELECT * FROM service_records WHERE status != $1 ORDER BY seated_at ASC"
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if err = r.db.Read.SelectContext(ctx, &res, query, model.StatusCompleted); err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to get open service records: %w", err)
	}

	return res, nil
}
