package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"maitred/infras/otel"
	"maitred/infras/postgres"
	"maitred/internal/domains/waitlist/model"
	"maitred/shared/constant"
	gDto "maitred/shared/dto"
	"maitred/shared/logger"
	gRepo "maitred/shared/repository"
)

type Waitlist interface {
	Insert(ctx context.Context, model model.WaitlistEntry) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.WaitlistEntry, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.WaitlistEntry, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	GetQueue(ctx context.Context) ([]model.WaitlistEntry, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.WaitlistEntry]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Waitlist {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.WaitlistEntry](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// GetQueue lists the live queue, front of the line first: waiting and
// notified entries ordered by priority, ties broken by arrival.
func (r *repositoryImpl) GetQueue(ctx context.Context) (res []model.WaitlistEntry, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".waitlist.GetQueue")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := "SELECT * FROM waitlist_entries WHERE status IN ($1, $2) ORDER BY priority ASC, created_at ASC"
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if err = r.db.Read.SelectContext(ctx, &res, query, model.StatusWaiting, model.StatusNotified); err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to get waitlist queue: %w", err)
	}

	return res, nil
}
