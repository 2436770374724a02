package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"maitred/infras/otel"
	"maitred/infras/postgres"
	"maitred/internal/domains/reservation/model"
	"maitred/shared/constant"
	gDto "maitred/shared/dto"
	"maitred/shared/logger"
	gRepo "maitred/shared/repository"
)

type Reservation interface {
	Insert(ctx context.Context, model model.Reservation) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Reservation, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Reservation, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	GetActiveByDate(ctx context.Context, date string) ([]model.Reservation, error)
	FindLate(ctx context.Context, date, cutoff string) ([]model.Reservation, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Reservation]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Reservation {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Reservation](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// GetActiveByDate loads every reservation still claiming seats on the given
// date. This is the working set of every availability computation.
func (r *repositoryImpl) GetActiveByDate(ctx context.Context, date string) (res []model.Reservation, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.GetActiveByDate")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := "SELECT * FROM reservations WHERE reservation_date = $1 AND status IN ($2, $3)"
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if err = r.db.Read.SelectContext(ctx, &res, query, date, model.StatusConfirmed, model.StatusSeated); err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to get active reservations: %w", err)
	}

	return res, nil
}

// FindLate lists confirmed reservations for the date whose slot passed the
// cutoff without a check-in. The no-show sweep decides what to do with them.
func (r *repositoryImpl) FindLate(ctx context.Context, date, cutoff string) (res []model.Reservation, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.FindLate")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := "SELECT * FROM reservations WHERE reservation_date = $1 AND status = $2 AND reservation_time <= $3 AND checked_in_at IS NULL"
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if err = r.db.Read.SelectContext(ctx, &res, query, date, model.StatusConfirmed, cutoff); err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to find late reservations: %w", err)
	}

	return res, nil
}
