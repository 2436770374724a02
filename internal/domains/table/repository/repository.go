package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"maitred/infras/otel"
	"maitred/infras/postgres"
	"maitred/internal/domains/table/model"
	"maitred/shared/constant"
	gDto "maitred/shared/dto"
	"maitred/shared/logger"
	gRepo "maitred/shared/repository"
	"maitred/shared/timezone"
)

type Table interface {
	Insert(ctx context.Context, model model.Table) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Table, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Table, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	GetByIDs(ctx context.Context, ids []string) ([]model.Table, error)
	CommitAssignment(ctx context.Context, ids []string, operator string) error
	SetStatus(ctx context.Context, ids []string, fromStatus, toStatus, operator string) (int, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Table]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Table {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Table](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (r *repositoryImpl) GetByIDs(ctx context.Context, ids []string) (res []model.Table, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".table.GetByIDs")
	defer scope.End()
	defer scope.TraceIfError(err)

	if len(ids) == 0 {
		return []model.Table{}, nil
	}

	query, args, err := sqlx.In("SELECT * FROM tables WHERE id IN (?)", ids)
	if err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to build table query: %w", err)
	}

	query = r.db.Read.Rebind(query)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if err = r.db.Read.SelectContext(ctx, &res, query, args...); err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to get tables: %w", err)
	}

	return res, nil
}

// CommitAssignment flips every listed table from available to occupied in
// one transaction. The status predicate makes the seat-party flow safe
// against two hosts grabbing the same table: whoever commits second sees a
// short row count, the transaction rolls back, and no table is left
// half-assigned.
func (r *repositoryImpl) CommitAssignment(ctx context.Context, ids []string, operator string) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".table.CommitAssignment")
	defer scope.End()
	defer scope.TraceIfError(err)

	tx, err := r.db.Write.Beginx()
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to begin assignment transaction: %w", err)
	}

	updated, err := r.execStatusUpdate(ctx, tx, scope, ids, model.StatusAvailable, model.StatusOccupied, operator)
	if err != nil {
		r.rollback(tx)

		return err
	}

	if updated != len(ids) {
		r.rollback(tx)

		return fmt.Errorf("assignment lost to a concurrent seating: %d of %d tables still available", updated, len(ids))
	}

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to commit assignment: %w", err)
	}

	return nil
}

// SetStatus transitions every listed table from one status to another and
// returns how many rows actually moved.
func (r *repositoryImpl) SetStatus(ctx context.Context, ids []string, fromStatus, toStatus, operator string) (updated int, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".table.SetStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	return r.execStatusUpdate(ctx, r.db.Write, scope, ids, fromStatus, toStatus, operator)
}

func (r *repositoryImpl) execStatusUpdate(ctx context.Context, execer sqlx.ExtContext, scope otel.Scope, ids []string, fromStatus, toStatus, operator string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query, args, err := sqlx.In(
		"UPDATE tables SET status = ?, modified_at = ?, modified_by = ? WHERE id IN (?) AND status = ?",
		toStatus, timezone.Now(), operator, ids, fromStatus,
	)
	if err != nil {
		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to build status update: %w", err)
	}

	query = execer.Rebind(query)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	result, err := execer.ExecContext(ctx, query, args...)
	if err != nil {
		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to update table status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return int(affected), nil
}

func (r *repositoryImpl) rollback(tx *sqlx.Tx) {
	if err := tx.Rollback(); err != nil {
		logger.ErrorWithStack(err)
	}
}
