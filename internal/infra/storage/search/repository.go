package search

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ParkingService/pkg/psqlbuilder"
)

// Repository поиск парковок по h3_cell напрямую в таблице parkinglots
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр поискового репозитория
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Query возвращает парковки, чья ячейка входит в cells
func (r *Repository) Query(ctx context.Context, cells []string) ([]domain.ParkinglotSummary, error) {
	found := make([]domain.ParkinglotSummary, 0)
	if len(cells) == 0 {
		return found, nil
	}

	query, args, err := buildQuery(cells)
	if err != nil {
		return nil, fmt.Errorf("%w: Query - build select query: %v", ErrBuildQuery, err)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: Query - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			s  domain.ParkinglotSummary
			id string
		)
		if err := rows.Scan(&id, &s.Cell, &s.Name, &s.Street, &s.Coordinates.Latitude, &s.Coordinates.Longitude); err != nil {
			return nil, fmt.Errorf("%w: Query - scan summary: %v", ErrScanRow, err)
		}
		if s.ID, err = domain.ParseParkinglotID(id); err != nil {
			return nil, fmt.Errorf("%w: Query - parse id: %v", ErrScanRow, err)
		}
		found = append(found, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: Query - rows error: %v", ErrScanRow, err)
	}

	return found, nil
}

func buildQuery(cells []string) (string, []interface{}, error) {
	return psqlbuilder.Select("id", "h3_cell", "name", "street", "latitude", "longitude").
		From("parkinglots").
		Where(squirrel.Eq{"h3_cell": cells}).
		OrderBy("created_at ASC").
		ToSql()
}
