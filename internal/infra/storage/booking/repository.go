package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ParkingService/pkg/psqlbuilder"
)

const table = "bookings"

var columns = []string{
	"id",
	"driver_id",
	"parkinglot_id",
	"description",
	"duration_seconds",
	"state",
	"price",
	"space_id",
	"started_at",
	"finished_at",
	"version",
	"created_at",
	"updated_at",
}

// Repository репозиторий бронирований в PostgreSQL с оптимистичной блокировкой по version
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Save сохраняет бронирование (compare-and-swap по версии).
// Version == 0 означает новое бронирование: вставка удается, только если строки еще нет.
// Иначе обновление проходит, только если версия в базе равна загруженной.
// После успешного сохранения версия агрегата увеличивается.
func (r *Repository) Save(ctx context.Context, b *domain.Booking) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var (
		query string
		args  []interface{}
		err   error
	)
	if b.Version == 0 {
		query, args, err = buildInsert(b)
	} else {
		query, args, err = buildUpdate(b)
	}
	if err != nil {
		return fmt.Errorf("%w: Save - build query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Save - execute: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Save - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: booking id=%s version=%d", ErrConcurrencyConflict, b.ID, b.Version)
	}

	b.Version++
	return nil
}

func buildInsert(b *domain.Booking) (string, []interface{}, error) {
	return psqlbuilder.Insert(table).
		Columns(columns...).
		Values(
			b.ID.String(),
			b.DriverID.String(),
			b.ParkinglotID.String(),
			b.Description,
			durationSeconds(b.Duration),
			string(b.State),
			b.Price,
			nullableID(b.SpaceID),
			b.StartedAt,
			b.FinishedAt,
			1,
			b.CreatedAt,
			b.UpdatedAt,
		).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()
}

func buildUpdate(b *domain.Booking) (string, []interface{}, error) {
	return psqlbuilder.Update(table).
		Set("description", b.Description).
		Set("duration_seconds", durationSeconds(b.Duration)).
		Set("state", string(b.State)).
		Set("price", b.Price).
		Set("space_id", nullableID(b.SpaceID)).
		Set("started_at", b.StartedAt).
		Set("finished_at", b.FinishedAt).
		Set("version", b.Version+1).
		Set("updated_at", b.UpdatedAt).
		Where(squirrel.Eq{"id": b.ID.String(), "version": b.Version}).
		ToSql()
}

// Get получает бронирование по ID. Если задан driverID, бронирование должно принадлежать водителю.
// Отсутствие бронирования не ошибка: возвращается (nil, nil).
func (r *Repository) Get(ctx context.Context, id domain.BookingID, driverID *domain.DriverID) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	where := squirrel.Eq{"id": id.String()}
	if driverID != nil {
		where["driver_id"] = driverID.String()
	}

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	b, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan booking: %v", ErrScanRow, err)
	}
	return b, nil
}

// List получает бронирования водителя, сначала новые
func (r *Repository) List(ctx context.Context, driverID domain.DriverID) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"driver_id": driverID.String()}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan booking: %v", ErrScanRow, err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row scanner) (*domain.Booking, error) {
	var (
		b                          domain.Booking
		id, driverID, parkinglotID string
		state                      string
		duration                   sql.NullInt64
		price                      sql.NullFloat64
		spaceID                    sql.NullString
		startedAt, finishedAt      sql.NullTime
		createdAt, updatedAt       time.Time
	)

	if err := row.Scan(
		&id,
		&driverID,
		&parkinglotID,
		&b.Description,
		&duration,
		&state,
		&price,
		&spaceID,
		&startedAt,
		&finishedAt,
		&b.Version,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if b.ID, err = domain.ParseBookingID(id); err != nil {
		return nil, err
	}
	if b.DriverID, err = domain.ParseDriverID(driverID); err != nil {
		return nil, err
	}
	if b.ParkinglotID, err = domain.ParseParkinglotID(parkinglotID); err != nil {
		return nil, err
	}
	if spaceID.Valid {
		sid, err := domain.ParseParkingSpaceID(spaceID.String)
		if err != nil {
			return nil, err
		}
		b.SpaceID = &sid
	}
	if duration.Valid {
		d := time.Duration(duration.Int64) * time.Second
		b.Duration = &d
	}
	if price.Valid {
		b.Price = &price.Float64
	}
	if startedAt.Valid {
		b.StartedAt = &startedAt.Time
	}
	if finishedAt.Valid {
		b.FinishedAt = &finishedAt.Time
	}
	b.State = domain.BookingState(state)
	b.CreatedAt = createdAt
	b.UpdatedAt = updatedAt

	return &b, nil
}

func durationSeconds(d *time.Duration) interface{} {
	if d == nil {
		return nil
	}
	return int64(d.Seconds())
}

func nullableID(id *domain.ParkingSpaceID) interface{} {
	if id == nil {
		return nil
	}
	return id.String()
}
