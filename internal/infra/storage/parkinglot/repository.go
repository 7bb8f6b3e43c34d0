package parkinglot

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

const (
	lotsTable   = "parkinglots"
	spacesTable = "parking_spaces"
)

var lotColumns = []string{
	"id",
	"owner_id",
	"name",
	"street",
	"latitude",
	"longitude",
	"h3_cell",
	"price",
	"concentrator_id",
	"free_spaces",
	"version",
	"created_at",
	"updated_at",
}

var spaceColumns = []string{
	"id",
	"parkinglot_id",
	"sequence",
	"driver_id",
	"booking_id",
	"booked_from",
	"booked_until",
	"arrived_at",
}

// Repository репозиторий парковок в PostgreSQL.
// Строка парковки и ее места сохраняются в одной транзакции, версия проверяется по строке парковки.
type Repository struct {
	db DBExecutor
	tx TransactionManager
}

// NewRepository создает новый экземпляр репозитория парковок
func NewRepository(db DBExecutor, tx TransactionManager) *Repository {
	return &Repository{db: db, tx: tx}
}

// Save сохраняет парковку (compare-and-swap по версии) вместе с местами
func (r *Repository) Save(ctx context.Context, p *domain.Parkinglot) error {
	err := r.tx.Do(ctx, func(ctx context.Context) error {
		executor := dbmetrics.GetExecutor(ctx, r.db)

		var (
			query string
			args  []interface{}
			err   error
		)
		if p.Version == 0 {
			query, args, err = buildInsertLot(p)
		} else {
			query, args, err = buildUpdateLot(p)
		}
		if err != nil {
			return fmt.Errorf("%w: Save - build lot query: %v", ErrBuildQuery, err)
		}

		result, err := executor.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("%w: Save - execute lot query: %v", ErrExecQuery, err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("%w: Save - get rows affected: %v", ErrExecQuery, err)
		}
		if rowsAffected == 0 {
			return fmt.Errorf("%w: parkinglot id=%s version=%d", ErrConcurrencyConflict, p.ID, p.Version)
		}

		if len(p.Spaces) == 0 {
			return nil
		}

		query, args, err = buildUpsertSpaces(p)
		if err != nil {
			return fmt.Errorf("%w: Save - build spaces query: %v", ErrBuildQuery, err)
		}
		result, err = executor.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("%w: Save - upsert spaces: %v", ErrExecQuery, err)
		}
		rowsAffected, err = result.RowsAffected()
		if err != nil {
			return fmt.Errorf("%w: Save - get spaces rows affected: %v", ErrExecQuery, err)
		}
		// Место с чужим parkinglot_id не обновляется и не попадает в счетчик
		if rowsAffected != int64(len(p.Spaces)) {
			return fmt.Errorf("%w: parkinglot id=%s saved %d of %d spaces", ErrSpaceTaken, p.ID, rowsAffected, len(p.Spaces))
		}
		return nil
	})
	if err != nil {
		return err
	}

	p.Version++
	return nil
}

func buildInsertLot(p *domain.Parkinglot) (string, []interface{}, error) {
	return psqlbuilder.Insert(lotsTable).
		Columns(lotColumns...).
		Values(
			p.ID.String(),
			p.OwnerID.String(),
			p.Name,
			p.Street,
			p.Coordinates.Latitude,
			p.Coordinates.Longitude,
			p.Cell,
			p.Price,
			nullableID(p.ConcentratorID),
			p.FreeSpaces,
			1,
			p.CreatedAt,
			p.UpdatedAt,
		).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()
}

// buildUpdateLot не трогает owner_id, координаты и h3_cell: они не меняются после создания
func buildUpdateLot(p *domain.Parkinglot) (string, []interface{}, error) {
	return psqlbuilder.Update(lotsTable).
		Set("name", p.Name).
		Set("street", p.Street).
		Set("price", p.Price).
		Set("concentrator_id", nullableID(p.ConcentratorID)).
		Set("free_spaces", p.FreeSpaces).
		Set("version", p.Version+1).
		Set("updated_at", p.UpdatedAt).
		Where(squirrel.Eq{"id": p.ID.String(), "version": p.Version}).
		ToSql()
}

func buildUpsertSpaces(p *domain.Parkinglot) (string, []interface{}, error) {
	insert := psqlbuilder.Insert(spacesTable).Columns(spaceColumns...)
	for _, s := range p.Spaces {
		insert = insert.Values(
			s.ID.String(),
			p.ID.String(),
			s.Sequence,
			nullableID(s.DriverID),
			nullableID(s.BookingID),
			s.BookedFrom,
			s.BookedUntil,
			s.ArrivedAt,
		)
	}
	return insert.
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			driver_id = EXCLUDED.driver_id,
			booking_id = EXCLUDED.booking_id,
			booked_from = EXCLUDED.booked_from,
			booked_until = EXCLUDED.booked_until,
			arrived_at = EXCLUDED.arrived_at
			WHERE parking_spaces.parkinglot_id = EXCLUDED.parkinglot_id`).
		ToSql()
}

// Get получает парковку по ID. Если задан ownerID, парковка должна принадлежать владельцу.
// Отсутствие парковки не ошибка: возвращается (nil, nil).
// Строка парковки и места читаются из одного снимка.
func (r *Repository) Get(ctx context.Context, id domain.ParkinglotID, ownerID *domain.OwnerID) (*domain.Parkinglot, error) {
	where := squirrel.Eq{"id": id.String()}
	if ownerID != nil {
		where["owner_id"] = ownerID.String()
	}

	query, args, err := psqlbuilder.Select(lotColumns...).
		From(lotsTable).
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var p *domain.Parkinglot
	err = r.tx.DoReadOnly(ctx, func(ctx context.Context) error {
		executor := dbmetrics.GetExecutor(ctx, r.db)

		lot, err := scanLot(executor.QueryRowContext(ctx, query, args...))
		if err == sql.ErrNoRows {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: Get - scan parkinglot: %v", ErrScanRow, err)
		}

		if err := r.loadSpaces(ctx, []*domain.Parkinglot{lot}); err != nil {
			return err
		}
		p = lot
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// List получает парковки владельца, сначала новые
func (r *Repository) List(ctx context.Context, ownerID domain.OwnerID) ([]*domain.Parkinglot, error) {
	query, args, err := psqlbuilder.Select(lotColumns...).
		From(lotsTable).
		Where(squirrel.Eq{"owner_id": ownerID.String()}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	lots := make([]*domain.Parkinglot, 0)
	err = r.tx.DoReadOnly(ctx, func(ctx context.Context) error {
		executor := dbmetrics.GetExecutor(ctx, r.db)

		rows, err := executor.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
		}
		defer rows.Close()

		for rows.Next() {
			p, err := scanLot(rows)
			if err != nil {
				return fmt.Errorf("%w: List - scan parkinglot: %v", ErrScanRow, err)
			}
			lots = append(lots, p)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
		}
		rows.Close()

		return r.loadSpaces(ctx, lots)
	})
	if err != nil {
		return nil, err
	}
	return lots, nil
}

// loadSpaces загружает места всех переданных парковок одним запросом
func (r *Repository) loadSpaces(ctx context.Context, lots []*domain.Parkinglot) error {
	if len(lots) == 0 {
		return nil
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	byID := make(map[domain.ParkinglotID]*domain.Parkinglot, len(lots))
	ids := make([]string, 0, len(lots))
	for _, p := range lots {
		p.Spaces = []domain.ParkingSpace{}
		byID[p.ID] = p
		ids = append(ids, p.ID.String())
	}

	query, args, err := psqlbuilder.Select(spaceColumns...).
		From(spacesTable).
		Where(squirrel.Eq{"parkinglot_id": ids}).
		OrderBy("parkinglot_id", "sequence ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: loadSpaces - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadSpaces - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		lotID, s, err := scanSpace(rows)
		if err != nil {
			return fmt.Errorf("%w: loadSpaces - scan space: %v", ErrScanRow, err)
		}
		if p, ok := byID[lotID]; ok {
			p.Spaces = append(p.Spaces, s)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadSpaces - rows error: %v", ErrScanRow, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanLot(row scanner) (*domain.Parkinglot, error) {
	var (
		p                    domain.Parkinglot
		id, ownerID          string
		concentratorID       sql.NullString
		createdAt, updatedAt time.Time
	)

	if err := row.Scan(
		&id,
		&ownerID,
		&p.Name,
		&p.Street,
		&p.Coordinates.Latitude,
		&p.Coordinates.Longitude,
		&p.Cell,
		&p.Price,
		&concentratorID,
		&p.FreeSpaces,
		&p.Version,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if p.ID, err = domain.ParseParkinglotID(id); err != nil {
		return nil, err
	}
	if p.OwnerID, err = domain.ParseOwnerID(ownerID); err != nil {
		return nil, err
	}
	if concentratorID.Valid {
		cid, err := domain.ParseConcentratorID(concentratorID.String)
		if err != nil {
			return nil, err
		}
		p.ConcentratorID = &cid
	}
	p.CreatedAt = createdAt
	p.UpdatedAt = updatedAt

	return &p, nil
}

func scanSpace(row scanner) (domain.ParkinglotID, domain.ParkingSpace, error) {
	var (
		s                                domain.ParkingSpace
		id, lotID                        string
		driverID, bookingID              sql.NullString
		bookedFrom, bookedUntil, arrived sql.NullTime
	)

	if err := row.Scan(&id, &lotID, &s.Sequence, &driverID, &bookingID, &bookedFrom, &bookedUntil, &arrived); err != nil {
		return domain.ParkinglotID{}, s, err
	}

	var err error
	if s.ID, err = domain.ParseParkingSpaceID(id); err != nil {
		return domain.ParkinglotID{}, s, err
	}
	parkinglotID, err := domain.ParseParkinglotID(lotID)
	if err != nil {
		return domain.ParkinglotID{}, s, err
	}
	if driverID.Valid {
		d, err := domain.ParseDriverID(driverID.String)
		if err != nil {
			return domain.ParkinglotID{}, s, err
		}
		s.DriverID = &d
	}
	if bookingID.Valid {
		b, err := domain.ParseBookingID(bookingID.String)
		if err != nil {
			return domain.ParkinglotID{}, s, err
		}
		s.BookingID = &b
	}
	if bookedFrom.Valid {
		s.BookedFrom = &bookedFrom.Time
	}
	if bookedUntil.Valid {
		s.BookedUntil = &bookedUntil.Time
	}
	if arrived.Valid {
		s.ArrivedAt = &arrived.Time
	}

	return parkinglotID, s, nil
}

type stringer interface {
	String() string
}

func nullableID[T stringer](id *T) interface{} {
	if id == nil {
		return nil
	}
	return (*id).String()
}
