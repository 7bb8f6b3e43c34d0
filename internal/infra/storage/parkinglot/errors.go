package parkinglot

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

var (
	// ErrConcurrencyConflict возвращается, когда версия в базе отличается от загруженной
	ErrConcurrencyConflict = fmt.Errorf("parkinglot.repository: %w", domain.ErrConcurrencyConflict)

	// ErrSpaceTaken возвращается, когда ID места уже принадлежит другой парковке
	ErrSpaceTaken = fmt.Errorf("parkinglot.repository: %w", domain.ErrDuplicateSpace)

	// ErrTransaction возвращается при ошибках работы с транзакцией
	ErrTransaction = errors.New("parkinglot.repository: transaction error")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("parkinglot.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("parkinglot.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("parkinglot.repository: failed to scan row")
)
