package memory

import (
	"fmt"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

var (
	ErrConcurrencyConflict = fmt.Errorf("memory: %w", domain.ErrConcurrencyConflict)
	ErrSpaceTaken          = fmt.Errorf("memory: %w", domain.ErrDuplicateSpace)
)
