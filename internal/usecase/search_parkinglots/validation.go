package search_parkinglots

import "fmt"

// validateRequest валидирует параметры поиска
func validateRequest(req *Request, maxEndDistance int) error {
	if req.CentralCell == "" && req.Coordinates == nil {
		return fmt.Errorf("%w: central cell or coordinates are required", ErrInvalidInput)
	}

	if req.StartDistance < 0 {
		return fmt.Errorf("%w: start distance must not be negative", ErrInvalidInput)
	}

	if req.EndDistance < req.StartDistance {
		return fmt.Errorf("%w: end distance must not be below start distance", ErrInvalidInput)
	}

	if maxEndDistance > 0 && req.EndDistance > maxEndDistance {
		return fmt.Errorf("%w: end distance must not exceed %d", ErrInvalidInput, maxEndDistance)
	}

	if req.Limit <= 0 {
		return fmt.Errorf("%w: limit must be positive", ErrInvalidInput)
	}

	return nil
}
