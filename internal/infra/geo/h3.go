package geo

import (
	"fmt"

	"github.com/uber/h3-go/v4"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// H3Grid hex grid поверх uber/h3 на фиксированном разрешении
type H3Grid struct {
	resolution int
}

// NewH3Grid создает сетку на разрешении domain.CellResolution
func NewH3Grid() *H3Grid {
	return &H3Grid{resolution: domain.CellResolution}
}

// CellAt возвращает ячейку, содержащую координаты
func (g *H3Grid) CellAt(c domain.Coordinates) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	cell := h3.LatLngToCell(h3.NewLatLng(c.Latitude, c.Longitude), g.resolution)
	if !cell.IsValid() {
		return "", fmt.Errorf("%w: no cell for %v,%v", domain.ErrInvalidCoordinates, c.Latitude, c.Longitude)
	}
	return cell.String(), nil
}

// IsValid проверяет, что строка является ячейкой нашего разрешения
func (g *H3Grid) IsValid(cell string) bool {
	_, err := g.parse(cell)
	return err == nil
}

// Ring возвращает ячейки ровно на расстоянии k от центра. Для k == 0 это сам центр.
func (g *H3Grid) Ring(center string, k int) ([]string, error) {
	if k < 0 {
		return nil, fmt.Errorf("%w: negative ring distance %d", domain.ErrInvalidInput, k)
	}
	origin, err := g.parse(center)
	if err != nil {
		return nil, err
	}

	// GridDiskDistances корректно обходит пентагоны, в отличие от GridRingUnsafe
	rings := h3.GridDiskDistances(origin, k)
	if len(rings) <= k {
		return []string{}, nil
	}

	out := make([]string, 0, len(rings[k]))
	for _, c := range rings[k] {
		out = append(out, c.String())
	}
	return out, nil
}

func (g *H3Grid) parse(cell string) (h3.Cell, error) {
	c := h3.Cell(h3.IndexFromString(cell))
	if !c.IsValid() || c.Resolution() != g.resolution {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidCell, cell)
	}
	return c, nil
}
