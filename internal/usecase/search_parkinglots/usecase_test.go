package search_parkinglots

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/pkg/logger"
)

const center = "center"

// ringGrid ring k вокруг center состоит из ячеек "r<k>-<i>", i < 6k
type ringGrid struct{}

func (ringGrid) CellAt(c domain.Coordinates) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	return center, nil
}

func (ringGrid) Ring(cell string, k int) ([]string, error) {
	if cell != center {
		return nil, errors.New("unknown cell")
	}
	out := make([]string, 0, 6*k)
	for i := 0; i < 6*k; i++ {
		out = append(out, fmt.Sprintf("r%d-%d", k, i))
	}
	return out, nil
}

func (ringGrid) IsValid(cell string) bool {
	return cell == center
}

type mockIndex struct {
	mock.Mock
}

func (m *mockIndex) Query(ctx context.Context, cells []string) ([]domain.ParkinglotSummary, error) {
	args := m.Called(ctx, cells)
	found, _ := args.Get(0).([]domain.ParkinglotSummary)
	return found, args.Error(1)
}

func lots(n int) []domain.ParkinglotSummary {
	out := make([]domain.ParkinglotSummary, n)
	for i := range out {
		out[i] = domain.ParkinglotSummary{ID: domain.NewParkinglotID(), Name: fmt.Sprintf("lot %d", i)}
	}
	return out
}

func ringCells(k int) []string {
	cells, _ := ringGrid{}.Ring(center, k)
	return cells
}

func newUseCase(index SearchIndex) *UseCase {
	return NewUseCase(index, ringGrid{}, 50, logger.NewNop())
}

func TestExecute_CenterOnly(t *testing.T) {
	index := &mockIndex{}
	index.On("Query", mock.Anything, []string{center}).Return(lots(1), nil).Once()

	resp, err := newUseCase(index).Execute(context.Background(), &Request{
		CentralCell: center, StartDistance: 0, EndDistance: 0, Limit: 10,
	})

	require.NoError(t, err)
	assert.Equal(t, center, resp.CentralCell)
	assert.Equal(t, 0, resp.CurrentDistance)
	assert.Len(t, resp.Parkinglots, 1)
	index.AssertExpectations(t)
	index.AssertNumberOfCalls(t, "Query", 1)
}

func TestExecute_LimitReachedMidRingReturnsWholeRing(t *testing.T) {
	index := &mockIndex{}
	index.On("Query", mock.Anything, []string{center}).Return(nil, nil).Once()
	index.On("Query", mock.Anything, ringCells(1)).Return(lots(3), nil).Once()

	resp, err := newUseCase(index).Execute(context.Background(), &Request{
		CentralCell: center, StartDistance: 0, EndDistance: 5, Limit: 2,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, resp.CurrentDistance)
	assert.Len(t, resp.Parkinglots, 3, "result is not truncated to the limit")
	index.AssertExpectations(t)
}

func TestExecute_StopsAtEndDistance(t *testing.T) {
	index := &mockIndex{}
	index.On("Query", mock.Anything, ringCells(2)).Return(nil, nil).Once()
	index.On("Query", mock.Anything, ringCells(3)).Return(lots(1), nil).Once()

	resp, err := newUseCase(index).Execute(context.Background(), &Request{
		CentralCell: center, StartDistance: 2, EndDistance: 3, Limit: 10,
	})

	require.NoError(t, err)
	assert.Equal(t, 3, resp.CurrentDistance)
	assert.Len(t, resp.Parkinglots, 1)
	index.AssertExpectations(t)
}

func TestExecute_ByCoordinates(t *testing.T) {
	index := &mockIndex{}
	index.On("Query", mock.Anything, []string{center}).Return(lots(2), nil).Once()

	resp, err := newUseCase(index).Execute(context.Background(), &Request{
		Coordinates: &domain.Coordinates{Latitude: 40.0, Longitude: -3.0},
		EndDistance: 0,
		Limit:       1,
	})

	require.NoError(t, err)
	assert.Equal(t, center, resp.CentralCell)
	assert.Len(t, resp.Parkinglots, 2)
}

func TestExecute_EmptyResultIsNotNil(t *testing.T) {
	index := &mockIndex{}
	index.On("Query", mock.Anything, mock.Anything).Return(nil, nil)

	resp, err := newUseCase(index).Execute(context.Background(), &Request{
		CentralCell: center, EndDistance: 2, Limit: 1,
	})

	require.NoError(t, err)
	assert.NotNil(t, resp.Parkinglots)
	assert.Empty(t, resp.Parkinglots)
	assert.Equal(t, 2, resp.CurrentDistance)
	index.AssertNumberOfCalls(t, "Query", 3)
}

func TestExecute_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  Request
	}{
		{name: "no center", req: Request{EndDistance: 1, Limit: 1}},
		{name: "negative start", req: Request{CentralCell: center, StartDistance: -1, EndDistance: 1, Limit: 1}},
		{name: "end below start", req: Request{CentralCell: center, StartDistance: 3, EndDistance: 2, Limit: 1}},
		{name: "end beyond max", req: Request{CentralCell: center, EndDistance: 51, Limit: 1}},
		{name: "zero limit", req: Request{CentralCell: center, EndDistance: 1}},
		{name: "invalid cell", req: Request{CentralCell: "nope", EndDistance: 1, Limit: 1}},
		{name: "invalid coordinates", req: Request{Coordinates: &domain.Coordinates{Latitude: 100}, EndDistance: 1, Limit: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			index := &mockIndex{}
			_, err := newUseCase(index).Execute(context.Background(), &tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			index.AssertNotCalled(t, "Query", mock.Anything, mock.Anything)
		})
	}
}

func TestExecute_IndexFailure(t *testing.T) {
	index := &mockIndex{}
	index.On("Query", mock.Anything, mock.Anything).Return(nil, errors.New("redis down"))

	_, err := newUseCase(index).Execute(context.Background(), &Request{CentralCell: center, EndDistance: 1, Limit: 1})

	assert.ErrorIs(t, err, ErrInternal)
}
