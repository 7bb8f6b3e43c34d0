package searchindex

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

const keyPrefix = "cell:"

// Index проекция парковок по H3 ячейкам в Redis.
// Каждая ячейка хранится хешем cell:<h3>, поле хеша это ID парковки, значение это JSON сводки.
type Index struct {
	client Client
}

// NewIndex создает индекс поверх клиента Redis
func NewIndex(client Client) *Index {
	return &Index{client: client}
}

// Put записывает сводку парковки в хеш ее ячейки; повторная запись идемпотентна
func (i *Index) Put(ctx context.Context, s domain.ParkinglotSummary) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("%w: Put - parkinglot %s: %v", ErrEncode, s.ID, err)
	}
	if err := i.client.HSet(ctx, cellKey(s.Cell), s.ID.String(), raw).Err(); err != nil {
		return fmt.Errorf("%w: Put - HSET %s: %v", ErrRedis, cellKey(s.Cell), err)
	}
	return nil
}

// Query возвращает парковки из переданных ячеек в порядке ячеек
func (i *Index) Query(ctx context.Context, cells []string) ([]domain.ParkinglotSummary, error) {
	out := make([]domain.ParkinglotSummary, 0)
	for _, cell := range cells {
		values, err := i.client.HVals(ctx, cellKey(cell)).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: Query - HVALS %s: %v", ErrRedis, cellKey(cell), err)
		}
		for _, v := range values {
			var s domain.ParkinglotSummary
			if err := json.Unmarshal([]byte(v), &s); err != nil {
				return nil, fmt.Errorf("%w: Query - cell %s: %v", ErrDecode, cell, err)
			}
			out = append(out, s)
		}
	}
	return out, nil
}

func cellKey(cell string) string {
	return keyPrefix + cell
}
