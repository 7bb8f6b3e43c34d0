package change_price

import "errors"

// ChangePriceRequest HTTP request model
type ChangePriceRequest struct {
	Price *float64 `json:"price"`
}

// ToServiceArg проверяет наличие цены; знак цены проверяет домен
func (r *ChangePriceRequest) ToServiceArg() (float64, error) {
	if r.Price == nil {
		return 0, errors.New("price is required")
	}
	return *r.Price, nil
}
