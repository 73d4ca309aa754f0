package dto

// ExchangeRateTable is the upstream rate API response for one base currency.
type ExchangeRateTable struct {
	Result string             `json:"result"`
	Base   string             `json:"base_code"`
	Rates  map[string]float64 `json:"rates"`
}

type RateResponse struct {
	From string  `json:"from"`
	To   string  `json:"to"`
	Rate float64 `json:"rate"`
}
