package exchangerate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/expensevista/expensevista-backend/internal/dto"
	"github.com/expensevista/expensevista-backend/internal/errs"
)

const requestTimeout = 10 * time.Second

// Adapter fetches live rate tables from the open.er-api.com service.
type Adapter struct {
	baseURL string
	client  *http.Client
}

func NewAdapter(baseURL string) *Adapter {
	return &Adapter{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: requestTimeout},
	}
}

// GetLatest returns the full rate table keyed by the source currency.
func (a *Adapter) GetLatest(ctx context.Context, from string) (dto.ExchangeRateTable, error) {
	var table dto.ExchangeRateTable

	url := fmt.Sprintf("%s/latest/%s", a.baseURL, strings.ToUpper(from))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return table, err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return table, errs.NewExternalServiceError("exchange-rate", "rate fetch failed: "+err.Error(), true)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return table, errs.NewExternalServiceError("exchange-rate",
			fmt.Sprintf("rate API returned status %d", resp.StatusCode), resp.StatusCode >= 500)
	}

	if err := json.NewDecoder(resp.Body).Decode(&table); err != nil {
		return table, errs.NewExternalServiceError("exchange-rate", "rate response malformed: "+err.Error(), false)
	}
	if table.Result != "success" {
		return table, errs.NewExternalServiceError("exchange-rate", "rate API returned non-success result", false)
	}

	return table, nil
}
