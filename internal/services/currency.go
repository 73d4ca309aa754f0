package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/expensevista/expensevista-backend/internal/dto"
	"github.com/expensevista/expensevista-backend/internal/errs"
	"github.com/expensevista/expensevista-backend/pkg/logger"
)

// cacheTTL is how long a fetched rate table is considered live.
const cacheTTL = 6 * time.Hour

// rateFetcher is the HTTP adapter for the upstream rate API.
type rateFetcher interface {
	GetLatest(ctx context.Context, from string) (dto.ExchangeRateTable, error)
}

type rateEntry struct {
	rates     map[string]float64
	fetchedAt time.Time
}

// currencyService caches whole rate tables per source currency. The cache is
// process-wide and shared across requests; time-based expiry is the only
// invalidation.
type currencyService struct {
	client rateFetcher
	now    func() time.Time

	mu    sync.RWMutex
	cache map[string]rateEntry
}

func NewCurrencyService(client rateFetcher) *currencyService {
	return &currencyService{
		client: client,
		now:    time.Now,
		cache:  make(map[string]rateEntry),
	}
}

// GetRate returns the live conversion rate from one currency to another,
// fetching and caching the source currency's table when the cached copy is
// missing or expired.
func (s *currencyService) GetRate(ctx context.Context, from, to string) (float64, error) {
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)

	s.mu.RLock()
	entry, ok := s.cache[from]
	s.mu.RUnlock()

	if !ok || s.now().Sub(entry.fetchedAt) >= cacheTTL {
		table, err := s.client.GetLatest(ctx, from)
		if err != nil {
			return 0, err
		}
		entry = rateEntry{rates: table.Rates, fetchedAt: s.now()}
		s.mu.Lock()
		s.cache[from] = entry
		s.mu.Unlock()
	}

	rate, ok := entry.rates[to]
	if !ok {
		return 0, errs.NewExternalServiceError("exchange-rate",
			"rate for "+to+" not found in "+from+" table", false)
	}
	return rate, nil
}

// GetCachedRate is a cache-only lookup. It never touches the network and will
// serve a stale entry: in the fallback path an old rate beats a hard failure.
func (s *currencyService) GetCachedRate(from, to string) (float64, bool) {
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)

	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.cache[from]
	if !ok {
		return 0, false
	}
	rate, ok := entry.rates[to]
	return rate, ok
}

// GetSupportedCurrencies lists every currency code the upstream quotes,
// sorted. The USD table is the canonical source and shares the rate cache.
func (s *currencyService) GetSupportedCurrencies(ctx context.Context) ([]string, error) {
	log := logger.FromContext(ctx)

	s.mu.RLock()
	entry, ok := s.cache["USD"]
	s.mu.RUnlock()

	if !ok || s.now().Sub(entry.fetchedAt) >= cacheTTL {
		table, err := s.client.GetLatest(ctx, "USD")
		if err != nil {
			log.Error("failed to fetch supported currencies", "error", err)
			return nil, err
		}
		entry = rateEntry{rates: table.Rates, fetchedAt: s.now()}
		s.mu.Lock()
		s.cache["USD"] = entry
		s.mu.Unlock()
	}

	codes := make([]string, 0, len(entry.rates))
	for code := range entry.rates {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes, nil
}
