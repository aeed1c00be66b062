package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/user/stockledger/internal/models"
)

const alphaVantageURL = "https://www.alphavantage.co/query?function=GLOBAL_QUOTE&symbol=%s&apikey=%s"

// AlphaVantage is a quote provider backed by the Alpha Vantage GLOBAL_QUOTE
// endpoint. Quotes are cached for a short TTL because the free tier
// rate-limits aggressively.
type AlphaVantage struct {
	apiKey  string
	baseURL string
	cli     *http.Client
	ttl     time.Duration

	mu    sync.RWMutex
	cache map[string]cachedQuote
}

type cachedQuote struct {
	quote   models.Quote
	fetched time.Time
}

// NewAlphaVantage creates a provider using the given API key.
func NewAlphaVantage(apiKey string) *AlphaVantage {
	return &AlphaVantage{
		apiKey:  apiKey,
		baseURL: alphaVantageURL,
		cli:     &http.Client{Timeout: 8 * time.Second},
		ttl:     60 * time.Second,
		cache:   make(map[string]cachedQuote),
	}
}

// Lookup returns the current quote for a symbol. The GLOBAL_QUOTE payload
// carries no company name, so Name is the symbol itself.
func (p *AlphaVantage) Lookup(ctx context.Context, symbol string) (*models.Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, ErrSymbolNotFound
	}

	p.mu.RLock()
	if c, ok := p.cache[symbol]; ok && time.Since(c.fetched) < p.ttl {
		p.mu.RUnlock()
		q := c.quote
		return &q, nil
	}
	p.mu.RUnlock()

	quote, err := p.fetch(ctx, symbol)
	if err != nil {
		log.Printf("alphavantage lookup %s: %v", symbol, err)
		return nil, ErrSymbolNotFound
	}

	p.mu.Lock()
	p.cache[symbol] = cachedQuote{quote: *quote, fetched: time.Now()}
	p.mu.Unlock()

	return quote, nil
}

func (p *AlphaVantage) fetch(ctx context.Context, symbol string) (*models.Quote, error) {
	url := fmt.Sprintf(p.baseURL, symbol, p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "stockledger/1.0")

	resp, err := p.cli.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("alphavantage http %d", resp.StatusCode)
	}

	var raw struct {
		GlobalQuote map[string]string `json:"Global Quote"`
		Note        string            `json:"Note"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}
	if raw.Note != "" {
		return nil, fmt.Errorf("alphavantage rate limited")
	}

	priceStr := raw.GlobalQuote["05. price"]
	if priceStr == "" {
		return nil, fmt.Errorf("no price in response")
	}
	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return nil, fmt.Errorf("parse price %q: %w", priceStr, err)
	}

	return &models.Quote{Symbol: symbol, Name: symbol, Price: price}, nil
}
