package quotes

import (
	"context"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/user/stockledger/internal/models"
)

type simEntry struct {
	name  string
	price float64
}

// seedPrices is the fixed universe the simulator can quote.
var seedPrices = map[string]simEntry{
	"AAPL": {"Apple Inc.", 230.00},
	"AMZN": {"Amazon.com Inc.", 180.00},
	"GOOG": {"Alphabet Inc.", 165.00},
	"MSFT": {"Microsoft Corp.", 420.00},
	"NFLX": {"Netflix Inc.", 500.00},
	"TSLA": {"Tesla Inc.", 250.00},
}

// Simulator is an in-memory quote provider that random-walks a fixed set of
// symbols and broadcasts every change on Updates.
type Simulator struct {
	mu     sync.RWMutex
	prices map[string]simEntry

	// Updates carries price changes for stream subscribers. Sends are
	// non-blocking; updates are dropped when the channel is full.
	Updates chan PriceUpdate
}

// NewSimulator creates a simulator seeded with the default symbol universe.
func NewSimulator() *Simulator {
	prices := make(map[string]simEntry, len(seedPrices))
	for sym, e := range seedPrices {
		prices[sym] = e
	}
	return &Simulator{
		prices:  prices,
		Updates: make(chan PriceUpdate, 100),
	}
}

// Start launches the background walk. It stops when ctx is cancelled.
func (s *Simulator) Start(ctx context.Context) {
	log.Println("Starting quote simulator...")
	go s.run(ctx)
}

func (s *Simulator) run(ctx context.Context) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.step()
		}
	}
}

func (s *Simulator) step() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for sym, e := range s.prices {
		// +/- 0.5% per tick
		changePercent := (rand.Float64() - 0.5) / 100
		newPrice := e.price * (1 + changePercent)
		if newPrice <= 0 {
			newPrice = e.price
		}
		s.prices[sym] = simEntry{name: e.name, price: newPrice}

		update := PriceUpdate{
			Symbol: sym,
			Price:  decimal.NewFromFloat(newPrice).Round(2),
			Ts:     time.Now().UnixMilli(),
		}
		select {
		case s.Updates <- update:
		default:
			log.Println("Price update channel full, dropping update for", sym)
		}
	}
}

// Lookup returns the current simulated quote for a symbol.
func (s *Simulator) Lookup(_ context.Context, symbol string) (*models.Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.prices[symbol]
	if !ok {
		return nil, ErrSymbolNotFound
	}
	return &models.Quote{
		Symbol: symbol,
		Name:   e.name,
		Price:  decimal.NewFromFloat(e.price).Round(2),
	}, nil
}
