package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Market keys as delivered by the odds provider.
const (
	MarketMoneyline = "h2h"
	MarketSpreads   = "spreads"
	MarketTotals    = "totals"
)

// OddsPayload is the already-parsed odds structure the ingestion layer
// attaches to a game. The engine only reads it for market blending.
type OddsPayload struct {
	Bookmakers []Bookmaker `json:"bookmakers"`
}

type Bookmaker struct {
	Key     string       `json:"key"`
	Title   string       `json:"title,omitempty"`
	Markets []OddsMarket `json:"markets"`
}

type OddsMarket struct {
	Key      string        `json:"key"` // "h2h", "spreads", "totals"
	Outcomes []OddsOutcome `json:"outcomes"`
}

type OddsOutcome struct {
	Name  string   `json:"name"`
	Price float64  `json:"price"` // American odds
	Point *float64 `json:"point,omitempty"`
}

// Scan implements the sql.Scanner interface for JSONB
func (p *OddsPayload) Scan(value interface{}) error {
	if value == nil {
		*p = OddsPayload{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into OddsPayload", value)
	}

	return json.Unmarshal(bytes, p)
}

// Value implements the driver.Valuer interface for JSONB
func (p OddsPayload) Value() (driver.Value, error) {
	if len(p.Bookmakers) == 0 {
		return nil, nil
	}
	return json.Marshal(p)
}

// Market returns the first market with the given key across all
// bookmakers, or nil when no bookmaker carries it.
func (p *OddsPayload) Market(key string) *OddsMarket {
	for i := range p.Bookmakers {
		for j := range p.Bookmakers[i].Markets {
			if p.Bookmakers[i].Markets[j].Key == key {
				return &p.Bookmakers[i].Markets[j]
			}
		}
	}
	return nil
}

// Outcome returns the outcome with the given name, or nil.
func (m *OddsMarket) Outcome(name string) *OddsOutcome {
	for i := range m.Outcomes {
		if m.Outcomes[i].Name == name {
			return &m.Outcomes[i]
		}
	}
	return nil
}
