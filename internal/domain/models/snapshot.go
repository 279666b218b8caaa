package models

import "time"

// Snapshot is one raw market observation for a single asset, as ingested
// from the markets API. Optional fields are pointers: a nil means the
// source omitted the field (schema varies across ingestion runs), which
// is distinct from an explicit zero.
type Snapshot struct {
	ID                string   `json:"id"`
	Symbol            string   `json:"symbol,omitempty"`
	Name              string   `json:"name,omitempty"`
	CurrentPrice      *float64 `json:"current_price"`
	MarketCap         *float64 `json:"market_cap,omitempty"`
	MarketCapRank     *int64   `json:"market_cap_rank,omitempty"`
	TotalVolume       *float64 `json:"total_volume,omitempty"`
	High24h           *float64 `json:"high_24h,omitempty"`
	Low24h            *float64 `json:"low_24h,omitempty"`
	CirculatingSupply *float64 `json:"circulating_supply,omitempty"`
	TotalSupply       *float64 `json:"total_supply,omitempty"`
	MaxSupply         *float64 `json:"max_supply,omitempty"`
	ATH               *float64 `json:"ath,omitempty"`
	LastUpdated       string   `json:"last_updated"`
}

// SnapshotBatch is the payload of one bronze blob: every tracked asset
// observed in a single ingestion run.
type SnapshotBatch struct {
	FetchedAt time.Time  `json:"fetched_at"`
	Source    string     `json:"source"`
	Records   []Snapshot `json:"records"`
}
