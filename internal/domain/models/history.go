package models

import "time"

// HistoryRow is one reconciled observation: at most one per (asset, date).
// AssetID, Price and Date are always set; everything optional survives as
// a nullable column. ObservedAt keeps the full timestamp that won the
// dedup tie-break for the day.
type HistoryRow struct {
	AssetID           string    `parquet:"asset_id,dict" json:"asset_id"`
	Symbol            string    `parquet:"symbol,dict,optional" json:"symbol,omitempty"`
	Name              string    `parquet:"name,optional" json:"name,omitempty"`
	Date              string    `parquet:"date,dict" json:"date"`
	ObservedAt        time.Time `parquet:"observed_at,timestamp" json:"observed_at"`
	Price             float64   `parquet:"price" json:"price"`
	MarketCap         *float64  `parquet:"market_cap,optional" json:"market_cap,omitempty"`
	MarketCapRank     *int64    `parquet:"market_cap_rank,optional" json:"market_cap_rank,omitempty"`
	Volume            *float64  `parquet:"volume,optional" json:"volume,omitempty"`
	High24h           *float64  `parquet:"high_24h,optional" json:"high_24h,omitempty"`
	Low24h            *float64  `parquet:"low_24h,optional" json:"low_24h,omitempty"`
	CirculatingSupply *float64  `parquet:"circulating_supply,optional" json:"circulating_supply,omitempty"`
	TotalSupply       *float64  `parquet:"total_supply,optional" json:"total_supply,omitempty"`
	MaxSupply         *float64  `parquet:"max_supply,optional" json:"max_supply,omitempty"`
	ATH               *float64  `parquet:"ath,optional" json:"ath,omitempty"`
	// SafeValuation is price times max supply, falling back to circulating
	// supply for unbounded-supply assets. Null when neither supply is known.
	SafeValuation *float64 `parquet:"safe_valuation,optional" json:"safe_valuation,omitempty"`
}
