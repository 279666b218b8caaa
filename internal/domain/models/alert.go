package models

import "time"

// Alert is the outbound notification for one actionable signal. It carries
// the indicator values that justified the verdict so the receiving channel
// can render a self-contained message.
type Alert struct {
	AssetID    string    `json:"asset_id"`
	Date       string    `json:"date"`
	Price      float64   `json:"price"`
	Signal     Signal    `json:"signal"`
	SMA        *float64  `json:"sma,omitempty"`
	Volatility *float64  `json:"volatility,omitempty"`
	Momentum   *float64  `json:"momentum,omitempty"`
	EmittedAt  time.Time `json:"emitted_at"`
}
