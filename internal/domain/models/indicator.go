package models

// Signal is the categorical trading verdict for one (asset, date) row.
type Signal string

const (
	SignalBuy  Signal = "BUY"
	SignalSell Signal = "SELL"
	SignalWait Signal = "WAIT"
	// SignalInsufficientData marks rows whose moving average is still
	// undefined; downstream treats it like WAIT but the distinction is kept.
	SignalInsufficientData Signal = "INSUFFICIENT_DATA"
)

// Actionable reports whether the signal should produce an outbound alert.
func (s Signal) Actionable() bool {
	return s == SignalBuy || s == SignalSell
}

// IndicatorRow is one aggregated row: price plus rolling indicators for an
// (asset, date) pair. Indicator fields are null until their windows fill.
type IndicatorRow struct {
	AssetID string  `parquet:"asset_id,dict" json:"asset_id"`
	Date    string  `parquet:"date,dict" json:"date"`
	Price   float64 `parquet:"price" json:"price"`
	// SMA is the N-day simple moving average of price.
	SMA *float64 `parquet:"sma,optional" json:"sma,omitempty"`
	// Volatility is the sample standard deviation over the same N rows.
	Volatility *float64 `parquet:"volatility,optional" json:"volatility,omitempty"`
	// Momentum is the RSI-style oscillator over M day-over-day deltas, 0-100.
	Momentum *float64 `parquet:"momentum,optional" json:"momentum,omitempty"`
	Signal   Signal   `parquet:"signal,dict" json:"signal"`
}
