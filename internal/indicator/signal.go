package indicator

import "CoinLake/internal/domain/models"

// Thresholds holds the signal-mapping configuration. All values come from
// config; nothing here is hard-coded.
type Thresholds struct {
	// Dip and Rally are fractions of the moving average: price below
	// SMA*(1-Dip) leans BUY, above SMA*(1+Rally) leans SELL.
	Dip   float64
	Rally float64
	// Oversold and Overbought are oscillator levels for the momentum
	// override.
	Oversold   float64
	Overbought float64
}

// mapSignal is the pure decision function for one row. Fixed precedence:
//
//  1. no moving average yet -> INSUFFICIENT_DATA
//  2. momentum override: a defined oscillator at or beyond the
//     oversold/overbought level decides the verdict outright
//  3. mean reversion against the moving average
//  4. otherwise WAIT
//
// The override running first keeps the outcome independent of how close
// price sits to the moving average on extreme-momentum days.
func mapSignal(price float64, sma, momentum *float64, t Thresholds) models.Signal {
	if sma == nil {
		return models.SignalInsufficientData
	}
	if momentum != nil {
		if *momentum <= t.Oversold {
			return models.SignalBuy
		}
		if *momentum >= t.Overbought {
			return models.SignalSell
		}
	}
	if price < *sma*(1-t.Dip) {
		return models.SignalBuy
	}
	if price > *sma*(1+t.Rally) {
		return models.SignalSell
	}
	return models.SignalWait
}
