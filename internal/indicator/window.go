package indicator

import "math"

// movingAverage returns the arithmetic mean of the trailing n prices ending
// at index i, or nil while fewer than n rows exist. Never computed over a
// short window.
func movingAverage(prices []float64, i, n int) *float64 {
	if n <= 0 || i+1 < n {
		return nil
	}
	sum := 0.0
	for j := i - n + 1; j <= i; j++ {
		sum += prices[j]
	}
	v := sum / float64(n)
	return &v
}

// volatility returns the sample standard deviation over the same trailing
// n-row window, with the same undefined-until-n-rows rule.
func volatility(prices []float64, i, n int) *float64 {
	if n <= 1 || i+1 < n {
		return nil
	}
	sum := 0.0
	for j := i - n + 1; j <= i; j++ {
		sum += prices[j]
	}
	mean := sum / float64(n)
	ss := 0.0
	for j := i - n + 1; j <= i; j++ {
		d := prices[j] - mean
		ss += d * d
	}
	v := math.Sqrt(ss / float64(n-1))
	return &v
}

// momentum returns the 0-100 oscillator from the ratio of average gains to
// average losses over the trailing m day-over-day deltas ending at index i.
// A window with zero losses saturates at 100 instead of dividing by zero.
// Undefined until m+1 rows exist.
func momentum(prices []float64, i, m int) *float64 {
	if m <= 0 || i < m {
		return nil
	}
	var gains, losses float64
	for j := i - m + 1; j <= i; j++ {
		d := prices[j] - prices[j-1]
		if d > 0 {
			gains += d
		} else {
			losses -= d
		}
	}
	avgGain := gains / float64(m)
	avgLoss := losses / float64(m)
	var v float64
	if avgLoss == 0 {
		v = 100
	} else {
		rs := avgGain / avgLoss
		v = 100 - 100/(1+rs)
	}
	return &v
}
