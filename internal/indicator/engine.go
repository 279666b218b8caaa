package indicator

import (
	"sort"

	"CoinLake/internal/domain/models"
	"CoinLake/pkg/util"
)

// Params configures the Indicator Engine. All windows and thresholds are
// externally supplied per run.
type Params struct {
	// MAWindow is N: trailing rows for the moving average and volatility.
	MAWindow int
	// MomentumWindow is M: trailing deltas for the oscillator.
	MomentumWindow int
	Thresholds     Thresholds
	// ReprocessDays, when positive, additionally forces recomputation of
	// the trailing that-many days even without new history for them.
	ReprocessDays int
}

// lookback is the longest row span any indicator can reach back over.
func (p Params) lookback() int {
	n := p.MAWindow
	if m := p.MomentumWindow + 1; m > n {
		n = m
	}
	return n
}

// Engine merges reconciled history against the prior aggregate table and
// recomputes rolling indicators where the merge policy requires it.
// Per-asset processing is independent; within an asset the fold runs over
// the full date-ordered history so no window ever sees future rows.
type Engine struct {
	params Params
}

func NewEngine(params Params) *Engine {
	return &Engine{params: params}
}

// Compute produces the updated aggregate table from the reconciled history
// and the previously persisted aggregate (nil on first run). Prior rows
// are preserved unchanged unless their date falls within the rolling
// lookback of a newly added date for that asset, in which case they are
// recomputed from history. Assets that vanished from history keep their
// prior rows.
func (e *Engine) Compute(history []models.HistoryRow, prior []models.IndicatorRow) []models.IndicatorRow {
	byAsset := groupHistory(history)
	priorByAsset := groupPrior(prior)

	assets := make([]string, 0, len(byAsset)+len(priorByAsset))
	seen := make(map[string]bool)
	for a := range byAsset {
		assets = append(assets, a)
		seen[a] = true
	}
	for a := range priorByAsset {
		if !seen[a] {
			assets = append(assets, a)
		}
	}
	sort.Strings(assets)

	var out []models.IndicatorRow
	for _, asset := range assets {
		out = append(out, e.computeAsset(byAsset[asset], priorByAsset[asset])...)
	}
	return out
}

func (e *Engine) computeAsset(hist []models.HistoryRow, prior []models.IndicatorRow) []models.IndicatorRow {
	if len(hist) == 0 {
		// Nothing upstream this run; keep what we already published.
		return prior
	}

	cutoff := e.recomputeCutoff(hist, prior)

	out := make([]models.IndicatorRow, 0, len(hist))
	for _, row := range prior {
		if cutoff == "" || row.Date < cutoff {
			out = append(out, row)
		}
	}
	if cutoff == "" {
		return out
	}

	prices := make([]float64, len(hist))
	for i, h := range hist {
		prices[i] = h.Price
	}
	for i, h := range hist {
		if h.Date < cutoff {
			continue
		}
		sma := movingAverage(prices, i, e.params.MAWindow)
		vol := volatility(prices, i, e.params.MAWindow)
		mom := momentum(prices, i, e.params.MomentumWindow)
		out = append(out, models.IndicatorRow{
			AssetID:    h.AssetID,
			Date:       h.Date,
			Price:      h.Price,
			SMA:        sma,
			Volatility: vol,
			Momentum:   mom,
			Signal:     mapSignal(h.Price, sma, mom, e.params.Thresholds),
		})
	}
	return out
}

// recomputeCutoff returns the first date (inclusive) that must be
// recomputed for an asset, or "" when every prior row stands. A new
// history date T can change any window that includes T, i.e. output dates
// in [T, T+lookback-1]; symmetrically a prior row at date D must be
// recomputed when D >= minNewDate - (lookback-1). Rows recomputed from
// unchanged inputs come out identical, so the cutoff errs toward
// recomputing rather than tracking exact window membership.
func (e *Engine) recomputeCutoff(hist []models.HistoryRow, prior []models.IndicatorRow) string {
	if len(prior) == 0 {
		return hist[0].Date
	}
	known := make(map[string]bool, len(prior))
	for _, row := range prior {
		known[row.Date] = true
	}
	minNew := ""
	for _, h := range hist {
		if !known[h.Date] {
			minNew = h.Date
			break
		}
	}

	cutoff := ""
	if minNew != "" {
		cutoff = util.AddDays(minNew, -(e.params.lookback() - 1))
	}
	if e.params.ReprocessDays > 0 {
		rp := util.AddDays(hist[len(hist)-1].Date, -(e.params.ReprocessDays - 1))
		if cutoff == "" || rp < cutoff {
			cutoff = rp
		}
	}
	return cutoff
}

func groupHistory(rows []models.HistoryRow) map[string][]models.HistoryRow {
	out := make(map[string][]models.HistoryRow)
	for _, r := range rows {
		out[r.AssetID] = append(out[r.AssetID], r)
	}
	// Window math requires date-ascending order per asset.
	for k := range out {
		rs := out[k]
		sort.Slice(rs, func(i, j int) bool { return rs[i].Date < rs[j].Date })
	}
	return out
}

func groupPrior(rows []models.IndicatorRow) map[string][]models.IndicatorRow {
	out := make(map[string][]models.IndicatorRow)
	for _, r := range rows {
		out[r.AssetID] = append(out[r.AssetID], r)
	}
	for k := range out {
		rs := out[k]
		sort.Slice(rs, func(i, j int) bool { return rs[i].Date < rs[j].Date })
	}
	return out
}

// LatestPerAsset returns the newest row per asset, sorted by asset id.
// The Signal Emitter feeds on this.
func LatestPerAsset(rows []models.IndicatorRow) []models.IndicatorRow {
	latest := make(map[string]models.IndicatorRow)
	for _, r := range rows {
		if cur, ok := latest[r.AssetID]; !ok || r.Date > cur.Date {
			latest[r.AssetID] = r
		}
	}
	out := make([]models.IndicatorRow, 0, len(latest))
	for _, r := range latest {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AssetID < out[j].AssetID })
	return out
}
