package reconcile

import (
	"errors"
	"sort"
	"time"

	"CoinLake/internal/domain/models"
	"CoinLake/pkg/util"
)

// ErrEmptyInput is returned when a run yields zero parseable records,
// either because no raw batches exist or because every record was dropped.
var ErrEmptyInput = errors.New("reconcile: no parseable snapshot records")

// Drop reasons, used as metric labels and surfaced in the result.
const (
	DropMissingID        = "missing_id"
	DropMissingPrice     = "missing_price"
	DropMissingTimestamp = "missing_timestamp"
)

// Result is the outcome of one reconciliation run.
type Result struct {
	Rows    []models.HistoryRow
	Input   int
	Dropped map[string]int
}

// DroppedTotal sums drops across all reasons.
func (r *Result) DroppedTotal() int {
	n := 0
	for _, v := range r.Dropped {
		n += v
	}
	return n
}

// Reconciler rebuilds the deduplicated history table from raw snapshots.
// It is stateless and deterministic: the same input set always produces
// the same output rows in the same order, regardless of input order.
type Reconciler struct{}

func New() *Reconciler {
	return &Reconciler{}
}

// Reconcile normalizes every record, deduplicates on (asset, date) keeping
// the latest observation timestamp, derives safe valuation, and returns
// rows sorted by asset then date ascending.
func (r *Reconciler) Reconcile(batches []*models.SnapshotBatch) (*Result, error) {
	res := &Result{Dropped: make(map[string]int)}

	// Keyed by asset id + date. Within a key the record with the latest
	// observation timestamp wins; a strictly-later timestamp is required
	// to replace, so equal-timestamp duplicates collapse to one row
	// independent of input order.
	best := make(map[groupKey]models.HistoryRow)
	for _, b := range batches {
		if b == nil {
			continue
		}
		for _, snap := range b.Records {
			res.Input++
			row, reason := normalize(snap, b.FetchedAt)
			if reason != "" {
				res.Dropped[reason]++
				continue
			}
			k := groupKey{asset: row.AssetID, date: row.Date}
			cur, ok := best[k]
			if !ok || row.ObservedAt.After(cur.ObservedAt) {
				best[k] = row
			}
		}
	}

	if len(best) == 0 {
		return res, ErrEmptyInput
	}

	rows := make([]models.HistoryRow, 0, len(best))
	for _, row := range best {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].AssetID != rows[j].AssetID {
			return rows[i].AssetID < rows[j].AssetID
		}
		return rows[i].Date < rows[j].Date
	})
	res.Rows = rows
	return res, nil
}

type groupKey struct {
	asset string
	date  string
}

// normalize coerces one raw record into a history row, or returns the
// drop reason. Absent optional fields stay nil rather than erroring.
func normalize(s models.Snapshot, fallback time.Time) (models.HistoryRow, string) {
	if s.ID == "" {
		return models.HistoryRow{}, DropMissingID
	}
	if s.CurrentPrice == nil {
		return models.HistoryRow{}, DropMissingPrice
	}
	observed, ok := util.ParseTime(s.LastUpdated)
	if !ok {
		// Source omitted or mangled its own stamp; the ingestion time is
		// still a valid observation time for the batch.
		if fallback.IsZero() {
			return models.HistoryRow{}, DropMissingTimestamp
		}
		observed = fallback
	}
	observed = observed.UTC()

	row := models.HistoryRow{
		AssetID:           s.ID,
		Symbol:            s.Symbol,
		Name:              s.Name,
		Date:              util.DateKey(observed),
		ObservedAt:        observed,
		Price:             *s.CurrentPrice,
		MarketCap:         s.MarketCap,
		MarketCapRank:     s.MarketCapRank,
		Volume:            s.TotalVolume,
		High24h:           s.High24h,
		Low24h:            s.Low24h,
		CirculatingSupply: s.CirculatingSupply,
		TotalSupply:       s.TotalSupply,
		MaxSupply:         s.MaxSupply,
		ATH:               s.ATH,
	}
	row.SafeValuation = safeValuation(row.Price, s.MaxSupply, s.CirculatingSupply)
	return row, ""
}

// safeValuation is price times max supply; unbounded-supply assets fall
// back to circulating supply so the column never goes meaningless.
func safeValuation(price float64, maxSupply, circulating *float64) *float64 {
	switch {
	case maxSupply != nil:
		v := price * *maxSupply
		return &v
	case circulating != nil:
		v := price * *circulating
		return &v
	default:
		return nil
	}
}
