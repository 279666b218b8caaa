package reconcile

import (
	"CoinLake/internal/domain/models"
	"CoinLake/pkg/util"
)

// Gap is a run of missing dates inside an asset's reconciled history.
type Gap struct {
	AssetID string `json:"asset_id"`
	From    string `json:"from"` // first missing date
	To      string `json:"to"`   // last missing date
	Days    int    `json:"days"`
}

// FindGaps reports per-asset date gaps in a reconciled table. Rows must be
// sorted by asset then date, which is how Reconcile returns them.
// Informational only: gaps are expected whenever ingestion skips a day.
func FindGaps(rows []models.HistoryRow) []Gap {
	var gaps []Gap
	for i := 1; i < len(rows); i++ {
		prev, cur := rows[i-1], rows[i]
		if prev.AssetID != cur.AssetID {
			continue
		}
		next := util.AddDays(prev.Date, 1)
		if next == cur.Date {
			continue
		}
		p, ok1 := util.ParseDateKey(prev.Date)
		c, ok2 := util.ParseDateKey(cur.Date)
		if !ok1 || !ok2 {
			continue
		}
		days := int(c.Sub(p).Hours()/24) - 1
		if days <= 0 {
			continue
		}
		gaps = append(gaps, Gap{
			AssetID: cur.AssetID,
			From:    next,
			To:      util.AddDays(cur.Date, -1),
			Days:    days,
		})
	}
	return gaps
}
