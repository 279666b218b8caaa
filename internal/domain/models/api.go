package models

// SignalsRequest filters the latest-signals listing.
type SignalsRequest struct {
	Actionable bool `query:"actionable"`
}

// AssetHistoryRequest selects the aggregate rows for one asset.
type AssetHistoryRequest struct {
	Asset string `param:"asset" validate:"required"`
	Limit int    `query:"limit" default:"90" validate:"gte=1,lte=3650"`
}

// AssetHistoryResponse wraps an asset's aggregate rows.
type AssetHistoryResponse struct {
	AssetID string         `json:"asset_id"`
	Rows    []IndicatorRow `json:"rows"`
}
