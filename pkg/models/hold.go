package models

import "time"

// Hold is a queued request for an asset. Holds for one asset are ordered by
// HoldPlaced ascending; the earliest hold has the highest priority.
type Hold struct {
	ID            int       `json:"id" db:"hold_id"`
	AssetID       int       `json:"asset_id" db:"asset_id"`
	LibraryCardID int       `json:"library_card_id" db:"library_card_id"`
	HoldPlaced    time.Time `json:"hold_placed" db:"hold_placed"`
}
