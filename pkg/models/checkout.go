package models

import "time"

// Checkout is the single active loan for an asset. At most one row per asset
// exists at any time.
type Checkout struct {
	ID            int       `json:"id" db:"checkout_id"`
	AssetID       int       `json:"asset_id" db:"asset_id"`
	LibraryCardID int       `json:"library_card_id" db:"library_card_id"`
	Since         time.Time `json:"since" db:"since"`
	Until         time.Time `json:"until" db:"until"`
}

// CheckoutHistory is an append-only loan audit entry. CheckedIn stays nil
// while the loan is open.
type CheckoutHistory struct {
	ID            int        `json:"id" db:"history_id"`
	AssetID       int        `json:"asset_id" db:"asset_id"`
	LibraryCardID int        `json:"library_card_id" db:"library_card_id"`
	CheckedOut    time.Time  `json:"checked_out" db:"checked_out"`
	CheckedIn     *time.Time `json:"checked_in,omitempty" db:"checked_in"`
}
