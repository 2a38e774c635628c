package models

import "time"

type LibraryCard struct {
	ID        int       `json:"id" db:"card_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Patron struct {
	ID            int    `json:"id" db:"patron_id"`
	FirstName     string `json:"first_name" db:"first_name"`
	LastName      string `json:"last_name" db:"last_name"`
	LibraryCardID int    `json:"library_card_id" db:"library_card_id"`
}
