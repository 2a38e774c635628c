package models

import "library/pkg/metadata"

type Asset struct {
	ID         int             `json:"id" db:"asset_id"`
	Title      string          `json:"title" db:"title"`
	Author     string          `json:"author" db:"author"`
	Year       int             `json:"year" db:"year"`
	Cost       float64         `json:"cost" db:"cost"`
	ImageUrl   string          `json:"image_url" db:"image_url"`
	DeweyIndex string          `json:"dewey_index" db:"dewey_index"`
	Status     metadata.Status `json:"status" db:"status"`
}
