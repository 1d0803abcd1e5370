package models

import "time"

type Subcategory struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	BucketID  string    `json:"bucket_id"`
	Name      string    `json:"name"`
	Color     *string   `json:"color"`
	Icon      *string   `json:"icon"`
	CreatedAt time.Time `json:"-"`
}
