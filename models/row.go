package models

import "time"

// Row is one line item in a cart. RowID is derived from the item id and
// the option set and never changes once the row exists; Total is always
// Quantity * UnitPrice and is recomputed on every quantity or price change.
type Row struct {
	RowID           string            `json:"row_id"`
	ItemID          string            `json:"item_id"`
	Name            string            `json:"name"`
	Quantity        int               `json:"quantity"`
	UnitPrice       float64           `json:"unit_price"`
	Total           float64           `json:"total"`
	Options         map[string]string `json:"options,omitempty"`
	AssociatedModel string            `json:"associated_model,omitempty"`
	AddedAt         time.Time         `json:"added_at"`
}

// Collection is the persisted form of a cart: rows keyed by RowID.
type Collection map[string]Row

// Item is the descriptor a caller supplies when adding to a cart.
type Item struct {
	ItemID          string            `json:"item_id"`
	Name            string            `json:"name"`
	Quantity        int               `json:"quantity"`
	UnitPrice       float64           `json:"unit_price"`
	Options         map[string]string `json:"options,omitempty"`
	AssociatedModel string            `json:"associated_model,omitempty"`
}

// Changes carries the fields an update may touch. Nil pointers mean
// "leave as is". A quantity of zero or less removes the row.
type Changes struct {
	Quantity  *int              `json:"quantity,omitempty"`
	Name      *string           `json:"name,omitempty"`
	UnitPrice *float64          `json:"unit_price,omitempty"`
	Options   map[string]string `json:"options,omitempty"`
}
