package model

import "time"

// Tag statuses. A tag's status only changes through a scan-session effect,
// never through a form edit.
const (
	TagStatusUnused   = "UNUSED"   // registered, not bound to a product
	TagStatusInStock  = "IN_STOCK" // bound via receiving, sellable
	TagStatusSold     = "SOLD"     // consumed into a bill
	TagStatusLost     = "LOST"
	TagStatusInactive = "INACTIVE"
)

type Tag struct {
	UID       string    `db:"uid" json:"uid"`
	ProductID *string   `db:"product_id" json:"product_id"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	Product *Product `db:"-" json:"product,omitempty"` // Joined data
}

// TagEvent is one append-only history row. The history is authoritative for
// "what happened, when" and progress totals must be reproducible from it.
type TagEvent struct {
	ID         string    `db:"id" json:"id"`
	TagUID     string    `db:"tag_uid" json:"rfidUid"`
	Action     string    `db:"action" json:"action"`
	SessionID  *string   `db:"session_id" json:"session_id"`
	OccurredAt time.Time `db:"occurred_at" json:"timestamp"`

	ProductName *string `db:"product_name" json:"product_name,omitempty"`
	ProductSKU  *string `db:"product_sku" json:"product_sku,omitempty"`
}

// Action kinds recorded in the history, matching the reporting screens:
// STORE_PO_<poID> for receiving, SELL_RECEIPT_<billID> for checkout scans.
const (
	ActionStorePrefix = "STORE_PO_"
	ActionSellPrefix  = "SELL_RECEIPT_"
)

type Product struct {
	BaseModel
	SKU       string  `db:"sku" json:"sku"`
	Name      string  `db:"name" json:"name"`
	SellPrice float64 `db:"sell_price" json:"sell_price"`
	CostPrice float64 `db:"cost_price" json:"cost_price"`
}
