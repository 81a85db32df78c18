package model

import "time"

const (
	BillStatusDraft = "DRAFT"
	BillStatusPaid  = "PAID"
)

// Bill is a sale receipt assembled from tag reads at checkout. Totals are
// derived from the consumed-tag rows on read; the persisted columns are only
// fixed at checkout.
type Bill struct {
	BaseModel
	Status     string  `db:"status" json:"status"`
	TotalQty   int     `db:"total_qty" json:"totalQty"`
	TotalPrice float64 `db:"total_price" json:"totalPrice"`

	Items []BillItem `db:"-" json:"items"`
}

// BillItem groups the tags of one product consumed into a bill.
type BillItem struct {
	BillID    string  `db:"bill_id" json:"bill_id"`
	ProductID string  `db:"product_id" json:"product_id"`
	Name      string  `db:"name" json:"name"`
	SellPrice float64 `db:"sell_price" json:"sellPrice"`
	Qty       int     `db:"qty" json:"qty"`
	LineTotal float64 `db:"line_total" json:"lineTotal"`
}

// BillAssociation records a single tag consumed into a bill.
type BillAssociation struct {
	BillID    string    `db:"bill_id" json:"bill_id"`
	TagUID    string    `db:"tag_uid" json:"tag_uid"`
	ProductID string    `db:"product_id" json:"product_id"`
	SessionID string    `db:"session_id" json:"session_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
