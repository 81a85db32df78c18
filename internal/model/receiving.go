package model

import "time"

type PurchaseOrder struct {
	BaseModel
	SupplierID   string  `db:"supplier_id" json:"supplier_id"`
	SupplierName string  `db:"supplier_name" json:"supplier"`
	Status       string  `db:"status" json:"status"`

	Lines []ReceivingLine `db:"-" json:"items"`
}

// ReceivingLine is one purchase-order line being populated with tags during
// inbound stocking. Scanned is recomputed from association rows, never kept
// as an independent counter.
type ReceivingLine struct {
	ID          string  `db:"id" json:"id"`
	OrderID     string  `db:"order_id" json:"order_id"`
	ProductID   string  `db:"product_id" json:"product_id"`
	ProductName string  `db:"product_name" json:"name"`
	ProductSKU  string  `db:"product_sku" json:"sku"`
	ExpectedQty int     `db:"expected_qty" json:"qty"`
	Scanned     int     `db:"scanned" json:"scanned"`
}

// LineAssociation is the durable fact that a tag was applied to a receiving
// line within a session.
type LineAssociation struct {
	LineID    string    `db:"line_id" json:"line_id"`
	TagUID    string    `db:"tag_uid" json:"tag_uid"`
	SessionID string    `db:"session_id" json:"session_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type PurchaseOrderSummary struct {
	ID           string    `db:"id" json:"id"`
	SupplierName string    `db:"supplier_name" json:"supplier"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	TotalItems   int       `db:"total_items" json:"totalItems"`
	TotalScanned int       `db:"total_scanned" json:"totalScanned"`
}
