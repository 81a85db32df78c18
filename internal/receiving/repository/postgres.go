package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/warekit/rfid-scan-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) ListPending(ctx context.Context) ([]model.PurchaseOrderSummary, error) {
	// Scanned counts come from association rows, not a stored counter.
	query := `
        SELECT po.id, po.supplier_name, po.created_at,
               COALESCE(SUM(l.expected_qty), 0)  AS total_items,
               COALESCE(COUNT(a.tag_uid), 0)     AS total_scanned
        FROM purchase_orders po
        JOIN receiving_lines l ON l.order_id = po.id
        LEFT JOIN line_tags a ON a.line_id = l.id
        GROUP BY po.id, po.supplier_name, po.created_at
        HAVING COALESCE(COUNT(a.tag_uid), 0) < COALESCE(SUM(l.expected_qty), 0)
        ORDER BY po.created_at DESC
    `
	var items []model.PurchaseOrderSummary
	err := r.DB.SelectContext(ctx, &items, query)
	return items, err
}

func (r *PGRepository) GetOrder(ctx context.Context, id string) (*model.PurchaseOrder, error) {
	var po model.PurchaseOrder
	query := `SELECT id, supplier_id, supplier_name, status, created_at, updated_at FROM purchase_orders WHERE id = $1`
	err := r.DB.GetContext(ctx, &po, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	linesQuery := `
        SELECT l.id, l.order_id, l.product_id, l.expected_qty,
               p.name AS product_name, p.sku AS product_sku,
               COALESCE(c.scanned, 0) AS scanned
        FROM receiving_lines l
        JOIN products p ON p.id = l.product_id
        LEFT JOIN (
            SELECT line_id, COUNT(*) AS scanned FROM line_tags GROUP BY line_id
        ) c ON c.line_id = l.id
        WHERE l.order_id = $1
        ORDER BY l.id
    `
	if err := r.DB.SelectContext(ctx, &po.Lines, linesQuery, id); err != nil {
		return nil, err
	}
	return &po, nil
}

func (r *PGRepository) GetLine(ctx context.Context, lineID string) (*model.ReceivingLine, error) {
	var line model.ReceivingLine
	query := `
        SELECT l.id, l.order_id, l.product_id, l.expected_qty,
               p.name AS product_name, p.sku AS product_sku,
               0 AS scanned
        FROM receiving_lines l
        JOIN products p ON p.id = l.product_id
        WHERE l.id = $1
    `
	err := r.DB.GetContext(ctx, &line, query, lineID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &line, nil
}

func (r *PGRepository) CountLineTags(ctx context.Context, lineID string) (int, error) {
	var count int
	err := r.DB.GetContext(ctx, &count, `SELECT COUNT(*) FROM line_tags WHERE line_id = $1`, lineID)
	return count, err
}

func (r *PGRepository) ListLineTags(ctx context.Context, lineID string) ([]model.LineAssociation, error) {
	var items []model.LineAssociation
	query := `SELECT line_id, tag_uid, session_id, created_at FROM line_tags WHERE line_id = $1 ORDER BY created_at`
	err := r.DB.SelectContext(ctx, &items, query, lineID)
	return items, err
}
