package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/warekit/rfid-scan-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) CreateDraft(ctx context.Context, bill *model.Bill) error {
	query := `
        INSERT INTO bills (id, status, total_qty, total_price, created_at, updated_at)
        VALUES (:id, :status, :total_qty, :total_price, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, bill)
	return err
}

func (r *PGRepository) GetByID(ctx context.Context, id string) (*model.Bill, error) {
	var bill model.Bill
	query := `SELECT id, status, total_qty, total_price, created_at, updated_at FROM bills WHERE id = $1`
	err := r.DB.GetContext(ctx, &bill, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &bill, nil
}

const itemsQuery = `
        SELECT bt.bill_id, bt.product_id, p.name, p.sell_price,
               COUNT(*) AS qty,
               COUNT(*) * p.sell_price AS line_total
        FROM bill_tags bt
        JOIN products p ON p.id = bt.product_id
        WHERE bt.bill_id = $1
        GROUP BY bt.bill_id, bt.product_id, p.name, p.sell_price
        ORDER BY MIN(bt.created_at)
`

func (r *PGRepository) GetWithItems(ctx context.Context, id string) (*model.Bill, error) {
	bill, err := r.GetByID(ctx, id)
	if err != nil || bill == nil {
		return bill, err
	}

	if err := r.DB.SelectContext(ctx, &bill.Items, itemsQuery, id); err != nil {
		return nil, err
	}

	// Derived totals win over whatever is stored while the bill is open.
	if bill.Status == model.BillStatusDraft {
		bill.TotalQty = 0
		bill.TotalPrice = 0
		for _, item := range bill.Items {
			bill.TotalQty += item.Qty
			bill.TotalPrice += item.LineTotal
		}
	}
	return bill, nil
}

func (r *PGRepository) List(ctx context.Context) ([]model.Bill, error) {
	var bills []model.Bill
	query := `
        SELECT b.id, b.status, b.created_at, b.updated_at,
               COALESCE(c.qty, 0) AS total_qty,
               COALESCE(c.total, 0) AS total_price
        FROM bills b
        LEFT JOIN (
            SELECT bt.bill_id, COUNT(*) AS qty, SUM(p.sell_price) AS total
            FROM bill_tags bt
            JOIN products p ON p.id = bt.product_id
            GROUP BY bt.bill_id
        ) c ON c.bill_id = b.id
        ORDER BY b.created_at DESC
    `
	err := r.DB.SelectContext(ctx, &bills, query)
	return bills, err
}

func (r *PGRepository) ListBillTags(ctx context.Context, billID string) ([]model.BillAssociation, error) {
	var items []model.BillAssociation
	query := `SELECT bill_id, tag_uid, product_id, session_id, created_at FROM bill_tags WHERE bill_id = $1 ORDER BY created_at`
	err := r.DB.SelectContext(ctx, &items, query, billID)
	return items, err
}

func (r *PGRepository) Checkout(ctx context.Context, id string) (*model.Bill, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var bill model.Bill
	err = tx.GetContext(ctx, &bill,
		`SELECT id, status, total_qty, total_price, created_at, updated_at FROM bills WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if bill.Status != model.BillStatusDraft {
		return nil, fmt.Errorf("bill %s is not a draft", id)
	}

	var totals struct {
		Qty   int     `db:"qty"`
		Total float64 `db:"total"`
	}
	err = tx.GetContext(ctx, &totals, `
        SELECT COALESCE(COUNT(*), 0) AS qty, COALESCE(SUM(p.sell_price), 0) AS total
        FROM bill_tags bt
        JOIN products p ON p.id = bt.product_id
        WHERE bt.bill_id = $1
    `, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	_, err = tx.ExecContext(ctx,
		`UPDATE bills SET status = $1, total_qty = $2, total_price = $3, updated_at = $4 WHERE id = $5`,
		model.BillStatusPaid, totals.Qty, totals.Total, now, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	bill.Status = model.BillStatusPaid
	bill.TotalQty = totals.Qty
	bill.TotalPrice = totals.Total
	bill.UpdatedAt = now
	return &bill, nil
}
