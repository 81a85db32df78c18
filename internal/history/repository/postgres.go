package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/warekit/rfid-scan-service/internal/history/dto"
	"github.com/warekit/rfid-scan-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Find(ctx context.Context, f *dto.EventFilters) ([]model.TagEvent, int, error) {
	var items []model.TagEvent
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.UID != "" {
		conditions = append(conditions, "e.tag_uid ILIKE :uid")
		args["uid"] = "%" + f.UID + "%"
	}
	if f.Action != "" {
		conditions = append(conditions, "e.action = :action")
		args["action"] = f.Action
	}
	if f.Date != nil {
		dayStart := f.Date.Truncate(24 * time.Hour)
		conditions = append(conditions, "e.occurred_at >= :day_start AND e.occurred_at < :day_end")
		args["day_start"] = dayStart
		args["day_end"] = dayStart.AddDate(0, 0, 1)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM tag_events e" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := `
        SELECT e.id, e.tag_uid, e.action, e.session_id, e.occurred_at,
               p.name AS product_name, p.sku AS product_sku
        FROM tag_events e
        LEFT JOIN tags t ON t.uid = e.tag_uid
        LEFT JOIN products p ON p.id = t.product_id
    ` + whereClause + " ORDER BY e.occurred_at DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, err
}

func (r *PGRepository) CountDistinctTags(ctx context.Context, action string) (int, error) {
	var count int
	err := r.DB.GetContext(ctx, &count,
		`SELECT COUNT(DISTINCT tag_uid) FROM tag_events WHERE action = $1`, action)
	return count, err
}

func (r *PGRepository) DistinctTagTotals(ctx context.Context, action string) (int, float64, error) {
	var row struct {
		Qty   int     `db:"qty"`
		Total float64 `db:"total"`
	}
	query := `
        SELECT COUNT(*) AS qty, COALESCE(SUM(p.sell_price), 0) AS total
        FROM (SELECT DISTINCT tag_uid FROM tag_events WHERE action = $1) d
        LEFT JOIN tags t ON t.uid = d.tag_uid
        LEFT JOIN products p ON p.id = t.product_id
    `
	err := r.DB.GetContext(ctx, &row, query, action)
	return row.Qty, row.Total, err
}
