package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/warekit/rfid-scan-service/internal/model"
	"github.com/warekit/rfid-scan-service/internal/tag/dto"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) GetByUID(ctx context.Context, uid string) (*model.Tag, error) {
	var t model.Tag
	query := `SELECT uid, product_id, status, created_at, updated_at FROM tags WHERE uid = $1`
	err := r.DB.GetContext(ctx, &t, query, uid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Caller decides whether an unknown tag is an error
		}
		return nil, err
	}
	return &t, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.TagFilters) ([]model.Tag, int, error) {
	var items []model.Tag
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.Status != "" {
		conditions = append(conditions, "status = :status")
		args["status"] = f.Status
	}
	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM tags" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT uid, product_id, status, created_at, updated_at FROM tags" + whereClause + " ORDER BY updated_at DESC"
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

func (r *PGRepository) Create(ctx context.Context, t *model.Tag) error {
	query := `
        INSERT INTO tags (uid, product_id, status, created_at, updated_at)
        VALUES (:uid, :product_id, :status, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, t)
	return err
}

func (r *PGRepository) UpdateStatus(ctx context.Context, uid, status string) error {
	query := `UPDATE tags SET status = $1, updated_at = $2 WHERE uid = $3`
	res, err := r.DB.ExecContext(ctx, query, status, time.Now(), uid)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("tag %s not found", uid)
	}
	return nil
}
