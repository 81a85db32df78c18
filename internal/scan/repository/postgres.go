package repository

import (
	"context"
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

func (r *PGRepository) ApplyReceive(ctx context.Context, assoc *model.LineAssociation, productID string, event *model.TagEvent) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Bind the tag to the line's product. A read of a blank, never-registered
	// tag registers it on the fly.
	upsertTag := `
        INSERT INTO tags (uid, product_id, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $4)
        ON CONFLICT (uid) DO UPDATE SET
            product_id = EXCLUDED.product_id,
            status = EXCLUDED.status,
            updated_at = EXCLUDED.updated_at
    `
	now := time.Now()
	if _, err = tx.ExecContext(ctx, upsertTag, assoc.TagUID, productID, model.TagStatusInStock, now); err != nil {
		return fmt.Errorf("failed to bind tag: %w", err)
	}

	insertAssoc := `
        INSERT INTO line_tags (line_id, tag_uid, session_id, created_at)
        VALUES (:line_id, :tag_uid, :session_id, :created_at)
    `
	if _, err = tx.NamedExecContext(ctx, insertAssoc, assoc); err != nil {
		return fmt.Errorf("failed to record association: %w", err)
	}

	if err = insertEvent(ctx, tx, event); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *PGRepository) ApplySell(ctx context.Context, assoc *model.BillAssociation, event *model.TagEvent) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	consume := `UPDATE tags SET status = $1, updated_at = $2 WHERE uid = $3`
	res, err := tx.ExecContext(ctx, consume, model.TagStatusSold, time.Now(), assoc.TagUID)
	if err != nil {
		return fmt.Errorf("failed to consume tag: %w", err)
	}
	if affected, err := res.RowsAffected(); err != nil {
		return err
	} else if affected == 0 {
		return fmt.Errorf("tag %s not found", assoc.TagUID)
	}

	insertAssoc := `
        INSERT INTO bill_tags (bill_id, tag_uid, product_id, session_id, created_at)
        VALUES (:bill_id, :tag_uid, :product_id, :session_id, :created_at)
    `
	if _, err = tx.NamedExecContext(ctx, insertAssoc, assoc); err != nil {
		return fmt.Errorf("failed to record association: %w", err)
	}

	if err = insertEvent(ctx, tx, event); err != nil {
		return err
	}

	return tx.Commit()
}

func insertEvent(ctx context.Context, tx *sqlx.Tx, event *model.TagEvent) error {
	query := `
        INSERT INTO tag_events (id, tag_uid, action, session_id, occurred_at)
        VALUES (:id, :tag_uid, :action, :session_id, :occurred_at)
    `
	if _, err := tx.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}
	return nil
}
