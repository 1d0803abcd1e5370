// Package subcategories stores user-defined subcategories in PostgreSQL.
package subcategories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/dmitrijs2005/budgetkeeper/internal/dbx"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, userID string, bucketID *string) ([]models.Subcategory, error) {
	query :=
		`SELECT id, user_id, bucket_id, name, color, icon, created_at FROM subcategories
		 WHERE user_id = $1 AND ($2::uuid IS NULL OR bucket_id = $2::uuid)
		 ORDER BY name
		 `

	rows, err := r.db.QueryContext(ctx, query, userID, bucketID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Subcategory, 0)
	for rows.Next() {
		var s models.Subcategory
		if err := rows.Scan(&s.ID, &s.UserID, &s.BucketID, &s.Name, &s.Color, &s.Icon, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Create(ctx context.Context, s *models.Subcategory) (*models.Subcategory, error) {
	query :=
		`INSERT INTO subcategories (user_id, bucket_id, name, color, icon)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query, s.UserID, s.BucketID, s.Name, s.Color, s.Icon).
		Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, id string) (*models.Subcategory, error) {
	query :=
		`SELECT id, user_id, bucket_id, name, color, icon, created_at FROM subcategories
		 WHERE id = $1 AND user_id = $2
		 `

	s := &models.Subcategory{}
	err := r.db.QueryRowContext(ctx, query, id, userID).
		Scan(&s.ID, &s.UserID, &s.BucketID, &s.Name, &s.Color, &s.Icon, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM subcategories WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
