package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"trekhive-backend/internal/models"
)

type TripRepo struct {
	pool *pgxpool.Pool
}

func NewTripRepo(pool *pgxpool.Pool) *TripRepo {
	return &TripRepo{pool: pool}
}

func (r *TripRepo) Create(ctx context.Context, rec *models.TripRecommendation) error {
	rec.ID = uuid.New()

	query := `INSERT INTO trip_recommendations (id, user_id, destination, from_date, to_date, budget, plan)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		rec.ID, rec.UserID, rec.Destination, rec.FromDate, rec.ToDate, rec.Budget, rec.Plan,
	).Scan(&rec.CreatedAt)
}

func (r *TripRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.TripRecommendation, error) {
	rec := &models.TripRecommendation{}
	query := `SELECT id, user_id, destination, from_date, to_date, budget, plan, created_at
		FROM trip_recommendations WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&rec.ID, &rec.UserID, &rec.Destination, &rec.FromDate, &rec.ToDate,
		&rec.Budget, &rec.Plan, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *TripRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.TripRecommendation, int, error) {
	var total int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM trip_recommendations WHERE user_id = $1", userID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query := `SELECT id, user_id, destination, from_date, to_date, budget, plan, created_at
		FROM trip_recommendations WHERE user_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var recs []*models.TripRecommendation
	for rows.Next() {
		rec := &models.TripRecommendation{}
		err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.Destination, &rec.FromDate, &rec.ToDate,
			&rec.Budget, &rec.Plan, &rec.CreatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		recs = append(recs, rec)
	}

	return recs, total, rows.Err()
}

func (r *TripRepo) Delete(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, "DELETE FROM trip_recommendations WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
