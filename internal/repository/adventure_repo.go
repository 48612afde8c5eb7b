package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"trekhive-backend/internal/models"
)

// AdventureRepo serves the adventures catalog. The catalog is read-only from
// this service; rows are managed out of band.
type AdventureRepo struct {
	pool *pgxpool.Pool
}

func NewAdventureRepo(pool *pgxpool.Pool) *AdventureRepo {
	return &AdventureRepo{pool: pool}
}

const adventureColumns = `id, name, location, description, difficulty, duration, price,
	images, rating, distance, latitude, longitude, category, max_group_size, created_at`

func (r *AdventureRepo) List(ctx context.Context, filter models.AdventureFilter) ([]*models.Adventure, int, error) {
	var args []interface{}
	argIdx := 1

	where := "WHERE TRUE"
	if filter.Category != "" {
		where += fmt.Sprintf(" AND category = $%d", argIdx)
		args = append(args, filter.Category)
		argIdx++
	}
	if filter.Difficulty != "" {
		where += fmt.Sprintf(" AND LOWER(difficulty) = LOWER($%d)", argIdx)
		args = append(args, filter.Difficulty)
		argIdx++
	}
	if filter.Search != "" {
		where += fmt.Sprintf(" AND (name ILIKE $%d OR location ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}
	if filter.MinPrice > 0 {
		where += fmt.Sprintf(" AND price >= $%d", argIdx)
		args = append(args, filter.MinPrice)
		argIdx++
	}
	if filter.MaxPrice > 0 {
		where += fmt.Sprintf(" AND price <= $%d", argIdx)
		args = append(args, filter.MaxPrice)
		argIdx++
	}

	// Count total
	var total int
	countQuery := "SELECT COUNT(*) FROM adventures " + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM adventures %s ORDER BY rating DESC, name ASC LIMIT $%d OFFSET $%d`,
		adventureColumns, where, argIdx, argIdx+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var adventures []*models.Adventure
	for rows.Next() {
		a := &models.Adventure{}
		err := rows.Scan(
			&a.ID, &a.Name, &a.Location, &a.Description, &a.Difficulty, &a.Duration, &a.Price,
			&a.Images, &a.Rating, &a.Distance, &a.Latitude, &a.Longitude, &a.Category,
			&a.MaxGroupSize, &a.CreatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		adventures = append(adventures, a)
	}

	return adventures, total, rows.Err()
}

func (r *AdventureRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Adventure, error) {
	a := &models.Adventure{}
	query := fmt.Sprintf("SELECT %s FROM adventures WHERE id = $1", adventureColumns)

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.Name, &a.Location, &a.Description, &a.Difficulty, &a.Duration, &a.Price,
		&a.Images, &a.Rating, &a.Distance, &a.Latitude, &a.Longitude, &a.Category,
		&a.MaxGroupSize, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Markers returns the projection the map widget plots. Rows without
// coordinates are excluded.
func (r *AdventureRepo) Markers(ctx context.Context) ([]models.AdventureMarker, error) {
	query := `SELECT id, name, location, price, rating, latitude, longitude
		FROM adventures
		WHERE latitude IS NOT NULL AND longitude IS NOT NULL
		ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var markers []models.AdventureMarker
	for rows.Next() {
		var m models.AdventureMarker
		if err := rows.Scan(&m.ID, &m.Name, &m.Location, &m.Price, &m.Rating, &m.Latitude, &m.Longitude); err != nil {
			return nil, err
		}
		markers = append(markers, m)
	}

	return markers, rows.Err()
}
