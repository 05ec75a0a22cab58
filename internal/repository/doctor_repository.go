package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/medreview-console/internal/domain"
)

// DoctorRepository encapsulates doctor persistence.
type DoctorRepository interface {
	Create(ctx context.Context, doctor *domain.Doctor) error
	Update(ctx context.Context, doctor *domain.Doctor) error
	GetByID(ctx context.Context, id string) (*domain.Doctor, error)
	List(ctx context.Context) ([]domain.Doctor, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	RecomputeAggregates(ctx context.Context, doctorID string) error
}

type doctorRepository struct {
	pool *pgxpool.Pool
}

// NewDoctorRepository instantiates repository.
func NewDoctorRepository(pool *pgxpool.Pool) DoctorRepository {
	return &doctorRepository{pool: pool}
}

func (r *doctorRepository) Create(ctx context.Context, doctor *domain.Doctor) error {
	const query = `
        INSERT INTO doctors (name, specialty)
        VALUES ($1, $2)
        RETURNING id, average_rating, total_reviews, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		doctor.Name,
		doctor.Specialty,
	).Scan(&doctor.ID, &doctor.AverageRating, &doctor.TotalReviews, &doctor.CreatedAt, &doctor.UpdatedAt)
}

func (r *doctorRepository) Update(ctx context.Context, doctor *domain.Doctor) error {
	const query = `
        UPDATE doctors SET name=$1, specialty=$2, updated_at=NOW()
        WHERE id=$3`

	cmd, err := r.pool.Exec(ctx, query, doctor.Name, doctor.Specialty, doctor.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *doctorRepository) GetByID(ctx context.Context, id string) (*domain.Doctor, error) {
	const query = `
        SELECT id, name, specialty, average_rating, total_reviews, created_at, updated_at
        FROM doctors WHERE id=$1`

	var doctor domain.Doctor
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&doctor.ID,
		&doctor.Name,
		&doctor.Specialty,
		&doctor.AverageRating,
		&doctor.TotalReviews,
		&doctor.CreatedAt,
		&doctor.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) List(ctx context.Context) ([]domain.Doctor, error) {
	const query = `
        SELECT id, name, specialty, average_rating, total_reviews, created_at, updated_at
        FROM doctors ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Doctor
	for rows.Next() {
		var doctor domain.Doctor
		if err := rows.Scan(
			&doctor.ID,
			&doctor.Name,
			&doctor.Specialty,
			&doctor.AverageRating,
			&doctor.TotalReviews,
			&doctor.CreatedAt,
			&doctor.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, doctor)
	}
	return result, rows.Err()
}

func (r *doctorRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM doctors WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *doctorRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM doctors`).Scan(&count)
	return count, err
}

// RecomputeAggregates refreshes average_rating and total_reviews from the
// approved reviews of the doctor. Called whenever a review's status moves
// to or from approved, or an approved review is removed.
func (r *doctorRepository) RecomputeAggregates(ctx context.Context, doctorID string) error {
	const query = `
        UPDATE doctors SET
            average_rating = COALESCE((SELECT AVG(rating) FROM reviews WHERE doctor_id=$1 AND status='approved'), 0),
            total_reviews  = (SELECT COUNT(*) FROM reviews WHERE doctor_id=$1 AND status='approved'),
            updated_at = NOW()
        WHERE id=$1`

	_, err := r.pool.Exec(ctx, query, doctorID)
	return err
}
