package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/medreview-console/internal/domain"
)

// ReviewFilter captures moderation listing parameters.
type ReviewFilter struct {
	Statuses []domain.ReviewStatus
	DoctorID *string
	Search   *string
	Limit    int
	Offset   int
}

// ReviewWithDoctor joins a review with the doctor fields the console lists.
type ReviewWithDoctor struct {
	domain.Review
	DoctorName      string
	DoctorSpecialty string
}

// StatusStamp is a review reduced to status and creation time for analytics.
type StatusStamp struct {
	Status    domain.ReviewStatus
	CreatedAt time.Time
}

// RatingStamp is an approved review reduced to rating and creation time.
type RatingStamp struct {
	Rating    int
	CreatedAt time.Time
}

// ReviewRepository encapsulates review persistence.
type ReviewRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Review, error)
	ListWithFilter(ctx context.Context, filter ReviewFilter) ([]ReviewWithDoctor, error)
	UpdateStatus(ctx context.Context, id string, status domain.ReviewStatus) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context, status domain.ReviewStatus) (int, error)
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int, error)
	ListCreatedSince(ctx context.Context, since time.Time) ([]StatusStamp, error)
	ListApprovedRatingsSince(ctx context.Context, since time.Time) ([]RatingStamp, error)
}

type reviewRepository struct {
	pool *pgxpool.Pool
}

// NewReviewRepository instantiates repository.
func NewReviewRepository(pool *pgxpool.Pool) ReviewRepository {
	return &reviewRepository{pool: pool}
}

func (r *reviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	const query = `
        SELECT id, doctor_id, patient_name, email, rating, review_text, status, created_at, updated_at
        FROM reviews WHERE id=$1`

	var review domain.Review
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&review.ID,
		&review.DoctorID,
		&review.PatientName,
		&review.Email,
		&review.Rating,
		&review.Text,
		&review.Status,
		&review.CreatedAt,
		&review.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) ListWithFilter(ctx context.Context, filter ReviewFilter) ([]ReviewWithDoctor, error) {
	base := `SELECT r.id, r.doctor_id, r.patient_name, r.email, r.rating, r.review_text, r.status,
                    r.created_at, r.updated_at, d.name, d.specialty
             FROM reviews r
             JOIN doctors d ON d.id = r.doctor_id`
	clauses := []string{"1=1"}
	args := []any{}

	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("r.status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.DoctorID != nil {
		args = append(args, *filter.DoctorID)
		clauses = append(clauses, fmt.Sprintf("r.doctor_id=$%d", len(args)))
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.Search)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(r.patient_name) LIKE %s OR LOWER(r.review_text) LIKE %s)", placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY r.created_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ReviewWithDoctor
	for rows.Next() {
		var review ReviewWithDoctor
		if err := rows.Scan(
			&review.ID,
			&review.DoctorID,
			&review.PatientName,
			&review.Email,
			&review.Rating,
			&review.Text,
			&review.Status,
			&review.CreatedAt,
			&review.UpdatedAt,
			&review.DoctorName,
			&review.DoctorSpecialty,
		); err != nil {
			return nil, err
		}
		result = append(result, review)
	}
	return result, rows.Err()
}

func (r *reviewRepository) UpdateStatus(ctx context.Context, id string, status domain.ReviewStatus) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE reviews SET status=$1, updated_at=NOW() WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *reviewRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM reviews`).Scan(&count)
	return count, err
}

func (r *reviewRepository) CountByStatus(ctx context.Context, status domain.ReviewStatus) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM reviews WHERE status=$1`, status).Scan(&count)
	return count, err
}

func (r *reviewRepository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM reviews WHERE created_at >= $1 AND created_at < $2`,
		from, to,
	).Scan(&count)
	return count, err
}

func (r *reviewRepository) ListCreatedSince(ctx context.Context, since time.Time) ([]StatusStamp, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT status, created_at FROM reviews WHERE created_at >= $1`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []StatusStamp
	for rows.Next() {
		var stamp StatusStamp
		if err := rows.Scan(&stamp.Status, &stamp.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, stamp)
	}
	return result, rows.Err()
}

func (r *reviewRepository) ListApprovedRatingsSince(ctx context.Context, since time.Time) ([]RatingStamp, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT rating, created_at FROM reviews WHERE status='approved' AND created_at >= $1`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []RatingStamp
	for rows.Next() {
		var stamp RatingStamp
		if err := rows.Scan(&stamp.Rating, &stamp.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, stamp)
	}
	return result, rows.Err()
}
