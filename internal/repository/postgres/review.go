package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jith101/Back-End-Developer-Assignment/internal/domain"
	"github.com/jith101/Back-End-Developer-Assignment/internal/repository"
	"github.com/jith101/Back-End-Developer-Assignment/pkg/database"
	apperrors "github.com/jith101/Back-End-Developer-Assignment/pkg/errors"
)

// ReviewRepository implements review persistence operations using PostgreSQL.
type ReviewRepository struct {
	db database.DBTX
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(db database.DBTX) *ReviewRepository {
	return &ReviewRepository{db: db}
}

var _ repository.ReviewRepository = (*ReviewRepository)(nil)

const reviewSelect = `
		SELECT r.id, r.product_id, r.user_id, r.rating, r.comment, r.created_at, r.updated_at,
		       u.email, u.first_name, u.last_name`

// CreateIfAbsent inserts the review in a single statement guarded by the
// (product_id, user_id) unique constraint, so concurrent attempts by the same
// user leave exactly one row.
func (r *ReviewRepository) CreateIfAbsent(ctx context.Context, review *domain.Review) (bool, error) {
	if err := review.Validate(); err != nil {
		return false, err
	}

	query := `
		INSERT INTO reviews (id, product_id, user_id, rating, comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT ON CONSTRAINT reviews_product_user_key DO NOTHING
		RETURNING id`

	var id string
	err := r.db.QueryRow(ctx, query,
		review.ID,
		review.ProductID,
		review.UserID,
		review.Rating,
		review.Comment,
		review.CreatedAt,
		review.UpdatedAt,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, translate(err, "insert review")
	}

	return true, nil
}

// GetByID retrieves a review and its author by its ID.
func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	query := reviewSelect + `
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.id = $1`

	rv, err := scanReview(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("review", id)
		}
		return nil, fmt.Errorf("get review: %w", err)
	}

	return rv, nil
}

// ExistsForUser reports whether the user already reviewed the product.
func (r *ReviewRepository) ExistsForUser(ctx context.Context, productID, userID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM reviews WHERE product_id = $1 AND user_id = $2)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, productID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check existing review: %w", err)
	}

	return exists, nil
}

// ListByProduct returns every review of a product, newest first.
func (r *ReviewRepository) ListByProduct(ctx context.Context, productID string) ([]domain.Review, error) {
	query := reviewSelect + `
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.product_id = $1
		ORDER BY r.created_at DESC, r.id DESC`

	rows, err := r.db.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, *rv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}

	if reviews == nil {
		reviews = []domain.Review{}
	}

	return reviews, nil
}

// ListByProductPage returns a window of a product's reviews, newest first,
// together with the product's total review count.
func (r *ReviewRepository) ListByProductPage(ctx context.Context, productID string, limit, offset int) ([]domain.Review, int, error) {
	query := reviewSelect + `,
		       count(*) OVER() AS total_count
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.product_id = $1
		ORDER BY r.created_at DESC, r.id DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, productID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews page: %w", err)
	}
	defer rows.Close()

	var (
		reviews    []domain.Review
		totalCount int
	)

	for rows.Next() {
		rv, err := scanReview(rows, &totalCount)
		if err != nil {
			return nil, 0, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, *rv)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate review rows: %w", err)
	}

	if reviews == nil {
		reviews = []domain.Review{}
		// An offset past the end returns no rows and therefore no window count.
		if offset > 0 {
			if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reviews WHERE product_id = $1`, productID).Scan(&totalCount); err != nil {
				return nil, 0, fmt.Errorf("count reviews: %w", err)
			}
		}
	}

	return reviews, totalCount, nil
}

// Update modifies the rating and comment of an existing review.
func (r *ReviewRepository) Update(ctx context.Context, review *domain.Review) error {
	if err := review.Validate(); err != nil {
		return err
	}

	review.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE reviews
		SET rating = $1, comment = $2, updated_at = $3
		WHERE id = $4`

	ct, err := r.db.Exec(ctx, query,
		review.Rating,
		review.Comment,
		review.UpdatedAt,
		review.ID,
	)
	if err != nil {
		return translate(err, "update review")
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("review", review.ID)
	}

	return nil
}

// Delete removes a review from the database by its ID.
func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("review", id)
	}

	return nil
}

// RatingHistogram counts a product's reviews per rating.
func (r *ReviewRepository) RatingHistogram(ctx context.Context, productID string) (map[int]int, error) {
	query := `
		SELECT rating, COUNT(*)
		FROM reviews
		WHERE product_id = $1
		GROUP BY rating`

	rows, err := r.db.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("rating histogram: %w", err)
	}
	defer rows.Close()

	hist := make(map[int]int)
	for rows.Next() {
		var rating, n int
		if err := rows.Scan(&rating, &n); err != nil {
			return nil, fmt.Errorf("scan histogram row: %w", err)
		}
		hist[rating] = n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate histogram rows: %w", err)
	}

	return hist, nil
}

// RatingHistograms counts reviews per rating for several products at once.
func (r *ReviewRepository) RatingHistograms(ctx context.Context, productIDs []string) (map[string]map[int]int, error) {
	out := make(map[string]map[int]int, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}

	query := `
		SELECT product_id, rating, COUNT(*)
		FROM reviews
		WHERE product_id = ANY($1::uuid[])
		GROUP BY product_id, rating`

	rows, err := r.db.Query(ctx, query, productIDs)
	if err != nil {
		return nil, fmt.Errorf("rating histograms: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			productID string
			rating, n int
		)
		if err := rows.Scan(&productID, &rating, &n); err != nil {
			return nil, fmt.Errorf("scan histogram row: %w", err)
		}
		if out[productID] == nil {
			out[productID] = make(map[int]int)
		}
		out[productID][rating] = n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate histogram rows: %w", err)
	}

	return out, nil
}

// scanReview reads one review row. Extra destinations receive trailing columns.
func scanReview(row pgx.Row, extra ...any) (*domain.Review, error) {
	var (
		rv     domain.Review
		author domain.UserSummary
	)

	dest := []any{
		&rv.ID,
		&rv.ProductID,
		&rv.UserID,
		&rv.Rating,
		&rv.Comment,
		&rv.CreatedAt,
		&rv.UpdatedAt,
		&author.Email,
		&author.FirstName,
		&author.LastName,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	author.ID = rv.UserID
	rv.Author = &author

	return &rv, nil
}
