package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jith101/Back-End-Developer-Assignment/internal/domain"
	"github.com/jith101/Back-End-Developer-Assignment/internal/repository"
	"github.com/jith101/Back-End-Developer-Assignment/pkg/database"
	apperrors "github.com/jith101/Back-End-Developer-Assignment/pkg/errors"
)

// ProductRepository implements repository.ProductRepository using PostgreSQL.
type ProductRepository struct {
	db database.DBTX
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(db database.DBTX) *ProductRepository {
	return &ProductRepository{db: db}
}

var _ repository.ProductRepository = (*ProductRepository)(nil)

const productSelect = `
		SELECT p.id, p.name, p.description, p.price::text, p.created_by, p.created_at, p.updated_at,
		       u.email, u.first_name, u.last_name
		FROM products p
		LEFT JOIN users u ON u.id = p.created_by`

// Create inserts a new product into the database.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO products (id, name, description, price, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		p.ID,
		p.Name,
		p.Description,
		domain.FormatPrice(p.Price),
		p.CreatedBy,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return translate(err, "insert product")
	}

	return nil
}

// GetByID retrieves a product and its creator by its ID.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := productSelect + `
		WHERE p.id = $1`

	p, err := scanProduct(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	return p, nil
}

// List returns all products matching the filter, most recently created first.
func (r *ProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	var (
		where string
		args  []any
	)

	if search := strings.TrimSpace(filter.Search); search != "" {
		where = "WHERE p.name ILIKE $1"
		args = append(args, "%"+escapeLike(search)+"%")
	}

	query := fmt.Sprintf(`%s
		%s
		ORDER BY p.created_at DESC, p.id DESC`, productSelect, where)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	if products == nil {
		products = []domain.Product{}
	}

	return products, nil
}

// Update modifies an existing product in the database.
func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}

	p.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE products
		SET name = $1, description = $2, price = $3, updated_at = $4
		WHERE id = $5`

	ct, err := r.db.Exec(ctx, query,
		p.Name,
		p.Description,
		domain.FormatPrice(p.Price),
		p.UpdatedAt,
		p.ID,
	)
	if err != nil {
		return translate(err, "update product")
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", p.ID)
	}

	return nil
}

// Delete removes a product from the database by its ID. Its reviews go with it
// through the foreign key cascade.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", id)
	}

	return nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		p                  domain.Product
		price              string
		email, first, last *string
	)

	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&price,
		&p.CreatedBy,
		&p.CreatedAt,
		&p.UpdatedAt,
		&email,
		&first,
		&last,
	); err != nil {
		return nil, err
	}

	d, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("parse price %q: %w", price, err)
	}
	p.Price = d

	if p.CreatedBy != nil && email != nil {
		p.Creator = &domain.UserSummary{
			ID:        *p.CreatedBy,
			Email:     *email,
			FirstName: deref(first),
			LastName:  deref(last),
		}
	}

	return &p, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user input match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
