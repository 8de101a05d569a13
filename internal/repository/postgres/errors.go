package postgres

import (
	"fmt"

	"github.com/jith101/Back-End-Developer-Assignment/internal/domain"
	"github.com/jith101/Back-End-Developer-Assignment/pkg/database"
	apperrors "github.com/jith101/Back-End-Developer-Assignment/pkg/errors"
)

// Named constraints from migrations/.
const (
	constraintReviewUnique  = "reviews_product_user_key"
	constraintReviewRating  = "reviews_rating_check"
	constraintReviewProduct = "reviews_product_id_fkey"
	constraintReviewUser    = "reviews_user_id_fkey"
	constraintUserEmail     = "users_email_key"
	constraintProductPrice  = "products_price_check"
	constraintProductName   = "products_name_check"
)

// translate maps integrity violations onto the domain error kinds so a raw
// storage error never reaches callers. Other errors are wrapped with op.
func translate(err error, op string) error {
	pgErr, ok := database.ConstraintError(err)
	if !ok {
		return fmt.Errorf("%s: %w", op, err)
	}

	switch pgErr.Code {
	case database.CodeUniqueViolation:
		switch pgErr.ConstraintName {
		case constraintReviewUnique:
			return apperrors.Conflict(domain.MsgDuplicateReview)
		case constraintUserEmail:
			return apperrors.Conflict(domain.MsgDuplicateEmail)
		}
		return apperrors.Conflict("duplicate value")
	case database.CodeCheckViolation:
		switch pgErr.ConstraintName {
		case constraintReviewRating:
			return apperrors.InvalidField("rating", "Rating must be between 1 and 5.")
		case constraintProductPrice:
			return apperrors.InvalidField("price", "Price must be greater than zero.")
		case constraintProductName:
			return apperrors.InvalidField("name", "This field may not be blank.")
		}
		return apperrors.InvalidInput("value violates a check constraint")
	case database.CodeForeignKeyViolation:
		switch pgErr.ConstraintName {
		case constraintReviewProduct:
			return apperrors.NotFoundMessage("product not found")
		case constraintReviewUser:
			return apperrors.NotFoundMessage("user not found")
		}
		return apperrors.NotFoundMessage("referenced record not found")
	case database.CodeNotNullViolation:
		return apperrors.InvalidField(pgErr.ColumnName, "This field is required.")
	}

	return fmt.Errorf("%s: %w", op, err)
}
