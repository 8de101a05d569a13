package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	apperrors "github.com/jith101/Back-End-Developer-Assignment/pkg/errors"
	"github.com/jith101/Back-End-Developer-Assignment/pkg/pagination"
)

// Column limits for products, matching the NUMERIC(10,2) and VARCHAR(255) schema.
const (
	MaxProductNameLength = 255
	PriceDecimalPlaces   = 2
	PriceMaxDigits       = 10
)

var maxPrice = decimal.New(1, PriceMaxDigits-PriceDecimalPlaces)

// Product is an item that regular users review.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	// CreatedBy is nil once the creating user has been removed.
	CreatedBy *string
	Creator   *UserSummary
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate enforces the product field invariants.
func (p *Product) Validate() error {
	fields := map[string]string{}
	if msg := validateName(p.Name); msg != "" {
		fields["name"] = msg
	}
	if msg := priceMessage(p.Price); msg != "" {
		fields["price"] = msg
	}
	if len(fields) > 0 {
		return apperrors.InvalidFields(fields)
	}
	return nil
}

func validateName(name string) string {
	switch {
	case strings.TrimSpace(name) == "":
		return "This field may not be blank."
	case utf8.RuneCountInString(name) > MaxProductNameLength:
		return "Ensure this field has no more than 255 characters."
	}
	return ""
}

// ValidatePrice checks that a price is positive, has at most two fractional
// digits and fits ten digits in total.
func ValidatePrice(price decimal.Decimal) error {
	if msg := priceMessage(price); msg != "" {
		return apperrors.InvalidField("price", msg)
	}
	return nil
}

func priceMessage(price decimal.Decimal) string {
	switch {
	case !price.IsPositive():
		return "Price must be greater than zero."
	case !price.Equal(price.Round(PriceDecimalPlaces)):
		return "Ensure that there are no more than 2 decimal places."
	case price.GreaterThanOrEqual(maxPrice):
		return "Ensure that there are no more than 10 digits in total."
	}
	return ""
}

// FormatPrice renders a price with exactly two fractional digits.
func FormatPrice(price decimal.Decimal) string {
	return price.StringFixed(PriceDecimalPlaces)
}

// ProductSummary is a product list entry with its derived rating figures.
type ProductSummary struct {
	Product
	Stats RatingStats
}

// ProductDetail is a product with its derived rating figures and one page of
// its reviews, newest first.
type ProductDetail struct {
	Product
	Stats   RatingStats
	Reviews pagination.Page[Review]
}
