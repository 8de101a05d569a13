// Package policy holds the access decision table for product and review operations.
package policy

import (
	"github.com/jith101/Back-End-Developer-Assignment/internal/domain"
	apperrors "github.com/jith101/Back-End-Developer-Assignment/pkg/errors"
)

// Operation names an action subject to authorization.
type Operation string

const (
	ReadProduct   Operation = "read_product"
	CreateProduct Operation = "create_product"
	UpdateProduct Operation = "update_product"
	DeleteProduct Operation = "delete_product"
	ReadReview    Operation = "read_review"
	CreateReview  Operation = "create_review"
	UpdateReview  Operation = "update_review"
	DeleteReview  Operation = "delete_review"
)

// Caller-facing refusal messages.
const (
	MsgAuthRequired   = "Authentication credentials were not provided."
	MsgAdminOnly      = "Only admin users can perform this action."
	MsgRegularOnly    = "Only regular users can create reviews."
	MsgOwnReviewsOnly = "You can only edit your own reviews."
)

// Authorize decides whether the actor may perform op. Review operations that
// target an existing review pass it; others pass nil. Anonymous actors are
// refused writes with Unauthorized, authenticated actors lacking the role or
// ownership with Forbidden.
//
// The uniqueness half of the create review rule is not decided here; it needs
// storage and is enforced by the review service and the database.
func Authorize(actor domain.Actor, op Operation, review *domain.Review) error {
	switch op {
	case ReadProduct, ReadReview:
		return nil
	}

	if err := Authenticated(actor); err != nil {
		return err
	}

	switch op {
	case CreateProduct, UpdateProduct, DeleteProduct:
		if !actor.IsAdmin() {
			return apperrors.Forbidden(MsgAdminOnly)
		}
		return nil
	case CreateReview:
		if !actor.IsRegular() {
			return apperrors.Forbidden(MsgRegularOnly)
		}
		return nil
	case UpdateReview, DeleteReview:
		if review == nil || !review.WrittenBy(actor) {
			return apperrors.Forbidden(MsgOwnReviewsOnly)
		}
		return nil
	}

	return apperrors.Forbidden("unknown operation " + string(op))
}

// Authenticated refuses the anonymous actor. Operations that must look up a
// record before deciding call it first so anonymous callers see 401, not 404.
func Authenticated(actor domain.Actor) error {
	if actor.IsAnonymous() {
		return apperrors.Unauthorized(MsgAuthRequired)
	}
	return nil
}

// CanEdit is the can_edit flag shown with a review. It is presentation only;
// Authorize remains the gate.
func CanEdit(actor domain.Actor, review *domain.Review) bool {
	return Authorize(actor, UpdateReview, review) == nil
}
