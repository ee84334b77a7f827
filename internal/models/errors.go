package models

import (
	"errors"
	"fmt"
)

// NotFoundError is returned when a referenced entity (product, cart, cart
// line, order, user) does not exist.
type NotFoundError struct {
	Entity string
	Ref    string
}

// Error implements the error interface for NotFoundError
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.Ref)
}

// Is allows error kind checking with errors.Is()
func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)
	return ok
}

// OutOfStockError is returned when a product exists but has zero stock,
// blocking even a first add to cart.
type OutOfStockError struct {
	ProductID int64
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("product %d is out of stock", e.ProductID)
}

func (e *OutOfStockError) Is(target error) bool {
	_, ok := target.(*OutOfStockError)
	return ok
}

// InsufficientStockError is returned when a requested quantity exceeds the
// available stock. It carries the numbers needed to render a user-facing
// message: available stock and, where relevant, the quantity already held
// in the cart.
type InsufficientStockError struct {
	ProductID int64
	Name      string
	Available int
	Requested int
	InCart    int
}

func (e *InsufficientStockError) Error() string {
	label := e.Name
	if label == "" {
		label = fmt.Sprintf("product %d", e.ProductID)
	}
	if e.InCart > 0 {
		return fmt.Sprintf("insufficient stock for %s: requested %d with %d already in cart, only %d available",
			label, e.Requested, e.InCart, e.Available)
	}
	return fmt.Sprintf("insufficient stock for %s: requested %d, only %d available",
		label, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	_, ok := target.(*InsufficientStockError)
	return ok
}

// ForbiddenError is returned when an action requires a precondition the
// actor has not met, e.g. reviewing a product without a qualifying purchase.
type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string {
	return "forbidden: " + e.Reason
}

func (e *ForbiddenError) Is(target error) bool {
	_, ok := target.(*ForbiddenError)
	return ok
}

// DuplicateReviewError is returned when a user already reviewed a product.
// Store-level unique index violations are translated to this same error.
type DuplicateReviewError struct {
	ProductID int64
}

func (e *DuplicateReviewError) Error() string {
	return fmt.Sprintf("product %d has already been reviewed by this user", e.ProductID)
}

func (e *DuplicateReviewError) Is(target error) bool {
	_, ok := target.(*DuplicateReviewError)
	return ok
}

// AlreadyCancelledError is the idempotency guard on order cancellation.
type AlreadyCancelledError struct {
	Code string
}

func (e *AlreadyCancelledError) Error() string {
	return fmt.Sprintf("order %s is already cancelled", e.Code)
}

func (e *AlreadyCancelledError) Is(target error) bool {
	_, ok := target.(*AlreadyCancelledError)
	return ok
}

// InvalidTransitionError is returned when an order status change violates
// the fulfillment state machine.
type InvalidTransitionError struct {
	Code string
	From OrderStatus
	To   OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("order %s cannot move from %s to %s", e.Code, e.From, e.To)
}

func (e *InvalidTransitionError) Is(target error) bool {
	_, ok := target.(*InvalidTransitionError)
	return ok
}

// ValidationError is returned when a request carries a value the entity
// rules reject, e.g. a negative price.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	_, ok := target.(*ValidationError)
	return ok
}

// ConflictError is returned when an insert collides with an existing
// entity, e.g. a taken product id or email address.
type ConflictError struct {
	Entity string
	Ref    string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already exists: %s", e.Entity, e.Ref)
}

func (e *ConflictError) Is(target error) bool {
	_, ok := target.(*ConflictError)
	return ok
}

// StoreFailureError wraps an underlying persistence error. It is propagated
// as an opaque failure and never retried internally.
type StoreFailureError struct {
	Op  string
	Err error
}

func (e *StoreFailureError) Error() string {
	return fmt.Sprintf("store failure during %s: %v", e.Op, e.Err)
}

func (e *StoreFailureError) Unwrap() error { return e.Err }

func (e *StoreFailureError) Is(target error) bool {
	_, ok := target.(*StoreFailureError)
	return ok
}

// Constructors

func NewNotFoundError(entity, ref string) error {
	return &NotFoundError{Entity: entity, Ref: ref}
}

func NewOutOfStockError(productID int64) error {
	return &OutOfStockError{ProductID: productID}
}

func NewForbiddenError(reason string) error {
	return &ForbiddenError{Reason: reason}
}

func NewDuplicateReviewError(productID int64) error {
	return &DuplicateReviewError{ProductID: productID}
}

func NewAlreadyCancelledError(code string) error {
	return &AlreadyCancelledError{Code: code}
}

func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func NewConflictError(entity, ref string) error {
	return &ConflictError{Entity: entity, Ref: ref}
}

func NewStoreFailureError(op string, err error) error {
	return &StoreFailureError{Op: op, Err: err}
}

// Kind checks for use with errors.As()

func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

func IsOutOfStock(err error) bool {
	var e *OutOfStockError
	return errors.As(err, &e)
}

func IsInsufficientStock(err error) bool {
	var e *InsufficientStockError
	return errors.As(err, &e)
}

func IsForbidden(err error) bool {
	var e *ForbiddenError
	return errors.As(err, &e)
}

func IsDuplicateReview(err error) bool {
	var e *DuplicateReviewError
	return errors.As(err, &e)
}

func IsAlreadyCancelled(err error) bool {
	var e *AlreadyCancelledError
	return errors.As(err, &e)
}

func IsInvalidTransition(err error) bool {
	var e *InvalidTransitionError
	return errors.As(err, &e)
}

func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

func IsConflict(err error) bool {
	var e *ConflictError
	return errors.As(err, &e)
}

func IsStoreFailure(err error) bool {
	var e *StoreFailureError
	return errors.As(err, &e)
}
