package services

import "fmt"

// NotFoundError reports that a referenced entity does not exist. Any
// workflow that hits one aborts without persisting partial state.
type NotFoundError struct {
	Resource string
	ID       uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found with ID: %d", e.Resource, e.ID)
}

// DuplicateError reports a unique-key violation (client email, product SKU).
type DuplicateError struct {
	Resource string
	Field    string
	Value    string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s with %s %s already exists", e.Resource, e.Field, e.Value)
}

// InsufficientStockError reports that a line item requested more units than
// the product has available. The whole placement rolls back.
type InsufficientStockError struct {
	Product   string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s. Available: %d, Requested: %d",
		e.Product, e.Available, e.Requested)
}

// InvalidTransitionError is returned by the guarded status workflow when
// strict transitions are enabled and the move is not allowed.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}
