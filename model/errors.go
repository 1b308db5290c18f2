package model

import "errors"

// Sentinel errors returned by the service layer. Controllers translate these
// to HTTP statuses; anything unwrapped is treated as a storage failure.
var (
	ErrEmptyCart       = errors.New("order must contain at least one dish")
	ErrInvalidPlan     = errors.New("unrecognized meal plan type")
	ErrInvalidQuantity = errors.New("dish quantity must be at least 1")
	ErrDishUnavailable = errors.New("dish does not exist or is unavailable")
	ErrInvalidStatus   = errors.New("invalid order status")
	ErrOrderNotFound   = errors.New("order not found")
)
