package ledger

import "errors"

var (
	// ErrOutOfStock indicates a sale against an item with no stock left.
	ErrOutOfStock = errors.New("item is out of stock")
	// ErrInsufficientStock indicates a decrement larger than the stock on hand.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrDuplicateItem indicates an insert that collides with an existing label.
	ErrDuplicateItem = errors.New("item already exists")
	// ErrMissingField indicates a required field was left blank.
	ErrMissingField = errors.New("required field missing")
	// ErrItemNotFound indicates an inventory row index outside the snapshot.
	ErrItemNotFound = errors.New("inventory item not found")
	// ErrInvalidExchangeRate indicates a non-positive exchange rate.
	ErrInvalidExchangeRate = errors.New("exchange rate must be positive")
	// ErrInvalidPrice indicates a negative monetary amount.
	ErrInvalidPrice = errors.New("amount must not be negative")
	// ErrInvalidQuantity indicates a quantity outside the accepted range.
	ErrInvalidQuantity = errors.New("invalid quantity")
	// ErrInvalidStockChange indicates an unknown adjustment kind.
	ErrInvalidStockChange = errors.New("unknown stock change")
	// ErrInvalidCategory indicates an expense category outside the enumeration.
	ErrInvalidCategory = errors.New("unknown expense category")
	// ErrInvalidStatus indicates a service order status outside the enumeration.
	ErrInvalidStatus = errors.New("unknown order status")
	// ErrOrderNotFound indicates no service order carries the requested id.
	ErrOrderNotFound = errors.New("service order not found")
	// ErrOrderClosed indicates an attempt to modify a completed service order.
	ErrOrderClosed = errors.New("service order already completed")
)
