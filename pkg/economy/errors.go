package economy

import "errors"

var (
	ErrInvalidID       = errors.New("guild and member IDs must be non-empty and cannot contain '.'")
	ErrReservedID      = errors.New("the member ID is reserved for guild data")
	ErrInvalidItem     = errors.New("invalid shop item")
	ErrInvalidField    = errors.New("unknown or invalid field")
	ErrInvalidSetting  = errors.New("unknown setting or invalid setting value")
	ErrInvalidAmount   = errors.New("amount must be a finite number")
	ErrInvalidCurrency = errors.New("invalid currency")
)
