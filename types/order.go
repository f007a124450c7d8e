package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

var ErrNotAQuantity = errors.New("not a share quantity")

// Order is a request to fill Quantity shares of Symbol at the current market price.
type Order struct {
	Symbol   string
	Quantity int64
	Side     Side
}

func NewOrder(symbol string, quantity int64, side Side) Order {
	return Order{
		Symbol:   symbol,
		Quantity: quantity,
		Side:     side,
	}
}

// ParseQuantity reads a share count from text or a decoded JSON value.
// Text is read in base 10 only; JSON numbers are truncated toward zero.
// Anything else, booleans included, is rejected.
func ParseQuantity(v any) (int64, error) {
	switch q := v.(type) {
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(q), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrNotAQuantity, q)
		}
		return n, nil
	case float64:
		return cast.ToInt64E(q)
	default:
		return 0, fmt.Errorf("%w: %T", ErrNotAQuantity, v)
	}
}
