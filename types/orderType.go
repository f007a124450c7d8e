package types

import (
	"errors"
	"fmt"
	"strings"
)

type Side string

const (
	SideTypeBuy  Side = "buy"
	SideTypeSell Side = "sell"
)

var ErrUnknownSide = errors.New("unknown order side")

// ParseSide accepts "buy" or "sell" in any case.
func ParseSide(s string) (Side, error) {
	switch side := Side(strings.ToLower(strings.TrimSpace(s))); side {
	case SideTypeBuy, SideTypeSell:
		return side, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSide, s)
}

func (s Side) Valid() bool {
	return s == SideTypeBuy || s == SideTypeSell
}
