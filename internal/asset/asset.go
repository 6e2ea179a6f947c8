package asset

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxAmount is the largest amount a Quantity may carry. Amounts are kept
// below 2^62 so that adding two valid quantities can never overflow int64.
const MaxAmount int64 = (1 << 62) - 1

// maxCodeLen bounds a currency code to seven characters.
const maxCodeLen = 7

// Symbol identifies one fungible asset class: a short uppercase currency
// code plus a decimal precision. This ledger only registers symbols with
// precision zero, but the field is kept so that malformed input can be
// rejected explicitly rather than silently normalized.
type Symbol struct {
	Code      string
	Precision uint8
}

// NewSymbol builds a Symbol from a code and precision without validating it.
func NewSymbol(code string, precision uint8) Symbol {
	return Symbol{Code: code, Precision: precision}
}

// Valid reports whether the code is 1..7 uppercase letters A-Z.
func (s Symbol) Valid() bool {
	if len(s.Code) == 0 || len(s.Code) > maxCodeLen {
		return false
	}
	for i := 0; i < len(s.Code); i++ {
		if s.Code[i] < 'A' || s.Code[i] > 'Z' {
			return false
		}
	}
	return true
}

func (s Symbol) String() string {
	return s.Code
}

// Quantity is a signed integer amount bound to a Symbol. Two quantities
// combine only when their symbols match exactly.
type Quantity struct {
	Amount int64
	Symbol Symbol
}

// NewQuantity builds a Quantity without validating it.
func NewQuantity(amount int64, symbol Symbol) Quantity {
	return Quantity{Amount: amount, Symbol: symbol}
}

// Valid reports whether the symbol is well formed and the amount magnitude
// fits within MaxAmount.
func (q Quantity) Valid() bool {
	if !q.Symbol.Valid() {
		return false
	}
	return q.Amount >= -MaxAmount && q.Amount <= MaxAmount
}

// Add returns q + other, failing on a symbol mismatch.
func (q Quantity) Add(other Quantity) (Quantity, error) {
	if q.Symbol != other.Symbol {
		return Quantity{}, fmt.Errorf("symbol mismatch: %s vs %s", q.Symbol, other.Symbol)
	}
	return Quantity{Amount: q.Amount + other.Amount, Symbol: q.Symbol}, nil
}

// Sub returns q - other, failing on a symbol mismatch.
func (q Quantity) Sub(other Quantity) (Quantity, error) {
	if q.Symbol != other.Symbol {
		return Quantity{}, fmt.Errorf("symbol mismatch: %s vs %s", q.Symbol, other.Symbol)
	}
	return Quantity{Amount: q.Amount - other.Amount, Symbol: q.Symbol}, nil
}

// String renders a quantity as "<amount> <code>", e.g. "100 COU".
func (q Quantity) String() string {
	return fmt.Sprintf("%d %s", q.Amount, q.Symbol.Code)
}

// ParseQuantity parses the "<amount> <code>" form emitted by String.
// Parsed quantities always carry precision zero.
func ParseQuantity(s string) (Quantity, error) {
	parts := strings.Fields(s)
	if len(parts) != 2 {
		return Quantity{}, fmt.Errorf("malformed quantity %q, want \"<amount> <code>\"", s)
	}
	amount, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return Quantity{}, fmt.Errorf("malformed amount %q: %w", parts[0], err)
	}
	q := Quantity{Amount: amount, Symbol: NewSymbol(parts[1], 0)}
	if !q.Valid() {
		return Quantity{}, fmt.Errorf("invalid quantity %q", s)
	}
	return q, nil
}
