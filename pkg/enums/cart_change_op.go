package enums

import "fmt"

// CartChangeOp names the committed cart mutation carried by a relay event.
type CartChangeOp string

const (
	CartChangeOpInsert    CartChangeOp = "insert"
	CartChangeOpUpdate    CartChangeOp = "update"
	CartChangeOpDelete    CartChangeOp = "delete"
	CartChangeOpDeleteAll CartChangeOp = "delete_all"
	CartChangeOpAddToCart CartChangeOp = "add_to_cart"
)

var validCartChangeOps = []CartChangeOp{
	CartChangeOpInsert,
	CartChangeOpUpdate,
	CartChangeOpDelete,
	CartChangeOpDeleteAll,
	CartChangeOpAddToCart,
}

// String implements fmt.Stringer.
func (c CartChangeOp) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CartChangeOp.
func (c CartChangeOp) IsValid() bool {
	for _, candidate := range validCartChangeOps {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCartChangeOp converts raw input into a CartChangeOp.
func ParseCartChangeOp(value string) (CartChangeOp, error) {
	for _, candidate := range validCartChangeOps {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid cart change op %q", value)
}
