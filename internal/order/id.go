package order

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

const idPrefix = "LX-"

// NewID returns an order id of the form LX-XXXXX with a suffix in [10000, 99999].
func NewID() string {
	return fmt.Sprintf("%s%d", idPrefix, rand.IntN(90000)+10000)
}

// IsGeneratedID reports whether id has the shape produced by NewID.
func IsGeneratedID(id string) bool {
	suffix, ok := strings.CutPrefix(id, idPrefix)
	if !ok || len(suffix) != 5 || suffix[0] == '0' {
		return false
	}
	for _, r := range suffix {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
