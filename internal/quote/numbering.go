package quote

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	QuoteNumberPrefix = "DEV"
	OrderNumberPrefix = "CMD"
)

// NextNumber produces the next sequential document number for a year,
// formatted as PREFIX-YYYY-NNNN. maxExisting is the highest number
// already issued for that year, or empty when none exists. The max
// queries order by length before value so a five-digit suffix outranks
// every four-digit one.
func NextNumber(prefix string, year int, maxExisting string) string {
	seq := 0
	if maxExisting != "" {
		if i := strings.LastIndex(maxExisting, "-"); i >= 0 {
			if n, err := strconv.Atoi(maxExisting[i+1:]); err == nil {
				seq = n
			}
		}
	}
	return fmt.Sprintf("%s-%d-%04d", prefix, year, seq+1)
}

// NumberPattern is the LIKE pattern matching all numbers of a year.
func NumberPattern(prefix string, year int) string {
	return fmt.Sprintf("%s-%d-%%", prefix, year)
}
