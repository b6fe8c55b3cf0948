package student

import (
	"strconv"
	"strings"

	"github.com/trezcool/shule/core"
)

var scoreRangeText = "must be an integer between 0 and 100"

// ParseScore parses a raw marks/attendance value. It never fails hard:
// non-integer input or a value outside [0, 100] returns ok == false.
func ParseScore(raw string) (int, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v < 0 || v > 100 {
		return 0, false
	}
	return v, true
}

// CleanRollNumber normalizes a roll number: trimmed and uppercased.
func CleanRollNumber(roll string) string {
	return strings.ToUpper(core.CleanString(roll))
}
