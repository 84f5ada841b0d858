package expense

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ParseAmount coerces a provider amount value into an integer number of won.
// The provider is inconsistent: the same field arrives as "12,345", "12345",
// a bare JSON number, or is missing entirely. Anything unparseable is 0;
// a bad amount must not abort the batch it came in.
func ParseAmount(v any) int64 {
	switch val := v.(type) {
	case nil:
		return 0
	case int:
		return int64(val)
	case int64:
		return val
	case float64:
		return int64(val)
	case json.Number:
		n, err := val.Int64()
		if err != nil {
			return 0
		}
		return n
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(val, ",", ""))
		if s == "" {
			return 0
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}
