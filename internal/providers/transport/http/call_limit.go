package http

import (
	"strconv"
	"strings"
)

const callLimitHeader = "X-Shopify-Shop-Api-Call-Limit"

// CallLimit is the leaky-bucket state reported by the REST Admin API.
type CallLimit struct {
	Used int
	Max  int
}

func (c CallLimit) Remaining() int {
	if c.Max <= c.Used {
		return 0
	}
	return c.Max - c.Used
}

// Utilization is Used/Max, or zero when Max is unknown.
func (c CallLimit) Utilization() float64 {
	if c.Max <= 0 {
		return 0
	}
	return float64(c.Used) / float64(c.Max)
}

// ParseCallLimit parses "used/max" values such as "32/40".
func ParseCallLimit(value string) (CallLimit, bool) {
	usedRaw, maxRaw, found := strings.Cut(strings.TrimSpace(value), "/")
	if !found {
		return CallLimit{}, false
	}
	used, err := strconv.Atoi(strings.TrimSpace(usedRaw))
	if err != nil || used < 0 {
		return CallLimit{}, false
	}
	limit, err := strconv.Atoi(strings.TrimSpace(maxRaw))
	if err != nil || limit <= 0 {
		return CallLimit{}, false
	}
	return CallLimit{Used: used, Max: limit}, true
}
