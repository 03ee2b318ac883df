package metrics

import (
	"strings"

	"go.opentelemetry.io/otel/attribute"
)

type Config struct {
	ServiceName string
	Environment string
}

func (c Config) serviceName() string {
	if name := strings.TrimSpace(c.ServiceName); name != "" {
		return name
	}
	return "quotely"
}

func (c Config) environment() string {
	if env := strings.TrimSpace(c.Environment); env != "" {
		return env
	}
	return "unknown"
}

// allowedAttributeKeys keeps metric label cardinality bounded.
var allowedAttributeKeys = map[attribute.Key]struct{}{
	"endpoint":    {},
	"status_code": {},
	"method":      {},
}

// FilterAttributes drops attributes outside the low-cardinality allow list.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	out := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedAttributeKeys[attr.Key]; ok {
			out = append(out, attr)
		}
	}
	return out
}
