package sim

import "fmt"

// ConfigValidationError reports a structurally invalid SimulationConfig.
// It is returned before the day loop starts; no partial result accompanies it.
type ConfigValidationError struct {
	Field  string // offending config key (snake_case, as in YAML/JSON)
	Detail string // human-readable explanation, suitable for a "detail" payload
}

func (e *ConfigValidationError) Error() string {
	if e.Field == "" {
		return "invalid config: " + e.Detail
	}
	return fmt.Sprintf("invalid config: %s: %s", e.Field, e.Detail)
}

// ComputationError reports a broken internal invariant (negative carried stock,
// order id collision). It signals a programming error, not bad input.
type ComputationError struct {
	Day    int
	Detail string
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("simulation invariant violated on day %d: %s", e.Day, e.Detail)
}

func invalid(field, format string, args ...any) *ConfigValidationError {
	return &ConfigValidationError{Field: field, Detail: fmt.Sprintf(format, args...)}
}
