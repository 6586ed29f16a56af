package cmd

import (
	"fmt"
	"strings"

	"puzzle/signal"

	"gopkg.in/yaml.v3"
)

// parseKwargs turns key=value arguments into signal keyword arguments.
// Values are decoded as YAML scalars or flow collections, so "a=137" yields
// an int and "tags=[x, y]" a list. Values that are not valid YAML are kept
// as strings.
func parseKwargs(args []string) (signal.Kwargs, error) {
	kw := signal.Kwargs{}
	for _, arg := range args {
		key, raw, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("invalid argument %q: expected key=value", arg)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("invalid argument %q: empty key", arg)
		}

		kw[key] = decodeValue(raw)
	}
	return kw, nil
}

func decodeValue(raw string) any {
	if strings.TrimSpace(raw) == "" {
		return raw
	}

	var v any
	if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	return v
}
