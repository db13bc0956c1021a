package registry

// RawEntry is one compiler record as read from a config scope or
// produced by the external-spec adapter, before resolution. The handle
// is unique per entry for the lifetime of the registry and is the key
// the identity cache memoizes on.
type RawEntry struct {
	handle   uint64
	data     map[string]any
	source   string
	external bool
}

// pathKeys are the four role keys every entry's paths map must define.
var pathKeys = []string{"cc", "cxx", "f77", "fc"}

// Data returns the raw decoded record.
func (e *RawEntry) Data() map[string]any { return e.data }

// Source is the config file the entry came from, or a synthetic name
// for adapted and detected entries.
func (e *RawEntry) Source() string { return e.source }

// External reports whether the entry was adapted from an external
// package declaration rather than read from the compilers section.
func (e *RawEntry) External() bool { return e.external }

// SpecString returns the entry's declared spec string, or "" when the
// record has none.
func (e *RawEntry) SpecString() string {
	s, _ := e.data["spec"].(string)
	return s
}

// stringField reads a scalar string field from a raw record.
func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// stringList reads a list-of-strings field, tolerating []any elements.
func stringList(m map[string]any, key string) []string {
	raw, ok := m[key].([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// stringMap reads a map field with scalar string values. Non-string
// values are stringified only when they are nil (dropped) so malformed
// records degrade quietly.
func stringMap(m map[string]any, key string) map[string]string {
	raw := anyMap(m, key)
	if raw == nil {
		return nil
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// anyMap reads a nested map field, tolerating both map[string]any and
// the map[any]any shape older YAML decoders produce.
func anyMap(m map[string]any, key string) map[string]any {
	out, _ := normalizeMap(m[key])
	return out
}
