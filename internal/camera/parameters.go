package camera

import (
	"sort"
	"strings"
)

// Well-known parameter keys.
const (
	KeyPreviewSize       = "preview-size"
	KeyPreviewSizeValues = "preview-size-values"
	KeyFlashMode         = "flash-mode"
	KeyFlashModeValues   = "flash-mode-values"
	KeyFocusMode         = "focus-mode"
	KeyFocusModeValues   = "focus-mode-values"
	KeyPreviewFormat     = "preview-format"
)

// Parameters is a camera parameter set. The zero value is empty and usable
// after Set.
type Parameters map[string]string

// Get returns the value for key, or "".
func (p Parameters) Get(key string) string { return p[key] }

// Set stores value under key.
func (p Parameters) Set(key, value string) { p[key] = value }

// Values splits a comma separated list value.
func (p Parameters) Values(key string) []string {
	v := p[key]
	if v == "" {
		return nil
	}
	return strings.Split(v, ",")
}

// Supports reports whether value appears in the list stored under key.
func (p Parameters) Supports(key, value string) bool {
	for _, v := range p.Values(key) {
		if v == value {
			return true
		}
	}
	return false
}

// Clone returns an independent copy.
func (p Parameters) Clone() Parameters {
	out := make(Parameters, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Flatten renders the set as "k=v;k=v" with keys sorted.
func (p Parameters) Flatten() string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(p[k])
	}
	return b.String()
}

// Unflatten merges a flattened set into p. Malformed pairs are skipped.
func (p Parameters) Unflatten(flat string) {
	for _, pair := range strings.Split(flat, ";") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			continue
		}
		p[k] = v
	}
}
