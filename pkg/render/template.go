package render

import (
	"fmt"
	"regexp"
	"strings"
)

// DataContext carries the read-only data bags placeholders resolve
// against. The bags are opaque to the engine; it only does path lookups.
type DataContext struct {
	Product map[string]any
	Cart    map[string]any
	Header  map[string]any
	Vars    map[string]any
}

var placeholderRe = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_.]*)\}`)

// Resolve substitutes {name} placeholders in content. Names resolve
// against the bags in order product, cart, header, vars, with dotted
// paths descending into nested maps ({product.price.amount}). A name
// that resolves nowhere stays literal, so a missing bag degrades to
// visible template text instead of an error.
func (d DataContext) Resolve(content string) string {
	if !strings.Contains(content, "{") {
		return content
	}
	return placeholderRe.ReplaceAllStringFunc(content, func(m string) string {
		path := m[1 : len(m)-1]
		if v, ok := d.lookup(path); ok {
			return stringify(v)
		}
		return m
	})
}

func (d DataContext) lookup(path string) (any, bool) {
	parts := strings.Split(path, ".")

	// A leading bag name addresses one bag; otherwise search all of them.
	switch parts[0] {
	case "product":
		return walk(d.Product, parts[1:])
	case "cart":
		return walk(d.Cart, parts[1:])
	case "header":
		return walk(d.Header, parts[1:])
	}
	for _, bag := range []map[string]any{d.Vars, d.Product, d.Cart, d.Header} {
		if v, ok := walk(bag, parts); ok {
			return v, true
		}
	}
	return nil, false
}

func walk(bag map[string]any, parts []string) (any, bool) {
	if bag == nil || len(parts) == 0 {
		return nil, false
	}
	var cur any = bag
	for _, p := range parts {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[p]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		// Trim the decimal point for whole numbers, the common case for
		// JSON-decoded counts.
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	default:
		return fmt.Sprintf("%v", v)
	}
}
