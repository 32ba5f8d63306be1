// Package catalog loads nested JSON translation catalogs and flattens them to
// dotted keys. Keys come out in JavaScript property order: integer-like names
// ascending, then the rest in document order.
package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
)

var (
	// ErrNotObject is returned when a catalog's top-level value is not an object.
	ErrNotObject = errors.New("catalog root is not a JSON object")

	// ErrBaseCatalog wraps any failure to read or parse the base-language catalog.
	ErrBaseCatalog = errors.New("base catalog unavailable")
)

// Entry is one flattened leaf.
type Entry struct {
	Key   string
	Value string
}

// Catalog is a flattened, immutable translation catalog for one language.
type Catalog struct {
	Language string
	Path     string

	keys   []string
	values map[string]string
}

// New builds a catalog from entries. Later duplicates overwrite the value but
// keep the first position.
func New(language string, entries ...Entry) *Catalog {
	c := &Catalog{Language: language, values: make(map[string]string, len(entries))}
	for _, e := range entries {
		c.set(e.Key, e.Value)
	}
	return c
}

func (c *Catalog) set(key, value string) {
	if _, exists := c.values[key]; !exists {
		c.keys = append(c.keys, key)
	}
	c.values[key] = value
}

// Keys returns the dotted keys in catalog order.
func (c *Catalog) Keys() []string {
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// Lookup returns the value stored under key.
func (c *Catalog) Lookup(key string) (string, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Len returns the number of leaves.
func (c *Catalog) Len() int { return len(c.keys) }

// Entries returns all leaves in catalog order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, 0, len(c.keys))
	for _, k := range c.keys {
		out = append(out, Entry{Key: k, Value: c.values[k]})
	}
	return out
}

// Load reads and flattens the catalog at path.
func Load(language, path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	c, err := Parse(language, data)
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	c.Path = path
	return c, nil
}

// Parse flattens a JSON catalog. Objects are descended into; arrays and
// primitives are leaves, stringified the way JavaScript's String() does.
func Parse(language string, data []byte) (*Catalog, error) {
	data = stripBOM(data)

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, ErrNotObject
	}

	root, err := readObject(dec)
	if err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("invalid json: trailing data after catalog")
	}

	c := New(language)
	c.flatten(root, "")
	return c, nil
}

// object is a decoded JSON object. A repeated member name replaces the
// earlier value but keeps its position.
type object struct {
	names   []string
	members map[string]node
}

// node is either a stringified leaf or a nested object.
type node struct {
	leaf string
	obj  *object
}

func (o *object) put(name string, n node) {
	if _, exists := o.members[name]; !exists {
		o.names = append(o.names, name)
	}
	o.members[name] = n
}

// ordered returns member names with array-index names first in ascending
// numeric order, then the remaining names in insertion order.
func (o *object) ordered() []string {
	var indexes, rest []string
	for _, name := range o.names {
		if _, ok := arrayIndex(name); ok {
			indexes = append(indexes, name)
		} else {
			rest = append(rest, name)
		}
	}
	sort.Slice(indexes, func(i, j int) bool {
		a, _ := arrayIndex(indexes[i])
		b, _ := arrayIndex(indexes[j])
		return a < b
	})
	return append(indexes, rest...)
}

// arrayIndex reports whether name is a canonical array index (0 to 2^32-2).
func arrayIndex(name string) (uint32, bool) {
	if name == "" || (len(name) > 1 && name[0] == '0') {
		return 0, false
	}
	n, err := strconv.ParseUint(name, 10, 32)
	if err != nil || n == math.MaxUint32 {
		return 0, false
	}
	return uint32(n), true
}

func (c *Catalog) flatten(o *object, prefix string) {
	for _, name := range o.ordered() {
		key := name
		if prefix != "" {
			key = prefix + "." + name
		}
		n := o.members[name]
		if n.obj != nil {
			c.flatten(n.obj, key)
			continue
		}
		c.set(key, n.leaf)
	}
}

// readObject consumes members up to and including the closing brace.
func readObject(dec *json.Decoder) (*object, error) {
	o := &object{members: make(map[string]node)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", tok)
		}

		tok, err = dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case json.Delim:
			if t == '{' {
				child, err := readObject(dec)
				if err != nil {
					return nil, err
				}
				o.put(name, node{obj: child})
				continue
			}
			s, err := readArray(dec)
			if err != nil {
				return nil, err
			}
			o.put(name, node{leaf: s})
		default:
			o.put(name, node{leaf: stringify(t)})
		}
	}
	if _, err := dec.Token(); err != nil { // '}'
		return nil, err
	}
	return o, nil
}

// readArray consumes an array after its opening bracket and returns
// its Array.prototype.join(",") rendering.
func readArray(dec *json.Decoder) (string, error) {
	var parts []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case json.Delim:
			if t == '{' {
				if err := skipObject(dec); err != nil {
					return "", err
				}
				parts = append(parts, "[object Object]")
				continue
			}
			s, err := readArray(dec)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		case nil:
			parts = append(parts, "")
		default:
			parts = append(parts, stringify(t))
		}
	}
	if _, err := dec.Token(); err != nil { // ']'
		return "", err
	}
	return strings.Join(parts, ","), nil
}

func skipObject(dec *json.Decoder) error {
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	return nil
}

func stringify(tok json.Token) string {
	switch t := tok.(type) {
	case string:
		return t
	case json.Number:
		return jsNumber(t)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return "null"
	default:
		return fmt.Sprint(t)
	}
}

// jsNumber renders a JSON number the way JavaScript prints it: 1.0 is "1".
func jsNumber(n json.Number) string {
	f, err := n.Float64()
	if err != nil {
		return n.String()
	}
	if math.Abs(f) >= 1e21 || (f != 0 && math.Abs(f) < 1e-6) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func stripBOM(b []byte) []byte {
	bom := []byte{0xEF, 0xBB, 0xBF}
	if len(b) >= 3 && bytes.Equal(b[:3], bom) {
		return b[3:]
	}
	return b
}
