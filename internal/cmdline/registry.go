// Package cmdline records typed command-line option definitions.
//
// A Registry only collects identifiers, defaults, descriptions and a
// visibility flag; Flags turns them into urfave/cli flags, which do the
// parsing. Options added with AddPrivate are accepted on the command line
// but hidden from help output.
package cmdline

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/urfave/cli/v2"
)

// Registry errors.
var (
	ErrEmptyIdent      = errors.New("cmdline: option identifier is required")
	ErrDuplicate       = errors.New("cmdline: option already registered")
	ErrUnsupportedType = errors.New("cmdline: unsupported default type")
)

// Kind is the value type of an option.
type Kind int

const (
	Int Kind = iota
	Float
	Double
	String
	Bool
	DoubleVec
)

// MarshalText renders the kind by name in JSON and YAML.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k Kind) String() string {
	switch k {
	case Int:
		return "int"
	case Float:
		return "float"
	case Double:
		return "double"
	case String:
		return "string"
	case Bool:
		return "bool"
	case DoubleVec:
		return "double-vector"
	default:
		return "unknown"
	}
}

// Option is one registered definition.
type Option struct {
	Ident       string `json:"ident" yaml:"ident"`
	Kind        Kind   `json:"kind" yaml:"kind"`
	Default     any    `json:"default" yaml:"default"`
	Description string `json:"description" yaml:"description"`
	Visible     bool   `json:"visible" yaml:"visible"`
}

// Registry holds option definitions in registration order.
type Registry struct {
	mu      sync.Mutex
	options []Option
	index   map[string]int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Add registers an option. def must be an int, float32, float64, string,
// bool or []float64; its type fixes the option's Kind.
func (r *Registry) Add(ident string, def any, descr string, showToAll bool) error {
	if ident == "" {
		return ErrEmptyIdent
	}
	kind, err := kindOf(def)
	if err != nil {
		return fmt.Errorf("option %q: %w", ident, err)
	}
	if vec, ok := def.([]float64); ok {
		def = append([]float64(nil), vec...)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.index[ident]; ok {
		return fmt.Errorf("option %q: %w", ident, ErrDuplicate)
	}
	r.index[ident] = len(r.options)
	r.options = append(r.options, Option{
		Ident:       ident,
		Kind:        kind,
		Default:     def,
		Description: descr,
		Visible:     showToAll,
	})
	return nil
}

// AddPrivate registers an option hidden from help output.
func (r *Registry) AddPrivate(ident string, def any, descr string) error {
	return r.Add(ident, def, descr, false)
}

// Lookup returns the option registered under ident.
func (r *Registry) Lookup(ident string) (Option, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.index[ident]
	if !ok {
		return Option{}, false
	}
	return r.options[i], true
}

// Options returns the definitions sorted by identifier.
func (r *Registry) Options() []Option {
	r.mu.Lock()
	out := append([]Option(nil), r.options...)
	r.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Ident < out[j].Ident })
	return out
}

// Flags renders the definitions as urfave/cli flags in registration order.
func (r *Registry) Flags() []cli.Flag {
	r.mu.Lock()
	defer r.mu.Unlock()

	flags := make([]cli.Flag, 0, len(r.options))
	for _, o := range r.options {
		flags = append(flags, o.flag())
	}
	return flags
}

func (o Option) flag() cli.Flag {
	hidden := !o.Visible
	switch o.Kind {
	case Int:
		return &cli.IntFlag{Name: o.Ident, Usage: o.Description, Value: o.Default.(int), Hidden: hidden}
	case Float:
		return &cli.Float64Flag{Name: o.Ident, Usage: o.Description, Value: float64(o.Default.(float32)), Hidden: hidden}
	case Double:
		return &cli.Float64Flag{Name: o.Ident, Usage: o.Description, Value: o.Default.(float64), Hidden: hidden}
	case Bool:
		return &cli.BoolFlag{Name: o.Ident, Usage: o.Description, Value: o.Default.(bool), Hidden: hidden}
	case DoubleVec:
		return &cli.Float64SliceFlag{Name: o.Ident, Usage: o.Description, Value: cli.NewFloat64Slice(o.Default.([]float64)...), Hidden: hidden}
	default:
		return &cli.StringFlag{Name: o.Ident, Usage: o.Description, Value: o.Default.(string), Hidden: hidden}
	}
}

func kindOf(def any) (Kind, error) {
	switch def.(type) {
	case int:
		return Int, nil
	case float32:
		return Float, nil
	case float64:
		return Double, nil
	case string:
		return String, nil
	case bool:
		return Bool, nil
	case []float64:
		return DoubleVec, nil
	default:
		return 0, fmt.Errorf("%w %T", ErrUnsupportedType, def)
	}
}
