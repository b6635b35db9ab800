// Package implementors holds the binding index: for each binding layer, the
// ELF/DWARF layout types that provide value-copy (Clone) semantics, and the
// Go type that plays the same role in this module, if any.
package implementors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Trait is the capability every descriptor of the index implements.
const Trait = "Clone"

// Binding layers, the keys of an Index.
const (
	LayerDw     = "libdw"
	LayerDwSys  = "libdw_sys"
	LayerElfSys = "libelf_sys"
)

// Layers lists the keys of the default index.
var Layers = []string{LayerDw, LayerDwSys, LayerElfSys}

// ErrEmptyLayer is returned by Validate for a key mapping to no descriptors.
var ErrEmptyLayer = errors.New("empty implementor list")

// Kind is the kind of type a descriptor names.
type Kind int

const (
	KindStruct Kind = iota
	KindEnum
	KindUnion
)

func (k Kind) String() string {
	switch k {
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	case KindUnion:
		return "union"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText renders the kind by name in json and yaml output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "struct":
		*k = KindStruct
	case "enum":
		*k = KindEnum
	case "union":
		*k = KindUnion
	default:
		return fmt.Errorf("unknown kind %q", b)
	}
	return nil
}

// Implementor describes one type implementing Trait.
type Implementor struct {
	Layer    string   `json:"layer" yaml:"layer"`
	Kind     Kind     `json:"kind" yaml:"kind"`
	Name     string   `json:"name" yaml:"name"`
	Generics []string `json:"generics,omitempty" yaml:"generics,omitempty"`
	GoType   string   `json:"go_type,omitempty" yaml:"go_type,omitempty"`
}

// Path returns the qualified name, e.g. libdw::Die.
func (i Implementor) Path() string {
	return i.Layer + "::" + i.Name
}

// Render returns the impl line, e.g. impl<'dw> Clone for Die<'dw>.
func (i Implementor) Render() string {
	if len(i.Generics) == 0 {
		return fmt.Sprintf("impl %s for %s", Trait, i.Name)
	}
	g := "<" + strings.Join(i.Generics, ", ") + ">"
	return fmt.Sprintf("impl%s %s for %s%s", g, Trait, i.Name, g)
}

func (i Implementor) String() string {
	return i.Render()
}

// Index maps a binding layer to its implementors, in declaration order.
type Index map[string][]Implementor

// Keys returns the layers of the index in sorted order.
func (ix Index) Keys() []string {
	keys := make([]string, 0, len(ix))
	for k := range ix {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate checks that every layer lists at least one implementor.
func (ix Index) Validate() error {
	for _, k := range ix.Keys() {
		if len(ix[k]) == 0 {
			return fmt.Errorf("%w: %s", ErrEmptyLayer, k)
		}
	}
	return nil
}

// Clone returns a deep copy of ix.
func (ix Index) Clone() Index {
	out := make(Index, len(ix))
	for k, list := range ix {
		cp := make([]Implementor, len(list))
		for i, impl := range list {
			impl.Generics = append([]string(nil), impl.Generics...)
			cp[i] = impl
		}
		out[k] = cp
	}
	return out
}

// Rendered returns, for each layer, the impl lines of its implementors.
func (ix Index) Rendered() map[string][]string {
	out := make(map[string][]string, len(ix))
	for k, list := range ix {
		lines := make([]string, 0, len(list))
		for _, impl := range list {
			lines = append(lines, impl.Render())
		}
		out[k] = lines
	}
	return out
}

// Lookup finds a descriptor by name, or by its layer::name path.
func (ix Index) Lookup(name string) (Implementor, bool) {
	layer := ""
	if i := strings.Index(name, "::"); i >= 0 {
		layer, name = name[:i], name[i+2:]
	}
	for _, k := range ix.Keys() {
		if layer != "" && k != layer {
			continue
		}
		for _, impl := range ix[k] {
			if impl.Name == name {
				return impl, true
			}
		}
	}
	return Implementor{}, false
}
