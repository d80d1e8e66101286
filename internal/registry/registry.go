// Package registry holds the per-type callback bindings that the session
// dispatches on. An asset kind registers one Binding keyed by its 4-byte
// type tag: load, post-load, preview and export slots plus the list of
// named export modes.
package registry

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/roach88/pakview/internal/asset"
)

// Env carries the collaborators available to post-load and export.
type Env struct {
	Directory asset.Directory
	Names     asset.NameCache
	Payloads  asset.PayloadDecoder
	Logger    *slog.Logger
}

// Preview is a read-only projection of a loaded asset.
type Preview interface {
	WriteText(w io.Writer) error
}

// LoadFunc decodes the asset's raw record and attaches the result.
type LoadFunc func(a *asset.Asset) error

// PostLoadFunc runs after every asset in the container has loaded.
type PostLoadFunc func(env Env, a *asset.Asset)

// PreviewFunc builds a preview of a loaded asset.
type PreviewFunc func(a *asset.Asset) Preview

// ExportFunc writes the asset's export artifacts under root using the
// export mode at index mode of Binding.ExportModes.
type ExportFunc func(env Env, a *asset.Asset, mode int, root string) error

// PayloadFunc returns the payload bytes of a loaded asset.
type PayloadFunc func(a *asset.Asset) ([]byte, error)

// Binding registers one asset type.
type Binding struct {
	Type            asset.TypeTag
	HeaderAlignment int
	ExportDir       string // type-specific subdirectory under the export root

	Load     LoadFunc
	PostLoad PostLoadFunc
	Preview  PreviewFunc
	Export   ExportFunc
	Payload  PayloadFunc

	ExportModes []string
}

// ModeIndex returns the index of the named export mode.
func (b *Binding) ModeIndex(name string) (int, bool) {
	for i, m := range b.ExportModes {
		if m == name {
			return i, true
		}
	}
	return 0, false
}

// Registry maps type tags to bindings.
//
// Thread-safety: safe for concurrent use. Registration normally happens once
// at startup, before any session runs.
type Registry struct {
	mu       sync.RWMutex
	bindings map[asset.TypeTag]*Binding
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{bindings: make(map[asset.TypeTag]*Binding)}
}

// Register adds a binding. A binding must have a Load function, a nonzero
// type tag, and a power-of-two header alignment; registering the same type
// twice is an error.
func (r *Registry) Register(b Binding) error {
	if b.Type == (asset.TypeTag{}) {
		return fmt.Errorf("register: empty type tag")
	}
	if b.Load == nil {
		return fmt.Errorf("register %s: load function is required", b.Type)
	}
	if b.HeaderAlignment <= 0 || b.HeaderAlignment&(b.HeaderAlignment-1) != 0 {
		return fmt.Errorf("register %s: header alignment %d is not a power of two", b.Type, b.HeaderAlignment)
	}
	if len(b.ExportModes) > 0 && (b.Export == nil || b.ExportDir == "") {
		return fmt.Errorf("register %s: export modes need an export function and directory", b.Type)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.bindings[b.Type]; exists {
		return fmt.Errorf("register %s: type already registered", b.Type)
	}
	binding := b
	r.bindings[b.Type] = &binding
	return nil
}

// MustRegister is like Register but panics on error.
// Use only for static registration at startup.
func (r *Registry) MustRegister(b Binding) {
	if err := r.Register(b); err != nil {
		panic(err)
	}
}

// Lookup returns the binding for a type tag.
func (r *Registry) Lookup(t asset.TypeTag) (*Binding, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bindings[t]
	return b, ok
}

// Types returns the registered type tags in sorted order.
func (r *Registry) Types() []asset.TypeTag {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]asset.TypeTag, 0, len(r.bindings))
	for t := range r.bindings {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool {
		return types[i].String() < types[j].String()
	})
	return types
}

// DecodePayload implements asset.PayloadDecoder by dispatching on the
// asset's type.
func (r *Registry) DecodePayload(a *asset.Asset) ([]byte, error) {
	b, ok := r.Lookup(a.Type())
	if !ok {
		return nil, fmt.Errorf("decode payload %s: type not registered", a)
	}
	if b.Payload == nil {
		return nil, fmt.Errorf("decode payload %s: type has no payload", a)
	}
	return b.Payload(a)
}
