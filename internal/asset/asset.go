package asset

import (
	"errors"
	"fmt"
	"sync"
)

// ErrNameAssigned is returned when a name is assigned to an asset that
// already has one.
var ErrNameAssigned = errors.New("asset name already assigned")

// Asset is the loaded form of one RawRecord. It owns the kind-specific
// decoded value (ExtraData) and the canonical name.
//
// Thread-safety: accessors are safe for concurrent use. Mutators are
// write-once and guarded by an internal mutex.
type Asset struct {
	raw *RawRecord

	mu      sync.RWMutex
	version Version
	name    string
	named   bool
	extra   any
}

// New wraps a raw record. The record's declared version becomes the
// asset's initial version.
func New(raw *RawRecord) *Asset {
	return &Asset{raw: raw, version: raw.Version}
}

// GUID returns the asset's own GUID.
func (a *Asset) GUID() GUID { return a.raw.GUID }

// Type returns the asset's type tag.
func (a *Asset) Type() TypeTag { return a.raw.Type }

// HeaderSize returns the declared header struct size.
func (a *Asset) HeaderSize() uint32 { return a.raw.HeaderSize }

// Header returns the raw header bytes. Callers must not modify them.
func (a *Asset) Header() []byte { return a.raw.Header }

// Pages returns the page reader of the owning container (may be nil).
func (a *Asset) Pages() PageReader { return a.raw.Pages }

// Version returns the asset's current version. It differs from the declared
// version only when a loader recorded a disambiguation via SetVersion.
func (a *Asset) Version() Version {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.version
}

// SetVersion overwrites the asset's version in place.
func (a *Asset) SetVersion(v Version) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.version = v
}

// Name returns the canonical name and whether one has been assigned.
func (a *Asset) Name() (string, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.name, a.named
}

// SetName assigns the canonical name. A second assignment fails with
// ErrNameAssigned and leaves the first name in place.
func (a *Asset) SetName(name string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.named {
		return fmt.Errorf("%s: %w (have %q)", a.raw.GUID, ErrNameAssigned, a.name)
	}
	a.name = name
	a.named = true
	return nil
}

// SetNameFromCache assigns the name stored for this asset's GUID in cache,
// if the asset has no name yet. Returns true when a name was assigned.
func (a *Asset) SetNameFromCache(cache NameCache) bool {
	if cache == nil {
		return false
	}
	if _, ok := a.Name(); ok {
		return false
	}
	name, ok := cache.LookupName(a.GUID())
	if !ok {
		return false
	}
	return a.SetName(name) == nil
}

// ExtraData returns the kind-specific decoded value, or nil before load.
func (a *Asset) ExtraData() any {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.extra
}

// SetExtraData attaches the decoded value. It panics if called twice or with
// nil: exactly one decoded value exists per record.
func (a *Asset) SetExtraData(v any) {
	if v == nil {
		panic(fmt.Sprintf("asset %s: nil extra data", a.raw.GUID))
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.extra != nil {
		panic(fmt.Sprintf("asset %s: extra data already set", a.raw.GUID))
	}
	a.extra = v
}

// Loaded reports whether the load phase produced a decoded value.
func (a *Asset) Loaded() bool {
	return a.ExtraData() != nil
}

func (a *Asset) String() string {
	return fmt.Sprintf("%s %s", a.raw.Type, a.raw.GUID)
}
