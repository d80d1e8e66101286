package testutil

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/roach88/pakview/internal/asset"
)

// Directory is an in-memory asset.Directory that counts lookups.
//
// Thread-safety: safe for concurrent use.
type Directory struct {
	mu      sync.Mutex
	assets  map[asset.GUID]*asset.Asset
	lookups map[asset.GUID]int
}

// NewDirectory creates a directory holding the given assets.
func NewDirectory(assets ...*asset.Asset) *Directory {
	d := &Directory{
		assets:  make(map[asset.GUID]*asset.Asset),
		lookups: make(map[asset.GUID]int),
	}
	for _, a := range assets {
		d.assets[a.GUID()] = a
	}
	return d
}

// LookupGUID implements asset.Directory.
func (d *Directory) LookupGUID(g asset.GUID) (*asset.Asset, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lookups[g]++
	a, ok := d.assets[g]
	return a, ok
}

// Lookups returns how often g was looked up.
func (d *Directory) Lookups(g asset.GUID) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lookups[g]
}

// TotalLookups returns the number of lookups across all GUIDs.
func (d *Directory) TotalLookups() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	total := 0
	for _, n := range d.lookups {
		total += n
	}
	return total
}

// NameCache is an in-memory asset.NameCache.
type NameCache map[asset.GUID]string

// LookupName implements asset.NameCache.
func (c NameCache) LookupName(g asset.GUID) (string, bool) {
	name, ok := c[g]
	return name, ok
}

// Payloads is an in-memory asset.PayloadDecoder keyed by GUID.
//
// Thread-safety: safe for concurrent use.
type Payloads struct {
	mu    sync.Mutex
	data  map[asset.GUID][]byte
	calls []asset.GUID
}

// NewPayloads creates a decoder returning data[guid] for each asset.
func NewPayloads(data map[asset.GUID][]byte) *Payloads {
	return &Payloads{data: data}
}

// DecodePayload implements asset.PayloadDecoder.
func (p *Payloads) DecodePayload(a *asset.Asset) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, a.GUID())
	data, ok := p.data[a.GUID()]
	if !ok {
		return nil, fmt.Errorf("no payload for %s", a.GUID())
	}
	return bytes.Clone(data), nil
}

// Calls returns the GUIDs DecodePayload was called with, in order.
func (p *Payloads) Calls() []asset.GUID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]asset.GUID(nil), p.calls...)
}

// Pages is an in-memory asset.PageReader backed by a single data page at
// index 1, so that no valid pointer is the null pointer.
type Pages struct {
	data []byte
}

// NewPages creates an empty page set.
func NewPages() *Pages {
	return &Pages{}
}

// AddString appends a NUL-terminated string and returns its pointer.
func (p *Pages) AddString(s string) asset.PagePtr {
	ptr := asset.PagePtr{Index: 1, Offset: uint32(len(p.data))}
	p.data = append(p.data, s...)
	p.data = append(p.data, 0)
	return ptr
}

// AddBytes appends raw bytes and returns their pointer.
func (p *Pages) AddBytes(b []byte) asset.PagePtr {
	ptr := asset.PagePtr{Index: 1, Offset: uint32(len(p.data))}
	p.data = append(p.data, b...)
	return ptr
}

func (p *Pages) page(ptr asset.PagePtr) ([]byte, error) {
	if ptr.Index != 1 || int(ptr.Offset) > len(p.data) {
		return nil, fmt.Errorf("bad page pointer %s", ptr)
	}
	return p.data[ptr.Offset:], nil
}

// CString implements asset.PageReader.
func (p *Pages) CString(ptr asset.PagePtr) (string, error) {
	b, err := p.page(ptr)
	if err != nil {
		return "", err
	}
	end := bytes.IndexByte(b, 0)
	if end < 0 {
		return "", fmt.Errorf("unterminated string at %s", ptr)
	}
	return string(b[:end]), nil
}

// Bytes implements asset.PageReader.
func (p *Pages) Bytes(ptr asset.PagePtr, n int) ([]byte, error) {
	b, err := p.page(ptr)
	if err != nil {
		return nil, err
	}
	if n > len(b) {
		return nil, fmt.Errorf("%d bytes at %s exceed page", n, ptr)
	}
	return bytes.Clone(b[:n]), nil
}

// Source is an in-memory asset.RecordSource.
type Source []*asset.RawRecord

// Records implements asset.RecordSource.
func (s Source) Records() []*asset.RawRecord {
	return s
}
