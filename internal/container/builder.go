package container

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/pakview/internal/asset"
)

// Record describes one record added to a Builder. A zero HeaderSize
// declares the length of Header.
type Record struct {
	GUID       asset.GUID
	Type       asset.TypeTag
	Version    asset.Version
	HeaderSize uint32
	Header     []byte
}

// Builder assembles a pak file in memory.
type Builder struct {
	records []recordData
	pages   [][]byte
}

// NewBuilder creates a builder with the reserved empty page 0 and one open
// data page.
func NewBuilder() *Builder {
	return &Builder{pages: [][]byte{nil, nil}}
}

func (b *Builder) current() (uint32, []byte) {
	i := len(b.pages) - 1
	return uint32(i), b.pages[i]
}

// NewPage closes the current data page and starts another.
func (b *Builder) NewPage() {
	b.pages = append(b.pages, nil)
}

// AddString appends a NUL-terminated string to the current page.
func (b *Builder) AddString(s string) asset.PagePtr {
	idx, page := b.current()
	ptr := asset.PagePtr{Index: idx, Offset: uint32(len(page))}
	page = append(page, s...)
	b.pages[idx] = append(page, 0)
	return ptr
}

// AddBytes appends raw bytes to the current page.
func (b *Builder) AddBytes(data []byte) asset.PagePtr {
	idx, page := b.current()
	ptr := asset.PagePtr{Index: idx, Offset: uint32(len(page))}
	b.pages[idx] = append(page, data...)
	return ptr
}

// AddRecord appends a record.
func (b *Builder) AddRecord(r Record) {
	size := r.HeaderSize
	if size == 0 {
		size = uint32(len(r.Header))
	}
	b.records = append(b.records, recordData{
		GUID:       uint64(r.GUID),
		Type:       r.Type.String(),
		Major:      r.Version.Major,
		Minor:      r.Version.Minor,
		HeaderSize: size,
		Header:     append([]byte(nil), r.Header...),
	})
}

// Encode serializes the container. Pages that do not shrink under the
// requested compression are stored uncompressed.
func (b *Builder) Encode(c Compression) ([]byte, error) {
	fd := fileData{
		Magic:   Magic,
		Version: FormatVersion,
		Records: b.records,
		Pages:   make([]pageData, len(b.pages)),
	}
	for i, page := range b.pages {
		stored, tag := page, CompressionNone
		if len(page) > 0 && c != CompressionNone {
			out, err := compressPage(page, c)
			switch {
			case err == nil:
				stored, tag = out, c
			case errors.Is(err, errIncompressible):
			default:
				return nil, fmt.Errorf("encode container: page %d: %w", i, err)
			}
		}
		fd.Pages[i] = pageData{Compression: tag, Size: uint32(len(page)), Data: stored}
	}

	data, err := encMode.Marshal(fd)
	if err != nil {
		return nil, fmt.Errorf("encode container: %w", err)
	}
	return data, nil
}

// WriteFile encodes the container and writes it to path.
func (b *Builder) WriteFile(path string, c Compression) error {
	data, err := b.Encode(c)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write container: %w", err)
	}
	return nil
}
