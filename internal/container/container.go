package container

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/roach88/pakview/internal/asset"
)

// ErrBadPointer is returned when a page pointer falls outside the file's
// pages.
var ErrBadPointer = errors.New("page pointer out of range")

// File is an opened pak file. It implements asset.RecordSource and
// asset.PageReader; records it returns read their pointers through it.
//
// Thread-safety: a File is immutable after Decode and safe for concurrent
// use.
type File struct {
	records []*asset.RawRecord
	pages   [][]byte
}

// Open reads and decodes the pak file at path.
func Open(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open container: %w", err)
	}
	f, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("open container %s: %w", path, err)
	}
	return f, nil
}

// Decode parses a pak file and decompresses its pages.
func Decode(data []byte) (*File, error) {
	var fd fileData
	if err := decMode.Unmarshal(data, &fd); err != nil {
		return nil, fmt.Errorf("decode container: %w", err)
	}
	if fd.Magic != Magic {
		return nil, fmt.Errorf("decode container: bad magic %q", fd.Magic)
	}
	if fd.Version != FormatVersion {
		return nil, fmt.Errorf("decode container: unsupported format version %d", fd.Version)
	}

	f := &File{pages: make([][]byte, len(fd.Pages))}
	for i, p := range fd.Pages {
		page, err := decompressPage(p.Data, p.Compression, int(p.Size))
		if err != nil {
			return nil, fmt.Errorf("decode container: page %d: %w", i, err)
		}
		f.pages[i] = page
	}

	f.records = make([]*asset.RawRecord, 0, len(fd.Records))
	for i, r := range fd.Records {
		tag, err := asset.ParseTypeTag(r.Type)
		if err != nil {
			return nil, fmt.Errorf("decode container: record %d: %w", i, err)
		}
		f.records = append(f.records, &asset.RawRecord{
			GUID:       asset.GUID(r.GUID),
			Type:       tag,
			Version:    asset.Version{Major: r.Major, Minor: r.Minor},
			HeaderSize: r.HeaderSize,
			Header:     r.Header,
			Pages:      f,
		})
	}
	return f, nil
}

// Records implements asset.RecordSource.
func (f *File) Records() []*asset.RawRecord {
	return f.records
}

// PageCount returns the number of pages, including the empty page 0.
func (f *File) PageCount() int {
	return len(f.pages)
}

func (f *File) at(ptr asset.PagePtr) ([]byte, error) {
	if ptr.IsNull() {
		return nil, fmt.Errorf("%w: null pointer", ErrBadPointer)
	}
	if int(ptr.Index) >= len(f.pages) {
		return nil, fmt.Errorf("%w: %s (have %d pages)", ErrBadPointer, ptr, len(f.pages))
	}
	page := f.pages[ptr.Index]
	if int(ptr.Offset) > len(page) {
		return nil, fmt.Errorf("%w: %s (page size %d)", ErrBadPointer, ptr, len(page))
	}
	return page[ptr.Offset:], nil
}

// CString implements asset.PageReader.
func (f *File) CString(ptr asset.PagePtr) (string, error) {
	rest, err := f.at(ptr)
	if err != nil {
		return "", err
	}
	end := bytes.IndexByte(rest, 0)
	if end < 0 {
		return "", fmt.Errorf("%w: unterminated string at %s", ErrBadPointer, ptr)
	}
	return string(rest[:end]), nil
}

// Bytes implements asset.PageReader.
func (f *File) Bytes(ptr asset.PagePtr, n int) ([]byte, error) {
	rest, err := f.at(ptr)
	if err != nil {
		return nil, err
	}
	if n < 0 || n > len(rest) {
		return nil, fmt.Errorf("%w: %d bytes at %s", ErrBadPointer, n, ptr)
	}
	return bytes.Clone(rest[:n]), nil
}
