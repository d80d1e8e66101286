package asset

// PageReader resolves page pointers found inside record headers.
type PageReader interface {
	// CString returns the NUL-terminated string starting at ptr.
	CString(ptr PagePtr) (string, error)

	// Bytes returns a copy of n bytes starting at ptr.
	Bytes(ptr PagePtr, n int) ([]byte, error)
}

// RecordSource yields the raw records of one container.
type RecordSource interface {
	Records() []*RawRecord
}

// Directory finds loaded assets by GUID. It is read-only from the point of
// view of the asset kinds; the session that owns it decides when it is
// complete.
type Directory interface {
	LookupGUID(guid GUID) (*Asset, bool)
}

// NameCache maps GUIDs to names recovered outside the container, consulted
// only for assets that carry no explicit name.
type NameCache interface {
	LookupName(guid GUID) (string, bool)
}

// PayloadDecoder returns the payload bytes of a loaded asset, used when a
// dependency's data is inlined into an export.
type PayloadDecoder interface {
	DecodePayload(a *Asset) ([]byte, error)
}
