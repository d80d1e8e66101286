package container

import (
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// Magic identifies a pak file.
const Magic = "PAKV"

// FormatVersion is the pak format version written and accepted.
const FormatVersion uint16 = 1

type fileData struct {
	Magic   string       `cbor:"1,keyasint"`
	Version uint16       `cbor:"2,keyasint"`
	Records []recordData `cbor:"3,keyasint"`
	Pages   []pageData   `cbor:"4,keyasint"`
}

type recordData struct {
	GUID       uint64 `cbor:"1,keyasint"`
	Type       string `cbor:"2,keyasint"`
	Major      uint16 `cbor:"3,keyasint"`
	Minor      uint16 `cbor:"4,keyasint"`
	HeaderSize uint32 `cbor:"5,keyasint"`
	Header     []byte `cbor:"6,keyasint"`
}

type pageData struct {
	Compression Compression `cbor:"1,keyasint"`
	Size        uint32      `cbor:"2,keyasint"`
	Data        []byte      `cbor:"3,keyasint"`
}

// encMode uses Core Deterministic Encoding (RFC 8949 §4.2) so the same
// builder input always produces identical bytes.
var encMode cbor.EncMode

// decMode accepts standard CBOR and ignores unknown fields.
var decMode cbor.DecMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("container: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("container: CBOR decoder initialization failed: " + err.Error())
	}
}
