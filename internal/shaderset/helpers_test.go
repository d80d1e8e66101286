package shaderset

import (
	"github.com/roach88/pakview/internal/asset"
)

func newRecord(guid asset.GUID, major, minor uint16, header []byte, pages asset.PageReader) *asset.Asset {
	return asset.New(&asset.RawRecord{
		GUID:       guid,
		Type:       asset.TypeShaderSet,
		Version:    asset.Version{Major: major, Minor: minor},
		HeaderSize: uint32(len(header)),
		Header:     header,
		Pages:      pages,
	})
}

func newShaderTarget(guid asset.GUID, name string) *asset.Asset {
	a := asset.New(&asset.RawRecord{GUID: guid, Type: asset.TypeShader, Version: asset.Version{Major: 12}})
	if name != "" {
		_ = a.SetName(name)
	}
	return a
}
