package shaderset

import (
	"github.com/roach88/pakview/internal/asset"
	"github.com/roach88/pakview/internal/registry"
)

// HeaderAlignment is the required alignment of shaderset headers.
const HeaderAlignment = 8

// Register adds the shaderset binding to r.
func Register(r *registry.Registry) error {
	return r.Register(registry.Binding{
		Type:            asset.TypeShaderSet,
		HeaderAlignment: HeaderAlignment,
		ExportDir:       ExportDir,
		Load:            Load,
		PostLoad:        PostLoad,
		Preview: func(a *asset.Asset) registry.Preview {
			return Summarize(a)
		},
		Export: func(env registry.Env, a *asset.Asset, mode int, root string) error {
			return Export(a, ExportMode(mode), root, env.Payloads)
		},
		ExportModes: ExportModes,
	})
}
