package shaderset

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/pakview/internal/asset"
	"github.com/roach88/pakview/internal/registry"
)

const (
	namePrefix = "shaderset/"
	nameSuffix = ".rpak"
)

// NormalizeName turns an explicit record name into the canonical asset
// name: NFC form, with the "shaderset/" prefix and ".rpak" suffix added
// only when missing.
func NormalizeName(raw string) string {
	name := norm.NFC.String(raw)
	if !strings.HasPrefix(name, namePrefix) {
		name = namePrefix + name
	}
	if !strings.HasSuffix(name, nameSuffix) {
		name += nameSuffix
	}
	return name
}

// Load dispatches and decodes the asset's header, records a version
// disambiguation, assigns the explicit name if present, and attaches the
// ShaderSet. On error the asset is left without decoded state.
func Load(a *asset.Asset) error {
	variant, version, err := Dispatch(a.Version(), a.HeaderSize())
	if err != nil {
		return fmt.Errorf("load %s: %w", a, err)
	}

	set, err := Decode(a.Header(), variant, a.Pages())
	if err != nil {
		return fmt.Errorf("load %s: %w", a, err)
	}

	if version != a.Version() {
		a.SetVersion(version)
	}

	if set.Name != "" {
		if err := a.SetName(NormalizeName(set.Name)); err != nil {
			return fmt.Errorf("load %s: %w", a, err)
		}
	}

	a.SetExtraData(set)
	return nil
}

// PostLoad resolves the shader dependencies against env.Directory and, for
// assets that got no name during load, consults env.Names.
//
// It must only run once every asset of the container has loaded. Running it
// again leaves resolved references unchanged.
func PostLoad(env registry.Env, a *asset.Asset) {
	set := mustShaderSet(a, "post-load")
	if env.Directory == nil {
		panic(fmt.Sprintf("shaderset %s: post-load without asset directory", a))
	}

	deps := []struct {
		kind string
		ref  *asset.DependencyRef
	}{
		{"vertex", &set.VertexShader},
		{"pixel", &set.PixelShader},
	}
	for _, dep := range deps {
		if !dep.ref.Resolve(env.Directory) && !dep.ref.GUID.IsZero() && env.Logger != nil {
			env.Logger.Debug("shaderset dependency not loaded",
				"guid", a.GUID(),
				"shader", dep.kind,
				"dependency", dep.ref.GUID,
			)
		}
	}

	if _, named := a.Name(); !named {
		a.SetNameFromCache(env.Names)
	}
}
