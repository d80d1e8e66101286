package shaderset

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/roach88/pakview/internal/asset"
	"github.com/roach88/pakview/internal/msw"
)

// ExportMode selects bare or packed MSW output.
type ExportMode int

const (
	// ModeMSW writes only the shaderset header record.
	ModeMSW ExportMode = iota
	// ModeMSWPacked also inlines the payload of every resolved shader.
	ModeMSWPacked
)

// ExportModes names the export modes, indexed by ExportMode.
var ExportModes = []string{"MSW", "MSW (Packed)"}

func (m ExportMode) String() string {
	if m >= 0 && int(m) < len(ExportModes) {
		return ExportModes[m]
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ExportDir is the type-specific subdirectory under the export root.
const ExportDir = "shaderset"

// ManifestExtension is the extension of the dependency manifest.
const ManifestExtension = ".txt"

// ArtifactPath returns where the MSW artifact of guid is written.
func ArtifactPath(root string, guid asset.GUID) string {
	return filepath.Join(root, ExportDir, guid.String()+msw.Extension)
}

// ManifestPath returns where the dependency manifest of guid is written.
func ManifestPath(root string, guid asset.GUID) string {
	return filepath.Join(root, ExportDir, guid.String()+ManifestExtension)
}

// Manifest lists the nonzero dependency GUIDs in fixed order: vertex shader
// first, then pixel shader.
func Manifest(set *ShaderSet) []asset.GUID {
	var guids []asset.GUID
	for _, g := range []asset.GUID{set.VertexShader.GUID, set.PixelShader.GUID} {
		if !g.IsZero() {
			guids = append(guids, g)
		}
	}
	return guids
}

// WriteManifest writes one "0x"-prefixed hex GUID per line.
func WriteManifest(w io.Writer, guids []asset.GUID) error {
	for _, g := range guids {
		if _, err := fmt.Fprintf(w, "%s\n", g); err != nil {
			return err
		}
	}
	return nil
}

// Export writes the asset's MSW artifact and, once that succeeded, its
// dependency manifest under root. In packed mode the payload of each
// resolved dependency is inlined; unresolved dependencies are omitted.
//
// A failure to create the output directory aborts before anything is
// written. A writer failure leaves no artifact and no manifest.
func Export(a *asset.Asset, mode ExportMode, root string, payloads asset.PayloadDecoder) error {
	set := mustShaderSet(a, "export")

	if mode != ModeMSW && mode != ModeMSWPacked {
		return fmt.Errorf("export %s: unsupported export mode %s", a, mode)
	}
	if mode == ModeMSWPacked && payloads == nil {
		return fmt.Errorf("export %s: packed export needs a payload decoder", a)
	}

	dir := filepath.Join(root, ExportDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("export %s: create asset type directory: %w", a, err)
	}

	w := msw.NewWriter(msw.FileTypeShaderSet)
	if mode == ModeMSWPacked {
		for _, dep := range []asset.DependencyRef{set.PixelShader, set.VertexShader} {
			if dep.GUID.IsZero() || !dep.Resolved() {
				continue
			}
			data, err := payloads.DecodePayload(dep.Target)
			if err != nil {
				return fmt.Errorf("export %s: shader %s: %w", a, dep.GUID, err)
			}
			w.AddShader(msw.Shader{GUID: uint64(dep.GUID), Data: data})
		}
	}
	w.SetShaderSetHeader(msw.ShaderSetHeader{
		PixelShader:             uint64(set.PixelShader.GUID),
		VertexShader:            uint64(set.VertexShader.GUID),
		NumPixelShaderTextures:  set.NumPixelShaderTextures,
		NumVertexShaderTextures: set.NumVertexShaderTextures,
		NumSamplers:             set.NumSamplers,
		FirstResourceBindPoint:  uint8(set.FirstResourceBindPoint),
		NumResources:            uint8(set.NumResources),
	})

	if err := w.WriteFile(ArtifactPath(root, a.GUID())); err != nil {
		return fmt.Errorf("export %s: %w", a, err)
	}

	var buf bytes.Buffer
	if err := WriteManifest(&buf, Manifest(set)); err != nil {
		return fmt.Errorf("export %s: manifest: %w", a, err)
	}
	if err := os.WriteFile(ManifestPath(root, a.GUID()), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("export %s: manifest: %w", a, err)
	}
	return nil
}
