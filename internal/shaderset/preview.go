package shaderset

import (
	"fmt"
	"io"

	"github.com/roach88/pakview/internal/asset"
)

// DependencySummary describes one shader dependency in a preview.
type DependencySummary struct {
	GUID     asset.GUID `json:"guid"`
	Name     string     `json:"name,omitempty"`
	Resolved bool       `json:"resolved"`
}

// Text renders the dependency as its target's name, or as the raw GUID
// annotated as unresolved or unnamed.
func (d DependencySummary) Text() string {
	if d.Name != "" {
		return d.Name
	}
	return fmt.Sprintf("%x (not loaded or no debug name)", uint64(d.GUID))
}

// Summary is the preview of a shaderset.
type Summary struct {
	VertexShaderTextures   uint16            `json:"vertex_shader_textures"`
	PixelShaderTextures    uint16            `json:"pixel_shader_textures"`
	Samplers               uint16            `json:"samplers"`
	FirstResourceBindPoint uint16            `json:"first_resource_bind_point"`
	Resources              uint16            `json:"resources"`
	VertexShader           DependencySummary `json:"vertex_shader"`
	PixelShader            DependencySummary `json:"pixel_shader"`
}

// Summarize builds the preview of a loaded shaderset.
func Summarize(a *asset.Asset) Summary {
	set := mustShaderSet(a, "preview")
	return Summary{
		VertexShaderTextures:   set.NumVertexShaderTextures,
		PixelShaderTextures:    set.NumPixelShaderTextures,
		Samplers:               set.NumSamplers,
		FirstResourceBindPoint: set.FirstResourceBindPoint,
		Resources:              set.NumResources,
		VertexShader:           summarizeDependency(set.VertexShader),
		PixelShader:            summarizeDependency(set.PixelShader),
	}
}

func summarizeDependency(ref asset.DependencyRef) DependencySummary {
	name, _ := ref.TargetName()
	return DependencySummary{GUID: ref.GUID, Name: name, Resolved: ref.Resolved()}
}

// WriteText writes the preview as text lines.
func (s Summary) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w,
		"Number of vertex shader textures: %d\n"+
			"Number of pixel shader textures:  %d\n"+
			"Number of samplers:  %d\n"+
			"First resource bind point: %d\n"+
			"Number of Resources: %d\n"+
			"Vertex Shader: %s\n"+
			"Pixel Shader: %s\n",
		s.VertexShaderTextures,
		s.PixelShaderTextures,
		s.Samplers,
		s.FirstResourceBindPoint,
		s.Resources,
		s.VertexShader.Text(),
		s.PixelShader.Text(),
	)
	return err
}
