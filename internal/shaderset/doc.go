// Package shaderset decodes, resolves, previews and exports shaderset
// assets ("shds").
//
// A shaderset record is loaded in two phases. Load picks the binary layout
// from the declared version and header size, decodes the header into a
// ShaderSet, and assigns the explicit name if the record has one. PostLoad
// runs only once every record in the container has loaded; it resolves the
// vertex and pixel shader GUIDs against the asset directory and falls back
// to the name cache for unnamed assets.
//
// Preview and Export read the decoded and resolved state and never modify
// it.
package shaderset
