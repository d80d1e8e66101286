package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/pakview/internal/asset"
	"github.com/roach88/pakview/internal/registry"
)

// PreviewEntry is the preview of one asset.
type PreviewEntry struct {
	GUID    asset.GUID       `json:"guid"`
	Type    string           `json:"type"`
	Name    string           `json:"name,omitempty"`
	Preview registry.Preview `json:"preview"`
}

// PreviewResult is the output of the preview command.
type PreviewResult struct {
	Entries []PreviewEntry `json:"entries"`
}

// WriteText renders each preview under a heading line.
func (r PreviewResult) WriteText(w io.Writer) error {
	for i, e := range r.Entries {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		heading := e.Name
		if heading == "" {
			heading = e.GUID.String()
		}
		if _, err := fmt.Fprintf(w, "== %s %s ==\n", e.Type, heading); err != nil {
			return err
		}
		if err := e.Preview.WriteText(w); err != nil {
			return err
		}
	}
	return nil
}

// NewPreviewCommand creates the preview command.
func NewPreviewCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview <pak> [guid]",
		Short: "Show the preview of one or all assets",
		Long: `Load a pak file and print the preview of the asset with the given GUID,
or of every previewable asset when no GUID is given.

Exit codes:
  0 - Preview written
  1 - Asset not found or not previewable
  2 - Command error (unreadable pak, bad GUID, etc.)

Examples:
  pakview preview shaders.pak
  pakview preview shaders.pak 0x1F2E3D4C
  pakview preview shaders.pak 0x1F2E3D4C --format json`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(rootOpts, cmd, args)
		},
	}
	return cmd
}

func runPreview(opts *RootOptions, cmd *cobra.Command, args []string) error {
	if err := opts.prepare(cmd); err != nil {
		return err
	}
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	var (
		target    asset.GUID
		hasTarget bool
	)
	if len(args) == 2 {
		g, err := asset.ParseGUID(args[1])
		if err != nil {
			return out.Fail(ExitCommandError, "invalid GUID", err)
		}
		target, hasTarget = g, true
	}

	sess, closeFn, err := openSession(context.Background(), opts, args[0])
	if err != nil {
		return out.Fail(GetExitCode(err), "preview failed", err)
	}
	defer closeFn()

	result := PreviewResult{Entries: []PreviewEntry{}}
	if hasTarget {
		p, err := sess.Preview(target)
		if err != nil {
			return out.Fail(ExitFailure, "preview failed", err)
		}
		a, _ := sess.LookupGUID(target)
		result.Entries = append(result.Entries, previewEntry(a, p))
		return out.Success(sess.ID(), result)
	}

	for _, a := range sess.Assets() {
		p, err := sess.Preview(a.GUID())
		if err != nil {
			opts.Logger.Debug("asset has no preview", "guid", a.GUID(), "error", err)
			continue
		}
		result.Entries = append(result.Entries, previewEntry(a, p))
	}
	return out.Success(sess.ID(), result)
}

func previewEntry(a *asset.Asset, p registry.Preview) PreviewEntry {
	name, _ := a.Name()
	return PreviewEntry{GUID: a.GUID(), Type: a.Type().String(), Name: name, Preview: p}
}
