package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/pakview/internal/asset"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Mode string
	Out  string
}

// ExportResult is the output of the export command.
type ExportResult struct {
	Root     string `json:"root"`
	Mode     string `json:"mode"`
	Exported int    `json:"exported"`
}

// WriteText renders the result as one summary line.
func (r ExportResult) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "Exported %d asset(s) to %s (%s)\n", r.Exported, r.Root, r.Mode)
	return err
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export <pak> [guid]",
		Short: "Export one or all assets",
		Long: `Load a pak file and export the asset with the given GUID, or every asset
whose type offers the export mode when no GUID is given.

Shadersets are written to <out>/shaderset/0x<GUID>.msw with a companion
0x<GUID>.txt manifest listing the vertex and pixel shader GUIDs.

Exit codes:
  0 - All requested exports written
  1 - One or more exports failed
  2 - Command error (unreadable pak, bad GUID, etc.)

Examples:
  pakview export shaders.pak
  pakview export shaders.pak 0x1F2E3D4C --mode "MSW (Packed)"
  pakview export shaders.pak --out ./dump`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, cmd, args)
		},
	}

	cmd.Flags().StringVarP(&opts.Mode, "mode", "m", "", "export mode (default from config)")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "export root directory (default from config)")

	return cmd
}

func runExport(opts *ExportOptions, cmd *cobra.Command, args []string) error {
	if err := opts.prepare(cmd); err != nil {
		return err
	}
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	mode := opts.Mode
	if mode == "" {
		mode = opts.Config.ExportMode
	}
	root := opts.Out
	if root == "" {
		root = opts.Config.ExportRoot
	}

	var target asset.GUID
	if len(args) == 2 {
		g, err := asset.ParseGUID(args[1])
		if err != nil {
			return out.Fail(ExitCommandError, "invalid GUID", err)
		}
		target = g
	}

	ctx := context.Background()
	sess, closeFn, err := openSession(ctx, opts.RootOptions, args[0])
	if err != nil {
		return out.Fail(GetExitCode(err), "export failed", err)
	}
	defer closeFn()

	result := ExportResult{Root: root, Mode: mode}
	if len(args) == 2 {
		if err := sess.Export(target, mode, root); err != nil {
			return out.Fail(ExitFailure, "export failed", err)
		}
		result.Exported = 1
		return out.Success(sess.ID(), result)
	}

	n, err := sess.ExportAll(ctx, mode, root)
	result.Exported = n
	if err != nil {
		return out.Fail(ExitFailure, fmt.Sprintf("export failed after %d asset(s)", n), err)
	}
	opts.Logger.Info("export complete", "root", root, "mode", mode, "exported", n)
	return out.Success(sess.ID(), result)
}
