package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/pakview/internal/asset"
	"github.com/roach88/pakview/internal/session"
)

// AssetInfo describes one loaded asset.
type AssetInfo struct {
	GUID        asset.GUID `json:"guid"`
	Type        string     `json:"type"`
	Version     string     `json:"version"`
	Name        string     `json:"name,omitempty"`
	ExportModes []string   `json:"export_modes,omitempty"`
}

// FailureInfo describes one record that failed to load.
type FailureInfo struct {
	GUID    asset.GUID `json:"guid"`
	Type    string     `json:"type"`
	Code    string     `json:"code"`
	Message string     `json:"message"`
}

// InfoResult is the output of the info command.
type InfoResult struct {
	Assets   []AssetInfo   `json:"assets"`
	Failures []FailureInfo `json:"failures"`
	Skipped  int           `json:"skipped"`
}

// WriteText renders the result as a listing.
func (r InfoResult) WriteText(w io.Writer) error {
	for _, a := range r.Assets {
		name := a.Name
		if name == "" {
			name = "-"
		}
		if _, err := fmt.Fprintf(w, "%s %-18s %-6s %s\n", a.Type, a.GUID, a.Version, name); err != nil {
			return err
		}
	}
	for _, f := range r.Failures {
		if _, err := fmt.Fprintf(w, "FAILED %s %s: %s\n", f.Type, f.GUID, f.Message); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%d loaded, %d failed, %d skipped\n", len(r.Assets), len(r.Failures), r.Skipped)
	return err
}

// NewInfoCommand creates the info command.
func NewInfoCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <pak>",
		Short: "List the assets of a pak file",
		Long: `Load every record of a pak file and list the loaded assets with their
versions and names, followed by the records that failed to load.

Exit codes:
  0 - Pak loaded (individual records may still have failed)
  2 - Command error (unreadable pak, bad config, etc.)

Examples:
  pakview info shaders.pak
  pakview info shaders.pak --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(rootOpts, cmd, args[0])
		},
	}
	return cmd
}

func runInfo(opts *RootOptions, cmd *cobra.Command, path string) error {
	if err := opts.prepare(cmd); err != nil {
		return err
	}
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	sess, closeFn, err := openSession(context.Background(), opts, path)
	if err != nil {
		return out.Fail(GetExitCode(err), "info failed", err)
	}
	defer closeFn()

	result := InfoResult{
		Assets:   []AssetInfo{},
		Failures: []FailureInfo{},
		Skipped:  sess.Skipped(),
	}
	for _, a := range sess.Assets() {
		info := AssetInfo{GUID: a.GUID(), Type: a.Type().String(), Version: a.Version().String()}
		info.Name, _ = a.Name()
		info.ExportModes, _ = sess.ExportModes(a.GUID())
		result.Assets = append(result.Assets, info)
	}
	for _, f := range sess.Failures() {
		result.Failures = append(result.Failures, failureInfo(f))
	}

	return out.Success(sess.ID(), result)
}

func failureInfo(f *session.Error) FailureInfo {
	return FailureInfo{GUID: f.GUID, Type: f.Type.String(), Code: string(f.Code), Message: f.Error()}
}
