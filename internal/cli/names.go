package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/pakview/internal/asset"
	"github.com/roach88/pakview/internal/namecache"
)

// NamesOptions holds flags for the names commands.
type NamesOptions struct {
	*RootOptions
	Cache string
}

// NameResult is the output of names get.
type NameResult struct {
	GUID asset.GUID `json:"guid"`
	Name string     `json:"name"`
}

// WriteText renders the name alone.
func (r NameResult) WriteText(w io.Writer) error {
	_, err := fmt.Fprintln(w, r.Name)
	return err
}

// ImportResult is the output of names import.
type ImportResult struct {
	Imported int `json:"imported"`
	Total    int `json:"total"`
}

// WriteText renders the result as one summary line.
func (r ImportResult) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "Imported %d name(s), %d in cache\n", r.Imported, r.Total)
	return err
}

// NewNamesCommand creates the names command group.
func NewNamesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NamesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "names",
		Short: "Manage the GUID name cache",
		Long: `Manage the SQLite cache that supplies names for assets whose records
carry none.

Examples:
  pakview names import dumped_names.txt --cache names.db
  pakview names get 0x1F2E3D4C --cache names.db`,
	}
	cmd.PersistentFlags().StringVar(&opts.Cache, "cache", "", "path to name cache database (default from config)")

	cmd.AddCommand(newNamesImportCommand(opts))
	cmd.AddCommand(newNamesGetCommand(opts))
	return cmd
}

func newNamesImportCommand(opts *NamesOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import \"GUID name\" lines into the cache",
		Long: `Import a text file of "GUID name" lines into the name cache. Blank lines
and lines starting with '#' are ignored. The import is all-or-nothing.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNamesImport(opts, cmd, args[0])
		},
	}
}

func newNamesGetCommand(opts *NamesOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <guid>",
		Short: "Print the cached name of a GUID",
		Long: `Print the cached name of a GUID.

Exit codes:
  0 - Name found
  1 - GUID not in cache
  2 - Command error`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNamesGet(opts, cmd, args[0])
		},
	}
}

func (o *NamesOptions) openCache() (*namecache.Cache, error) {
	path := o.Cache
	if path == "" {
		path = o.Config.NameCache
	}
	if path == "" {
		return nil, NewExitError(ExitCommandError, "no name cache: set --cache or name_cache in config")
	}
	cache, err := namecache.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open name cache", err)
	}
	return cache, nil
}

func runNamesImport(opts *NamesOptions, cmd *cobra.Command, path string) error {
	if err := opts.prepare(cmd); err != nil {
		return err
	}
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	f, err := os.Open(path)
	if err != nil {
		return out.Fail(ExitCommandError, "failed to open names file", err)
	}
	defer f.Close()

	cache, err := opts.openCache()
	if err != nil {
		return out.Fail(GetExitCode(err), "import failed", err)
	}
	defer cache.Close()

	ctx := context.Background()
	n, err := cache.ImportLines(ctx, f)
	if err != nil {
		return out.Fail(ExitFailure, "import failed", err)
	}
	total, err := cache.Count(ctx)
	if err != nil {
		return out.Fail(ExitFailure, "import failed", err)
	}
	opts.Logger.Info("names imported", "file", path, "imported", n)
	return out.Success("", ImportResult{Imported: n, Total: total})
}

func runNamesGet(opts *NamesOptions, cmd *cobra.Command, arg string) error {
	if err := opts.prepare(cmd); err != nil {
		return err
	}
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	guid, err := asset.ParseGUID(arg)
	if err != nil {
		return out.Fail(ExitCommandError, "invalid GUID", err)
	}

	cache, err := opts.openCache()
	if err != nil {
		return out.Fail(GetExitCode(err), "lookup failed", err)
	}
	defer cache.Close()

	name, ok, err := cache.Get(context.Background(), guid)
	if err != nil {
		return out.Fail(ExitFailure, "lookup failed", err)
	}
	if !ok {
		return out.Fail(ExitFailure, fmt.Sprintf("no name for %s", guid), nil)
	}
	return out.Success("", NameResult{GUID: guid, Name: name})
}
