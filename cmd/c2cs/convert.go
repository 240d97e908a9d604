package main

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"c2cs/pkg/cache"
	"c2cs/pkg/converter"
	"c2cs/pkg/project"
	"c2cs/pkg/vfs"
)

// projectFlags are shared by convert and watch.
type projectFlags struct {
	config   string
	output   string
	cacheDir string
}

func (f *projectFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.config, "config", "c", "", "project file (default ./"+project.DefaultFile+" when present)")
	fl.StringVarP(&f.output, "output", "o", "", "output directory, overrides output_directory")
	fl.StringVar(&f.cacheDir, "cache-dir", "", "conversion cache directory, overrides cache_directory")
	fl.StringP("name", "n", "", "project name, overrides project_name")
	fl.IntP("jobs", "j", 0, "files converted at once, overrides jobs")
	fl.Bool("dump-ast", false, "also write {file}.ast.txt")
}

// load builds the project from the project file, the environment and the
// flags. Positional files replace source_files.
func (f *projectFlags) load(cmd *cobra.Command, args []string) (*project.Project, error) {
	v := project.NewViper()
	for key, name := range map[string]string{
		"project_name": "name",
		"jobs":         "jobs",
		"dump_ast":     "dump-ast",
	} {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return nil, errors.Wrapf(err, "binding --%s", name)
		}
	}
	if err := project.Read(v, f.config); err != nil {
		return nil, err
	}

	// Paths given on the command line are relative to the working directory,
	// not to the project file.
	if len(args) > 0 {
		files, err := absAll(args)
		if err != nil {
			return nil, err
		}
		v.Set("source_files", files)
	}
	p, err := project.FromViper(v)
	if err != nil {
		return nil, err
	}
	if f.output != "" {
		if p.OutputDirectory, err = filepath.Abs(f.output); err != nil {
			return nil, errors.Wrap(err, "resolving --output")
		}
	}
	if f.cacheDir != "" {
		if p.CacheDirectory, err = filepath.Abs(f.cacheDir); err != nil {
			return nil, errors.Wrap(err, "resolving --cache-dir")
		}
	}
	return p, nil
}

func absAll(paths []string) ([]string, error) {
	out := make([]string, len(paths))
	for i, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, errors.Wrapf(err, "resolving %s", p)
		}
		out[i] = abs
	}
	return out, nil
}

func openCache(p *project.Project) (*cache.Cache, error) {
	if p.CacheDirectory == "" {
		return nil, nil
	}
	return cache.Open(p.Path(p.CacheDirectory), converter.Version)
}

func newConvertCmd(root *rootOptions) *cobra.Command {
	var (
		flags  projectFlags
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "convert [files...]",
		Short: "Convert the project's C sources to C#",
		Long: `Convert every source file of the project into {name}.cs inside the output
directory, together with CRuntime.cs and a project file. Settings come from the
project file, C2CS_* environment variables and flags, in increasing priority.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := root.logger(cmd)
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			p, err := flags.load(cmd, args)
			if err != nil {
				return err
			}
			c, err := openCache(p)
			if err != nil {
				return err
			}

			var sink vfs.Sink = vfs.DiskSink{}
			mem := vfs.NewMemorySink()
			if dryRun {
				sink = mem
			}

			res, err := converter.Convert(cmd.Context(), p, converter.Options{
				Sink:   sink,
				Logger: log,
				Cache:  c,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if err := printResult(out, res); err != nil {
				return err
			}
			if dryRun {
				printDryRun(out, mem)
			}
			if !res.OK() {
				return errors.Newf("%d of %d files were not converted", len(res.Files)-res.Count(converter.Converted)-res.Count(converter.Cached), len(res.Files))
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "convert in memory and list the files that would be written")
	return cmd
}

var statusColors = map[converter.Status]*color.Color{
	converter.Converted: color.New(color.FgGreen),
	converter.Cached:    color.New(color.FgCyan),
	converter.Failed:    color.New(color.FgRed, color.Bold),
	converter.Missing:   color.New(color.FgYellow),
}

func statusText(s converter.Status) string {
	if c, ok := statusColors[s]; ok {
		return c.Sprint(s)
	}
	return s.String()
}

// printResult renders one row per source file and a summary line.
func printResult(w io.Writer, res *converter.Result) error {
	data := pterm.TableData{{"File", "Status", "Declarations", "Time"}}
	for _, f := range res.Files {
		data = append(data, []string{
			f.Source,
			statusText(f.Status),
			fmt.Sprint(f.Declarations),
			f.Duration.Round(time.Millisecond).String(),
		})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, "rendering result table")
	}
	fmt.Fprintln(w, table)
	fmt.Fprintf(w, "%s: %d converted, %d cached, %d failed, %d missing -> %s\n",
		res.Project,
		res.Count(converter.Converted), res.Count(converter.Cached),
		res.Count(converter.Failed), res.Count(converter.Missing),
		res.OutputDirectory)
	return nil
}

func printDryRun(w io.Writer, mem *vfs.MemorySink) {
	fmt.Fprintln(w, "Would write:")
	for _, name := range mem.List() {
		size, _ := mem.Size(name)
		fmt.Fprintf(w, "  %s (%d bytes)\n", name, size)
	}
}
