package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"c2cs/pkg/project"
)

func newInitCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a " + project.DefaultFile + " project file",
		Long: `Create a project file in dir (default: the working directory). The project
name defaults to the directory name, made into a valid C# identifier.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			abs, err := filepath.Abs(dir)
			if err != nil {
				return errors.Wrapf(err, "resolving %s", dir)
			}
			if st, err := os.Stat(abs); err == nil && !st.IsDir() {
				return errors.Newf("%q is not a directory", dir)
			}
			if name == "" {
				name = identifier(filepath.Base(abs))
			}

			path, err := project.WriteTemplate(abs, name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s project %s in %s\n", color.GreenString("Initialized"), name, path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "project name")
	return cmd
}

// identifier turns s into a C# identifier: invalid characters become '_'
// and a leading digit gets a '_' prefix.
func identifier(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r == '_' || r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			sb.WriteRune(r)
		} else {
			sb.WriteByte('_')
		}
	}
	id := sb.String()
	if id == "" || strings.Trim(id, "_") == "" {
		return "Untitled"
	}
	if unicode.IsDigit(rune(id[0])) {
		id = "_" + id
	}
	return id
}
