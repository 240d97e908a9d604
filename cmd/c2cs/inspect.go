package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"c2cs/pkg/cfront"
	"c2cs/pkg/utils"
)

type frontendFlags struct {
	defines  []string
	includes []string
}

func (f *frontendFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&f.defines, "define", "D", nil, "predefine a macro, NAME or NAME=VALUE")
	cmd.Flags().StringSliceVarP(&f.includes, "include", "I", nil, "add an include directory")
}

func (f *frontendFlags) options() cfront.PreprocessOptions {
	return cfront.PreprocessOptions{Defines: f.defines, IncludeDirs: f.includes}
}

// readSource returns the absolute path and content of a C file.
func readSource(path string) (string, string, error) {
	full, _, err := utils.GetPathInfo(path)
	if err != nil {
		return "", "", err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return "", "", errors.Wrapf(err, "reading %s", path)
	}
	return full, string(data), nil
}

func newASTCmd() *cobra.Command {
	var (
		fe     frontendFlags
		format string
	)
	cmd := &cobra.Command{
		Use:   "ast <file.c>",
		Short: "Print the syntax tree of a C file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			full, src, err := readSource(args[0])
			if err != nil {
				return err
			}
			file, err := cfront.ParseSource(full, src, fe.options())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case "text":
				return cfront.Dump(out, file)
			case "yaml":
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(cfront.DumpTree(file, file)); err != nil {
					return errors.Wrap(err, "encoding yaml")
				}
				return enc.Close()
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return errors.Wrap(enc.Encode(cfront.DumpTree(file, file)), "encoding json")
			}
			return errors.Newf("unsupported format %q (must be text, yaml or json)", format)
		},
	}
	fe.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text|yaml|json)")
	return cmd
}

func newTokensCmd() *cobra.Command {
	var fe frontendFlags
	cmd := &cobra.Command{
		Use:   "tokens <file.c>",
		Short: "Print the tokens of a preprocessed C file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			full, src, err := readSource(args[0])
			if err != nil {
				return err
			}
			_, dir, _ := utils.GetPathInfo(full)
			pre, _, err := cfront.Preprocess(src, dir, fe.options())
			if err != nil {
				return err
			}
			tokens, err := cfront.Lex(pre)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Tokens (%d)\n", len(tokens))
			for _, tok := range tokens {
				fmt.Fprintln(out, " ", tok)
			}
			return nil
		},
	}
	fe.register(cmd)
	return cmd
}
