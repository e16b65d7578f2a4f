// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tokenregistry/metacheck/internal/discovery"
	"github.com/tokenregistry/metacheck/pkg/metadata"
)

const (
	schemaFormatJSON = "json"
	schemaFormatCUE  = "cue"

	cuePackage = "metadata"
)

// schemaTarget is one exportable schema.
type schemaTarget struct {
	name string
	def  metadata.Definition
	// dir and base locate the generated file under the metadata directory;
	// empty dir means the schema is only printable.
	dir  string
	base string
}

var schemaTargets = []schemaTarget{
	{name: "token", def: metadata.Definitions()[0], dir: discovery.TokensDir, base: schemaBase(metadata.TokenSchemaFile)},
	{name: "contract", def: metadata.Definitions()[1], dir: discovery.ContractsDir, base: schemaBase(metadata.ContractSchemaFile)},
	{name: "signature", def: metadata.Definitions()[2]},
}

func newSchemaCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	schemaCmd := &cobra.Command{
		Use:   "schema",
		Short: "Export the registry schemas",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	var (
		outDir    string
		genFormat string
	)
	generate := &cobra.Command{
		Use:   "generate",
		Short: "Write schema files next to the registry documents",
		Long: `Write the token and contract schemas into the metadata directory:

  tokens/token-metadata.schema.json
  contracts/contract-metadata.schema.json

Documents reference these files through their optional $schema property.
With --format cue, *.schema.cue files holding CUE definitions are written instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateSchemaFormat(genFormat); err != nil {
				return usageError(err)
			}
			dir := outDir
			if dir == "" {
				s, err := app.session(cmd.Context(), rootFlags)
				if err != nil {
					return err
				}
				dir = s.root
			}
			written, err := generateSchemas(dir, genFormat)
			if err != nil {
				return ioError(err)
			}
			for _, path := range written {
				fmt.Fprintln(app.stdout, SuccessStyle.Render("✓")+" wrote "+CmdStyle.Render(path))
			}
			return nil
		},
	}
	generate.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default: metadata_dir)")
	generate.Flags().StringVar(&genFormat, "format", schemaFormatJSON, "schema format: json or cue")

	var printFormat string
	printCmd := &cobra.Command{
		Use:       "print <token|contract|signature>",
		Short:     "Print a schema to stdout",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"token", "contract", "signature"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateSchemaFormat(printFormat); err != nil {
				return usageError(err)
			}
			idx := slices.IndexFunc(schemaTargets, func(t schemaTarget) bool { return t.name == args[0] })
			if idx < 0 {
				return usageError(fmt.Errorf("unknown schema %q (valid: token, contract, signature)", args[0]))
			}
			data, err := renderSchema(schemaTargets[idx].def, printFormat)
			if err != nil {
				return ioError(err)
			}
			if _, err := app.stdout.Write(data); err != nil {
				return ioError(err)
			}
			return nil
		},
	}
	printCmd.Flags().StringVar(&printFormat, "format", schemaFormatJSON, "schema format: json or cue")

	schemaCmd.AddCommand(generate, printCmd)
	return schemaCmd
}

func validateSchemaFormat(f string) error {
	if f != schemaFormatJSON && f != schemaFormatCUE {
		return fmt.Errorf("invalid schema format %q (valid: json, cue)", f)
	}
	return nil
}

func renderSchema(def metadata.Definition, format string) ([]byte, error) {
	if format == schemaFormatCUE {
		return metadata.GenerateCUE(cuePackage, def)
	}
	return metadata.MarshalJSONSchema(def.Schema)
}

// generateSchemas writes the file-backed schema targets below dir and returns
// the written paths.
func generateSchemas(dir, format string) ([]string, error) {
	var written []string
	for _, t := range schemaTargets {
		if t.dir == "" {
			continue
		}
		data, err := renderSchema(t.def, format)
		if err != nil {
			return written, err
		}

		path := filepath.Join(dir, t.dir, t.base+"."+format)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return written, fmt.Errorf("create %s: %w", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

// schemaBase strips the ./ prefix and .json suffix from a $schema reference.
func schemaBase(ref string) string {
	return strings.TrimSuffix(strings.TrimPrefix(ref, "./"), "."+schemaFormatJSON)
}
