package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spacemark/pkg/buildinfo"
	"github.com/matzehuels/spacemark/pkg/httputil"
	"github.com/matzehuels/spacemark/pkg/manifest"
)

// manifestCommand creates the manifest command group.
func (c *CLI) manifestCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Generate and validate the plugin manifest",
	}

	cmd.AddCommand(c.manifestGenerateCommand())
	cmd.AddCommand(c.manifestValidateCommand())

	return cmd
}

func (c *CLI) manifestGenerateCommand() *cobra.Command {
	var (
		name    string
		version string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a plugin manifest for the command set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.config()
			if name == "" {
				name = cfg.Plugin.Name
			}
			if version == "" {
				version = cfg.Plugin.Version
			}
			if version == "" {
				version = buildinfo.Version
			}

			data, err := manifest.Generate(name, version).JSON()
			if err != nil {
				return err
			}
			if err := manifest.Validate(data); err != nil {
				return fmt.Errorf("generated manifest is invalid: %w", err)
			}
			if output == "" || output == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			printSuccess("Manifest written")
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "plugin name (default from config)")
	cmd.Flags().StringVar(&version, "version", "", "plugin version (default: build version)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	return cmd
}

func (c *CLI) manifestValidateCommand() *cobra.Command {
	var (
		remote    bool
		schemaURL string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "validate [manifest.json]",
		Short: "Validate a plugin manifest",
		Long: `Validate a plugin manifest against the bundled schema, or with --remote
against the schema published by the design tool.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			if !remote {
				err = manifest.Validate(data)
			} else {
				cache, cerr := c.newCache(cmd.Context(), noCache)
				if cerr != nil {
					return cerr
				}
				defer cache.Close()

				spinner := newSpinnerWithContext(cmd.Context(), "Fetching schema...")
				spinner.Start()
				schema, ferr := manifest.FetchSchema(cmd.Context(), httputil.NewFetcher(cache, nil), schemaURL)
				spinner.Stop()
				if ferr != nil {
					return ferr
				}
				err = manifest.ValidateWith(schema, data)
			}
			if err != nil {
				printError("%s is invalid", args[0])
				return err
			}
			printSuccess("%s is valid", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "validate against the published schema")
	cmd.Flags().StringVar(&schemaURL, "schema-url", manifest.SchemaURL, "schema location for --remote")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching of the fetched schema")

	return cmd
}
