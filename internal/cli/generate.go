package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cargonix/internal/app"
	"cargonix/internal/types"
)

type generateOptions struct {
	ManifestPath string
	MetadataPath string
	Output       string
	Format       string
	Prefetch     bool
}

func newGenerateCommand() *cobra.Command {
	opts := generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Resolve the dependency graph and write the crate derivation set",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.ManifestPath, "manifest-path", "", "Path to the workspace Cargo.toml")
	cmd.Flags().StringVar(&opts.MetadataPath, "metadata", "", "Pre-captured cargo metadata JSON file (skips running cargo)")
	cmd.Flags().StringVar(&opts.Output, "output", "Cargo.nix.json", "Generated output file")
	cmd.Flags().StringVar(&opts.Format, "format", "json", "Output format (json|yaml)")
	cmd.Flags().BoolVar(&opts.Prefetch, "prefetch", false, "Fill registry crate checksums via nix-prefetch-url")

	_ = viper.BindPFlag("manifest_path", cmd.Flags().Lookup("manifest-path"))
	_ = viper.BindPFlag("metadata", cmd.Flags().Lookup("metadata"))
	_ = viper.BindPFlag("output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("format", cmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("prefetch", cmd.Flags().Lookup("prefetch"))

	return cmd
}

func runGenerate(cmd *cobra.Command, opts generateOptions) error {
	ctx := log.Logger.WithContext(cmd.Context())
	service := newAppService()
	result, err := service.Generate(ctx, app.GenerateRequest{
		ManifestPath: resolveString(cmd, opts.ManifestPath, "manifest_path", "manifest-path"),
		MetadataPath: resolveString(cmd, opts.MetadataPath, "metadata", "metadata"),
		Output:       resolveString(cmd, opts.Output, "output", "output"),
		Format:       types.OutputFormat(resolveString(cmd, opts.Format, "format", "format")),
		Prefetch:     resolveBool(cmd, opts.Prefetch, "prefetch", "prefetch"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("generated %s: %d crates, %d workspace members\n",
		result.OutputPath, result.CrateCount, result.WorkspaceMemberCount)
	return nil
}
