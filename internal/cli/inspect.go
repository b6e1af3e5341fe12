package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cargonix/internal/app"
	"cargonix/internal/types"
)

type inspectOptions struct {
	File string
}

func newInspectCommand() *cobra.Command {
	opts := inspectOptions{}
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Inspect a generated crate derivation set",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInspect(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.File, "file", "Cargo.nix.json", "Generated derivation file")
	_ = viper.BindPFlag("file", cmd.Flags().Lookup("file"))
	return cmd
}

func runInspect(cmd *cobra.Command, opts inspectOptions) error {
	service := newAppService()
	result, err := service.Inspect(app.InspectRequest{
		Path: resolveString(cmd, opts.File, "file", "file"),
	})
	if err != nil {
		return err
	}

	fmt.Printf("crates: %d\n", result.CrateCount)
	fmt.Println("sources:")
	for _, sourceType := range sortedSourceTypes(result.SourceCounts) {
		fmt.Printf("- %s: %d\n", sourceType, result.SourceCounts[sourceType])
	}
	fmt.Printf("build scripts: %d\n", result.BuildScriptCount)
	fmt.Printf("proc macros: %d\n", result.ProcMacroCount)
	if len(result.WorkspaceMembers) > 0 {
		fmt.Printf("workspace members: %s\n", strings.Join(result.WorkspaceMembers, ", "))
	}
	return nil
}

func sortedSourceTypes(counts map[types.SourceType]int) []types.SourceType {
	keys := make([]types.SourceType, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
