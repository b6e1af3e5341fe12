package app

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"cargonix/internal/types"
)

func (s Service) Inspect(req InspectRequest) (InspectResult, error) {
	path := strings.TrimSpace(req.Path)
	if path == "" {
		return InspectResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("derivation file path is required")
	}
	set, err := s.OutputReader.ReadDerivations(path)
	if err != nil {
		return InspectResult{}, err
	}

	result := InspectResult{
		CrateCount:   len(set.Crates),
		SourceCounts: map[types.SourceType]int{},
	}
	for _, crate := range set.Crates {
		if crate.Source != nil {
			result.SourceCounts[crate.Source.Type()]++
		}
		if crate.IsRootOrWorkspaceMember {
			result.WorkspaceMembers = append(result.WorkspaceMembers, fmt.Sprintf("%s %s", crate.Name, crate.Version))
		}
		if crate.Build != nil {
			result.BuildScriptCount++
		}
		if crate.IsProcMacro {
			result.ProcMacroCount++
		}
	}
	sort.Strings(result.WorkspaceMembers)
	return result, nil
}
