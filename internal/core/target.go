package core

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"cargonix/internal/types"
)

// newBuildTarget strips packageDir from the target's absolute source path.
// Targets whose source lives outside the package directory yield an error;
// the resolver treats that as "no such target" rather than failing.
func newBuildTarget(target types.Target, packageDir string) (types.BuildTarget, error) {
	rel, err := filepath.Rel(packageDir, target.SrcPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		builder := errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("target source %q is not rooted under %q", target.SrcPath, packageDir))
		if err != nil {
			builder = builder.WithCause(err)
		}
		return types.BuildTarget{}, builder
	}
	return types.BuildTarget{
		Name:    target.Name,
		SrcPath: filepath.ToSlash(rel),
	}, nil
}
