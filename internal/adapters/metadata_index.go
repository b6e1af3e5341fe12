package adapters

import (
	"encoding/json"
	"sort"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"cargonix/internal/ports"
	"cargonix/internal/types"
)

// MetadataIndex holds one parsed cargo metadata document with its packages
// and graph nodes indexed by identity. It is immutable after construction
// and safe for concurrent reads.
type MetadataIndex struct {
	packages map[types.PackageID]types.Package
	nodes    map[types.PackageID]types.Node
	sorted   []types.Package
	root     *types.PackageID
	members  []types.PackageID
}

func NewMetadataIndex(document []byte) (*MetadataIndex, error) {
	var doc types.MetadataDocument
	if err := json.Unmarshal(document, &doc); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid cargo metadata document").
			WithCause(err)
	}
	if doc.Resolve == nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("metadata document carries no resolved dependency graph")
	}

	index := &MetadataIndex{
		packages: make(map[types.PackageID]types.Package, len(doc.Packages)),
		nodes:    make(map[types.PackageID]types.Node, len(doc.Resolve.Nodes)),
		root:     doc.Resolve.Root,
		members:  doc.WorkspaceMembers,
	}
	for _, pkg := range doc.Packages {
		index.packages[pkg.ID] = pkg
	}
	for _, node := range doc.Resolve.Nodes {
		index.nodes[node.ID] = node
	}

	index.sorted = append([]types.Package(nil), doc.Packages...)
	sort.Slice(index.sorted, func(i, j int) bool {
		return index.sorted[i].ID < index.sorted[j].ID
	})
	return index, nil
}

func (m *MetadataIndex) NodeByID(id types.PackageID) (types.Node, bool) {
	node, ok := m.nodes[id]
	return node, ok
}

func (m *MetadataIndex) PackageByID(id types.PackageID) (types.Package, bool) {
	pkg, ok := m.packages[id]
	return pkg, ok
}

func (m *MetadataIndex) Packages() []types.Package {
	return m.sorted
}

func (m *MetadataIndex) Root() (types.PackageID, bool) {
	if m.root == nil {
		return "", false
	}
	return *m.root, true
}

func (m *MetadataIndex) WorkspaceMembers() []types.PackageID {
	return m.members
}

var _ ports.MetadataIndexPort = (*MetadataIndex)(nil)
