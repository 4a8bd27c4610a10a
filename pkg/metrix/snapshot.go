package metrix

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// NodeKind classifies a Snapshot tree node.
type NodeKind int

// Node kinds. Group nodes are processors, mounts, and cockpits; Panel nodes
// are panels; Instrument nodes are instrument subtrees (one Scalar child per
// emitted field); Scalar nodes are leaves.
const (
	KindGroup NodeKind = iota
	KindPanelNode
	KindInstrumentNode
	KindScalarNode
)

func (k NodeKind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindPanelNode:
		return "panel"
	case KindInstrumentNode:
		return "instrument"
	case KindScalarNode:
		return "scalar"
	default:
		return "unknown"
	}
}

// Node is a single element of a Snapshot tree.
type Node struct {
	name     string
	kind     NodeKind
	children []*Node
	value    any // populated only for KindScalarNode
}

// Name returns this node's name. Sibling names are not checked for
// uniqueness; Find descends into the first sibling with a matching name.
func (n *Node) Name() string { return n.name }

// Kind returns this node's NodeKind tag.
func (n *Node) Kind() NodeKind { return n.kind }

// Scalar returns the leaf value and true if this is a scalar node.
func (n *Node) Scalar() (any, bool) {
	if n.kind != KindScalarNode {
		return nil, false
	}

	return n.value, true
}

// Children returns the direct children of a non-scalar node. Once built,
// Group and Panel children are sorted by name; Instrument children keep
// insertion order.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)

	return out
}

// String formats the node as a short human-readable line.
func (n *Node) String() string {
	switch n.kind {
	case KindScalarNode:
		return fmt.Sprintf("%s=%v", n.name, n.value)
	default:
		return fmt.Sprintf("%s(%s, %d children)", n.kind, n.name, len(n.children))
	}
}

// find descends the tree along path, returning the matched node.
func (n *Node) find(path []string) (*Node, bool) {
	if len(path) == 0 {
		return n, true
	}

	for _, child := range n.children {
		if child.name == path[0] {
			return child.find(path[1:])
		}
	}

	return nil, false
}

// FoundItem is a reference to a node located by Snapshot.Find, exposing a
// further Find to continue the search from that point.
type FoundItem struct {
	node *Node
}

// Name returns the found node's name.
func (f FoundItem) Name() string { return f.node.Name() }

// Kind returns the found node's NodeKind tag.
func (f FoundItem) Kind() NodeKind { return f.node.Kind() }

// Scalar returns the found node's leaf value, if it is a scalar.
func (f FoundItem) Scalar() (any, bool) { return f.node.Scalar() }

// Children returns the found node's direct children.
func (f FoundItem) Children() []*Node { return f.node.Children() }

// String renders the found node as a short human string.
func (f FoundItem) String() string { return f.node.String() }

// Find continues the search from this item, descending further into the
// tree.
func (f FoundItem) Find(path ...string) (FoundItem, bool) {
	n, ok := f.node.find(path)
	if !ok {
		return FoundItem{}, false
	}

	return FoundItem{node: n}, true
}

// Snapshot is the hierarchical, name-addressed result of a TelemetryDriver
// snapshot request: one Group node per named processor/mount/cockpit, Panel
// nodes under cockpits, and Instrument nodes (with their named Scalar
// fields) under panels.
type Snapshot struct {
	root *Node
}

// Find descends the tree from the root along path. An absent path reports
// not found; a present path returns an item whose name matches path's last
// element.
func (s *Snapshot) Find(path ...string) (FoundItem, bool) {
	if s == nil || s.root == nil {
		return FoundItem{}, false
	}

	n, ok := s.root.find(path)
	if !ok {
		return FoundItem{}, false
	}

	return FoundItem{node: n}, true
}

// Root returns the snapshot's root group node.
func (s *Snapshot) Root() *Node { return s.root }

// Render writes an indented, human-readable dump of the tree to w. This is
// a debugging aid, not a serialization format (JSON output is a collaborator
// concern, out of this library's scope).
func (s *Snapshot) Render(w io.Writer) {
	if s == nil || s.root == nil {
		return
	}

	renderNode(w, s.root, 0)
}

func renderNode(w io.Writer, n *Node, depth int) {
	fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), n.String())

	for _, child := range n.children {
		renderNode(w, child, depth+1)
	}
}

// SnapshotBuilder accumulates named children for one tree node. Processors,
// mounts, cockpits, panels, and instruments each receive one to contribute
// their subtree during a snapshot request.
type SnapshotBuilder struct {
	node *Node
}

// newBuilder creates a builder for a node of the given kind and name.
func newBuilder(name string, kind NodeKind) *SnapshotBuilder {
	return &SnapshotBuilder{node: &Node{name: name, kind: kind}}
}

// NewGroupBuilder starts a Group subtree (used by Processor, ProcessorMount,
// and Cockpit snapshot implementations).
func NewGroupBuilder(name string) *SnapshotBuilder { return newBuilder(name, KindGroup) }

// AddGroup appends and returns a nested group builder (e.g. a mount adding
// one of its processors, or a processor adding one of its cockpits).
func (b *SnapshotBuilder) AddGroup(name string) *SnapshotBuilder {
	child := newBuilder(name, KindGroup)
	b.node.children = append(b.node.children, child.node)

	return child
}

// AddPanel appends and returns a builder for a Panel subtree.
func (b *SnapshotBuilder) AddPanel(name string) *SnapshotBuilder {
	child := newBuilder(name, KindPanelNode)
	b.node.children = append(b.node.children, child.node)

	return child
}

// AddInstrument appends and returns a builder for an Instrument subtree.
func (b *SnapshotBuilder) AddInstrument(name string) *SnapshotBuilder {
	child := newBuilder(name, KindInstrumentNode)
	b.node.children = append(b.node.children, child.node)

	return child
}

// SetScalar attaches a named leaf value to the node under construction. An
// instrument's EmitSnapshot calls this once per emitted field (e.g. a gauge
// calls SetScalar("value", ...) and, if configured, SetScalar("peak", ...)).
func (b *SnapshotBuilder) SetScalar(name string, value any) {
	b.node.children = append(b.node.children, &Node{name: name, kind: KindScalarNode, value: value})
}

// Build finalizes the node and all its descendants. Group and Panel
// children are sorted by name for deterministic iteration/equality in
// tests; Instrument scalar fields keep emission order, since field order is
// part of an instrument's documented vocabulary.
func (b *SnapshotBuilder) Build() *Node {
	sortTree(b.node)

	return b.node
}

func sortTree(n *Node) {
	for _, child := range n.children {
		sortTree(child)
	}

	if n.kind == KindGroup || n.kind == KindPanelNode {
		sort.SliceStable(n.children, func(i, j int) bool {
			return n.children[i].name < n.children[j].name
		})
	}
}

// newSnapshot wraps a fully-built root node as a Snapshot.
func newSnapshot(root *Node) *Snapshot { return &Snapshot{root: root} }
