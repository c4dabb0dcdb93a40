package sightline

// --- ID counter ---

// nodeIDCounter is a plain counter (no atomic, sightline is single-threaded).
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// Color represents an RGBA color with components in [0, 1]. Only used by the
// debug renderer.
type Color struct {
	R, G, B, A float64
}

// --- Node ---

// Node is the scene graph element. Every node has a rectangular box of
// Width x Height local units, positioned by its transform relative to its
// parent. Observers measure nodes by this box.
//
// Field writes are not tracked. Use the setters (or call MarkDirty after
// bulk-setting fields) so the scene can report the change to observers.
type Node struct {
	// Identity
	ID   uint32
	Name string

	// Hierarchy
	Parent   *Node
	children []*Node

	// Transform (local)
	X, Y         float64
	ScaleX       float64
	ScaleY       float64
	Rotation     float64
	SkewX, SkewY float64
	PivotX       float64
	PivotY       float64

	// Box size in local units.
	Width, Height float64

	// Computed during Scene.Step.
	worldTransform [6]float64
	transformDirty bool

	// Visible=false hides the node and its subtree. Hidden nodes measure as
	// the zero Rect and never intersect a root.
	Visible bool
	// ClipChildren clips descendants to this node's box, both when drawing
	// and when computing intersections.
	ClipChildren bool

	Color   Color
	Content string

	// Metadata
	UserData any

	// scene is only set on a scene's root node.
	scene    *Scene
	disposed bool
}

// nodeDefaults sets the common default field values.
func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.ScaleX = 1
	n.ScaleY = 1
	n.Color = Color{1, 1, 1, 1}
	n.Visible = true
	n.transformDirty = true
}

// NewContainer creates a node with no box. Containers group children and,
// with ClipChildren set, act as clipping ancestors once given a size.
func NewContainer(name string) *Node {
	n := &Node{Name: name}
	nodeDefaults(n)
	return n
}

// NewBox creates a node with the given box size.
func NewBox(name string, width, height float64) *Node {
	n := &Node{Name: name, Width: width, Height: height}
	nodeDefaults(n)
	return n
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("sightline: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(n, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, n) {
		panic("sightline: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
	markSubtreeDirty(child)
	n.record(MutationChildList)
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
}

// AddChildAt inserts child at the given index.
// Same reparenting and cycle-check behavior as AddChild.
func (n *Node) AddChildAt(child *Node, index int) {
	if child == nil {
		panic("sightline: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(n, "AddChildAt (parent)")
		debugCheckDisposed(child, "AddChildAt (child)")
	}
	if isAncestor(child, n) {
		panic("sightline: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	if index < 0 || index > len(n.children) {
		panic("sightline: child index out of range")
	}
	child.Parent = n
	n.children = append(n.children, nil)
	copy(n.children[index+1:], n.children[index:])
	n.children[index] = child
	markSubtreeDirty(child)
	n.record(MutationChildList)
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if globalDebug {
		debugCheckDisposed(n, "RemoveChild (parent)")
	}
	if child.Parent != n {
		panic("sightline: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
	markSubtreeDirty(child)
	n.record(MutationChildList)
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// RemoveChildren detaches all children from this node.
// Children are NOT disposed.
func (n *Node) RemoveChildren() {
	if len(n.children) == 0 {
		return
	}
	for _, child := range n.children {
		child.Parent = nil
		markSubtreeDirty(child)
	}
	clear(n.children)
	n.children = n.children[:0]
	n.record(MutationChildList)
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// Contains reports whether other is n itself or one of its descendants.
func (n *Node) Contains(other *Node) bool {
	if other == nil {
		return false
	}
	return isAncestor(n, other)
}

// --- Property setters ---

// SetSize sets the node's box size.
func (n *Node) SetSize(w, h float64) {
	n.Width = w
	n.Height = h
	n.record(MutationAttributes)
}

// SetVisible shows or hides the node and its subtree.
func (n *Node) SetVisible(v bool) {
	if n.Visible == v {
		return
	}
	n.Visible = v
	n.record(MutationAttributes)
}

// SetClipChildren turns descendant clipping on or off.
func (n *Node) SetClipChildren(clip bool) {
	if n.ClipChildren == clip {
		return
	}
	n.ClipChildren = clip
	n.record(MutationAttributes)
}

// SetContent replaces the node's content string.
func (n *Node) SetContent(s string) {
	if n.Content == s {
		return
	}
	n.Content = s
	n.record(MutationCharacterData)
}

// --- Disposal ---

// Dispose removes this node from its parent, marks it as disposed,
// and recursively disposes all descendants.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.Parent = nil
	n.UserData = nil
	n.scene = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is node or an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

// markSubtreeDirty sets transformDirty on node and all its descendants.
func markSubtreeDirty(node *Node) {
	node.transformDirty = true
	for _, child := range node.children {
		markSubtreeDirty(child)
	}
}

// top returns the outermost ancestor of n.
func (n *Node) top() *Node {
	p := n
	for p.Parent != nil {
		p = p.Parent
	}
	return p
}

// owningScene returns the scene n is attached to, or nil.
func (n *Node) owningScene() *Scene {
	return n.top().scene
}

// shownInTree reports whether n and all its ancestors are visible.
func (n *Node) shownInTree() bool {
	for p := n; p != nil; p = p.Parent {
		if !p.Visible {
			return false
		}
	}
	return true
}

// record reports a structural change to the owning scene, if any.
func (n *Node) record(kind MutationKind) {
	if s := n.owningScene(); s != nil {
		s.recordMutation(Mutation{Kind: kind, Target: n})
	}
}
