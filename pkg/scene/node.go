// Package scene implements the retained-mode scene graph: a hierarchy of
// nodes carrying transforms, meshes, and lights.
package scene

import (
	"github.com/Amirkhon3223/first3d/pkg/math3d"
)

// Node is a named element of the scene graph. Every node has a local TRS
// transform; a node may additionally carry a mesh or a light.
type Node struct {
	Name     string
	Position math3d.Vec3
	Rotation math3d.Vec3 // Euler XYZ, radians
	Scaling  math3d.Vec3

	Mesh  *Mesh
	Light *Light

	parent   *Node
	children []*Node
}

// NewNode creates an empty node with an identity transform.
func NewNode(name string) *Node {
	return &Node{
		Name:    name,
		Scaling: math3d.One3(),
	}
}

// NewMeshNode creates a node carrying a mesh.
func NewMeshNode(name string, mesh *Mesh) *Node {
	n := NewNode(name)
	n.Mesh = mesh
	return n
}

// Add appends child to this node's children. A child already attached
// elsewhere is detached from its previous parent first.
func (n *Node) Add(child *Node) {
	if child == nil || child == n {
		return
	}
	if child.parent != nil {
		child.parent.Remove(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

// Remove detaches child from this node. Returns false if child was not a
// direct descendant.
func (n *Node) Remove(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// Parent returns the node's parent, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the node's direct children. The returned slice is the
// node's own; callers must not mutate it.
func (n *Node) Children() []*Node {
	return n.children
}

// LocalMatrix returns the node's local transform.
func (n *Node) LocalMatrix() math3d.Mat4 {
	return math3d.TRS(n.Position, n.Rotation, n.Scaling)
}

// WorldMatrix composes the transforms from the root down to this node.
func (n *Node) WorldMatrix() math3d.Mat4 {
	if n.parent == nil {
		return n.LocalMatrix()
	}
	return n.parent.WorldMatrix().Mul(n.LocalMatrix())
}

// Traverse visits n and every descendant in pre-order (parent before
// child). Returning false from fn skips the node's subtree.
func (n *Node) Traverse(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Traverse(fn)
	}
}

// TraverseWithWorld visits like Traverse but also hands fn the node's
// composed world matrix, computed incrementally during the walk.
func (n *Node) TraverseWithWorld(fn func(*Node, math3d.Mat4) bool) {
	n.traverseWorld(math3d.Identity(), fn)
}

func (n *Node) traverseWorld(parent math3d.Mat4, fn func(*Node, math3d.Mat4) bool) {
	world := parent.Mul(n.LocalMatrix())
	if !fn(n, world) {
		return
	}
	for _, c := range n.children {
		c.traverseWorld(world, fn)
	}
}
