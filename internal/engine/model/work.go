package model

import (
	"github.com/Faultbox/kdframe/pkg/math"
)

// State tracks whether world transforms match the local transforms.
type State int

const (
	Clean State = iota
	Dirty
)

func (s State) String() string {
	if s == Clean {
		return "clean"
	}
	return "dirty"
}

// WorkNode is the per-instance copy of a node transform.
type WorkNode struct {
	Name  string
	Local math.Mat4
	World math.Mat4
}

// Work is one instance of a model. Local transforms are written by
// animation or game code; world transforms are recomputed lazily before
// any read that needs them.
type Work struct {
	data  *Data
	nodes []WorkNode
	state State
}

// NewWork copies the node transforms of data.
func NewWork(data *Data) *Work {
	w := &Work{}
	w.SetData(data)
	return w
}

// SetData replaces the model and resets every node to its bind pose.
func (w *Work) SetData(data *Data) {
	w.data = data
	w.nodes = w.nodes[:0]
	if data == nil {
		return
	}
	for i := range data.Nodes {
		n := &data.Nodes[i]
		w.nodes = append(w.nodes, WorkNode{Name: n.Name, Local: n.Local, World: n.World})
	}
	w.state = Dirty
}

// Data returns the shared model.
func (w *Work) Data() *Data { return w.data }

// State returns the current dirty state.
func (w *Work) State() State { return w.state }

// NodeCount returns the number of nodes.
func (w *Work) NodeCount() int { return len(w.nodes) }

// Local returns the local transform of node i.
func (w *Work) Local(i int) math.Mat4 { return w.nodes[i].Local }

// SetLocal overwrites the local transform of node i.
func (w *Work) SetLocal(i int, local math.Mat4) {
	w.nodes[i].Local = local
	w.state = Dirty
}

// WorkNodes returns the mutable nodes. The tree is assumed modified.
func (w *Work) WorkNodes() []WorkNode {
	w.state = Dirty
	return w.nodes
}

// FindWorkNode returns a mutable node by name. The tree is assumed modified.
func (w *Work) FindWorkNode(name string) *WorkNode {
	for i := range w.nodes {
		if w.nodes[i].Name == name {
			w.state = Dirty
			return &w.nodes[i]
		}
	}
	return nil
}

// Nodes returns the nodes with up to date world transforms. The slice must
// not be modified.
func (w *Work) Nodes() []WorkNode {
	w.ensureClean()
	return w.nodes
}

// FindNode returns a read-only node by name with a fresh world transform.
func (w *Work) FindNode(name string) (WorkNode, bool) {
	w.ensureClean()
	for _, n := range w.nodes {
		if n.Name == name {
			return n, true
		}
	}
	return WorkNode{}, false
}

// World returns the world transform of node i.
func (w *Work) World(i int) math.Mat4 {
	w.ensureClean()
	return w.nodes[i].World
}

// CalcNodeMatrices recomputes every world transform from the roots down.
func (w *Work) CalcNodeMatrices() {
	if w.data == nil {
		return
	}
	for _, r := range w.data.RootNodes {
		w.calcNode(r, -1)
	}
	w.state = Clean
}

func (w *Work) calcNode(i, parent int) {
	n := &w.nodes[i]
	if parent >= 0 {
		n.World = w.nodes[parent].World.Mul(n.Local)
	} else {
		n.World = n.Local
	}
	for _, c := range w.data.Nodes[i].Children {
		w.calcNode(c, i)
	}
}

func (w *Work) ensureClean() {
	if w.state == Dirty {
		w.CalcNodeMatrices()
	}
}
