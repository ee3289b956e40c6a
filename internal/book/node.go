package book

import "sync/atomic"

// node holds one RestingOrder and a forward pointer array whose length is
// level+1. The head sentinel carries the list's maxLevel+1 slots and a nil
// order.
type node struct {
	order *RestingOrder
	next  []atomic.Pointer[node]
}

func newNode(order *RestingOrder, level int) *node {
	return &node{
		order: order,
		next:  make([]atomic.Pointer[node], level+1),
	}
}

// View is a read-only iteration handle over a node, returned by Head and
// used by reporting code that needs to walk a book without touching its
// internals.
type View struct {
	n *node
}

// Valid reports whether the view refers to a real node.
func (v View) Valid() bool { return v.n != nil }

// Order returns the resting order held by this node, or nil at the head
// sentinel.
func (v View) Order() *RestingOrder {
	if v.n == nil {
		return nil
	}
	return v.n.order
}

// Next returns a view of the next node at level 0.
func (v View) Next() View {
	if v.n == nil {
		return View{}
	}
	return View{v.n.next[0].Load()}
}
