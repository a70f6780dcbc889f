// Package container provides the generic data structures the core's
// lane-occupancy and scheduler bookkeeping are built on: a position-ordered
// doubly-linked list, an index-stable incremental array, and a priority
// queue.
package container

import (
	"fmt"
	"log"
)

// IHasVAndLength is the capability List requires of its element type: every
// value placed on a Lane's vehicle or pedestrian list must expose a current
// speed and a length, since NeighborQuery and the non-overlap invariant
// (spec §8) both need them without a type switch.
type IHasVAndLength interface {
	V() float64
	Length() float64
}

// ListNode is one element of a List, keyed by S (position along the lane).
// E carries side information private to the list's owner — the Lane package
// declares it as a slot for cross-lane left/right neighbor pointers (spec
// §4.3's "side-chain" links), though nothing fills that slot.
type ListNode[T IHasVAndLength, E any] struct {
	parent     *List[T, E]
	prev, next *ListNode[T, E]
	S          float64
	Value      T
	Extra      E
}

func (n *ListNode[T, E]) String() string {
	return fmt.Sprintf("ListNode{S:%v, Value:%+v, Extra:%+v}", n.S, n.Value, n.Extra)
}

func (n *ListNode[T, E]) Prev() *ListNode[T, E] { return n.prev }
func (n *ListNode[T, E]) Next() *ListNode[T, E] { return n.next }
func (n *ListNode[T, E]) Parent() *List[T, E]   { return n.parent }
func (n *ListNode[T, E]) V() float64            { return n.Value.V() }
func (n *ListNode[T, E]) L() float64            { return n.Value.Length() }

// InsertBefore splices add immediately before n. add must not already belong
// to a list.
func (n *ListNode[T, E]) InsertBefore(add *ListNode[T, E]) {
	if add.parent != nil {
		log.Panic("container: InsertBefore: node already belongs to a list")
	}
	add.parent = n.parent
	add.next = n
	add.prev = n.prev
	n.prev = add
	if add.prev != nil {
		add.prev.next = add
	} else {
		add.parent.head = add
	}
	n.parent.length++
}

// InsertAfter splices add immediately after n. add must not already belong
// to a list.
func (n *ListNode[T, E]) InsertAfter(add *ListNode[T, E]) {
	if add.parent != nil {
		log.Panic("container: InsertAfter: node already belongs to a list")
	}
	add.parent = n.parent
	add.prev = n
	add.next = n.next
	n.next = add
	if add.next != nil {
		add.next.prev = add
	} else {
		add.parent.tail = add
	}
	n.parent.length++
}

// List is a doubly-linked list ordered by ListNode.S. A Lane's vehicle list
// and pedestrian list are each a List; NeighborQuery walks the S-ordered
// list from its head to find the nearest leader/follower (spec §4.3).
type List[T IHasVAndLength, E any] struct {
	ID         string
	head, tail *ListNode[T, E]
	length     int
}

func (l *List[T, E]) String() string { return fmt.Sprintf("List{ID:%v, Len:%v}", l.ID, l.length) }

func (l *List[T, E]) Keys() []float64 {
	keys := make([]float64, l.length)
	for i, node := 0, l.head; node != nil; node = node.next {
		keys[i] = node.S
		i++
	}
	return keys
}

func (l *List[T, E]) Values() []T {
	values := make([]T, l.length)
	for i, node := 0, l.head; node != nil; i, node = i+1, node.next {
		values[i] = node.Value
	}
	return values
}

func (l *List[T, E]) Len() int { return l.length }

func (l *List[T, E]) PushFront(add *ListNode[T, E]) {
	if add.parent != nil {
		log.Panic("container: PushFront: node already belongs to a list")
	}
	add.next, add.prev = nil, nil
	if l.head == nil {
		add.parent, l.head, l.tail = l, add, add
		l.length++
	} else {
		l.head.InsertBefore(add)
		l.head = add
	}
}

func (l *List[T, E]) PushBack(add *ListNode[T, E]) {
	if add.parent != nil {
		log.Panic("container: PushBack: node already belongs to a list")
	}
	add.next, add.prev = nil, nil
	if l.tail == nil {
		add.parent, l.head, l.tail = l, add, add
		l.length++
	} else {
		l.tail.InsertAfter(add)
		l.tail = add
	}
}

// Remove unlinks node from the list. Panics if node does not belong to l.
func (l *List[T, E]) Remove(node *ListNode[T, E]) {
	if node.parent != l {
		log.Panic("container: Remove: node belongs to a different list")
	}
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		l.head = node.next
	}
	if node.next != nil {
		node.next.prev = node.prev
	} else {
		l.tail = node.prev
	}
	node.prev, node.next, node.parent = nil, nil, nil
	l.length--
}

func (l *List[T, E]) First() *ListNode[T, E] { return l.head }
func (l *List[T, E]) Last() *ListNode[T, E]  { return l.tail }

// PopUnsorted removes and returns every node whose S is smaller than its
// predecessor's, restoring ascending order. A driver's PathMover advance can
// move it past its lane-list neighbor within one tick (e.g. during a
// lane-change completion); the Lane's Prepare phase calls this to re-insert
// the returned nodes at their corrected position rather than re-sorting the
// whole list.
func (l *List[T, E]) PopUnsorted() (unsorted []*ListNode[T, E]) {
	for node := l.head; node != nil; {
		next := node.next
		if node.prev != nil && node.prev.S > node.S {
			l.Remove(node)
			unsorted = append(unsorted, node)
		}
		node = next
	}
	return unsorted
}

// Merge sorts adds by S and inserts them all into the list in one pass,
// used by PopUnsorted's caller to re-insert displaced nodes in bulk.
func (l *List[T, E]) Merge(adds []*ListNode[T, E]) {
	for i := 0; i < len(adds)-1; i++ {
		for j := i + 1; j < len(adds); j++ {
			if adds[i].S > adds[j].S {
				adds[i], adds[j] = adds[j], adds[i]
			}
		}
	}
	node := l.head
	for _, add := range adds {
		for node != nil && node.S < add.S {
			node = node.next
		}
		if node != nil {
			node.InsertBefore(add)
		} else {
			l.PushBack(add)
		}
	}
}
