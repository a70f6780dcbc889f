package container_test

import (
	"testing"

	"github.com/simmobility/st-core/utils/container"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVehicle struct{ length float64 }

func (f fakeVehicle) V() float64      { return 0 }
func (f fakeVehicle) Length() float64 { return f.length }

func TestListOrdering(t *testing.T) {
	l := &container.List[fakeVehicle, struct{}]{}
	n1 := &container.ListNode[fakeVehicle, struct{}]{S: 1, Value: fakeVehicle{length: 4}}
	l.PushBack(n1)
	n2 := &container.ListNode[fakeVehicle, struct{}]{S: 2, Value: fakeVehicle{length: 4}}
	l.PushFront(n2) // out of S order on purpose: exercises InsertBefore path below
	n3 := &container.ListNode[fakeVehicle, struct{}]{S: 3}
	n2.InsertBefore(n3)
	n4 := &container.ListNode[fakeVehicle, struct{}]{S: 4}
	n1.InsertAfter(n4)
	require.Equal(t, 4, l.Len())

	n := l.First()
	assert.Same(t, n3, n)
	n = n.Next()
	assert.Same(t, n2, n)
	n = n.Next()
	assert.Same(t, n1, n)
	assert.Same(t, n, n.Next().Prev())
	n = n.Next()
	assert.Same(t, n4, n)
	assert.Same(t, n4, l.Last())
}

func TestPopUnsortedThenMergeRestoresAscendingOrder(t *testing.T) {
	l := &container.List[fakeVehicle, struct{}]{}
	n3 := &container.ListNode[fakeVehicle, struct{}]{S: 3}
	n2 := &container.ListNode[fakeVehicle, struct{}]{S: 2}
	n1 := &container.ListNode[fakeVehicle, struct{}]{S: 1}
	n4 := &container.ListNode[fakeVehicle, struct{}]{S: 4}
	l.PushBack(n3)
	l.PushBack(n2)
	l.PushBack(n1)
	l.PushBack(n4)

	n0 := &container.ListNode[fakeVehicle, struct{}]{S: 0}
	l.PushFront(n0)
	unsorted := l.PopUnsorted()
	assert.ElementsMatch(t, []*container.ListNode[fakeVehicle, struct{}]{n2, n1}, unsorted)
	assert.Equal(t, 3, l.Len())

	l.Merge(unsorted)
	assert.Equal(t, []float64{0, 1, 2, 3, 4}, l.Keys())
}

func TestRemove(t *testing.T) {
	l := &container.List[fakeVehicle, struct{}]{}
	a := &container.ListNode[fakeVehicle, struct{}]{S: 1}
	b := &container.ListNode[fakeVehicle, struct{}]{S: 2}
	l.PushBack(a)
	l.PushBack(b)
	l.Remove(a)
	assert.Equal(t, 1, l.Len())
	assert.Same(t, b, l.First())
}
