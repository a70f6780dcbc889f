package container

import "sync"

// IIncrementalItem is the capability IncrementalArray requires: an element
// must be able to report and accept its own slot index, since Prepare moves
// elements around to fill gaps left by removal.
type IIncrementalItem interface {
	Index() int
	SetIndex(index int)
}

// IncrementalItemBase gives a struct IIncrementalItem for free by embedding.
type IncrementalItemBase struct {
	index int
}

func (b *IncrementalItemBase) Index() int      { return b.index }
func (b *IncrementalItemBase) SetIndex(i int)  { b.index = i }

// IncrementalArray is an index-stable set whose adds and removes are queued
// concurrently (e.g. from worker goroutines during a tick) and only applied
// during Prepare, so readers never observe the set changing mid-tick. The
// Scheduler keeps its worker set in a plain slice and does not use it.
type IncrementalArray[T IIncrementalItem] struct {
	data        []T
	add         []T
	remove      []T
	addMutex    sync.Mutex
	removeMutex sync.Mutex
}

func NewIncrementalArray[T IIncrementalItem]() *IncrementalArray[T] {
	return &IncrementalArray[T]{data: make([]T, 0), add: make([]T, 0), remove: make([]T, 0)}
}

func (a *IncrementalArray[T]) Len() int { return len(a.data) }
func (a *IncrementalArray[T]) Data() []T { return a.data }

// Add queues value for insertion at the next Prepare. Safe for concurrent
// callers.
func (a *IncrementalArray[T]) Add(value T) {
	a.addMutex.Lock()
	defer a.addMutex.Unlock()
	a.add = append(a.add, value)
}

// Remove queues value for removal at the next Prepare. Safe for concurrent
// callers.
func (a *IncrementalArray[T]) Remove(value T) {
	a.removeMutex.Lock()
	defer a.removeMutex.Unlock()
	a.remove = append(a.remove, value)
}

// Prepare applies every queued add/remove in one pass: removed slots are
// filled first by queued adds, then by elements taken from the tail, so the
// array never needs a full re-index. Call this once per tick, never
// concurrently with Add/Remove.
func (a *IncrementalArray[T]) Prepare() {
	if len(a.add) >= len(a.remove) {
		for i, x := range a.remove {
			ind := x.Index()
			a.data[ind] = a.add[i]
			a.data[ind].SetIndex(ind)
		}
		consumed := len(a.remove)
		appended := len(a.add) - consumed
		for i := 0; i < appended; i++ {
			a.add[consumed+i].SetIndex(len(a.data) + i)
		}
		a.data = append(a.data, a.add[consumed:]...)
	} else {
		for i, x := range a.add {
			ind := a.remove[i].Index()
			a.data[ind] = x
			a.data[ind].SetIndex(ind)
		}
		consumed := len(a.add)
		remaining := len(a.remove) - consumed
		newLen := len(a.data) - remaining
		for i := 0; i < remaining; i++ {
			ind := a.remove[consumed+i].Index()
			a.data[ind] = a.data[newLen+i]
			a.data[ind].SetIndex(ind)
		}
		a.data = a.data[:newLen]
	}
	a.add = []T{}
	a.remove = []T{}
}
