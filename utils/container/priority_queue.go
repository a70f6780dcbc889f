package container

import "container/heap"

// item is one entry of a priorityQueue: a value plus its priority (lower
// sorts first) and the index heap.Interface needs to maintain.
type item[T any] struct {
	Value    T
	Priority float64
	index    int
}

// priorityQueue implements heap.Interface as a min-heap over Priority.
type priorityQueue[T any] []*item[T]

func (pq priorityQueue[T]) Len() int { return len(pq) }

func (pq priorityQueue[T]) Less(i, j int) bool { return pq[i].Priority < pq[j].Priority }

func (pq priorityQueue[T]) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue[T]) Push(x any) {
	it := x.(*item[T])
	it.index = len(*pq)
	*pq = append(*pq, it)
}

func (pq *priorityQueue[T]) Pop() any {
	old := *pq
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	it.index = -1
	*pq = old[:n-1]
	return it
}

// PriorityQueue is a min-priority queue. route.ShortestPath uses it as the
// open-set of a Dijkstra search over the RoadNetwork's Links (priority =
// accumulated travel time), the one place in this repo that needs a
// general-purpose open-set rather than the lane-local List above.
type PriorityQueue[T any] struct {
	queue priorityQueue[T]
}

func NewPriorityQueue[T any]() *PriorityQueue[T] {
	return &PriorityQueue[T]{queue: make(priorityQueue[T], 0)}
}

func (q *PriorityQueue[T]) Len() int { return len(q.queue) }

func (q *PriorityQueue[T]) First() T { return q.queue[0].Value }

// Push appends without maintaining heap order; call Heapify after a batch of
// these.
func (q *PriorityQueue[T]) Push(value T, priority float64) {
	q.queue = append(q.queue, &item[T]{Value: value, Priority: priority})
}

func (q *PriorityQueue[T]) Heapify() {
	heap.Init(&q.queue)
}

func (q *PriorityQueue[T]) HeapPush(value T, priority float64) {
	heap.Push(&q.queue, &item[T]{Value: value, Priority: priority})
}

func (q *PriorityQueue[T]) HeapPop() (value T, priority float64) {
	it := heap.Pop(&q.queue).(*item[T])
	return it.Value, it.Priority
}
