// Package route resolves a driver's lane sequence across the RoadNetwork
// with Dijkstra's algorithm over Links, replacing the teacher's external
// routing/v2 mesoscopic-routing microservice dependency (see DESIGN.md for
// why that dependency was dropped rather than adapted). The priority queue
// is utils/container's generic heap, the same structure the teacher uses
// for its own internal event ordering.
package route

import (
	"errors"

	"github.com/simmobility/st-core/network"
	"github.com/simmobility/st-core/utils/container"
)

// ErrNoPath is returned when no Link-connected path exists from the start
// to the destination Node.
var ErrNoPath = errors.New("route: no path found")

// Weight scores one Link for shortest-path purposes; the default weights a
// Link by its travel time at its RoadSegments' MaxSpeed, letting faster
// roads win over merely-shorter ones. Callers may substitute a congestion-
// aware weight function without touching the search itself.
type Weight func(link *network.Link) float64

// TravelTimeWeight is the default Weight: length divided by the slowest
// (most conservative) RoadSegment's max speed along the link.
func TravelTimeWeight(link *network.Link) float64 {
	minSpeed := link.OrderedSegments[0].MaxSpeed
	for _, seg := range link.OrderedSegments {
		if seg.MaxSpeed > 0 && (minSpeed <= 0 || seg.MaxSpeed < minSpeed) {
			minSpeed = seg.MaxSpeed
		}
	}
	if minSpeed <= 0 {
		minSpeed = 1
	}
	return link.Length / minSpeed
}

// ShortestPath finds the minimum-Weight sequence of Links from start to
// dest. It makes no lane choice; LaneSequence turns the returned Links into
// lanes.
func ShortestPath(net *network.RoadNetwork, start, dest *network.Node, weight Weight) ([]*network.Link, error) {
	if weight == nil {
		weight = TravelTimeWeight
	}
	dist := map[int64]float64{start.ID: 0}
	prevLink := map[int64]*network.Link{}
	prevNode := map[int64]int64{}
	visited := map[int64]bool{}

	pq := container.NewPriorityQueue[int64]()
	pq.HeapPush(start.ID, 0)

	for pq.Len() > 0 {
		nodeID, _ := pq.HeapPop()
		if visited[nodeID] {
			continue
		}
		visited[nodeID] = true
		if nodeID == dest.ID {
			break
		}
		node := net.Nodes[nodeID]
		for _, link := range node.OutLinks() {
			if len(link.OrderedSegments) == 0 {
				continue
			}
			nd := dist[nodeID] + weight(link)
			toID := link.ToNode.ID
			if existing, ok := dist[toID]; !ok || nd < existing {
				dist[toID] = nd
				prevLink[toID] = link
				prevNode[toID] = nodeID
				pq.HeapPush(toID, nd)
			}
		}
	}

	if _, ok := dist[dest.ID]; !ok {
		return nil, ErrNoPath
	}

	var links []*network.Link
	for id := dest.ID; id != start.ID; {
		link := prevLink[id]
		links = append([]*network.Link{link}, links...)
		id = prevNode[id]
	}
	return links, nil
}

// LaneSequence expands a Link sequence into a concrete []*network.Lane
// route by picking laneIndex (clamped into range) of every RoadSegment
// along every Link and joining it with the connecting TurningPath's driving
// lane where available, matching pathmover.PathMoverState.Route's shape.
func LaneSequence(links []*network.Link, laneIndex int) []*network.Lane {
	var lanes []*network.Lane
	var prevLane *network.Lane
	for _, link := range links {
		for _, seg := range link.OrderedSegments {
			if len(seg.OrderedLanes) == 0 {
				continue
			}
			idx := laneIndex
			if idx >= len(seg.OrderedLanes) {
				idx = len(seg.OrderedLanes) - 1
			}
			lane := seg.OrderedLanes[idx]
			if prevLane != nil {
				if tp := connectorThrough(prevLane, lane); tp != nil {
					lanes = append(lanes, tp.Lane)
				}
			}
			lanes = append(lanes, lane)
			prevLane = lane
		}
	}
	return lanes
}

func connectorThrough(from, to *network.Lane) *network.TurningPath {
	for _, c := range from.Outgoing {
		if c.To == to && c.Path != nil {
			return c.Path
		}
	}
	return nil
}
