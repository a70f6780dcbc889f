package network

import (
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("module", "network")

// RoadNetwork is the immutable geometry/topology graph (spec §2 item 1, §3).
// Every map is keyed by the entity's ID; lookups are O(1) and safe for
// unsynchronized concurrent reads once Build returns, since nothing mutates
// these maps afterward (spec §5's "RoadNetwork is immutable after load").
type RoadNetwork struct {
	Nodes         map[ID]*Node
	Links         map[ID]*Link
	RoadSegments  map[ID]*RoadSegment
	Lanes         map[ID]*Lane
	TurningPaths  map[ID]*TurningPath
}

// Build resolves a NetworkLoader's flat, ID-referencing records into a
// frozen RoadNetwork. Dangling references are dropped with a logged warning
// (collected and returned as IntegrityErrors) rather than aborting the load,
// per spec §7: "the core skips offending objects and logs a warning."
func Build(loader NetworkLoader) (*RoadNetwork, []error) {
	var errs []error
	warn := func(kind string, id ID, reason string) {
		e := &IntegrityError{EntityKind: kind, EntityID: id, Reason: reason}
		errs = append(errs, e)
		log.Warn(e.Error())
	}

	net := &RoadNetwork{
		Nodes:        map[ID]*Node{},
		Links:        map[ID]*Link{},
		RoadSegments: map[ID]*RoadSegment{},
		Lanes:        map[ID]*Lane{},
		TurningPaths: map[ID]*TurningPath{},
	}

	for _, n := range loader.Nodes() {
		net.Nodes[n.ID] = &Node{
			ID:            n.ID,
			Location:      n.Location,
			Type:          n.Type,
			TurningGroups: map[[2]ID]*TurningGroup{},
		}
	}

	for _, l := range loader.Links() {
		from, ok1 := net.Nodes[l.FromNodeID]
		to, ok2 := net.Nodes[l.ToNodeID]
		if !ok1 || !ok2 {
			warn("Link", l.ID, "references a missing Node")
			continue
		}
		link := &Link{ID: l.ID, FromNode: from, ToNode: to, Category: l.Category, Type: l.Type, RoadName: l.RoadName}
		net.Links[l.ID] = link
		from.outLinks = append(from.outLinks, link)
		to.inLinks = append(to.inLinks, link)
	}

	for _, s := range loader.RoadSegments() {
		link, ok := net.Links[s.LinkID]
		if !ok {
			warn("RoadSegment", s.ID, "references a missing Link")
			continue
		}
		seg := &RoadSegment{ID: s.ID, ParentLink: link, Polyline: s.Polyline, MaxSpeed: s.MaxSpeed, Obstacles: s.Obstacles}
		net.RoadSegments[s.ID] = seg
		link.OrderedSegments = append(link.OrderedSegments, seg)
	}

	for _, d := range loader.Lanes() {
		lane := &Lane{
			ID:               d.ID,
			IndexInSegment:   d.IndexInSegment,
			Polyline:         d.Polyline,
			Width:            d.Width,
			MaxSpeed:         d.MaxSpeed,
			IsPedestrianOnly: d.IsPedestrianOnly,
			occupancy:        newLaneOccupancy(),
		}
		lane.precomputeGeometry()
		if d.RoadSegmentID != 0 {
			seg, ok := net.RoadSegments[d.RoadSegmentID]
			if !ok {
				warn("Lane", d.ID, "references a missing RoadSegment")
				continue
			}
			lane.ParentSegment = seg
			seg.OrderedLanes = append(seg.OrderedLanes, lane)
		}
		net.Lanes[d.ID] = lane
	}
	for _, link := range net.Links {
		for _, seg := range link.OrderedSegments {
			link.Length += seg.maxPolylineLength()
		}
	}

	for _, d := range loader.TurningPaths() {
		node, ok := net.Nodes[d.NodeID]
		if !ok {
			warn("TurningPath", d.ID, "references a missing Node")
			continue
		}
		fromLane, ok1 := net.Lanes[d.FromLaneID]
		toLane, ok2 := net.Lanes[d.ToLaneID]
		drivingLane, ok3 := net.Lanes[d.LaneID]
		if !ok1 || !ok2 || !ok3 {
			warn("TurningPath", d.ID, "references a missing Lane")
			continue
		}
		path := &TurningPath{ID: d.ID, Node: node, FromLane: fromLane, ToLane: toLane, Lane: drivingLane, Conflicts: map[ID]*TurningConflict{}}
		drivingLane.ParentTurningPath = path
		net.TurningPaths[d.ID] = path

		key := [2]ID{d.FromLinkID, d.ToLinkID}
		group, ok := node.TurningGroups[key]
		if !ok {
			group = &TurningGroup{Node: node, FromLinkID: d.FromLinkID, ToLinkID: d.ToLinkID, TurningPaths: map[[2]ID]*TurningPath{}}
			node.TurningGroups[key] = group
		}
		group.TurningPaths[[2]ID{d.FromLaneID, d.ToLaneID}] = path
	}

	for _, d := range loader.TurningConflicts() {
		first, ok1 := net.TurningPaths[d.FirstPathID]
		second, ok2 := net.TurningPaths[d.SecondPathID]
		if !ok1 || !ok2 {
			warn("TurningConflict", 0, "references a missing TurningPath")
			continue
		}
		conflict := &TurningConflict{First: first, Second: second, Priority: d.Priority}
		first.Conflicts[second.ID] = conflict
		second.Conflicts[first.ID] = conflict
	}

	for _, d := range loader.LaneConnectors() {
		from, ok1 := net.Lanes[d.FromLaneID]
		to, ok2 := net.Lanes[d.ToLaneID]
		if !ok1 || !ok2 {
			warn("LaneConnector", 0, "references a missing Lane")
			continue
		}
		var path *TurningPath
		if d.PathID != 0 {
			path = net.TurningPaths[d.PathID]
		}
		from.Outgoing = append(from.Outgoing, LaneConnector{To: to, Path: path})
	}

	return net, errs
}

func (s *RoadSegment) maxPolylineLength() float64 {
	best := 0.0
	for _, lane := range s.OrderedLanes {
		if lane.Length > best {
			best = lane.Length
		}
	}
	return best
}

// OutLinks returns every Link departing this Node, for route's Dijkstra
// expansion.
func (n *Node) OutLinks() []*Link { return n.outLinks }

// InLinks returns every Link arriving at this Node.
func (n *Node) InLinks() []*Link { return n.inLinks }

// DrivingLaneGroup finds the TurningGroup of turning paths from one Link to
// another through this Node, reporting false when there is none, matching
// the teacher's DrivingLaneGroup lookup used to dispatch a driver's LC target.
func (n *Node) DrivingLaneGroup(fromLink, toLink ID) (*TurningGroup, bool) {
	g, ok := n.TurningGroups[[2]ID{fromLink, toLink}]
	return g, ok
}
