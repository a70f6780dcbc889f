// Package network implements the RoadNetwork component (spec §2 item 1,
// §3): an immutable geometry/topology graph of Nodes, Links, RoadSegments,
// Lanes, LaneConnectors, TurningGroups, TurningPaths and TurningConflicts,
// built once by a NetworkLoader and frozen for the simulation's lifetime
// (spec §9's "cyclic references via id-keyed arenas, frozen after load").
package network

import "git.fiblab.net/general/common/v2/geometry"

// ID is the identifier domain spec §6 requires: non-negative 64-bit
// integers, unique within their entity type (a Lane and a Node may share an
// ID value; a Lane and another Lane may not).
type ID = int64

// NodeType classifies how a Node arbitrates conflicting movements (spec §3).
type NodeType int

const (
	NodeDefault NodeType = iota
	NodePriorityMerge
	NodeNonPriorityMerge
	NodeSignalized
	NodeUninode
)

// Node is a point where Links meet (spec §3).
type Node struct {
	ID       ID
	Location geometry.Point
	Type     NodeType

	// TurningGroups is keyed by (fromLinkID, toLinkID).
	TurningGroups map[[2]ID]*TurningGroup

	// inLinks/outLinks are populated by Build from each Link's endpoints.
	inLinks  []*Link
	outLinks []*Link
}

// LinkCategory and LinkType classify a Link's role in the road hierarchy
// (spec §3); neither affects core driving behavior directly but both are
// carried through so a RoadNetwork built from this package is a complete
// stand-in for the original's.
type LinkCategory int

type LinkType int

const (
	LinkDefault LinkType = iota
	LinkExpressway
	LinkUrban
	LinkRamp
	LinkRoundabout
	LinkAccess
)

// Link is a directed road between two Nodes, composed of one or more
// RoadSegments end to end (spec §3).
type Link struct {
	ID              ID
	FromNode        *Node
	ToNode          *Node
	Category        LinkCategory
	Type            LinkType
	RoadName        string
	OrderedSegments []*RoadSegment
	Length          float64
}

// RoadSegment is one drivable stretch of a Link: an ordered set of parallel
// Lanes sharing one polyline corridor and an offset-ordered obstacle map
// (spec §3).
type RoadSegment struct {
	ID           ID
	ParentLink   *Link
	OrderedLanes []*Lane
	Polyline     []geometry.Point
	// Obstacles is ordered by offset along the segment; RoadItem is the
	// BusStop/Crossing/Incident/StopPoint sum type (spec §3).
	Obstacles []RoadItem
	MaxSpeed  float64
}

// LaneConnector describes one Lane's directed link to a downstream Lane,
// either the next lane of the same segment-to-segment hop or a turning path
// through an intersection.
type LaneConnector struct {
	To   *Lane
	Path *TurningPath // nil when the connector is a same-link lane-to-lane hop
}

// Lane is the atomic unit of longitudinal travel (spec §3). Geometry and
// topology are immutable after Build; the vehicle/pedestrian occupancy
// lists are the only per-tick mutable state a Lane owns, and that state is
// exactly what NeighborQuery (spec §4.3) reads.
type Lane struct {
	ID                ID
	ParentSegment     *RoadSegment // nil for a junction (turning-path) lane
	ParentTurningPath  *TurningPath // nil for a road-segment lane
	IndexInSegment    int
	Polyline          []geometry.Point
	PolylineLengths   []float64 // cumulative, PolylineLengths[0] == 0
	PolylineDirections []geometry.PolylineDirection
	Length            float64
	Width             float64
	IsPedestrianOnly  bool
	MaxSpeed          float64

	Outgoing []LaneConnector

	occupancy *laneOccupancy
}

// TurningGroup collects every TurningPath from one incoming Link to one
// outgoing Link through a Node (spec §3).
type TurningGroup struct {
	Node       *Node
	FromLinkID ID
	ToLinkID   ID
	// TurningPaths is keyed by (fromLaneID, toLaneID).
	TurningPaths map[[2]ID]*TurningPath
}

// TurningPath is a junction-internal Lane-like polyline connecting one
// incoming Lane to one outgoing Lane (spec §3). It is itself modeled as a
// Lane (ParentTurningPath set, ParentSegment nil) so PathMover, NeighborQuery
// and the vehicle-list machinery all work unmodified while a driver is
// inside an intersection.
type TurningPath struct {
	ID        ID
	Node      *Node // the intersection this turning movement crosses
	FromLane  *Lane
	ToLane    *Lane
	Lane      *Lane // the in-junction Lane driving this turning movement
	Conflicts map[ID]*TurningConflict
}

// TurningConflict records that two TurningPaths cross and must be
// serialized by the owning Node's IntersectionManager (spec §3, §4.6).
type TurningConflict struct {
	First, Second *TurningPath
	// Priority is higher for the path that may proceed first when both
	// request the same instant; ties break by request arrival order.
	Priority int
}

// RoadItemKind tags the RoadItem sum type (spec §3).
type RoadItemKind int

const (
	RoadItemBusStop RoadItemKind = iota
	RoadItemCrossing
	RoadItemIncident
	RoadItemStopPoint
)

// RoadItem is a fixed obstacle along a RoadSegment's length, ordered by
// Offset in RoadSegment.Obstacles (spec §3).
type RoadItem struct {
	Kind   RoadItemKind
	Offset float64

	// BusStop fields.
	BusStopID ID
	BayFlag   bool

	// Incident fields.
	FlowRateMultiplier float64 // 1.0 = unaffected; no code in this module sets or reads it
}
