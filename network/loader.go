package network

import "git.fiblab.net/general/common/v2/geometry"

// The DTOs below are the wire shape a NetworkLoader yields (spec §6): flat
// records referencing each other purely by ID, in any order, with
// referential integrity resolved by Build. This replaces the teacher's
// protobuf-defined map schema (git.fiblab.net/sim/protos/v2), which this
// repo does not depend on — see DESIGN.md for why that dependency was
// dropped rather than adapted.

type NodeDTO struct {
	ID       ID
	Location geometry.Point
	Type     NodeType
}

type LinkDTO struct {
	ID         ID
	FromNodeID ID
	ToNodeID   ID
	Category   LinkCategory
	Type       LinkType
	RoadName   string
	// SegmentIDs is ordered from FromNode to ToNode.
	SegmentIDs []ID
}

type RoadSegmentDTO struct {
	ID           ID
	LinkID       ID
	LaneIDs      []ID // ordered left-to-right or right-to-left, consistently
	Polyline     []geometry.Point
	MaxSpeed     float64
	Obstacles    []RoadItem
}

type LaneDTO struct {
	ID               ID
	RoadSegmentID    ID // 0 if this is a junction lane (TurningPathID set instead)
	TurningPathID    ID
	IndexInSegment   int
	Polyline         []geometry.Point
	Width            float64
	MaxSpeed         float64
	IsPedestrianOnly bool
}

// LaneConnectorDTO wires one upstream Lane to one downstream Lane, optionally
// through a TurningPath (PathID != 0) when the hop crosses an intersection.
type LaneConnectorDTO struct {
	FromLaneID ID
	ToLaneID   ID
	PathID     ID
}

type TurningGroupDTO struct {
	NodeID     ID
	FromLinkID ID
	ToLinkID   ID
}

type TurningPathDTO struct {
	ID         ID
	NodeID     ID
	FromLinkID ID
	ToLinkID   ID
	FromLaneID ID
	ToLaneID   ID
	LaneID     ID // the in-junction Lane this path drives
}

type TurningConflictDTO struct {
	FirstPathID  ID
	SecondPathID ID
	Priority     int // stored unchanged on the single TurningConflict both paths share
}

// NetworkLoader is the external collaborator spec §1 and §6 describe: it
// yields network entities in any order, and Build resolves cross-entity
// references, dropping (and logging) any object whose reference target is
// absent rather than failing the whole load (spec §7's NetworkIntegrityError
// policy).
type NetworkLoader interface {
	Nodes() []NodeDTO
	Links() []LinkDTO
	RoadSegments() []RoadSegmentDTO
	Lanes() []LaneDTO
	LaneConnectors() []LaneConnectorDTO
	TurningGroups() []TurningGroupDTO
	TurningPaths() []TurningPathDTO
	TurningConflicts() []TurningConflictDTO
}
