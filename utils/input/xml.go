package input

import (
	"encoding/xml"
	"fmt"
	"os"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/simmobility/st-core/network"
)

// The xmlDoc family mirrors a MITSIM-style road-network file: one flat
// element per entity kind, referencing each other purely by numeric id,
// matching the DTO shape network.Build expects (spec §6's "xml" source).

type xmlDoc struct {
	XMLName    xml.Name         `xml:"network"`
	Nodes      []xmlNode        `xml:"node"`
	Links      []xmlLink        `xml:"link"`
	Segments   []xmlSegment     `xml:"segment"`
	Lanes      []xmlLane        `xml:"lane"`
	Connectors []xmlConnector   `xml:"connector"`
	Groups     []xmlGroup       `xml:"turningGroup"`
	Paths      []xmlPath        `xml:"turningPath"`
	Conflicts  []xmlConflict    `xml:"turningConflict"`
}

type xmlPoint struct {
	X float64 `xml:"x,attr"`
	Y float64 `xml:"y,attr"`
	Z float64 `xml:"z,attr"`
}

func (p xmlPoint) toPoint() geometry.Point { return geometry.Point{X: p.X, Y: p.Y, Z: p.Z} }

type xmlNode struct {
	ID       int64    `xml:"id,attr"`
	Type     int      `xml:"type,attr"`
	Location xmlPoint `xml:"location"`
}

type xmlLink struct {
	ID         int64   `xml:"id,attr"`
	FromNodeID int64   `xml:"fromNodeId,attr"`
	ToNodeID   int64   `xml:"toNodeId,attr"`
	Category   int     `xml:"category,attr"`
	Type       int     `xml:"type,attr"`
	RoadName   string  `xml:"roadName,attr"`
	SegmentIDs []int64 `xml:"segmentId"`
}

type xmlSegment struct {
	ID       int64      `xml:"id,attr"`
	LinkID   int64      `xml:"linkId,attr"`
	MaxSpeed float64    `xml:"maxSpeed,attr"`
	LaneIDs  []int64    `xml:"laneId"`
	Polyline []xmlPoint `xml:"point"`
}

type xmlLane struct {
	ID               int64      `xml:"id,attr"`
	RoadSegmentID    int64      `xml:"roadSegmentId,attr"`
	TurningPathID    int64      `xml:"turningPathId,attr"`
	IndexInSegment   int        `xml:"indexInSegment,attr"`
	Width            float64    `xml:"width,attr"`
	MaxSpeed         float64    `xml:"maxSpeed,attr"`
	IsPedestrianOnly bool       `xml:"isPedestrianOnly,attr"`
	Polyline         []xmlPoint `xml:"point"`
}

type xmlConnector struct {
	FromLaneID int64 `xml:"fromLaneId,attr"`
	ToLaneID   int64 `xml:"toLaneId,attr"`
	PathID     int64 `xml:"pathId,attr"`
}

type xmlGroup struct {
	NodeID     int64 `xml:"nodeId,attr"`
	FromLinkID int64 `xml:"fromLinkId,attr"`
	ToLinkID   int64 `xml:"toLinkId,attr"`
}

type xmlPath struct {
	ID         int64 `xml:"id,attr"`
	NodeID     int64 `xml:"nodeId,attr"`
	FromLinkID int64 `xml:"fromLinkId,attr"`
	ToLinkID   int64 `xml:"toLinkId,attr"`
	FromLaneID int64 `xml:"fromLaneId,attr"`
	ToLaneID   int64 `xml:"toLaneId,attr"`
	LaneID     int64 `xml:"laneId,attr"`
}

type xmlConflict struct {
	FirstPathID  int64 `xml:"firstPathId,attr"`
	SecondPathID int64 `xml:"secondPathId,attr"`
	Priority     int   `xml:"priority,attr"`
}

// LoadXML parses a MITSIM-style network XML file into a network.NetworkLoader,
// matching the teacher's protoutil.UnmarshalFromFile call shape (read the
// whole file into an in-memory document, no streaming) but via
// encoding/xml since this repo's wire schema is no longer protobuf.
func LoadXML(path string) (network.NetworkLoader, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("input: read network xml %q: %w", path, err)
	}
	var doc xmlDoc
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("input: parse network xml %q: %w", path, err)
	}
	log.Infof("loaded network xml %s: %d nodes, %d links, %d lanes", path, len(doc.Nodes), len(doc.Links), len(doc.Lanes))
	return docToLoader(doc), nil
}

func docToLoader(doc xmlDoc) *staticLoader {
	l := &staticLoader{}
	for _, n := range doc.Nodes {
		l.nodes = append(l.nodes, network.NodeDTO{ID: n.ID, Location: n.Location.toPoint(), Type: network.NodeType(n.Type)})
	}
	for _, lk := range doc.Links {
		l.links = append(l.links, network.LinkDTO{
			ID: lk.ID, FromNodeID: lk.FromNodeID, ToNodeID: lk.ToNodeID,
			Category: network.LinkCategory(lk.Category), Type: network.LinkType(lk.Type),
			RoadName: lk.RoadName, SegmentIDs: lk.SegmentIDs,
		})
	}
	for _, s := range doc.Segments {
		l.segments = append(l.segments, network.RoadSegmentDTO{
			ID: s.ID, LinkID: s.LinkID, LaneIDs: s.LaneIDs,
			Polyline: xmlPoints(s.Polyline), MaxSpeed: s.MaxSpeed,
		})
	}
	for _, ln := range doc.Lanes {
		l.lanes = append(l.lanes, network.LaneDTO{
			ID: ln.ID, RoadSegmentID: ln.RoadSegmentID, TurningPathID: ln.TurningPathID,
			IndexInSegment: ln.IndexInSegment, Polyline: xmlPoints(ln.Polyline),
			Width: ln.Width, MaxSpeed: ln.MaxSpeed, IsPedestrianOnly: ln.IsPedestrianOnly,
		})
	}
	for _, c := range doc.Connectors {
		l.connectors = append(l.connectors, network.LaneConnectorDTO{FromLaneID: c.FromLaneID, ToLaneID: c.ToLaneID, PathID: c.PathID})
	}
	for _, g := range doc.Groups {
		l.groups = append(l.groups, network.TurningGroupDTO{NodeID: g.NodeID, FromLinkID: g.FromLinkID, ToLinkID: g.ToLinkID})
	}
	for _, p := range doc.Paths {
		l.paths = append(l.paths, network.TurningPathDTO{
			ID: p.ID, NodeID: p.NodeID, FromLinkID: p.FromLinkID, ToLinkID: p.ToLinkID,
			FromLaneID: p.FromLaneID, ToLaneID: p.ToLaneID, LaneID: p.LaneID,
		})
	}
	for _, c := range doc.Conflicts {
		l.conflicts = append(l.conflicts, network.TurningConflictDTO{FirstPathID: c.FirstPathID, SecondPathID: c.SecondPathID, Priority: c.Priority})
	}
	return l
}

func xmlPoints(pts []xmlPoint) []geometry.Point {
	out := make([]geometry.Point, len(pts))
	for i, p := range pts {
		out[i] = p.toPoint()
	}
	return out
}
