package input

import (
	"context"
	"fmt"
	"time"

	"git.fiblab.net/general/common/v2/geometry"
	"git.fiblab.net/general/common/v2/mongoutil"
	"github.com/simmobility/st-core/network"
	"github.com/simmobility/st-core/utils/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// bson-tagged mirrors of the DTOs, one collection per entity kind under the
// InputPath.DB database — "node", "link", "segment", "lane", "connector",
// "turning_group", "turning_path", "turning_conflict".

type bsonPoint struct {
	X float64 `bson:"x"`
	Y float64 `bson:"y"`
	Z float64 `bson:"z"`
}

func (p bsonPoint) toPoint() geometry.Point { return geometry.Point{X: p.X, Y: p.Y, Z: p.Z} }

type bsonNode struct {
	ID       int64     `bson:"id"`
	Location bsonPoint `bson:"location"`
	Type     int       `bson:"type"`
}

type bsonLink struct {
	ID         int64   `bson:"id"`
	FromNodeID int64   `bson:"from_node_id"`
	ToNodeID   int64   `bson:"to_node_id"`
	Category   int     `bson:"category"`
	Type       int     `bson:"type"`
	RoadName   string  `bson:"road_name"`
	SegmentIDs []int64 `bson:"segment_ids"`
}

type bsonSegment struct {
	ID       int64       `bson:"id"`
	LinkID   int64       `bson:"link_id"`
	LaneIDs  []int64     `bson:"lane_ids"`
	Polyline []bsonPoint `bson:"polyline"`
	MaxSpeed float64     `bson:"max_speed"`
}

type bsonLane struct {
	ID               int64       `bson:"id"`
	RoadSegmentID    int64       `bson:"road_segment_id"`
	TurningPathID    int64       `bson:"turning_path_id"`
	IndexInSegment   int         `bson:"index_in_segment"`
	Polyline         []bsonPoint `bson:"polyline"`
	Width            float64     `bson:"width"`
	MaxSpeed         float64     `bson:"max_speed"`
	IsPedestrianOnly bool        `bson:"is_pedestrian_only"`
}

type bsonConnector struct {
	FromLaneID int64 `bson:"from_lane_id"`
	ToLaneID   int64 `bson:"to_lane_id"`
	PathID     int64 `bson:"path_id"`
}

type bsonGroup struct {
	NodeID     int64 `bson:"node_id"`
	FromLinkID int64 `bson:"from_link_id"`
	ToLinkID   int64 `bson:"to_link_id"`
}

type bsonPath struct {
	ID         int64 `bson:"id"`
	NodeID     int64 `bson:"node_id"`
	FromLinkID int64 `bson:"from_link_id"`
	ToLinkID   int64 `bson:"to_link_id"`
	FromLaneID int64 `bson:"from_lane_id"`
	ToLaneID   int64 `bson:"to_lane_id"`
	LaneID     int64 `bson:"lane_id"`
}

type bsonConflict struct {
	FirstPathID  int64 `bson:"first_path_id"`
	SecondPathID int64 `bson:"second_path_id"`
	Priority     int   `bson:"priority"`
}

// LoadMongo downloads every network collection under inputPath.DB from the
// server at uri, optionally served from cacheDir on a cache hit (spec §6's
// "database" network source). Grounded on the teacher's mongoutil.NewClient
// connection setup and preCheckCache gate; unlike the teacher's
// mongoutil.DownloadPbFromMongo (which requires a proto.Message target),
// this repo's DTOs are plain structs, so collections are read with the
// driver's native bson decoding instead.
func LoadMongo(inputPath config.InputPath, uri string, cacheDir string) (network.NetworkLoader, error) {
	if cached, ok := loadFromDiskCache(inputPath, cacheDir); ok {
		log.Infof("serving network from disk cache at %s", cachePath(inputPath, cacheDir))
		return cached, nil
	}
	if inputPath.OnlyCache {
		return nil, fmt.Errorf("input: %s.%s has no cache entry and only_cache is set", inputPath.DB, inputPath.Col)
	}

	client := mongoutil.NewClient(uri)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	defer client.Disconnect(context.Background())

	db := client.Database(inputPath.DB)
	l := &staticLoader{}

	var err error
	if l.nodes, err = fetch[bsonNode, network.NodeDTO](ctx, db.Collection("node"), nodeFromBSON); err != nil {
		return nil, err
	}
	if l.links, err = fetch[bsonLink, network.LinkDTO](ctx, db.Collection("link"), linkFromBSON); err != nil {
		return nil, err
	}
	if l.segments, err = fetch[bsonSegment, network.RoadSegmentDTO](ctx, db.Collection("segment"), segmentFromBSON); err != nil {
		return nil, err
	}
	if l.lanes, err = fetch[bsonLane, network.LaneDTO](ctx, db.Collection("lane"), laneFromBSON); err != nil {
		return nil, err
	}
	if l.connectors, err = fetch[bsonConnector, network.LaneConnectorDTO](ctx, db.Collection("connector"), connectorFromBSON); err != nil {
		return nil, err
	}
	if l.groups, err = fetch[bsonGroup, network.TurningGroupDTO](ctx, db.Collection("turning_group"), groupFromBSON); err != nil {
		return nil, err
	}
	if l.paths, err = fetch[bsonPath, network.TurningPathDTO](ctx, db.Collection("turning_path"), pathFromBSON); err != nil {
		return nil, err
	}
	if l.conflicts, err = fetch[bsonConflict, network.TurningConflictDTO](ctx, db.Collection("turning_conflict"), conflictFromBSON); err != nil {
		return nil, err
	}

	log.Infof("downloaded network from %s.%s: %d nodes, %d links, %d lanes", inputPath.DB, inputPath.Col, len(l.nodes), len(l.links), len(l.lanes))
	saveToDiskCache(inputPath, cacheDir, l)
	return l, nil
}

// fetch runs an unfiltered Find against coll, decoding every document as B
// and converting it to D via convert.
func fetch[B any, D any](ctx context.Context, coll *mongo.Collection, convert func(B) D) ([]D, error) {
	cur, err := coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("input: query %s: %w", coll.Name(), err)
	}
	defer cur.Close(ctx)
	var raw []B
	if err := cur.All(ctx, &raw); err != nil {
		return nil, fmt.Errorf("input: decode %s: %w", coll.Name(), err)
	}
	out := make([]D, len(raw))
	for i, r := range raw {
		out[i] = convert(r)
	}
	return out, nil
}

func nodeFromBSON(n bsonNode) network.NodeDTO {
	return network.NodeDTO{ID: n.ID, Location: n.Location.toPoint(), Type: network.NodeType(n.Type)}
}

func linkFromBSON(l bsonLink) network.LinkDTO {
	return network.LinkDTO{
		ID: l.ID, FromNodeID: l.FromNodeID, ToNodeID: l.ToNodeID,
		Category: network.LinkCategory(l.Category), Type: network.LinkType(l.Type),
		RoadName: l.RoadName, SegmentIDs: l.SegmentIDs,
	}
}

func segmentFromBSON(s bsonSegment) network.RoadSegmentDTO {
	return network.RoadSegmentDTO{ID: s.ID, LinkID: s.LinkID, LaneIDs: s.LaneIDs, Polyline: bsonPoints(s.Polyline), MaxSpeed: s.MaxSpeed}
}

func laneFromBSON(l bsonLane) network.LaneDTO {
	return network.LaneDTO{
		ID: l.ID, RoadSegmentID: l.RoadSegmentID, TurningPathID: l.TurningPathID,
		IndexInSegment: l.IndexInSegment, Polyline: bsonPoints(l.Polyline),
		Width: l.Width, MaxSpeed: l.MaxSpeed, IsPedestrianOnly: l.IsPedestrianOnly,
	}
}

func connectorFromBSON(c bsonConnector) network.LaneConnectorDTO {
	return network.LaneConnectorDTO{FromLaneID: c.FromLaneID, ToLaneID: c.ToLaneID, PathID: c.PathID}
}

func groupFromBSON(g bsonGroup) network.TurningGroupDTO {
	return network.TurningGroupDTO{NodeID: g.NodeID, FromLinkID: g.FromLinkID, ToLinkID: g.ToLinkID}
}

func pathFromBSON(p bsonPath) network.TurningPathDTO {
	return network.TurningPathDTO{
		ID: p.ID, NodeID: p.NodeID, FromLinkID: p.FromLinkID, ToLinkID: p.ToLinkID,
		FromLaneID: p.FromLaneID, ToLaneID: p.ToLaneID, LaneID: p.LaneID,
	}
}

func conflictFromBSON(c bsonConflict) network.TurningConflictDTO {
	return network.TurningConflictDTO{FirstPathID: c.FirstPathID, SecondPathID: c.SecondPathID, Priority: c.Priority}
}

func bsonPoints(pts []bsonPoint) []geometry.Point {
	out := make([]geometry.Point, len(pts))
	for i, p := range pts {
		out[i] = p.toPoint()
	}
	return out
}
