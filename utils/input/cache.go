package input

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/simmobility/st-core/network"
	"github.com/simmobility/st-core/utils/config"
)

// cacheDoc is the on-disk JSON representation of a downloaded network — a
// flattened DTO bundle, independent of whatever document shape the source
// database used.
type cacheDoc struct {
	Nodes      []network.NodeDTO
	Links      []network.LinkDTO
	Segments   []network.RoadSegmentDTO
	Lanes      []network.LaneDTO
	Connectors []network.LaneConnectorDTO
	Groups     []network.TurningGroupDTO
	Paths      []network.TurningPathDTO
	Conflicts  []network.TurningConflictDTO
}

// cachePath mirrors config.InputPath.CachePath's "db.col.cache" naming,
// joined under cacheDir.
func cachePath(p config.InputPath, cacheDir string) string {
	if cacheDir == "" {
		return ""
	}
	return filepath.Join(cacheDir, p.CachePath())
}

// loadFromDiskCache reads a previously saved download, matching the
// teacher's preCheckCache-then-LoadWithCache flow. Unlike the teacher's
// common/v2/cache.LoadWithCache (whose generic signature is proto-oriented
// and isn't confirmed to accept a plain struct T — see DESIGN.md), this is a
// direct equivalent written against this repo's own DTOs: same
// cache-hit-skips-network behavior, JSON instead of the teacher's cache
// codec.
func loadFromDiskCache(p config.InputPath, cacheDir string) (*staticLoader, bool) {
	path := cachePath(p, cacheDir)
	if path == "" {
		return nil, false
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	var doc cacheDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		log.Warnf("input: ignoring corrupt cache file %s: %v", path, err)
		return nil, false
	}
	return &staticLoader{
		nodes: doc.Nodes, links: doc.Links, segments: doc.Segments, lanes: doc.Lanes,
		connectors: doc.Connectors, groups: doc.Groups, paths: doc.Paths, conflicts: doc.Conflicts,
	}, true
}

// saveToDiskCache persists a freshly downloaded network for the next run's
// loadFromDiskCache to pick up; failures are logged, not fatal, since the
// simulation already has the data it needs in memory.
func saveToDiskCache(p config.InputPath, cacheDir string, l *staticLoader) {
	path := cachePath(p, cacheDir)
	if path == "" {
		return
	}
	doc := cacheDoc{
		Nodes: l.nodes, Links: l.links, Segments: l.segments, Lanes: l.lanes,
		Connectors: l.connectors, Groups: l.groups, Paths: l.paths, Conflicts: l.conflicts,
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		log.Warnf("input: failed to marshal cache for %s.%s: %v", p.DB, p.Col, err)
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Warnf("input: failed to create cache dir for %s: %v", path, err)
		return
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		log.Warnf("input: failed to write cache file %s: %v", path, err)
	}
}
