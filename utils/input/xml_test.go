package input

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleNetworkXML = `<?xml version="1.0"?>
<network>
  <node id="1"><location x="0" y="0" z="0"/></node>
  <node id="2"><location x="100" y="0" z="0"/></node>
  <link id="10" fromNodeId="1" toNodeId="2">
    <segmentId>100</segmentId>
  </link>
  <segment id="100" linkId="10" maxSpeed="20">
    <laneId>1000</laneId>
    <point x="0" y="0" z="0"/>
    <point x="100" y="0" z="0"/>
  </segment>
  <lane id="1000" roadSegmentId="100" width="3.5" maxSpeed="20">
    <point x="0" y="0" z="0"/>
    <point x="100" y="0" z="0"/>
  </lane>
</network>
`

func TestLoadXMLParsesNetworkDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "net.xml")
	require.NoError(t, os.WriteFile(path, []byte(sampleNetworkXML), 0o644))

	loader, err := LoadXML(path)
	require.NoError(t, err)

	require.Len(t, loader.Nodes(), 2)
	require.Len(t, loader.Links(), 1)
	require.Len(t, loader.RoadSegments(), 1)
	require.Len(t, loader.Lanes(), 1)

	lane := loader.Lanes()[0]
	assert.EqualValues(t, 1000, lane.ID)
	assert.InDelta(t, 3.5, lane.Width, 1e-9)
	assert.Len(t, lane.Polyline, 2)
}

func TestLoadXMLReturnsErrorForMissingFile(t *testing.T) {
	_, err := LoadXML(filepath.Join(t.TempDir(), "missing.xml"))
	assert.Error(t, err)
}
