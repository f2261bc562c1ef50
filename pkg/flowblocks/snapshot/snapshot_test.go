package snapshot_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/randalmurphal/flowblocks/pkg/flowblocks"
	"github.com/randalmurphal/flowblocks/pkg/flowblocks/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleSnapshot is a single condition block.
func sampleSnapshot(flowID string) *snapshot.Snapshot {
	return &snapshot.Snapshot{
		FlowID: flowID,
		Name:   "Approval",
		Nodes: []flowblocks.Node{
			{ID: "start", Type: flowblocks.KindTrigger},
			{ID: "cond", Type: flowblocks.KindCondition, Data: flowblocks.NodeData{Label: "Approved?"}},
			{ID: "yes", Type: flowblocks.KindAction},
			{ID: "no", Type: flowblocks.KindAction},
			{ID: "merge", Type: flowblocks.KindMerge, Data: flowblocks.NodeData{IsMergePlaceholder: true}},
		},
		Edges: []flowblocks.Edge{
			{Source: "start", Target: "cond"},
			{Source: "cond", Target: "yes", BranchID: "Branch 1"},
			{Source: "cond", Target: "no", BranchID: "Branch 2"},
			{Source: "yes", Target: "merge"},
			{Source: "no", Target: "merge"},
		},
	}
}

const sampleJSON = `{
  "flowId": "flow-1",
  "name": "Approval",
  "nodes": [
    {"id": "start", "type": "trigger", "data": {}},
    {"id": "cond", "type": "condition", "data": {"label": "Approved?"}},
    {"id": "yes", "type": "action", "data": {}},
    {"id": "no", "type": "action", "data": {}},
    {"id": "merge", "type": "merge", "data": {"isMergePlaceholder": true}}
  ],
  "edges": [
    {"source": "start", "target": "cond"},
    {"source": "cond", "target": "yes", "branchId": "Branch 1"},
    {"source": "cond", "target": "no", "branchId": "Branch 2"},
    {"source": "yes", "target": "merge"},
    {"source": "no", "target": "merge"}
  ]
}`

const sampleYAML = `
flowId: flow-1
name: Approval
nodes:
  - id: start
    type: trigger
  - id: cond
    type: condition
    data:
      label: Approved?
  - id: "yes"
    type: action
  - id: "no"
    type: action
  - id: merge
    type: merge
    data:
      isMergePlaceholder: true
edges:
  - {source: start, target: cond}
  - {source: cond, target: "yes", branchId: Branch 1}
  - {source: cond, target: "no", branchId: Branch 2}
  - {source: "yes", target: merge}
  - {source: "no", target: merge}
`

func TestFromJSON(t *testing.T) {
	s, err := snapshot.FromJSON([]byte(sampleJSON))
	require.NoError(t, err)

	assert.Equal(t, sampleSnapshot("flow-1"), s)

	mergeID, ok := flowblocks.NewResolver(s.Graph()).FindMergeNode("cond")
	assert.True(t, ok)
	assert.Equal(t, "merge", mergeID)
}

func TestFromYAML(t *testing.T) {
	s, err := snapshot.FromYAML([]byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, sampleSnapshot("flow-1"), s)
}

func TestDecode_Errors(t *testing.T) {
	_, err := snapshot.FromJSON([]byte(`{"nodes": [`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse json")

	_, err = snapshot.FromYAML([]byte("nodes: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse yaml")

	_, err = snapshot.Decode([]byte("{}"), "toml")
	assert.ErrorIs(t, err, snapshot.ErrUnsupportedFormat)
}

func TestEncode(t *testing.T) {
	orig := sampleSnapshot("flow-1")

	for _, format := range []string{snapshot.FormatJSON, snapshot.FormatYAML} {
		t.Run(format, func(t *testing.T) {
			data, err := snapshot.Encode(orig, format)
			require.NoError(t, err)

			decoded, err := snapshot.Decode(data, format)
			require.NoError(t, err)
			assert.Equal(t, orig, decoded)
		})
	}

	_, err := snapshot.Encode(orig, "xml")
	assert.ErrorIs(t, err, snapshot.ErrUnsupportedFormat)
}

func TestFromFile(t *testing.T) {
	tmpDir := t.TempDir()

	jsonPath := filepath.Join(tmpDir, "flow.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(sampleJSON), 0o644))

	ymlPath := filepath.Join(tmpDir, "flow.YML")
	require.NoError(t, os.WriteFile(ymlPath, []byte(sampleYAML), 0o644))

	txtPath := filepath.Join(tmpDir, "flow.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte(sampleJSON), 0o644))

	t.Run("json", func(t *testing.T) {
		s, err := snapshot.FromFile(jsonPath)
		require.NoError(t, err)
		assert.Len(t, s.Nodes, 5)
	})

	t.Run("yml", func(t *testing.T) {
		s, err := snapshot.FromFile(ymlPath)
		require.NoError(t, err)
		assert.Equal(t, "flow-1", s.FlowID)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := snapshot.FromFile(txtPath)
		assert.ErrorIs(t, err, snapshot.ErrUnsupportedFormat)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := snapshot.FromFile(filepath.Join(tmpDir, "missing.json"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read snapshot file")
	})
}

func TestClone(t *testing.T) {
	orig := sampleSnapshot("flow-1")
	c := orig.Clone()

	c.Nodes[0].ID = "changed"
	c.Edges[0].Target = "changed"

	assert.Equal(t, "start", orig.Nodes[0].ID)
	assert.Equal(t, "cond", orig.Edges[0].Target)
}
