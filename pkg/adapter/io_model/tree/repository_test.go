package tree

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/miu200521358/mu_bvh2humanoid/pkg/domain/model/merrors"
	"github.com/stretchr/testify/require"
)

const nestedYaml = `root:
  name: Hips
  offset: [0, 10, 0]
  children:
    - name: LeftUpLeg
      offset: [-1, 0, 0]
    - name: RightUpLeg
      offset: [1, 0, 0]
`

const flatJSON = `{"bones": [
  {"name": "A", "position": [0, 1, 0]},
  {"name": "B", "parent": 0, "position": [0, 2, 0]},
  {"name": "C"}
]}`

// writeFile はテスト用ファイルを書き込む。
func writeFile(t *testing.T, name string, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestTreeRepositoryLoadNestedYaml(t *testing.T) {
	nodes, err := NewTreeRepository().Load(writeFile(t, "tree.yaml", nestedYaml))
	require.NoError(t, err)

	require.Equal(t, 3, nodes.Len())
	require.Equal(t, []int{1, 2}, nodes.Children(0))
	left, err := nodes.Get(1)
	require.NoError(t, err)
	require.Equal(t, "LeftUpLeg", left.Name)
	require.InDelta(t, -1.0, left.Position.X, 1e-9)
	require.InDelta(t, 10.0, left.Position.Y, 1e-9)
}

func TestTreeRepositoryLoadFlatJSONKeepsRoots(t *testing.T) {
	nodes, err := NewTreeRepository().Load(writeFile(t, "tree.json", flatJSON))
	require.NoError(t, err)

	require.Equal(t, 3, nodes.Len())
	require.Equal(t, []int{0, 2}, nodes.RootIndexes())
	b, err := nodes.Get(1)
	require.NoError(t, err)
	require.Equal(t, 0, b.ParentIndex)
}

func TestTreeRepositoryFlatBreadthFirstMatchesNested(t *testing.T) {
	flat := `{"bones": [
  {"name": "Hips", "position": [0, 10, 0]},
  {"name": "LeftUpLeg", "parent": 0, "position": [-1, 10, 0]},
  {"name": "RightUpLeg", "parent": 0, "position": [1, 10, 0]},
  {"name": "LeftLeg", "parent": 1, "position": [-1, 5, 0]},
  {"name": "RightLeg", "parent": 2, "position": [1, 5, 0]}
]}`
	nested := `root:
  name: Hips
  offset: [0, 10, 0]
  children:
    - name: LeftUpLeg
      offset: [-1, 0, 0]
      children:
        - name: LeftLeg
          offset: [0, -5, 0]
    - name: RightUpLeg
      offset: [1, 0, 0]
      children:
        - name: RightLeg
          offset: [0, -5, 0]
`
	repo := NewTreeRepository()
	flatNodes, err := repo.Load(writeFile(t, "flat.json", flat))
	require.NoError(t, err)
	nestedNodes, err := repo.Load(writeFile(t, "nested.yaml", nested))
	require.NoError(t, err)

	require.Equal(t, nestedNodes.Len(), flatNodes.Len())
	for i := 0; i < nestedNodes.Len(); i++ {
		want, err := nestedNodes.Get(i)
		require.NoError(t, err)
		got, err := flatNodes.Get(i)
		require.NoError(t, err)
		require.Equal(t, want.Name, got.Name, "index=%d", i)
		require.Equal(t, want.ParentIndex, got.ParentIndex, "index=%d", i)
		require.InDelta(t, want.Position.Y, got.Position.Y, 1e-9, "index=%d", i)
	}
}

func TestTreeRepositoryRejectsInvalidDocuments(t *testing.T) {
	repo := NewTreeRepository()
	cases := map[string]string{
		"both forms.json": `{"root": {"name": "A"}, "bones": [{"name": "B"}]}`,
		"neither.json":    `{}`,
		"bad offset.yaml": "root:\n  name: A\n  offset: [1, 2]\n",
		"no name.yaml":    "root:\n  offset: [1, 2, 3]\n",
		"unknown.json":    `{"root": {"name": "A", "rotation": [0, 0, 0]}}`,
		"bad parent.json": `{"bones": [{"name": "A", "parent": 5}]}`,
		"cycle.json":      `{"bones": [{"name": "A"}, {"name": "B", "parent": 2}, {"name": "C", "parent": 1}]}`,
		"broken.yaml":     "root: [\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := repo.Load(writeFile(t, name, body))
			require.True(t, merrors.IsIoParseFailedError(err), "err=%v", err)
		})
	}
}

func TestTreeRepositoryCanLoad(t *testing.T) {
	repo := NewTreeRepository()
	require.True(t, repo.CanLoad("a.JSON"))
	require.True(t, repo.CanLoad("a.yml"))
	require.False(t, repo.CanLoad("a.bvh"))

	_, err := repo.Load("a.bvh")
	require.True(t, merrors.IsIoExtInvalidError(err))
}
