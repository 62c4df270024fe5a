package mapping

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/miu200521358/mu_bvh2humanoid/pkg/domain/model"
	"github.com/miu200521358/mu_bvh2humanoid/pkg/domain/model/merrors"
	"github.com/miu200521358/mu_bvh2humanoid/pkg/usecase/port/moutput"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// newTestSkeleton は3ノードの対応を生成する。
func newTestSkeleton(t *testing.T) *model.SkeletonMap {
	t.Helper()
	nodes, err := model.NewBoneNodesFromRecords([]model.BoneRecord{
		{Name: "Hips", ParentIndex: -1},
		{Name: "Spine", ParentIndex: 0},
		{Name: "LeftThumb1", ParentIndex: 1},
	})
	require.NoError(t, err)
	skeleton := model.NewSkeletonMap(nodes)
	require.NoError(t, skeleton.Set(model.LeftThumbProximal, 2))
	require.NoError(t, skeleton.Set(model.Spine, 1))
	require.NoError(t, skeleton.Set(model.Hips, 0))
	return skeleton
}

func TestEncodeJSONSortsBySlotOrder(t *testing.T) {
	var out bytes.Buffer
	err := NewMappingRepository().Encode(&out, newTestSkeleton(t), moutput.SaveOptions{
		Format:   moutput.MappingFormatJSON,
		Warnings: []string{model.EstimateWarningLegSideTie},
	})
	require.NoError(t, err)

	doc := struct {
		Bones []struct {
			Bone  string `json:"bone"`
			Trait string `json:"trait"`
			Index int    `json:"index"`
			Name  string `json:"name"`
		} `json:"bones"`
		Warnings []string `json:"warnings"`
	}{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	require.Len(t, doc.Bones, 3)
	require.Equal(t, "Hips", doc.Bones[0].Bone)
	require.Equal(t, "Spine", doc.Bones[1].Bone)
	require.Equal(t, "LeftThumbProximal", doc.Bones[2].Bone)
	require.Equal(t, "Left Thumb Proximal", doc.Bones[2].Trait)
	require.Equal(t, "LeftThumb1", doc.Bones[2].Name)
	require.Equal(t, []string{model.EstimateWarningLegSideTie}, doc.Warnings)
}

func TestEncodeYAMLUsesSlotNames(t *testing.T) {
	var out bytes.Buffer
	err := NewMappingRepository().Encode(&out, newTestSkeleton(t), moutput.SaveOptions{Format: moutput.MappingFormatYAML})
	require.NoError(t, err)

	doc := MappingDocument{}
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &doc))
	require.Len(t, doc.Bones, 3)
	require.Equal(t, model.Spine, doc.Bones[1].HumanBone)
	require.Empty(t, doc.Warnings)
	require.Contains(t, out.String(), "bone: Hips")
}

func TestEncodeText(t *testing.T) {
	var out bytes.Buffer
	err := NewMappingRepository().Encode(&out, newTestSkeleton(t), moutput.SaveOptions{
		Format:   moutput.MappingFormatText,
		Warnings: []string{model.EstimateWarningSpineNodesDropped},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 6)
	require.True(t, strings.HasPrefix(lines[0], "BONE"))
	require.Contains(t, lines[4], "Left Thumb Proximal")
	require.Equal(t, "# warning: "+model.EstimateWarningSpineNodesDropped, lines[5])
}

func TestSaveWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "motion_humanoid.json")
	require.NoError(t, NewMappingRepository().Save(path, newTestSkeleton(t), moutput.SaveOptions{}))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(b), `"bone": "Hips"`)
}

func TestSaveErrors(t *testing.T) {
	repo := NewMappingRepository()
	require.Error(t, repo.Save("", newTestSkeleton(t), moutput.SaveOptions{}))

	err := repo.Save(filepath.Join(t.TempDir(), "a.json"), nil, moutput.SaveOptions{})
	require.True(t, merrors.IsIoSaveFailedError(err))

	err = repo.Save(filepath.Join(t.TempDir(), "a.csv"), newTestSkeleton(t), moutput.SaveOptions{Format: "csv"})
	require.True(t, merrors.IsIoSaveFailedError(err))
}
