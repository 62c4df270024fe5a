// 指示: miu200521358
package mapping

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/miu200521358/mu_bvh2humanoid/pkg/domain/model"
	"github.com/miu200521358/mu_bvh2humanoid/pkg/domain/model/merrors"
	"github.com/miu200521358/mu_bvh2humanoid/pkg/usecase/port/moutput"
	"gopkg.in/yaml.v3"
)

const (
	outputDirFileMode = 0o755
	outputFileMode    = 0o644
)

// MappingDocument は保存するスロット対応の内容を表す。
type MappingDocument struct {
	Bones    []model.HumanBoneBinding `json:"bones" yaml:"bones"`
	Warnings []string                 `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// MappingRepository はスロット対応の書き込みを表す。
type MappingRepository struct{}

// NewMappingRepository はMappingRepositoryを生成する。
func NewMappingRepository() *MappingRepository {
	return &MappingRepository{}
}

// NewMappingDocument はスロット対応から保存内容を組み立てる。
func NewMappingDocument(skeleton *model.SkeletonMap, warnings []string) *MappingDocument {
	return &MappingDocument{
		Bones:    skeleton.Bindings(),
		Warnings: append([]string(nil), warnings...),
	}
}

// Encode は指定形式でスロット対応を書き出す。
func (r *MappingRepository) Encode(w io.Writer, skeleton *model.SkeletonMap, opts moutput.SaveOptions) error {
	if skeleton == nil {
		return fmt.Errorf("保存対象のマッピングが未設定です")
	}
	doc := NewMappingDocument(skeleton, opts.Warnings)

	switch opts.Format {
	case moutput.MappingFormatJSON, "":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(doc)
	case moutput.MappingFormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(doc); err != nil {
			return err
		}
		return encoder.Close()
	case moutput.MappingFormatText:
		return encodeText(w, doc)
	default:
		return fmt.Errorf("未対応の出力形式です: %s", opts.Format)
	}
}

// Save はスロット対応をファイルへ保存する。
func (r *MappingRepository) Save(path string, skeleton *model.SkeletonMap, opts moutput.SaveOptions) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("保存先パスが未指定です")
	}
	var out bytes.Buffer
	if err := r.Encode(&out, skeleton, opts); err != nil {
		return merrors.NewIoSaveFailed("マッピングの変換に失敗しました", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), outputDirFileMode); err != nil {
		return merrors.NewIoSaveFailed("保存先ディレクトリの作成に失敗しました", err)
	}
	if err := os.WriteFile(path, out.Bytes(), outputFileMode); err != nil {
		return merrors.NewIoSaveFailed("マッピングの保存に失敗しました", err)
	}
	return nil
}

// encodeText は表形式でスロット対応を書き出す。
func encodeText(w io.Writer, doc *MappingDocument) error {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "BONE\tTRAIT\tINDEX\tNAME")
	fmt.Fprintln(tw, "----\t-----\t-----\t----")
	for _, binding := range doc.Bones {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", binding.HumanBone, binding.TraitName, binding.Index, binding.NodeName)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	for _, warning := range doc.Warnings {
		if _, err := fmt.Fprintf(w, "# warning: %s\n", warning); err != nil {
			return err
		}
	}
	return nil
}
