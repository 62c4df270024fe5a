// 指示: miu200521358
package moutput

import "github.com/miu200521358/mu_bvh2humanoid/pkg/domain/model"

// MappingFormat はマッピング出力形式を表す。
type MappingFormat string

const (
	// MappingFormatJSON はJSON出力。
	MappingFormatJSON MappingFormat = "json"
	// MappingFormatYAML はYAML出力。
	MappingFormatYAML MappingFormat = "yaml"
	// MappingFormatText は表形式テキスト出力。
	MappingFormatText MappingFormat = "text"
)

// Ext は出力形式に対応する拡張子を返す。
func (f MappingFormat) Ext() string {
	switch f {
	case MappingFormatYAML:
		return ".yaml"
	case MappingFormatText:
		return ".txt"
	default:
		return ".json"
	}
}

// IsValid は既知の出力形式か判定する。
func (f MappingFormat) IsValid() bool {
	switch f {
	case MappingFormatJSON, MappingFormatYAML, MappingFormatText:
		return true
	default:
		return false
	}
}

// IBoneTreeReader はボーン階層の読み込み契約を表す。
type IBoneTreeReader interface {
	// CanLoad は読み込み可能なパスか判定する。
	CanLoad(path string) bool
	// Load はパスからボーン一覧を読み込む。
	Load(path string) (*model.BoneNodes, error)
}

// IMappingWriter はスロット対応の書き込み契約を表す。
type IMappingWriter interface {
	// Save はスロット対応をパスへ保存する。
	Save(path string, skeleton *model.SkeletonMap, opts SaveOptions) error
}

// SaveOptions は保存時のオプションを表す。
type SaveOptions struct {
	Format MappingFormat
	// Warnings は出力へ添える推定警告ID。
	Warnings []string
}
