// 指示: miu200521358
package minteractor

import "github.com/miu200521358/mu_bvh2humanoid/pkg/usecase/port/moutput"

// Bvh2HumanoidUsecaseDeps は骨格推定ユースケースの依存を表す。
type Bvh2HumanoidUsecaseDeps struct {
	ModelReaders  []moutput.IBoneTreeReader
	MappingWriter moutput.IMappingWriter
}

// Bvh2HumanoidUsecase はボーン階層の読み込みからスロット対応の保存までをまとめたユースケースを表す。
type Bvh2HumanoidUsecase struct {
	modelReaders  []moutput.IBoneTreeReader
	mappingWriter moutput.IMappingWriter
}

// NewBvh2HumanoidUsecase は骨格推定ユースケースを生成する。
func NewBvh2HumanoidUsecase(deps Bvh2HumanoidUsecaseDeps) *Bvh2HumanoidUsecase {
	readers := make([]moutput.IBoneTreeReader, 0, len(deps.ModelReaders))
	for _, reader := range deps.ModelReaders {
		if reader != nil {
			readers = append(readers, reader)
		}
	}
	return &Bvh2HumanoidUsecase{
		modelReaders:  readers,
		mappingWriter: deps.MappingWriter,
	}
}
