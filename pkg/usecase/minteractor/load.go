// 指示: miu200521358
package minteractor

import (
	"fmt"

	"github.com/miu200521358/mu_bvh2humanoid/pkg/domain/model"
	"github.com/miu200521358/mu_bvh2humanoid/pkg/domain/model/merrors"
	"github.com/miu200521358/mu_bvh2humanoid/pkg/usecase/port/moutput"
)

// LoadBoneNodes はボーン階層を読み込む。rep未指定時は拡張子で読み込み先を選ぶ。
func (uc *Bvh2HumanoidUsecase) LoadBoneNodes(rep moutput.IBoneTreeReader, path string) (*model.BoneNodes, error) {
	repo := rep
	if repo == nil {
		for _, reader := range uc.modelReaders {
			if reader.CanLoad(path) {
				repo = reader
				break
			}
		}
	}
	if repo == nil {
		if len(uc.modelReaders) == 0 {
			return nil, fmt.Errorf("ボーン階層読み込みリポジトリが設定されていません")
		}
		return nil, merrors.NewIoExtInvalid(path, nil)
	}
	return repo.Load(path)
}
