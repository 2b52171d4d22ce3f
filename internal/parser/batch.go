/*
Copyright(C)2023. Huawei Technologies Co.,Ltd. All rights reserved.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

/*
Package parser is using for parsing the batch load model message into udf model descriptors.
*/
package parser

import (
	"fmt"
	"os"
	"path/filepath"

	"k8s.io/klog"

	"github.com/hicann/ge-sub017/internal/model"
	"github.com/hicann/ge-sub017/internal/udfproto"
	"github.com/hicann/ge-sub017/util"
)

func (bp *BatchParser) baseDir(path string) string {
	if dir := bp.ctx.ModelBaseDir(); dir != "" {
		return dir
	}
	return filepath.Dir(path)
}

// ParseModels parse every model of the batch file. Any failure drops the whole batch.
func (bp *BatchParser) ParseModels(path string) ([]*model.Descriptor, error) {
	if bp == nil || bp.ctx == nil {
		klog.V(util.LogErrorLev).Infof("ParseModels: %s.", util.ArgumentError)
		return nil, util.ParamInvalidf("parse models: %s", util.ArgumentError)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		klog.V(util.LogErrorLev).Infof("read batch file %s failed: %v.", path, err)
		return nil, fmt.Errorf("%w: read batch file %s: %v", util.ErrFailed, path, err)
	}
	batch, err := udfproto.DecodeBatch(data)
	if err != nil {
		klog.V(util.LogErrorLev).Infof("decode batch file %s failed: %v.", path, err)
		return nil, fmt.Errorf("%w: %v", util.ErrFailed, err)
	}
	if len(batch.Models) == 0 {
		klog.V(util.LogErrorLev).Infof("batch file %s has no model.", path)
		return nil, fmt.Errorf("%w: batch file %s has no model", util.ErrFailed, path)
	}
	baseDir := bp.baseDir(path)
	descs := make([]*model.Descriptor, 0, len(batch.Models))
	for i := range batch.Models {
		desc, err := ParseSingleModel(bp.ctx, &batch.Models[i], baseDir)
		if err != nil {
			klog.V(util.LogErrorLev).Infof("parse model %d of batch %s failed: %v.", i, path, err)
			return nil, err
		}
		descs = append(descs, desc)
	}
	klog.V(util.LogInfoLev).Infof("parse batch %s success, %d models.", path, len(descs))
	return descs, nil
}
