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
	"regexp"

	"github.com/hicann/ge-sub017/config"
	"github.com/hicann/ge-sub017/internal/model"
	"github.com/hicann/ge-sub017/internal/udfproto"
)

var binNamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// BatchParser parse a batch load model file. It writes the deploy context, so one batch at a time per context.
type BatchParser struct {
	ctx *config.DeployContext
}

// udfModelParser state of one model parse pass.
type udfModelParser struct {
	ctx      *config.DeployContext
	param    *model.Param
	realPath string
	udfDef   *udfproto.UdfDef
	desc     *model.Descriptor
}

// NewBatchParser new a batch parser over the deploy context.
func NewBatchParser(ctx *config.DeployContext) *BatchParser {
	return &BatchParser{ctx: ctx}
}

func newUdfModelParser(ctx *config.DeployContext, param *model.Param) *udfModelParser {
	return &udfModelParser{
		ctx:   ctx,
		param: param,
		desc:  model.NewDescriptor(param),
	}
}
