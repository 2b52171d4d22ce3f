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
Package model is using for the parsed udf model descriptors.
*/
package model

import (
	"math"

	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/hicann/ge-sub017/internal/attr"
	"github.com/hicann/ge-sub017/internal/queue"
	"github.com/hicann/ge-sub017/util"
)

const (
	// PriorityUnset the esched priority is not set by the user.
	PriorityUnset int32 = math.MinInt32

	// MaxAlignCacheNum max cached inputs of input align.
	MaxAlignCacheNum = 1024
	// MaxAlignTimeout max input align timeout in ms.
	MaxAlignTimeout = 600 * 1000
	// AlignTimeoutNever input align waits forever.
	AlignTimeoutNever = -1
)

// InputAlign input align policy.
type InputAlign struct {
	MaxCacheNum      uint32
	Timeout          int32
	DropWhenNotAlign bool
}

// InvokedQueues feed and fetch queues of one invoked model.
type InvokedQueues struct {
	Feed  []queue.Descriptor
	Fetch []queue.Descriptor
}

// Param everything the deploy request says about one model.
type Param struct {
	ModelPath            string
	InstanceName         string
	InputQueues          []queue.Descriptor
	OutputQueues         []queue.Descriptor
	StatusOutputQueue    *queue.Descriptor
	Scope                string
	IsHead               bool
	EnableExceptionCatch bool
	IsDynamicSched       bool
	NeedReportStatus     bool
	ModelUUID            uint32
	ModelID              uint32
	ReqAttrs             map[string]string
	InputAlign           *InputAlign
	// StatusQueueNum status output queues carried by the request.
	StatusQueueNum int
}

// Descriptor one parsed udf node, immutable after the parse pass.
type Descriptor struct {
	ModelPath    string
	InstanceName string
	LibPath      string
	WorkDir      string
	FuncName     string
	Name         string
	Attrs        attr.Map

	InputQueues       []queue.Descriptor
	OutputQueues      []queue.Descriptor
	StatusOutputQueue *queue.Descriptor

	IsDynamicSched       bool
	NeedReportStatus     bool
	IsHead               bool
	EnableExceptionCatch bool
	NpuSched             bool

	Scope              string
	DataFlowScope      string
	InvokedScopes      []string
	InvokedModelQueues map[string]InvokedQueues

	FuncInputsMap        map[string][]uint32
	FuncOutputsMap       map[string][]uint32
	StreamInputFuncNames sets.Set[string]

	ProcessPriority int32
	EventPriority   int32

	ModelUUID  uint32
	ModelID    uint32
	ReplicaIdx int32
	ReplicaNum int32
	InputAlign *InputAlign
}

// NewDescriptor descriptor seeded from the request param.
func NewDescriptor(param *Param) *Descriptor {
	return &Descriptor{
		ModelPath:            param.ModelPath,
		InstanceName:         param.InstanceName,
		InputQueues:          param.InputQueues,
		OutputQueues:         param.OutputQueues,
		StatusOutputQueue:    param.StatusOutputQueue,
		IsDynamicSched:       param.IsDynamicSched,
		NeedReportStatus:     param.NeedReportStatus,
		IsHead:               param.IsHead,
		EnableExceptionCatch: param.EnableExceptionCatch,
		Scope:                param.Scope,
		ModelUUID:            param.ModelUUID,
		ModelID:              param.ModelID,
		InvokedModelQueues:   make(map[string]InvokedQueues),
		StreamInputFuncNames: sets.New[string](),
		ProcessPriority:      PriorityUnset,
		EventPriority:        PriorityUnset,
	}
}

// IsStreamInput whether the function consumes streamed input.
func (d *Descriptor) IsStreamInput(funcName string) bool {
	if d == nil {
		return false
	}
	return d.StreamInputFuncNames.Has(funcName)
}

// HasInputAlign whether an input align policy is set.
func (d *Descriptor) HasInputAlign() bool {
	return d != nil && d.InputAlign != nil
}

// IsBuiltinUdf the udf binary is the reserved built-in one.
func (d *Descriptor) IsBuiltinUdf() bool {
	return d != nil && d.LibPath == util.BuiltinUdfBinName
}

// NeedNpuSched whether the model is loaded through the npu scheduler.
func (d *Descriptor) NeedNpuSched() bool {
	return d != nil && d.NpuSched
}

// AttrBool typed lookup of a udf attr, false when absent.
func (d *Descriptor) AttrBool(name string) (bool, error) {
	if d == nil {
		return false, nil
	}
	v, _, err := d.Attrs.GetBool(name)
	return v, err
}

// AttrString typed lookup of a udf attr, empty when absent.
func (d *Descriptor) AttrString(name string) (string, error) {
	if d == nil {
		return "", nil
	}
	v, _, err := d.Attrs.GetString(name)
	return v, err
}
