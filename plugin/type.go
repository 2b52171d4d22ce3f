/*
Copyright(C)2020-2022. Huawei Technologies Co.,Ltd. All rights reserved.

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

// Package plugin is using for driving the npu scheduler runtime.
package plugin

import (
	"github.com/hicann/ge-sub017/config"
	"github.com/hicann/ge-sub017/internal/queue"
	"github.com/hicann/ge-sub017/npuinterface"
)

// BackendBuilder build a backend instance for a new bridge. Return an untyped nil on failure,
// a typed nil pointer inside the interface is not detected by NewBridge.
type BackendBuilder func() npuinterface.NpuSchedulerBackend

// QueueInfos queue containers the bridge appends the runtime generated queues to.
type QueueInfos struct {
	Inputs  []queue.Descriptor
	Outputs []queue.Descriptor
}

// NpuSchedBridge drive the npu scheduler runtime for one worker.
// Not safe for concurrent use, one goroutine owns a bridge from Initialize to Finalize.
type NpuSchedBridge struct {
	ctx       *config.DeployContext
	backend   npuinterface.NpuSchedulerBackend
	deviceID  int32
	libOpened bool
	handles   []npuinterface.ModelHandle
}
