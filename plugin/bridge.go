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

/*
Package plugin is using for driving the npu scheduler runtime.
*/
package plugin

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"k8s.io/klog"

	"github.com/hicann/ge-sub017/internal/model"
	"github.com/hicann/ge-sub017/internal/queue"
	"github.com/hicann/ge-sub017/npuinterface"
	"github.com/hicann/ge-sub017/util"
)

// DeviceID the initialized device, -1 before Initialize.
func (b *NpuSchedBridge) DeviceID() int32 {
	if b == nil {
		return uninitializedDeviceID
	}
	return b.deviceID
}

// LibraryLoaded whether the runtime library is open.
func (b *NpuSchedBridge) LibraryLoaded() bool {
	return b != nil && b.libOpened
}

// HandleCount model handlers owned by the bridge.
func (b *NpuSchedBridge) HandleCount() int {
	if b == nil {
		return 0
	}
	return len(b.handles)
}

func (b *NpuSchedBridge) isInitialized() bool {
	return b.deviceID != uninitializedDeviceID
}

// Initialize open the runtime library and initialize it on the device.
func (b *NpuSchedBridge) Initialize(deviceID int32) error {
	if b == nil || b.backend == nil {
		klog.V(util.LogErrorLev).Infof("Initialize %s.", util.ArgumentError)
		return errors.New(util.ArgumentError)
	}
	if b.isInitialized() {
		klog.V(util.LogErrorLev).Infof("%s already initialized on device %d, finalize first.", PluginName,
			b.deviceID)
		return util.ParamInvalidf("%s already initialized on device %d", PluginName, b.deviceID)
	}
	if deviceID < 0 {
		return util.ParamInvalidf("initialize %s with device id %d", PluginName, deviceID)
	}
	if !b.libOpened {
		if err := b.backend.Open(); err != nil {
			klog.V(util.LogErrorLev).Infof("%s open npu sched library failed: %v.", PluginName, err)
			return fmt.Errorf("%w: %v", util.ErrFailed, err)
		}
		b.libOpened = true
	}
	if err := b.backend.InitializeNpuSched(deviceID); err != nil {
		klog.V(util.LogErrorLev).Infof("%s initialize npu sched on device %d failed: %v.", PluginName,
			deviceID, err)
		return fmt.Errorf("%w: %v", util.ErrFailed, err)
	}
	b.deviceID = deviceID
	klog.V(util.LogInfoLev).Infof("%s initialize on device %d success.", PluginName, deviceID)
	return nil
}

func toQueueAttrs(q queue.Descriptor) npuinterface.QueueAttrs {
	return npuinterface.QueueAttrs{
		QueueID:    q.QueueID,
		DeviceType: q.DeviceType,
		DeviceID:   q.DeviceID,
		LogicID:    q.LogicQueueID,
	}
}

func toQueueAttrsList(queues []queue.Descriptor) []npuinterface.QueueAttrs {
	out := make([]npuinterface.QueueAttrs, 0, len(queues))
	for _, q := range queues {
		out = append(out, toQueueAttrs(q))
	}
	return out
}

// buildLoadParam translate the descriptor into the runtime load param.
func (b *NpuSchedBridge) buildLoadParam(desc *model.Descriptor) *npuinterface.LoadParam {
	param := &npuinterface.LoadParam{
		ModelID:          desc.ModelID,
		DeviceID:         b.deviceID,
		ModelUUID:        desc.ModelUUID,
		InputQueues:      toQueueAttrsList(desc.InputQueues),
		OutputQueues:     toQueueAttrsList(desc.OutputQueues),
		IsDynamicSched:   desc.IsDynamicSched,
		NeedReportStatus: desc.NeedReportStatus,
		IsHead:           desc.IsHead,
	}
	if desc.StatusOutputQueue != nil {
		param.StatusOutputQueue = toQueueAttrs(*desc.StatusOutputQueue)
		param.HasStatusQueue = true
	}
	if desc.HasInputAlign() {
		param.InputAlign = npuinterface.InputAlignAttrs{
			AlignMaxCacheNum: desc.InputAlign.MaxCacheNum,
			AlignTimeout:     desc.InputAlign.Timeout,
			DropWhenNotAlign: desc.InputAlign.DropWhenNotAlign,
		}
		param.HasInputAlign = true
	}
	return param
}

// LoadNpuSchedModel load the model through the runtime and append the generated
// request and response queues to queueInfos.
func (b *NpuSchedBridge) LoadNpuSchedModel(desc *model.Descriptor, queueInfos *QueueInfos) error {
	if b == nil || b.backend == nil || desc == nil || queueInfos == nil {
		klog.V(util.LogErrorLev).Infof("LoadNpuSchedModel %s.", util.ArgumentError)
		return errors.New(util.ArgumentError)
	}
	if !b.libOpened || !b.isInitialized() {
		klog.V(util.LogErrorLev).Infof("%s load model %s before initialized.", PluginName, desc.ModelPath)
		return fmt.Errorf("%w: %s not initialized", util.ErrFailed, PluginName)
	}
	handle, err := b.backend.CreateModelHandler()
	if err != nil {
		klog.V(util.LogErrorLev).Infof("%s create model handler for %s failed: %v.", PluginName,
			desc.ModelPath, err)
		return fmt.Errorf("%w: %v", util.ErrFailed, err)
	}
	// tracked before loading, teardown covers a handler whose load failed
	b.handles = append(b.handles, handle)

	param := b.buildLoadParam(desc)
	if err := b.backend.LoadModel(handle, param); err != nil {
		klog.V(util.LogErrorLev).Infof("%s load model %s failed: %v.", PluginName, desc.ModelPath, err)
		return fmt.Errorf("%w: %v", util.ErrFailed, err)
	}
	physicalDeviceID := b.ctx.PhysicalDeviceID()
	reqQueue := queue.NewNpuProxy(param.ReqMsgQueueID, physicalDeviceID)
	respQueue := queue.NewNpuProxy(param.RespMsgQueueID, physicalDeviceID)
	queueInfos.Inputs = append(queueInfos.Inputs, reqQueue)
	queueInfos.Outputs = append(queueInfos.Outputs, respQueue)
	klog.V(util.LogInfoLev).Infof("%s load model %s success, req queue %s, resp queue %s.", PluginName,
		desc.ModelPath, reqQueue.String(), respQueue.String())
	return nil
}

// LoadNpuSchedModels load every descriptor marked for npu scheduling, stop at the first failure.
func (b *NpuSchedBridge) LoadNpuSchedModels(descs []*model.Descriptor) (*QueueInfos, error) {
	queueInfos := &QueueInfos{}
	for _, desc := range descs {
		if !desc.NeedNpuSched() {
			continue
		}
		if err := b.LoadNpuSchedModel(desc, queueInfos); err != nil {
			return queueInfos, err
		}
	}
	return queueInfos, nil
}

// UnloadAndDestroyAllModelHandler unload and destroy every owned handler. Failures are
// logged and collected, the remaining handlers are still released.
func (b *NpuSchedBridge) UnloadAndDestroyAllModelHandler() error {
	if b == nil || b.backend == nil {
		return nil
	}
	var allErr error
	for _, handle := range b.handles {
		if err := b.backend.UnloadModel(handle); err != nil {
			klog.V(util.LogWarningLev).Infof("%s unload model handler %d failed: %v.", PluginName, handle, err)
			allErr = multierror.Append(allErr, err)
		}
		if err := b.backend.DestroyModelHandler(handle); err != nil {
			klog.V(util.LogWarningLev).Infof("%s destroy model handler %d failed: %v.", PluginName, handle, err)
			allErr = multierror.Append(allErr, err)
		}
	}
	b.handles = nil
	return allErr
}

// Finalize release every handler, finalize the device and close the library. Safe in any state.
func (b *NpuSchedBridge) Finalize() error {
	if b == nil || b.backend == nil {
		return nil
	}
	allErr := b.UnloadAndDestroyAllModelHandler()
	if b.isInitialized() {
		if err := b.backend.FinalizeNpuSched(b.deviceID); err != nil {
			klog.V(util.LogWarningLev).Infof("%s finalize npu sched on device %d failed: %v.", PluginName,
				b.deviceID, err)
			allErr = multierror.Append(allErr, err)
		}
	}
	if b.libOpened {
		if err := b.backend.Close(); err != nil {
			klog.V(util.LogWarningLev).Infof("%s close npu sched library failed: %v.", PluginName, err)
			allErr = multierror.Append(allErr, err)
		}
	}
	b.deviceID = uninitializedDeviceID
	b.libOpened = false
	klog.V(util.LogInfoLev).Infof("%s finalized.", PluginName)
	return allErr
}

// Close same as Finalize.
func (b *NpuSchedBridge) Close() error {
	return b.Finalize()
}
