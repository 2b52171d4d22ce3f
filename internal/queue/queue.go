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
Package queue is using for resolving the wire queue attributes into runtime queue descriptors.
*/
package queue

import (
	"fmt"

	"k8s.io/klog"

	"github.com/hicann/ge-sub017/util"
)

// Attrs the queue attributes carried by the deploy request.
type Attrs struct {
	QueueID    uint32
	DeviceType int32
	DeviceID   int32
	LogicID    int32
}

// Placement where the current process runs.
type Placement struct {
	OnDevice bool
	// LocalDeviceID physical id of the device the process runs on.
	LocalDeviceID int32
}

// Descriptor the queue as seen by the runtime. The proxy flag is only derived by Resolve or NewNpuProxy.
type Descriptor struct {
	QueueID        uint32
	DeviceType     int32
	DeviceID       int32
	DeployDeviceID int32
	LogicQueueID   int32
	proxy          bool
}

// IsProxy whether the queue endpoint is on another device and must be relayed.
func (d Descriptor) IsProxy() bool {
	return d.proxy
}

// String for log.
func (d Descriptor) String() string {
	return fmt.Sprintf("{queueId:%d, deviceType:%s, deviceId:%d, deployDeviceId:%d, logicId:%d, proxy:%v}",
		d.QueueID, util.DeviceTypeName(d.DeviceType), d.DeviceID, d.DeployDeviceID, d.LogicQueueID, d.proxy)
}

// NewNpuProxy a proxy queue on the given npu, used for plugin generated channels.
func NewNpuProxy(queueID uint32, deviceID int32) Descriptor {
	return Descriptor{
		QueueID:        queueID,
		DeviceType:     util.DeviceTypeNPU,
		DeviceID:       deviceID,
		DeployDeviceID: deviceID,
		proxy:          true,
	}
}

// Resolve convert one wire queue attributes into a descriptor.
func Resolve(attrs Attrs, placement Placement) (Descriptor, error) {
	desc := Descriptor{
		QueueID:        attrs.QueueID,
		DeviceType:     attrs.DeviceType,
		DeviceID:       attrs.DeviceID,
		DeployDeviceID: attrs.DeviceID,
		LogicQueueID:   attrs.LogicID,
	}
	if placement.OnDevice {
		if attrs.DeviceType != util.DeviceTypeNPU {
			klog.V(util.LogErrorLev).Infof("queue[%d] device type %s is not NPU while running on device.",
				attrs.QueueID, util.DeviceTypeName(attrs.DeviceType))
			return Descriptor{}, util.ParamInvalidf("queue %d device type %s must be NPU on device",
				attrs.QueueID, util.DeviceTypeName(attrs.DeviceType))
		}
		desc.DeviceID = placement.LocalDeviceID
		return desc, nil
	}
	desc.proxy = attrs.DeviceType == util.DeviceTypeNPU
	return desc, nil
}

// ResolveList resolve every attrs in order, the first failure aborts.
func ResolveList(attrsList []Attrs, placement Placement) ([]Descriptor, error) {
	descs := make([]Descriptor, 0, len(attrsList))
	for i, attrs := range attrsList {
		desc, err := Resolve(attrs, placement)
		if err != nil {
			return nil, fmt.Errorf("queue index %d: %w", i, err)
		}
		descs = append(descs, desc)
	}
	return descs, nil
}
