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
	"sync"

	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/klog"

	"github.com/hicann/ge-sub017/config"
	"github.com/hicann/ge-sub017/util"
)

var (
	backendsLock sync.RWMutex
	backends     = make(map[string]BackendBuilder, util.MapInitNum)
)

// RegisterBackend register a backend builder, like factory.
func RegisterBackend(name string, builder BackendBuilder) {
	if builder == nil {
		klog.V(util.LogInfoLev).Infof("RegisterBackend : %s.", objectNilError)
		return
	}
	backendsLock.Lock()
	defer backendsLock.Unlock()
	if _, ok := backends[name]; ok {
		klog.V(util.LogInfoLev).Infof("NPU sched backend[%#v] has been registered before.", name)
		return
	}
	backends[name] = builder
	klog.V(util.LogInfoLev).Infof("NPU sched backend[%#v] registered.", name)
}

// UnRegisterBackend unRegister the backend.
func UnRegisterBackend(name string) {
	backendsLock.Lock()
	defer backendsLock.Unlock()
	if _, ok := backends[name]; ok {
		delete(backends, name)
		klog.V(util.LogDebugLev).Infof("NPU sched backend[%#v] unRegistered.", name)
	}
}

// IsBackendRegistered Determine if the backend is registered.
func IsBackendRegistered(name string) bool {
	backendsLock.RLock()
	defer backendsLock.RUnlock()
	_, ok := backends[name]
	return ok
}

// RegisteredBackends names of all registered backends.
func RegisteredBackends() []string {
	backendsLock.RLock()
	defer backendsLock.RUnlock()
	names := sets.New[string]()
	for name := range backends {
		names.Insert(name)
	}
	return sets.List(names)
}

// NewBridge new an uninitialized bridge over the named backend.
func NewBridge(name string, ctx *config.DeployContext) (*NpuSchedBridge, error) {
	if ctx == nil {
		klog.V(util.LogErrorLev).Infof("NewBridge %s.", util.ArgumentError)
		return nil, errors.New(util.ArgumentError)
	}
	backendsLock.RLock()
	builder, ok := backends[name]
	backendsLock.RUnlock()
	if !ok {
		klog.V(util.LogErrorLev).Infof("NPU sched backend[%#v] not registered, registered %v.", name,
			RegisteredBackends())
		return nil, util.ParamInvalidf("npu sched backend %s not registered", name)
	}
	backend := builder()
	if backend == nil {
		return nil, fmt.Errorf("%w: npu sched backend %s build nil", util.ErrFailed, name)
	}
	return &NpuSchedBridge{
		ctx:      ctx,
		backend:  backend,
		deviceID: uninitializedDeviceID,
	}, nil
}
