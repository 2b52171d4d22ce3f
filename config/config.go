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
Package config is using for the deploy context shared by the model parser and the npu scheduler bridge.
*/
package config

import (
	"context"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
	"k8s.io/client-go/kubernetes"
	"k8s.io/klog"

	"github.com/hicann/ge-sub017/internal/bufpool"
	"github.com/hicann/ge-sub017/internal/queue"
	"github.com/hicann/ge-sub017/util"
)

// CMInitParamKey init param key in the deploy configmap.
const CMInitParamKey = "init-params"

// Options the static part of the deploy context.
type Options struct {
	OnDevice         bool   `yaml:"onDevice"`
	PhysicalDeviceID int32  `yaml:"physicalDeviceId"`
	RunningDeviceID  int32  `yaml:"runningDeviceId"`
	LimitBuiltinUdf  bool   `yaml:"limitBuiltinUdf"`
	ModelBaseDir     string `yaml:"modelBaseDir"`
}

// DeployContext the per worker context. Parser and bridge read it, some steps write it.
type DeployContext struct {
	mu               sync.RWMutex
	onDevice         bool
	physicalDeviceID int32
	runningDeviceID  int32
	limitBuiltinUdf  bool
	modelBaseDir     string
	bufCfg           []bufpool.Item
}

// NewDeployContext build a context from options.
func NewDeployContext(opts Options) *DeployContext {
	return &DeployContext{
		onDevice:         opts.OnDevice,
		physicalDeviceID: opts.PhysicalDeviceID,
		runningDeviceID:  opts.RunningDeviceID,
		limitBuiltinUdf:  opts.LimitBuiltinUdf,
		modelBaseDir:     opts.ModelBaseDir,
	}
}

// LoadFile load options from a yaml file.
func LoadFile(path string) (*DeployContext, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read deploy config %s: %w", path, err)
	}
	return fromYAML(data, path)
}

// LoadFromConfigMap load options from the init-params key of a configmap.
func LoadFromConfigMap(ctx context.Context, client kubernetes.Interface, namespace, name string) (*DeployContext,
	error) {
	data, err := util.GetConfigMapData(ctx, client, namespace, name, CMInitParamKey)
	if err != nil {
		return nil, fmt.Errorf("load deploy config from configmap: %w", err)
	}
	return fromYAML([]byte(data), namespace+"/"+name)
}

func fromYAML(data []byte, source string) (*DeployContext, error) {
	var opts Options
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return nil, fmt.Errorf("%w: decode deploy config %s: %v", util.ErrParamInvalid, source, err)
	}
	if opts.PhysicalDeviceID < util.InvalidDeviceID {
		return nil, util.ParamInvalidf("deploy config %s physicalDeviceId %d", source, opts.PhysicalDeviceID)
	}
	klog.V(util.LogInfoLev).Infof("deploy config %s loaded: %+v.", source, opts)
	return NewDeployContext(opts), nil
}

// OnDevice whether the process runs on the npu side.
func (dc *DeployContext) OnDevice() bool {
	return dc.onDevice
}

// PhysicalDeviceID physical id of the local device.
func (dc *DeployContext) PhysicalDeviceID() int32 {
	return dc.physicalDeviceID
}

// LimitBuiltinUdf only the built-in udf binary is allowed.
func (dc *DeployContext) LimitBuiltinUdf() bool {
	return dc.limitBuiltinUdf
}

// ModelBaseDir base dir of relative model paths, may be empty.
func (dc *DeployContext) ModelBaseDir() string {
	return dc.modelBaseDir
}

// Placement for queue resolving.
func (dc *DeployContext) Placement() queue.Placement {
	return queue.Placement{OnDevice: dc.onDevice, LocalDeviceID: dc.physicalDeviceID}
}

// RunningDeviceID the device id the udf process uses.
func (dc *DeployContext) RunningDeviceID() int32 {
	dc.mu.RLock()
	defer dc.mu.RUnlock()
	return dc.runningDeviceID
}

// SetRunningDeviceID set the device id the udf process uses.
func (dc *DeployContext) SetRunningDeviceID(id int32) {
	dc.mu.Lock()
	defer dc.mu.Unlock()
	dc.runningDeviceID = id
}

// BufferPoolConfig a copy of the current buffer pool config.
func (dc *DeployContext) BufferPoolConfig() []bufpool.Item {
	dc.mu.RLock()
	defer dc.mu.RUnlock()
	return append([]bufpool.Item(nil), dc.bufCfg...)
}

// SetBufferPoolConfig replace the buffer pool config wholesale.
func (dc *DeployContext) SetBufferPoolConfig(items []bufpool.Item) {
	dc.mu.Lock()
	defer dc.mu.Unlock()
	dc.bufCfg = append([]bufpool.Item(nil), items...)
}
