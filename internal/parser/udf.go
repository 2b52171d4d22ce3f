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
	"strconv"

	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/apimachinery/pkg/util/validation/field"
	"k8s.io/klog"

	"github.com/hicann/ge-sub017/internal/attr"
	"github.com/hicann/ge-sub017/internal/bufpool"
	"github.com/hicann/ge-sub017/internal/udfproto"
	"github.com/hicann/ge-sub017/util"
)

func realPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// loadUdfModel read the udf definition file, it must hold exactly one udf.
func (p *udfModelParser) loadUdfModel() error {
	resolved, err := realPath(p.param.ModelPath)
	if err != nil {
		klog.V(util.LogErrorLev).Infof("get real path of model %s failed: %v.", p.param.ModelPath, err)
		return fmt.Errorf("%w: real path of model %s: %v", util.ErrFailed, p.param.ModelPath, err)
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		klog.V(util.LogErrorLev).Infof("read model %s failed: %v.", resolved, err)
		return fmt.Errorf("%w: read model %s: %v", util.ErrFailed, resolved, err)
	}
	def, err := udfproto.DecodeUdfModelDef(data)
	if err != nil {
		klog.V(util.LogErrorLev).Infof("decode model %s failed: %v.", resolved, err)
		return fmt.Errorf("%w: %v", util.ErrFailed, err)
	}
	if len(def.UdfDefs) != 1 {
		klog.V(util.LogErrorLev).Infof("model %s has %d udf defs, only 1 supported.", resolved, len(def.UdfDefs))
		return fmt.Errorf("%w: model %s has %d udf defs, want 1", util.ErrFailed, resolved, len(def.UdfDefs))
	}
	p.realPath = resolved
	p.udfDef = &def.UdfDefs[0]
	klog.V(util.LogDebugLev).Infof("load udf model %s success.", resolved)
	return nil
}

// parseBasicInfo names, working dir and lib path.
func (p *udfModelParser) parseBasicInfo() error {
	p.desc.FuncName = p.udfDef.FuncName
	p.desc.Name = p.udfDef.Name
	if p.desc.InstanceName == "" {
		p.desc.InstanceName = p.udfDef.Name
	}
	binName := p.udfDef.BinName
	if !binNamePattern.MatchString(binName) {
		fieldErr := field.Invalid(field.NewPath("udf", "binName"), binName, "must match "+binNamePattern.String())
		klog.V(util.LogErrorLev).Infof("model %s: %s.", p.realPath, fieldErr.Error())
		return fmt.Errorf("%w: %s", util.ErrParamInvalid, fieldErr.Error())
	}
	if binName == util.BuiltinUdfBinName {
		p.desc.WorkDir = ""
		p.desc.LibPath = binName
		return nil
	}
	if p.ctx.LimitBuiltinUdf() {
		klog.V(util.LogErrorLev).Infof("only built-in udf is allowed, model %s bin %s is rejected.",
			p.realPath, binName)
		return util.ParamInvalidf("udf bin %s is not built-in while built-in udf is limited", binName)
	}
	p.desc.WorkDir = p.realPath + util.UdfWorkDirSuffix
	p.desc.LibPath = filepath.Join(p.desc.WorkDir, binName)
	return nil
}

func (p *udfModelParser) parseAttrs() error {
	attrs, err := attr.DecodeMap(p.udfDef.Attrs)
	if err != nil {
		return fmt.Errorf("model %s: %w", p.realPath, err)
	}
	p.desc.Attrs = attrs
	return nil
}

func (p *udfModelParser) parseMultiFuncMaps() {
	p.desc.FuncInputsMap = copyIndexMap(p.udfDef.FuncInputsMap)
	p.desc.FuncOutputsMap = copyIndexMap(p.udfDef.FuncOutputsMap)
}

func copyIndexMap(in map[string][]uint32) map[string][]uint32 {
	out := make(map[string][]uint32, len(in))
	for k, v := range in {
		out[k] = append([]uint32(nil), v...)
	}
	return out
}

func (p *udfModelParser) parseStreamInputNames() {
	p.desc.StreamInputFuncNames = sets.New[string](p.udfDef.StreamInputFuncNames...)
}

// parseBufCfg validate the buffer pool items, a valid non-empty list replaces the context config.
func (p *udfModelParser) parseBufCfg() error {
	if len(p.udfDef.BufCfg) == 0 {
		return nil
	}
	items := make([]bufpool.Item, 0, len(p.udfDef.BufCfg))
	for _, cfg := range p.udfDef.BufCfg {
		items = append(items, bufpool.Item{
			TotalSize:  cfg.TotalSize,
			BlockSize:  cfg.BlkSize,
			MaxBufSize: cfg.MaxBufSize,
			PageType:   cfg.PageType,
		})
	}
	if err := bufpool.Validate(items, field.NewPath("udf", "bufCfg")); err != nil {
		return fmt.Errorf("model %s: %w", p.realPath, err)
	}
	p.ctx.SetBufferPoolConfig(items)
	klog.V(util.LogInfoLev).Infof("model %s set %d buffer pool items.", p.realPath, len(items))
	return nil
}

func (p *udfModelParser) enableVisibleDeviceID() error {
	enable, _, err := p.desc.Attrs.GetBool(util.AttrVisibleDeviceEnable)
	if err != nil {
		return err
	}
	if !enable {
		return nil
	}
	deviceID := p.ctx.PhysicalDeviceID()
	if deviceID < 0 {
		klog.V(util.LogErrorLev).Infof("visible device enabled but physical device id %d is invalid.", deviceID)
		return util.ParamInvalidf("physical device id %d is invalid for visible device", deviceID)
	}
	if err := os.Setenv(util.VisibleDevicesEnv, strconv.Itoa(int(deviceID))); err != nil {
		return fmt.Errorf("%w: set env %s: %v", util.ErrFailed, util.VisibleDevicesEnv, err)
	}
	p.ctx.SetRunningDeviceID(0)
	klog.V(util.LogInfoLev).Infof("model %s set %s=%d.", p.realPath, util.VisibleDevicesEnv, deviceID)
	return nil
}

func (p *udfModelParser) setDataFlowScope() error {
	scope, _, err := p.desc.Attrs.GetString(util.AttrDataFlowScope)
	if err != nil {
		return err
	}
	p.desc.DataFlowScope = scope
	return nil
}

func (p *udfModelParser) setDataFlowInvokeScopes() error {
	scopes, _, err := p.desc.Attrs.GetStringList(util.AttrDataFlowInvokedScopes)
	if err != nil {
		return err
	}
	p.desc.InvokedScopes = scopes
	return nil
}
