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
	"path/filepath"

	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/apimachinery/pkg/util/validation/field"
	"k8s.io/klog"

	"github.com/hicann/ge-sub017/config"
	"github.com/hicann/ge-sub017/internal/model"
	"github.com/hicann/ge-sub017/internal/queue"
	"github.com/hicann/ge-sub017/internal/udfproto"
	"github.com/hicann/ge-sub017/util"
)

func toQueueAttrs(wire []udfproto.QueueAttrs) []queue.Attrs {
	out := make([]queue.Attrs, 0, len(wire))
	for _, q := range wire {
		out = append(out, queue.Attrs{QueueID: q.QueueID, DeviceType: q.DeviceType, DeviceID: q.DeviceID,
			LogicID: q.LogicID})
	}
	return out
}

func resolveQueues(wire []udfproto.QueueAttrs, placement queue.Placement, what string) ([]queue.Descriptor,
	error) {
	descs, err := queue.ResolveList(toQueueAttrs(wire), placement)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	return descs, nil
}

// ConstructModelParam build the model param from one request of the batch.
func ConstructModelParam(ctx *config.DeployContext, req *udfproto.LoadModelRequest, baseDir string) (*model.Param,
	error) {
	if ctx == nil || req == nil {
		return nil, util.ParamInvalidf("construct model param: %s", util.ArgumentError)
	}
	placement := ctx.Placement()
	inputs, err := resolveQueues(req.InputQueuesAttrs, placement, "input queues")
	if err != nil {
		return nil, err
	}
	outputs, err := resolveQueues(req.OutputQueuesAttrs, placement, "output queues")
	if err != nil {
		return nil, err
	}
	statusQueues, err := resolveQueues(req.StatusOutputQueues, placement, "status output queues")
	if err != nil {
		return nil, err
	}
	modelPath := req.ModelPath
	if !filepath.IsAbs(modelPath) {
		modelPath = filepath.Join(baseDir, modelPath)
	}
	param := &model.Param{
		ModelPath:            modelPath,
		InstanceName:         req.ModelInstanceName,
		InputQueues:          inputs,
		OutputQueues:         outputs,
		Scope:                req.Scope,
		IsHead:               req.IsHead,
		EnableExceptionCatch: req.EnableExceptionCatch,
		IsDynamicSched:       req.IsDynamicSched,
		NeedReportStatus:     req.NeedReportStatus,
		ModelUUID:            req.ModelUUID,
		ModelID:              req.ModelID,
		ReqAttrs:             req.Attrs,
		StatusQueueNum:       len(statusQueues),
	}
	if len(statusQueues) > 0 {
		if len(statusQueues) > 1 {
			klog.V(util.LogWarningLev).Infof("model %s has %d status output queues, use the first.",
				modelPath, len(statusQueues))
		}
		param.StatusOutputQueue = &statusQueues[0]
	}
	if req.InputAlignAttrs != nil {
		param.InputAlign = &model.InputAlign{
			MaxCacheNum:      req.InputAlignAttrs.AlignMaxCacheNum,
			Timeout:          req.InputAlignAttrs.AlignTimeout,
			DropWhenNotAlign: req.InputAlignAttrs.DropWhenNotAlign,
		}
	}
	return param, nil
}

func paramInvalid(fieldErr *field.Error) error {
	klog.V(util.LogErrorLev).Infof("check model attrs failed: %s.", fieldErr.Error())
	return fmt.Errorf("%w: %s", util.ErrParamInvalid, fieldErr.Error())
}

func parsePriority(attrs map[string]string, key string) (int32, error) {
	value, ok := attrs[key]
	if !ok {
		return model.PriorityUnset, nil
	}
	priority, err := util.ParseInt32(value)
	if err != nil {
		return 0, paramInvalid(field.Invalid(field.NewPath("attrs").Key(key), value, "must be an int32"))
	}
	return priority, nil
}

// CheckInputAlign cache num in [0, 1024], timeout -1 or in (0, 600000].
func CheckInputAlign(align *model.InputAlign) error {
	if align == nil {
		return nil
	}
	path := field.NewPath("inputAlignAttrs")
	if align.MaxCacheNum > model.MaxAlignCacheNum {
		return paramInvalid(field.Invalid(path.Child("alignMaxCacheNum"), align.MaxCacheNum,
			fmt.Sprintf("must not be greater than %d", model.MaxAlignCacheNum)))
	}
	if align.Timeout != model.AlignTimeoutNever && (align.Timeout <= 0 || align.Timeout > model.MaxAlignTimeout) {
		return paramInvalid(field.Invalid(path.Child("alignTimeout"), align.Timeout,
			fmt.Sprintf("must be %d or in (0, %d]", model.AlignTimeoutNever, model.MaxAlignTimeout)))
	}
	return nil
}

// parseModelAttrs the attrs the deploy request carries for the model.
func (p *udfModelParser) parseModelAttrs() error {
	var err error
	if p.desc.ProcessPriority, err = parsePriority(p.param.ReqAttrs, util.AttrEschedProcessPriority); err != nil {
		return err
	}
	if p.desc.EventPriority, err = parsePriority(p.param.ReqAttrs, util.AttrEschedEventPriority); err != nil {
		return err
	}
	if value, ok := p.param.ReqAttrs[util.AttrNpuSchedModel]; ok {
		if p.desc.NpuSched, err = util.ParseBoolFlag(value); err != nil {
			return paramInvalid(field.Invalid(field.NewPath("attrs").Key(util.AttrNpuSchedModel), value,
				"must be a bool"))
		}
	}
	if err = CheckInputAlign(p.param.InputAlign); err != nil {
		return err
	}
	p.desc.InputAlign = p.param.InputAlign
	needStatusQueue := p.param.EnableExceptionCatch || (p.param.IsDynamicSched && p.param.NeedReportStatus)
	if needStatusQueue && p.param.StatusQueueNum != 1 {
		return paramInvalid(field.Invalid(field.NewPath("statusOutputQueues"), p.param.StatusQueueNum,
			"must have exactly 1 queue when exception catch or status report is enabled"))
	}
	return nil
}

// parse run every step of one model in order.
func (p *udfModelParser) parse() (*model.Descriptor, error) {
	if err := p.loadUdfModel(); err != nil {
		return nil, err
	}
	steps := []func() error{
		p.parseBasicInfo,
		p.parseAttrs,
		func() error { p.parseMultiFuncMaps(); return nil },
		func() error { p.parseStreamInputNames(); return nil },
		p.parseBufCfg,
		p.enableVisibleDeviceID,
		p.setDataFlowScope,
		p.setDataFlowInvokeScopes,
		p.parseModelAttrs,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	return p.desc, nil
}

// DedupQueues remove repeated descriptors, first seen order kept.
func DedupQueues(descs []queue.Descriptor) []queue.Descriptor {
	seen := sets.New[queue.Descriptor]()
	out := make([]queue.Descriptor, 0, len(descs))
	for _, d := range descs {
		if seen.Has(d) {
			continue
		}
		seen.Insert(d)
		out = append(out, d)
	}
	return out
}

func parseInvokedModelQueues(desc *model.Descriptor, wire map[string]udfproto.InvokedModelQueue,
	placement queue.Placement) error {
	for key, group := range wire {
		feed, err := resolveQueues(group.FeedQueueAttrs, placement, "invoked model "+key+" feed queues")
		if err != nil {
			return err
		}
		fetch, err := resolveQueues(group.FetchQueueAttrs, placement, "invoked model "+key+" fetch queues")
		if err != nil {
			return err
		}
		dedup := DedupQueues(feed)
		klog.V(util.LogInfoLev).Infof("model %s invoked model %s feed queues %d, after dedup %d.",
			desc.InstanceName, key, len(feed), len(dedup))
		desc.InvokedModelQueues[key] = model.InvokedQueues{Feed: dedup, Fetch: fetch}
	}
	return nil
}

// ParseSingleModel parse one request of the batch into a descriptor.
func ParseSingleModel(ctx *config.DeployContext, req *udfproto.LoadModelRequest, baseDir string) (*model.Descriptor,
	error) {
	param, err := ConstructModelParam(ctx, req, baseDir)
	if err != nil {
		klog.V(util.LogErrorLev).Infof("construct model param failed: %v.", err)
		return nil, err
	}
	desc, err := newUdfModelParser(ctx, param).parse()
	if err != nil {
		return nil, err
	}
	desc.ReplicaIdx = req.ReplicaIdx
	desc.ReplicaNum = req.ReplicaNum
	if err := parseInvokedModelQueues(desc, req.InvokedModelQueuesAttrs, ctx.Placement()); err != nil {
		klog.V(util.LogErrorLev).Infof("parse invoked model queues of %s failed: %v.", param.ModelPath, err)
		return nil, err
	}
	klog.V(util.LogInfoLev).Infof("parse model %s success, instance %s, lib %s.", desc.ModelPath,
		desc.InstanceName, desc.LibPath)
	return desc, nil
}
