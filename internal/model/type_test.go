/*
Copyright(C)2023. Huawei Technologies Co.,Ltd. All rights reserved.
*/

/*
Package model is using for the parsed udf model descriptors.
*/
package model

import (
	"testing"

	"github.com/hicann/ge-sub017/internal/attr"
	"github.com/hicann/ge-sub017/internal/queue"
	"github.com/hicann/ge-sub017/util"
)

func TestNewDescriptor(t *testing.T) {
	status := queue.NewNpuProxy(9, 0)
	param := &Param{
		ModelPath:         "/home/models/add.udf",
		InstanceName:      "add_0",
		InputQueues:       []queue.Descriptor{{QueueID: 1}},
		StatusOutputQueue: &status,
		IsHead:            true,
		ModelUUID:         11,
		ModelID:           2,
	}
	d := NewDescriptor(param)
	if d.ModelPath != param.ModelPath || d.InstanceName != "add_0" || !d.IsHead || d.ModelUUID != 11 ||
		d.ModelID != 2 || d.StatusOutputQueue.QueueID != 9 || len(d.InputQueues) != 1 {
		t.Errorf("NewDescriptor() = %+v", d)
	}
	if d.ProcessPriority != PriorityUnset || d.EventPriority != PriorityUnset {
		t.Errorf("NewDescriptor() priorities = %d %d, want unset", d.ProcessPriority, d.EventPriority)
	}
	if d.IsStreamInput("Add") || d.HasInputAlign() || d.IsBuiltinUdf() {
		t.Errorf("NewDescriptor() optional parts should be empty")
	}
	d.StreamInputFuncNames.Insert("Add")
	d.LibPath = util.BuiltinUdfBinName
	if !d.IsStreamInput("Add") || !d.IsBuiltinUdf() {
		t.Errorf("IsStreamInput() or IsBuiltinUdf() false")
	}
	var nilDesc *Descriptor
	if nilDesc.IsStreamInput("Add") || nilDesc.HasInputAlign() || nilDesc.IsBuiltinUdf() {
		t.Errorf("nil descriptor should report nothing")
	}
}

func TestDescriptorAttrLookup(t *testing.T) {
	d := &Descriptor{Attrs: attr.Map{"flag": attr.Bool(true), "scope": attr.String("s1")}, NpuSched: true}
	if v, err := d.AttrBool("flag"); !v || err != nil {
		t.Errorf("AttrBool() = %v, %v", v, err)
	}
	if v, err := d.AttrString("scope"); v != "s1" || err != nil {
		t.Errorf("AttrString() = %v, %v", v, err)
	}
	if v, err := d.AttrBool("absent"); v || err != nil {
		t.Errorf("AttrBool() absent = %v, %v", v, err)
	}
	if _, err := d.AttrString("flag"); err == nil {
		t.Errorf("AttrString() want type mismatch error")
	}
	if !d.NeedNpuSched() {
		t.Errorf("NeedNpuSched() want true")
	}
	var nilDesc *Descriptor
	if nilDesc.NeedNpuSched() {
		t.Errorf("nil descriptor should not need npu sched")
	}
}
