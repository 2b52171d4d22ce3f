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
Package udfproto is using for the wire format of the batch load model message and the udf definition file.
*/
package udfproto

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

// msgReader typed getters over a dynamic message, the schema is fixed so a missing field is a programming error.
type msgReader struct {
	m protoreflect.Message
}

func (r msgReader) field(name string) protoreflect.FieldDescriptor {
	fd := r.m.Descriptor().Fields().ByName(protoreflect.Name(name))
	if fd == nil {
		panic(fmt.Sprintf("field %s not in %s", name, r.m.Descriptor().FullName()))
	}
	return fd
}

func (r msgReader) str(name string) string {
	return r.m.Get(r.field(name)).String()
}

func (r msgReader) u32(name string) uint32 {
	return uint32(r.m.Get(r.field(name)).Uint())
}

func (r msgReader) i32(name string) int32 {
	return int32(r.m.Get(r.field(name)).Int())
}

func (r msgReader) boolean(name string) bool {
	return r.m.Get(r.field(name)).Bool()
}

func (r msgReader) has(name string) bool {
	return r.m.Has(r.field(name))
}

func (r msgReader) msg(name string) msgReader {
	return msgReader{m: r.m.Get(r.field(name)).Message()}
}

func (r msgReader) list(name string) protoreflect.List {
	return r.m.Get(r.field(name)).List()
}

func (r msgReader) msgList(name string) []msgReader {
	l := r.list(name)
	out := make([]msgReader, 0, l.Len())
	for i := 0; i < l.Len(); i++ {
		out = append(out, msgReader{m: l.Get(i).Message()})
	}
	return out
}

func (r msgReader) rangeMap(name string, fn func(key string, v protoreflect.Value)) {
	r.m.Get(r.field(name)).Map().Range(func(k protoreflect.MapKey, v protoreflect.Value) bool {
		fn(k.String(), v)
		return true
	})
}

func unmarshalDynamic(fullName string, data []byte) (msgReader, error) {
	md, err := MessageDescriptor(fullName)
	if err != nil {
		return msgReader{}, err
	}
	msg := dynamicpb.NewMessage(md)
	if err := proto.Unmarshal(data, msg); err != nil {
		return msgReader{}, fmt.Errorf("decode %s: %w", fullName, err)
	}
	return msgReader{m: msg}, nil
}

// DecodeUdfModelDef decode the content of a udf definition file.
func DecodeUdfModelDef(data []byte) (*UdfModelDef, error) {
	r, err := unmarshalDynamic(MsgUdfModelDef, data)
	if err != nil {
		return nil, err
	}
	defs := r.msgList("udf_def")
	out := &UdfModelDef{UdfDefs: make([]UdfDef, 0, len(defs))}
	for _, def := range defs {
		out.UdfDefs = append(out.UdfDefs, toUdfDef(def))
	}
	return out, nil
}

// DecodeBatch decode the content of a batch load model file.
func DecodeBatch(data []byte) (*BatchLoadModelMessage, error) {
	r, err := unmarshalDynamic(MsgBatchLoadModel, data)
	if err != nil {
		return nil, err
	}
	models := r.msgList("models")
	out := &BatchLoadModelMessage{Models: make([]LoadModelRequest, 0, len(models))}
	for _, m := range models {
		out.Models = append(out.Models, toLoadModelRequest(m))
	}
	return out, nil
}

func toUdfDef(r msgReader) UdfDef {
	def := UdfDef{
		Name:           r.str("name"),
		FuncName:       r.str("func_name"),
		BinName:        r.str("bin_name"),
		Attrs:          make(map[string]AttrValue),
		FuncInputsMap:  toIndexMap(r, "func_inputs_map"),
		FuncOutputsMap: toIndexMap(r, "func_outputs_map"),
	}
	r.rangeMap("attrs", func(key string, v protoreflect.Value) {
		def.Attrs[key] = toAttrValue(msgReader{m: v.Message()})
	})
	names := r.list("stream_input_func_names")
	for i := 0; i < names.Len(); i++ {
		def.StreamInputFuncNames = append(def.StreamInputFuncNames, names.Get(i).String())
	}
	for _, cfg := range r.msgList("buf_cfg") {
		def.BufCfg = append(def.BufCfg, BufferPoolCfg{
			TotalSize:  cfg.u32("total_size"),
			BlkSize:    cfg.u32("blk_size"),
			MaxBufSize: cfg.u32("max_buf_size"),
			PageType:   cfg.str("page_type"),
		})
	}
	return def
}

func toIndexMap(r msgReader, name string) map[string][]uint32 {
	out := make(map[string][]uint32)
	r.rangeMap(name, func(key string, v protoreflect.Value) {
		l := msgReader{m: v.Message()}.list("index")
		indexes := make([]uint32, 0, l.Len())
		for i := 0; i < l.Len(); i++ {
			indexes = append(indexes, uint32(l.Get(i).Uint()))
		}
		out[key] = indexes
	})
	return out
}

func toTensorDef(r msgReader) TensorDef {
	t := TensorDef{DataType: r.i32("dtype"), Data: r.m.Get(r.field("data")).Bytes()}
	dims := r.list("dims")
	for i := 0; i < dims.Len(); i++ {
		t.Dims = append(t.Dims, dims.Get(i).Int())
	}
	return t
}

func toAttrValue(r msgReader) AttrValue {
	which := r.m.WhichOneof(r.m.Descriptor().Oneofs().ByName("value"))
	if which == nil {
		return AttrValue{Kind: AttrKindNone}
	}
	v := r.m.Get(which)
	switch which.Name() {
	case "s":
		return AttrValue{Kind: AttrKindString, S: string(v.Bytes())}
	case "i":
		return AttrValue{Kind: AttrKindInt, I: v.Int()}
	case "f":
		return AttrValue{Kind: AttrKindFloat, F: float32(v.Float())}
	case "b":
		return AttrValue{Kind: AttrKindBool, B: v.Bool()}
	case "t":
		t := toTensorDef(msgReader{m: v.Message()})
		return AttrValue{Kind: AttrKindTensor, T: &t}
	case "list":
		return AttrValue{Kind: AttrKindList, List: toListValue(msgReader{m: v.Message()})}
	case "list_list_int":
		var lists [][]int64
		for _, li := range (msgReader{m: v.Message()}).msgList("list_list_i") {
			ints := li.list("list_i")
			one := make([]int64, 0, ints.Len())
			for i := 0; i < ints.Len(); i++ {
				one = append(one, ints.Get(i).Int())
			}
			lists = append(lists, one)
		}
		return AttrValue{Kind: AttrKindListListInt, ListListInt: lists}
	default:
		return AttrValue{Kind: AttrKindNone}
	}
}

func toListValue(r msgReader) *ListValue {
	lv := &ListValue{ValType: r.i32("val_type")}
	s := r.list("s")
	for i := 0; i < s.Len(); i++ {
		lv.S = append(lv.S, string(s.Get(i).Bytes()))
	}
	ints := r.list("i")
	for i := 0; i < ints.Len(); i++ {
		lv.I = append(lv.I, ints.Get(i).Int())
	}
	floats := r.list("f")
	for i := 0; i < floats.Len(); i++ {
		lv.F = append(lv.F, float32(floats.Get(i).Float()))
	}
	bools := r.list("b")
	for i := 0; i < bools.Len(); i++ {
		lv.B = append(lv.B, bools.Get(i).Bool())
	}
	for _, t := range r.msgList("t") {
		lv.T = append(lv.T, toTensorDef(t))
	}
	return lv
}

func toQueueAttrsList(r msgReader, name string) []QueueAttrs {
	items := r.msgList(name)
	out := make([]QueueAttrs, 0, len(items))
	for _, q := range items {
		out = append(out, QueueAttrs{
			QueueID:    q.u32("queue_id"),
			DeviceType: q.i32("device_type"),
			DeviceID:   q.i32("device_id"),
			LogicID:    q.i32("logic_id"),
		})
	}
	return out
}

func toLoadModelRequest(r msgReader) LoadModelRequest {
	req := LoadModelRequest{
		ModelPath:               r.str("model_path"),
		ModelInstanceName:       r.str("model_instance_name"),
		InputQueuesAttrs:        toQueueAttrsList(r, "input_queues_attrs"),
		OutputQueuesAttrs:       toQueueAttrsList(r, "output_queues_attrs"),
		Scope:                   r.str("scope"),
		IsHead:                  r.boolean("is_head"),
		EnableExceptionCatch:    r.boolean("enable_exception_catch"),
		IsDynamicSched:          r.boolean("is_dynamic_sched"),
		NeedReportStatus:        r.boolean("need_report_status"),
		StatusOutputQueues:      toQueueAttrsList(r, "status_output_queues"),
		ModelUUID:               r.u32("model_uuid"),
		ReplicaIdx:              r.i32("replica_idx"),
		ReplicaNum:              r.i32("replica_num"),
		InvokedModelQueuesAttrs: make(map[string]InvokedModelQueue),
		Attrs:                   make(map[string]string),
		ModelID:                 r.u32("model_id"),
	}
	r.rangeMap("invoked_model_queues_attrs", func(key string, v protoreflect.Value) {
		q := msgReader{m: v.Message()}
		req.InvokedModelQueuesAttrs[key] = InvokedModelQueue{
			FeedQueueAttrs:  toQueueAttrsList(q, "feed_queue_attrs"),
			FetchQueueAttrs: toQueueAttrsList(q, "fetch_queue_attrs"),
		}
	})
	r.rangeMap("attrs", func(key string, v protoreflect.Value) {
		req.Attrs[key] = v.String()
	})
	if r.has("input_align_attrs") {
		align := r.msg("input_align_attrs")
		req.InputAlignAttrs = &InputAlignAttrs{
			AlignMaxCacheNum: align.u32("align_max_cache_num"),
			AlignTimeout:     align.i32("align_timeout"),
			DropWhenNotAlign: align.boolean("drop_when_not_align"),
		}
	}
	return req
}
