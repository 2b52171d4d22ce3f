/*
Copyright(C)2023. Huawei Technologies Co.,Ltd. All rights reserved.
*/

/*
Package udfproto is using for the wire format of the batch load model message and the udf definition file.
*/
package udfproto

import (
	"reflect"
	"testing"
)

const udfText = `
udf_def {
  name: "add_udf"
  func_name: "Add"
  bin_name: "libadd.so"
  attrs { key: "_visible_device_enable" value { b: true } }
  attrs { key: "alpha" value { f: 0.5 } }
  attrs { key: "scope" value { s: "s1" } }
  attrs { key: "shapes" value { list_list_int { list_list_i { list_i: [1, 2] } list_list_i { list_i: [3] } } } }
  attrs { key: "names" value { list { s: ["a", "b"] val_type: 1 } } }
  attrs { key: "weight" value { t { dtype: 3 dims: [2] data: "\001\000\000\000\002\000\000\000" } } }
  func_inputs_map { key: "Add" value { index: [0, 1] } }
  func_outputs_map { key: "Add" value { index: [0] } }
  stream_input_func_names: "Add"
  buf_cfg { total_size: 8192 blk_size: 64 max_buf_size: 256 page_type: "normal" }
}
`

const batchText = `
models {
  model_path: "udf/add.udf"
  model_instance_name: "add_0"
  input_queues_attrs { queue_id: 1 device_type: 1 device_id: 0 logic_id: 10 }
  output_queues_attrs { queue_id: 2 device_type: 0 device_id: 1 logic_id: 11 }
  scope: "graph_a"
  is_head: true
  enable_exception_catch: true
  status_output_queues { queue_id: 3 device_type: 1 }
  model_uuid: 99
  replica_idx: 1
  replica_num: 2
  invoked_model_queues_attrs {
    key: "invoke_0"
    value { feed_queue_attrs { queue_id: 5 } fetch_queue_attrs { queue_id: 6 } }
  }
  attrs { key: "_eschedProcessPriority" value: "3" }
  input_align_attrs { align_max_cache_num: 16 align_timeout: -1 drop_when_not_align: true }
  model_id: 7
}
`

func TestDecodeUdfModelDef(t *testing.T) {
	data, err := PackText(KindUdf, udfText)
	if err != nil {
		t.Fatalf("PackText() error = %v", err)
	}
	got, err := DecodeUdfModelDef(data)
	if err != nil {
		t.Fatalf("DecodeUdfModelDef() error = %v", err)
	}
	if len(got.UdfDefs) != 1 {
		t.Fatalf("DecodeUdfModelDef() udf def num = %d", len(got.UdfDefs))
	}
	def := got.UdfDefs[0]
	if def.Name != "add_udf" || def.FuncName != "Add" || def.BinName != "libadd.so" {
		t.Errorf("DecodeUdfModelDef() basic info = %+v", def)
	}
	wantAttrs := map[string]AttrValue{
		"_visible_device_enable": {Kind: AttrKindBool, B: true},
		"alpha":                  {Kind: AttrKindFloat, F: 0.5},
		"scope":                  {Kind: AttrKindString, S: "s1"},
		"shapes":                 {Kind: AttrKindListListInt, ListListInt: [][]int64{{1, 2}, {3}}},
		"names":                  {Kind: AttrKindList, List: &ListValue{S: []string{"a", "b"}, ValType: 1}},
		"weight": {Kind: AttrKindTensor, T: &TensorDef{DataType: 3, Dims: []int64{2},
			Data: []byte{1, 0, 0, 0, 2, 0, 0, 0}}},
	}
	if !reflect.DeepEqual(def.Attrs, wantAttrs) {
		t.Errorf("DecodeUdfModelDef() attrs = %+v, want %+v", def.Attrs, wantAttrs)
	}
	if !reflect.DeepEqual(def.FuncInputsMap, map[string][]uint32{"Add": {0, 1}}) ||
		!reflect.DeepEqual(def.FuncOutputsMap, map[string][]uint32{"Add": {0}}) {
		t.Errorf("DecodeUdfModelDef() func maps = %v %v", def.FuncInputsMap, def.FuncOutputsMap)
	}
	wantBuf := []BufferPoolCfg{{TotalSize: 8192, BlkSize: 64, MaxBufSize: 256, PageType: "normal"}}
	if !reflect.DeepEqual(def.BufCfg, wantBuf) || !reflect.DeepEqual(def.StreamInputFuncNames, []string{"Add"}) {
		t.Errorf("DecodeUdfModelDef() buf cfg = %v, stream names = %v", def.BufCfg, def.StreamInputFuncNames)
	}
}

func TestDecodeBatch(t *testing.T) {
	data, err := PackText(KindBatch, batchText)
	if err != nil {
		t.Fatalf("PackText() error = %v", err)
	}
	got, err := DecodeBatch(data)
	if err != nil {
		t.Fatalf("DecodeBatch() error = %v", err)
	}
	want := LoadModelRequest{
		ModelPath:            "udf/add.udf",
		ModelInstanceName:    "add_0",
		InputQueuesAttrs:     []QueueAttrs{{QueueID: 1, DeviceType: 1, DeviceID: 0, LogicID: 10}},
		OutputQueuesAttrs:    []QueueAttrs{{QueueID: 2, DeviceType: 0, DeviceID: 1, LogicID: 11}},
		Scope:                "graph_a",
		IsHead:               true,
		EnableExceptionCatch: true,
		StatusOutputQueues:   []QueueAttrs{{QueueID: 3, DeviceType: 1}},
		ModelUUID:            99,
		ReplicaIdx:           1,
		ReplicaNum:           2,
		InvokedModelQueuesAttrs: map[string]InvokedModelQueue{"invoke_0": {
			FeedQueueAttrs: []QueueAttrs{{QueueID: 5}}, FetchQueueAttrs: []QueueAttrs{{QueueID: 6}}}},
		Attrs:           map[string]string{"_eschedProcessPriority": "3"},
		InputAlignAttrs: &InputAlignAttrs{AlignMaxCacheNum: 16, AlignTimeout: -1, DropWhenNotAlign: true},
		ModelID:         7,
	}
	if len(got.Models) != 1 || !reflect.DeepEqual(got.Models[0], want) {
		t.Errorf("DecodeBatch() got = %+v, want %+v", got.Models, want)
	}
}

func TestDecodeBroken(t *testing.T) {
	if _, err := DecodeBatch([]byte{0x0a, 0xff}); err == nil {
		t.Errorf("DecodeBatch() want error for truncated data")
	}
	if _, err := PackText("graph", ""); err == nil {
		t.Errorf("PackText() want error for unknown kind")
	}
	if _, err := PackText(KindUdf, "udf_def { unknown: 1 }"); err == nil {
		t.Errorf("PackText() want error for unknown field")
	}
	got, err := DecodeBatch(nil)
	if err != nil || len(got.Models) != 0 {
		t.Errorf("DecodeBatch() empty = %v, %v", got, err)
	}
}
