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

// AttrKind which member of the attr value oneof is set.
type AttrKind int

const (
	// AttrKindNone nothing set.
	AttrKindNone AttrKind = iota
	// AttrKindString s.
	AttrKindString
	// AttrKindInt i.
	AttrKindInt
	// AttrKindFloat f.
	AttrKindFloat
	// AttrKindBool b.
	AttrKindBool
	// AttrKindList list.
	AttrKindList
	// AttrKindTensor t.
	AttrKindTensor
	// AttrKindListListInt list_list_int.
	AttrKindListListInt
)

// ListValueType val_type of ListValue.
const (
	ListValueTypeNone int32 = iota
	ListValueTypeString
	ListValueTypeInt
	ListValueTypeFloat
	ListValueTypeBool
	ListValueTypeTensor
)

// TensorDef a constant tensor attr.
type TensorDef struct {
	DataType int32
	Dims     []int64
	Data     []byte
}

// ListValue list attr, ValType selects the member.
type ListValue struct {
	S       []string
	I       []int64
	F       []float32
	B       []bool
	T       []TensorDef
	ValType int32
}

// AttrValue one udf attr.
type AttrValue struct {
	Kind        AttrKind
	S           string
	I           int64
	F           float32
	B           bool
	List        *ListValue
	T           *TensorDef
	ListListInt [][]int64
}

// BufferPoolCfg one buffer pool configuration of the udf.
type BufferPoolCfg struct {
	TotalSize  uint32
	BlkSize    uint32
	MaxBufSize uint32
	PageType   string
}

// UdfDef the udf definition.
type UdfDef struct {
	Name                 string
	FuncName             string
	BinName              string
	Attrs                map[string]AttrValue
	FuncInputsMap        map[string][]uint32
	FuncOutputsMap       map[string][]uint32
	StreamInputFuncNames []string
	BufCfg               []BufferPoolCfg
}

// UdfModelDef content of the udf definition file.
type UdfModelDef struct {
	UdfDefs []UdfDef
}

// QueueAttrs queue attributes of a request.
type QueueAttrs struct {
	QueueID    uint32
	DeviceType int32
	DeviceID   int32
	LogicID    int32
}

// InvokedModelQueue feed and fetch queues of one invoked model.
type InvokedModelQueue struct {
	FeedQueueAttrs  []QueueAttrs
	FetchQueueAttrs []QueueAttrs
}

// InputAlignAttrs input align policy of a request.
type InputAlignAttrs struct {
	AlignMaxCacheNum uint32
	AlignTimeout     int32
	DropWhenNotAlign bool
}

// LoadModelRequest one model of the batch.
type LoadModelRequest struct {
	ModelPath               string
	ModelInstanceName       string
	InputQueuesAttrs        []QueueAttrs
	OutputQueuesAttrs       []QueueAttrs
	Scope                   string
	IsHead                  bool
	EnableExceptionCatch    bool
	IsDynamicSched          bool
	NeedReportStatus        bool
	StatusOutputQueues      []QueueAttrs
	ModelUUID               uint32
	ReplicaIdx              int32
	ReplicaNum              int32
	InvokedModelQueuesAttrs map[string]InvokedModelQueue
	Attrs                   map[string]string
	InputAlignAttrs         *InputAlignAttrs
	ModelID                 uint32
}

// BatchLoadModelMessage content of the batch file.
type BatchLoadModelMessage struct {
	Models []LoadModelRequest
}
