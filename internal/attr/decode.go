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
Package attr is using for the typed udf attribute values.
*/
package attr

import (
	"fmt"
	"math"

	"k8s.io/klog"

	"github.com/hicann/ge-sub017/internal/udfproto"
	"github.com/hicann/ge-sub017/util"
)

// data type size in bytes, keyed by the wire dtype.
var dataTypeSize = map[int32]int64{
	0:  4, // float
	1:  2, // float16
	2:  1, // int8
	3:  4, // int32
	4:  1, // uint8
	6:  2, // int16
	7:  2, // uint16
	8:  4, // uint32
	9:  8, // int64
	10: 8, // uint64
	11: 8, // double
	12: 1, // bool
	27: 2, // bfloat16
}

// Decode convert one wire attribute into a typed value.
func Decode(name string, wire udfproto.AttrValue) (Value, error) {
	v, err := decode(wire)
	if err != nil {
		klog.V(util.LogErrorLev).Infof("decode attr %s failed: %v.", name, err)
		return nil, fmt.Errorf("%w: decode attr %s: %v", util.ErrParamInvalid, name, err)
	}
	return v, nil
}

// DecodeMap convert all wire attributes, any failure fails the whole map.
func DecodeMap(wire map[string]udfproto.AttrValue) (Map, error) {
	out := make(Map, len(wire))
	for name, w := range wire {
		v, err := Decode(name, w)
		if err != nil {
			return nil, err
		}
		out[name] = v
	}
	return out, nil
}

func decode(wire udfproto.AttrValue) (Value, error) {
	switch wire.Kind {
	case udfproto.AttrKindString:
		return String(wire.S), nil
	case udfproto.AttrKindInt:
		return Int(wire.I), nil
	case udfproto.AttrKindFloat:
		return Float(wire.F), nil
	case udfproto.AttrKindBool:
		return Bool(wire.B), nil
	case udfproto.AttrKindTensor:
		if wire.T == nil {
			return nil, fmt.Errorf("tensor value is nil")
		}
		return decodeTensor(*wire.T)
	case udfproto.AttrKindListListInt:
		out := make(IntListList, 0, len(wire.ListListInt))
		for _, l := range wire.ListListInt {
			out = append(out, append([]int64(nil), l...))
		}
		return out, nil
	case udfproto.AttrKindList:
		if wire.List == nil {
			return nil, fmt.Errorf("list value is nil")
		}
		return decodeList(*wire.List)
	default:
		return nil, fmt.Errorf("value is not set")
	}
}

func decodeTensor(t udfproto.TensorDef) (Tensor, error) {
	size, ok := dataTypeSize[t.DataType]
	if !ok {
		return Tensor{}, fmt.Errorf("tensor data type %d not supported", t.DataType)
	}
	count := int64(1)
	for _, dim := range t.Dims {
		if dim < 0 {
			return Tensor{}, fmt.Errorf("tensor dims %v has negative dim", t.Dims)
		}
		if dim != 0 && count > math.MaxInt64/size/dim {
			return Tensor{}, fmt.Errorf("tensor dims %v overflow", t.Dims)
		}
		count *= dim
	}
	if count*size != int64(len(t.Data)) {
		return Tensor{}, fmt.Errorf("tensor dims %v need %d bytes, got %d", t.Dims, count*size, len(t.Data))
	}
	return Tensor{
		DataType: t.DataType,
		Dims:     append([]int64(nil), t.Dims...),
		Data:     append([]byte(nil), t.Data...),
	}, nil
}

// listType val_type of the list, or the only non-empty member when val_type is unset.
func listType(l udfproto.ListValue) (int32, error) {
	if l.ValType != udfproto.ListValueTypeNone {
		return l.ValType, nil
	}
	found := udfproto.ListValueTypeNone
	candidates := []struct {
		vt  int32
		len int
	}{
		{udfproto.ListValueTypeString, len(l.S)},
		{udfproto.ListValueTypeInt, len(l.I)},
		{udfproto.ListValueTypeFloat, len(l.F)},
		{udfproto.ListValueTypeBool, len(l.B)},
		{udfproto.ListValueTypeTensor, len(l.T)},
	}
	for _, c := range candidates {
		if c.len == 0 {
			continue
		}
		if found != udfproto.ListValueTypeNone {
			return 0, fmt.Errorf("list value has more than one member")
		}
		found = c.vt
	}
	if found == udfproto.ListValueTypeNone {
		return 0, fmt.Errorf("list value type is not set")
	}
	return found, nil
}

func decodeList(l udfproto.ListValue) (Value, error) {
	vt, err := listType(l)
	if err != nil {
		return nil, err
	}
	switch vt {
	case udfproto.ListValueTypeString:
		return StringList(append([]string(nil), l.S...)), nil
	case udfproto.ListValueTypeInt:
		return IntList(append([]int64(nil), l.I...)), nil
	case udfproto.ListValueTypeFloat:
		return FloatList(append([]float32(nil), l.F...)), nil
	case udfproto.ListValueTypeBool:
		return BoolList(append([]bool(nil), l.B...)), nil
	case udfproto.ListValueTypeTensor:
		out := make(TensorList, 0, len(l.T))
		for i, t := range l.T {
			tensor, err := decodeTensor(t)
			if err != nil {
				return nil, fmt.Errorf("list tensor %d: %v", i, err)
			}
			out = append(out, tensor)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("list value type %d not supported", vt)
	}
}
