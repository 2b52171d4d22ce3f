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

	"github.com/hicann/ge-sub017/util"
)

// Kind of an attribute value.
type Kind int

const (
	// KindInt int64.
	KindInt Kind = iota
	// KindFloat float32.
	KindFloat
	// KindString string.
	KindString
	// KindBool bool.
	KindBool
	// KindTensor constant tensor.
	KindTensor
	// KindIntList []int64.
	KindIntList
	// KindFloatList []float32.
	KindFloatList
	// KindStringList []string.
	KindStringList
	// KindBoolList []bool.
	KindBoolList
	// KindTensorList []Tensor.
	KindTensorList
	// KindIntListList [][]int64.
	KindIntListList
)

var kindNames = map[Kind]string{
	KindInt:         "int",
	KindFloat:       "float",
	KindString:      "string",
	KindBool:        "bool",
	KindTensor:      "tensor",
	KindIntList:     "list_int",
	KindFloatList:   "list_float",
	KindStringList:  "list_string",
	KindBoolList:    "list_bool",
	KindTensorList:  "list_tensor",
	KindIntListList: "list_list_int",
}

// String for log.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Value an attribute value, one of the types of this package.
type Value interface {
	Kind() Kind
	isValue()
}

// Int attr.
type Int int64

// Float attr.
type Float float32

// String attr.
type String string

// Bool attr.
type Bool bool

// IntList attr.
type IntList []int64

// FloatList attr.
type FloatList []float32

// StringList attr.
type StringList []string

// BoolList attr.
type BoolList []bool

// TensorList attr.
type TensorList []Tensor

// IntListList attr.
type IntListList [][]int64

// Tensor attr, Data is little endian raw data of DataType.
type Tensor struct {
	DataType int32
	Dims     []int64
	Data     []byte
}

// Kind of Int.
func (Int) Kind() Kind { return KindInt }

// Kind of Float.
func (Float) Kind() Kind { return KindFloat }

// Kind of String.
func (String) Kind() Kind { return KindString }

// Kind of Bool.
func (Bool) Kind() Kind { return KindBool }

// Kind of Tensor.
func (Tensor) Kind() Kind { return KindTensor }

// Kind of IntList.
func (IntList) Kind() Kind { return KindIntList }

// Kind of FloatList.
func (FloatList) Kind() Kind { return KindFloatList }

// Kind of StringList.
func (StringList) Kind() Kind { return KindStringList }

// Kind of BoolList.
func (BoolList) Kind() Kind { return KindBoolList }

// Kind of TensorList.
func (TensorList) Kind() Kind { return KindTensorList }

// Kind of IntListList.
func (IntListList) Kind() Kind { return KindIntListList }

func (Int) isValue()         {}
func (Float) isValue()       {}
func (String) isValue()      {}
func (Bool) isValue()        {}
func (Tensor) isValue()      {}
func (IntList) isValue()     {}
func (FloatList) isValue()   {}
func (StringList) isValue()  {}
func (BoolList) isValue()    {}
func (TensorList) isValue()  {}
func (IntListList) isValue() {}

// Map attribute name to value.
type Map map[string]Value

func mismatch(name string, v Value, want Kind) error {
	return util.ParamInvalidf("attr %s is %s, not %s", name, v.Kind(), want)
}

// GetBool the optional bool attr, found is false when absent.
func (m Map) GetBool(name string) (val bool, found bool, err error) {
	v, ok := m[name]
	if !ok {
		return false, false, nil
	}
	b, ok := v.(Bool)
	if !ok {
		return false, true, mismatch(name, v, KindBool)
	}
	return bool(b), true, nil
}

// GetInt the optional int attr.
func (m Map) GetInt(name string) (val int64, found bool, err error) {
	v, ok := m[name]
	if !ok {
		return 0, false, nil
	}
	i, ok := v.(Int)
	if !ok {
		return 0, true, mismatch(name, v, KindInt)
	}
	return int64(i), true, nil
}

// GetString the optional string attr.
func (m Map) GetString(name string) (val string, found bool, err error) {
	v, ok := m[name]
	if !ok {
		return "", false, nil
	}
	s, ok := v.(String)
	if !ok {
		return "", true, mismatch(name, v, KindString)
	}
	return string(s), true, nil
}

// GetStringList the optional string list attr.
func (m Map) GetStringList(name string) (val []string, found bool, err error) {
	v, ok := m[name]
	if !ok {
		return nil, false, nil
	}
	l, ok := v.(StringList)
	if !ok {
		return nil, true, mismatch(name, v, KindStringList)
	}
	return append([]string(nil), l...), true, nil
}
