/*
Copyright(C)2023. Huawei Technologies Co.,Ltd. All rights reserved.
*/

/*
Package attr is using for the typed udf attribute values.
*/
package attr

import (
	"errors"
	"reflect"
	"testing"

	"github.com/hicann/ge-sub017/internal/udfproto"
	"github.com/hicann/ge-sub017/util"
)

type decodeTest struct {
	name    string
	wire    udfproto.AttrValue
	want    Value
	wantErr bool
}

func buildDecodeTestCase() []decodeTest {
	int32Tensor := &udfproto.TensorDef{DataType: 3, Dims: []int64{2}, Data: []byte{1, 0, 0, 0, 2, 0, 0, 0}}
	return []decodeTest{
		{name: "01-Decode int", wire: udfproto.AttrValue{Kind: udfproto.AttrKindInt, I: -4}, want: Int(-4)},
		{name: "02-Decode float", wire: udfproto.AttrValue{Kind: udfproto.AttrKindFloat, F: 1.5}, want: Float(1.5)},
		{name: "03-Decode string", wire: udfproto.AttrValue{Kind: udfproto.AttrKindString, S: "x"}, want: String("x")},
		{name: "04-Decode bool", wire: udfproto.AttrValue{Kind: udfproto.AttrKindBool, B: true}, want: Bool(true)},
		{
			name: "05-Decode tensor",
			wire: udfproto.AttrValue{Kind: udfproto.AttrKindTensor, T: int32Tensor},
			want: Tensor{DataType: 3, Dims: []int64{2}, Data: []byte{1, 0, 0, 0, 2, 0, 0, 0}},
		},
		{
			name: "06-Decode tensor with wrong data size",
			wire: udfproto.AttrValue{Kind: udfproto.AttrKindTensor,
				T: &udfproto.TensorDef{DataType: 3, Dims: []int64{3}, Data: []byte{1, 0, 0, 0}}},
			wantErr: true,
		},
		{
			name: "07-Decode tensor with unknown data type",
			wire: udfproto.AttrValue{Kind: udfproto.AttrKindTensor,
				T: &udfproto.TensorDef{DataType: 100}},
			wantErr: true,
		},
		{
			name: "08-Decode tensor with negative dim",
			wire: udfproto.AttrValue{Kind: udfproto.AttrKindTensor,
				T: &udfproto.TensorDef{DataType: 3, Dims: []int64{-1}}},
			wantErr: true,
		},
		{
			name: "09-Decode list with val type",
			wire: udfproto.AttrValue{Kind: udfproto.AttrKindList,
				List: &udfproto.ListValue{I: []int64{1, 2}, ValType: udfproto.ListValueTypeInt}},
			want: IntList{1, 2},
		},
		{
			name: "10-Decode list infer val type",
			wire: udfproto.AttrValue{Kind: udfproto.AttrKindList,
				List: &udfproto.ListValue{S: []string{"a"}}},
			want: StringList{"a"},
		},
		{
			name: "11-Decode list with two members and no val type",
			wire: udfproto.AttrValue{Kind: udfproto.AttrKindList,
				List: &udfproto.ListValue{S: []string{"a"}, B: []bool{true}}},
			wantErr: true,
		},
		{
			name:    "12-Decode empty list without val type",
			wire:    udfproto.AttrValue{Kind: udfproto.AttrKindList, List: &udfproto.ListValue{}},
			wantErr: true,
		},
		{
			name: "13-Decode list list int",
			wire: udfproto.AttrValue{Kind: udfproto.AttrKindListListInt,
				ListListInt: [][]int64{{1}, {2, 3}}},
			want: IntListList{{1}, {2, 3}},
		},
		{name: "14-Decode unset value", wire: udfproto.AttrValue{}, wantErr: true},
		{
			name: "15-Decode tensor list",
			wire: udfproto.AttrValue{Kind: udfproto.AttrKindList,
				List: &udfproto.ListValue{T: []udfproto.TensorDef{*int32Tensor}}},
			want: TensorList{{DataType: 3, Dims: []int64{2}, Data: []byte{1, 0, 0, 0, 2, 0, 0, 0}}},
		},
	}
}

func TestDecode(t *testing.T) {
	for _, tt := range buildDecodeTestCase() {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode("attr", tt.wire)
			if (err != nil) != tt.wantErr {
				t.Errorf("Decode() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err != nil && !errors.Is(err, util.ErrParamInvalid) {
				t.Errorf("Decode() error = %v, want param invalid", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Decode() got = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestDecodeMapFailsWhole(t *testing.T) {
	wire := map[string]udfproto.AttrValue{
		"ok":  {Kind: udfproto.AttrKindBool, B: true},
		"bad": {},
	}
	if got, err := DecodeMap(wire); err == nil || got != nil {
		t.Errorf("DecodeMap() = %v, %v, want nil and error", got, err)
	}
	delete(wire, "bad")
	got, err := DecodeMap(wire)
	if err != nil || !reflect.DeepEqual(got, Map{"ok": Bool(true)}) {
		t.Errorf("DecodeMap() = %v, %v", got, err)
	}
}

func TestMapGetters(t *testing.T) {
	m := Map{"b": Bool(true), "s": String("scope"), "l": StringList{"x", "y"}, "i": Int(3)}
	if v, found, err := m.GetBool("b"); !v || !found || err != nil {
		t.Errorf("GetBool() = %v %v %v", v, found, err)
	}
	if _, found, err := m.GetBool("absent"); found || err != nil {
		t.Errorf("GetBool() absent = %v %v", found, err)
	}
	if _, found, err := m.GetBool("s"); !found || !errors.Is(err, util.ErrParamInvalid) {
		t.Errorf("GetBool() mismatch = %v %v", found, err)
	}
	if v, _, err := m.GetString("s"); v != "scope" || err != nil {
		t.Errorf("GetString() = %v %v", v, err)
	}
	if _, _, err := m.GetString("l"); err == nil {
		t.Errorf("GetString() want mismatch error")
	}
	if v, _, err := m.GetStringList("l"); !reflect.DeepEqual(v, []string{"x", "y"}) || err != nil {
		t.Errorf("GetStringList() = %v %v", v, err)
	}
	if _, _, err := m.GetStringList("s"); err == nil {
		t.Errorf("GetStringList() want mismatch error")
	}
	if v, _, err := m.GetInt("i"); v != 3 || err != nil {
		t.Errorf("GetInt() = %v %v", v, err)
	}
}
