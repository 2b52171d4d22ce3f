/*
Copyright(C)2023. Huawei Technologies Co.,Ltd. All rights reserved.
*/

/*
Package udfproto is using for the wire format of the batch load model message and the udf definition file.
*/
package udfproto

import (
	"fmt"

	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/dynamicpb"
)

const (
	// KindBatch batch load model file.
	KindBatch = "batch"
	// KindUdf udf definition file.
	KindUdf = "udf"
)

var kindMessages = map[string]string{
	KindBatch: MsgBatchLoadModel,
	KindUdf:   MsgUdfModelDef,
}

// PackText convert a protobuf text format message of the given kind to the binary wire format.
func PackText(kind, text string) ([]byte, error) {
	fullName, ok := kindMessages[kind]
	if !ok {
		return nil, fmt.Errorf("unknown message kind %q", kind)
	}
	md, err := MessageDescriptor(fullName)
	if err != nil {
		return nil, err
	}
	msg := dynamicpb.NewMessage(md)
	if err := prototext.Unmarshal([]byte(text), msg); err != nil {
		return nil, fmt.Errorf("parse %s text: %w", kind, err)
	}
	return proto.MarshalOptions{Deterministic: true}.Marshal(msg)
}
