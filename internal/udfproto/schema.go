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
	"sync"

	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
)

const (
	schemaPackage = "ge.udf"

	// MsgUdfModelDef full name of the udf definition file message.
	MsgUdfModelDef = schemaPackage + ".UdfModelDef"
	// MsgBatchLoadModel full name of the batch load model message.
	MsgBatchLoadModel = schemaPackage + ".BatchLoadModelMessage"
)

// schemaText udf_deploy.proto as a FileDescriptorProto.
const schemaText = `
name: "ge/udf/udf_deploy.proto"
package: "ge.udf"
syntax: "proto3"
message_type {
  name: "TensorDef"
  field { name: "dtype" number: 1 label: LABEL_OPTIONAL type: TYPE_INT32 }
  field { name: "dims" number: 2 label: LABEL_REPEATED type: TYPE_INT64 }
  field { name: "data" number: 3 label: LABEL_OPTIONAL type: TYPE_BYTES }
}
message_type {
  name: "AttrValue"
  field { name: "s" number: 2 label: LABEL_OPTIONAL type: TYPE_BYTES oneof_index: 0 }
  field { name: "i" number: 3 label: LABEL_OPTIONAL type: TYPE_INT64 oneof_index: 0 }
  field { name: "f" number: 4 label: LABEL_OPTIONAL type: TYPE_FLOAT oneof_index: 0 }
  field { name: "b" number: 5 label: LABEL_OPTIONAL type: TYPE_BOOL oneof_index: 0 }
  field { name: "list" number: 6 label: LABEL_OPTIONAL type: TYPE_MESSAGE type_name: ".ge.udf.AttrValue.ListValue"
          oneof_index: 0 }
  field { name: "t" number: 7 label: LABEL_OPTIONAL type: TYPE_MESSAGE type_name: ".ge.udf.TensorDef" oneof_index: 0 }
  field { name: "list_list_int" number: 8 label: LABEL_OPTIONAL type: TYPE_MESSAGE
          type_name: ".ge.udf.AttrValue.ListListInt" oneof_index: 0 }
  nested_type {
    name: "ListValue"
    field { name: "s" number: 2 label: LABEL_REPEATED type: TYPE_BYTES }
    field { name: "i" number: 3 label: LABEL_REPEATED type: TYPE_INT64 }
    field { name: "f" number: 4 label: LABEL_REPEATED type: TYPE_FLOAT }
    field { name: "b" number: 5 label: LABEL_REPEATED type: TYPE_BOOL }
    field { name: "t" number: 6 label: LABEL_REPEATED type: TYPE_MESSAGE type_name: ".ge.udf.TensorDef" }
    field { name: "val_type" number: 20 label: LABEL_OPTIONAL type: TYPE_INT32 }
  }
  nested_type {
    name: "ListListInt"
    field { name: "list_list_i" number: 1 label: LABEL_REPEATED type: TYPE_MESSAGE
            type_name: ".ge.udf.AttrValue.ListListInt.ListInt" }
    nested_type {
      name: "ListInt"
      field { name: "list_i" number: 1 label: LABEL_REPEATED type: TYPE_INT64 }
    }
  }
  oneof_decl { name: "value" }
}
message_type {
  name: "IndexList"
  field { name: "index" number: 1 label: LABEL_REPEATED type: TYPE_UINT32 }
}
message_type {
  name: "BufferPoolCfg"
  field { name: "total_size" number: 1 label: LABEL_OPTIONAL type: TYPE_UINT32 }
  field { name: "blk_size" number: 2 label: LABEL_OPTIONAL type: TYPE_UINT32 }
  field { name: "max_buf_size" number: 3 label: LABEL_OPTIONAL type: TYPE_UINT32 }
  field { name: "page_type" number: 4 label: LABEL_OPTIONAL type: TYPE_STRING }
}
message_type {
  name: "UdfDef"
  field { name: "name" number: 1 label: LABEL_OPTIONAL type: TYPE_STRING }
  field { name: "func_name" number: 2 label: LABEL_OPTIONAL type: TYPE_STRING }
  field { name: "bin_name" number: 3 label: LABEL_OPTIONAL type: TYPE_STRING }
  field { name: "attrs" number: 4 label: LABEL_REPEATED type: TYPE_MESSAGE type_name: ".ge.udf.UdfDef.AttrsEntry" }
  field { name: "func_inputs_map" number: 5 label: LABEL_REPEATED type: TYPE_MESSAGE
          type_name: ".ge.udf.UdfDef.FuncInputsMapEntry" }
  field { name: "func_outputs_map" number: 6 label: LABEL_REPEATED type: TYPE_MESSAGE
          type_name: ".ge.udf.UdfDef.FuncOutputsMapEntry" }
  field { name: "stream_input_func_names" number: 7 label: LABEL_REPEATED type: TYPE_STRING }
  field { name: "buf_cfg" number: 8 label: LABEL_REPEATED type: TYPE_MESSAGE type_name: ".ge.udf.BufferPoolCfg" }
  nested_type {
    name: "AttrsEntry"
    field { name: "key" number: 1 label: LABEL_OPTIONAL type: TYPE_STRING }
    field { name: "value" number: 2 label: LABEL_OPTIONAL type: TYPE_MESSAGE type_name: ".ge.udf.AttrValue" }
    options { map_entry: true }
  }
  nested_type {
    name: "FuncInputsMapEntry"
    field { name: "key" number: 1 label: LABEL_OPTIONAL type: TYPE_STRING }
    field { name: "value" number: 2 label: LABEL_OPTIONAL type: TYPE_MESSAGE type_name: ".ge.udf.IndexList" }
    options { map_entry: true }
  }
  nested_type {
    name: "FuncOutputsMapEntry"
    field { name: "key" number: 1 label: LABEL_OPTIONAL type: TYPE_STRING }
    field { name: "value" number: 2 label: LABEL_OPTIONAL type: TYPE_MESSAGE type_name: ".ge.udf.IndexList" }
    options { map_entry: true }
  }
}
message_type {
  name: "UdfModelDef"
  field { name: "udf_def" number: 1 label: LABEL_REPEATED type: TYPE_MESSAGE type_name: ".ge.udf.UdfDef" }
}
message_type {
  name: "QueueAttrs"
  field { name: "queue_id" number: 1 label: LABEL_OPTIONAL type: TYPE_UINT32 }
  field { name: "device_type" number: 2 label: LABEL_OPTIONAL type: TYPE_INT32 }
  field { name: "device_id" number: 3 label: LABEL_OPTIONAL type: TYPE_INT32 }
  field { name: "logic_id" number: 4 label: LABEL_OPTIONAL type: TYPE_INT32 }
}
message_type {
  name: "InvokedModelQueue"
  field { name: "feed_queue_attrs" number: 1 label: LABEL_REPEATED type: TYPE_MESSAGE type_name: ".ge.udf.QueueAttrs" }
  field { name: "fetch_queue_attrs" number: 2 label: LABEL_REPEATED type: TYPE_MESSAGE type_name: ".ge.udf.QueueAttrs" }
}
message_type {
  name: "InputAlignAttrs"
  field { name: "align_max_cache_num" number: 1 label: LABEL_OPTIONAL type: TYPE_UINT32 }
  field { name: "align_timeout" number: 2 label: LABEL_OPTIONAL type: TYPE_INT32 }
  field { name: "drop_when_not_align" number: 3 label: LABEL_OPTIONAL type: TYPE_BOOL }
}
message_type {
  name: "LoadModelRequest"
  field { name: "model_path" number: 1 label: LABEL_OPTIONAL type: TYPE_STRING }
  field { name: "model_instance_name" number: 2 label: LABEL_OPTIONAL type: TYPE_STRING }
  field { name: "input_queues_attrs" number: 3 label: LABEL_REPEATED type: TYPE_MESSAGE type_name: ".ge.udf.QueueAttrs" }
  field { name: "output_queues_attrs" number: 4 label: LABEL_REPEATED type: TYPE_MESSAGE type_name: ".ge.udf.QueueAttrs" }
  field { name: "scope" number: 5 label: LABEL_OPTIONAL type: TYPE_STRING }
  field { name: "is_head" number: 6 label: LABEL_OPTIONAL type: TYPE_BOOL }
  field { name: "enable_exception_catch" number: 7 label: LABEL_OPTIONAL type: TYPE_BOOL }
  field { name: "is_dynamic_sched" number: 8 label: LABEL_OPTIONAL type: TYPE_BOOL }
  field { name: "need_report_status" number: 9 label: LABEL_OPTIONAL type: TYPE_BOOL }
  field { name: "status_output_queues" number: 10 label: LABEL_REPEATED type: TYPE_MESSAGE
          type_name: ".ge.udf.QueueAttrs" }
  field { name: "model_uuid" number: 11 label: LABEL_OPTIONAL type: TYPE_UINT32 }
  field { name: "replica_idx" number: 12 label: LABEL_OPTIONAL type: TYPE_INT32 }
  field { name: "replica_num" number: 13 label: LABEL_OPTIONAL type: TYPE_INT32 }
  field { name: "invoked_model_queues_attrs" number: 14 label: LABEL_REPEATED type: TYPE_MESSAGE
          type_name: ".ge.udf.LoadModelRequest.InvokedModelQueuesAttrsEntry" }
  field { name: "attrs" number: 15 label: LABEL_REPEATED type: TYPE_MESSAGE
          type_name: ".ge.udf.LoadModelRequest.AttrsEntry" }
  field { name: "input_align_attrs" number: 16 label: LABEL_OPTIONAL type: TYPE_MESSAGE
          type_name: ".ge.udf.InputAlignAttrs" }
  field { name: "model_id" number: 17 label: LABEL_OPTIONAL type: TYPE_UINT32 }
  nested_type {
    name: "InvokedModelQueuesAttrsEntry"
    field { name: "key" number: 1 label: LABEL_OPTIONAL type: TYPE_STRING }
    field { name: "value" number: 2 label: LABEL_OPTIONAL type: TYPE_MESSAGE type_name: ".ge.udf.InvokedModelQueue" }
    options { map_entry: true }
  }
  nested_type {
    name: "AttrsEntry"
    field { name: "key" number: 1 label: LABEL_OPTIONAL type: TYPE_STRING }
    field { name: "value" number: 2 label: LABEL_OPTIONAL type: TYPE_STRING }
    options { map_entry: true }
  }
}
message_type {
  name: "BatchLoadModelMessage"
  field { name: "models" number: 1 label: LABEL_REPEATED type: TYPE_MESSAGE type_name: ".ge.udf.LoadModelRequest" }
}
`

var (
	schemaOnce sync.Once
	schemaFile protoreflect.FileDescriptor
	schemaErr  error
)

func schema() (protoreflect.FileDescriptor, error) {
	schemaOnce.Do(func() {
		fdp := &descriptorpb.FileDescriptorProto{}
		if err := prototext.Unmarshal([]byte(schemaText), fdp); err != nil {
			schemaErr = fmt.Errorf("parse udf deploy schema: %v", err)
			return
		}
		schemaFile, schemaErr = protodesc.NewFile(fdp, new(protoregistry.Files))
	})
	return schemaFile, schemaErr
}

// MessageDescriptor look up a message of the schema by full name.
func MessageDescriptor(fullName string) (protoreflect.MessageDescriptor, error) {
	fd, err := schema()
	if err != nil {
		return nil, err
	}
	name := protoreflect.FullName(fullName)
	if !name.IsValid() || name.Parent() != protoreflect.FullName(schemaPackage) {
		return nil, fmt.Errorf("message %s not in package %s", fullName, schemaPackage)
	}
	md := fd.Messages().ByName(name.Name())
	if md == nil {
		return nil, fmt.Errorf("message %s not found", fullName)
	}
	return md, nil
}
