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
Package bufpool is using for checking the udf buffer pool configuration.
*/
package bufpool

import (
	"fmt"

	"k8s.io/apimachinery/pkg/util/validation/field"
	"k8s.io/klog"

	"github.com/hicann/ge-sub017/util"
)

const (
	// PageTypeNormal 4K page.
	PageTypeNormal = "normal"
	// PageTypeHuge 2M page.
	PageTypeHuge = "huge"

	// MaxItemNum max buffer pool items of one udf.
	MaxItemNum = 64
	// NormalPageSize normal page size.
	NormalPageSize = 4 * 1024
	// HugePageSize huge page size.
	HugePageSize = 2 * 1024 * 1024
	// MaxBlockSize max block size of one buffer pool.
	MaxBlockSize = 2 * 1024 * 1024
)

// Item one buffer pool configuration.
type Item struct {
	TotalSize  uint32
	BlockSize  uint32
	MaxBufSize uint32
	PageType   string
}

// String for log.
func (it Item) String() string {
	return fmt.Sprintf("{total:%d, blk:%d, maxBuf:%d, page:%s}", it.TotalSize, it.BlockSize, it.MaxBufSize,
		it.PageType)
}

// Validate check the items in order and stop at the first violation. The items are never modified.
func Validate(items []Item, path *field.Path) error {
	if path == nil {
		path = field.NewPath("bufCfg")
	}
	if len(items) > MaxItemNum {
		return paramInvalid(field.TooMany(path, len(items), MaxItemNum))
	}
	lastMaxBuf := make(map[string]uint32, util.MapInitNum)
	for i, item := range items {
		itemPath := path.Index(i)
		if err := checkItem(item, itemPath); err != nil {
			return err
		}
		if last, ok := lastMaxBuf[item.PageType]; ok && item.MaxBufSize <= last {
			return paramInvalid(field.Invalid(itemPath.Child("maxBufSize"), item.MaxBufSize,
				fmt.Sprintf("must be greater than previous %s page item's %d", item.PageType, last)))
		}
		lastMaxBuf[item.PageType] = item.MaxBufSize
	}
	klog.V(util.LogDebugLev).Infof("check %d buffer pool items success.", len(items))
	return nil
}

func checkItem(item Item, path *field.Path) error {
	if item.TotalSize == 0 {
		return paramInvalid(field.Invalid(path.Child("totalSize"), item.TotalSize, "must not be 0"))
	}
	if item.BlockSize == 0 {
		return paramInvalid(field.Invalid(path.Child("blkSize"), item.BlockSize, "must not be 0"))
	}
	if item.MaxBufSize == 0 {
		return paramInvalid(field.Invalid(path.Child("maxBufSize"), item.MaxBufSize, "must not be 0"))
	}
	if item.TotalSize <= item.MaxBufSize || item.MaxBufSize < item.BlockSize {
		return paramInvalid(field.Invalid(path, item.String(), "must meet totalSize > maxBufSize >= blkSize"))
	}
	var pageSize uint32
	switch item.PageType {
	case PageTypeNormal:
		pageSize = NormalPageSize
	case PageTypeHuge:
		pageSize = HugePageSize
	default:
		return paramInvalid(field.NotSupported(path.Child("pageType"), item.PageType,
			[]string{PageTypeNormal, PageTypeHuge}))
	}
	if item.TotalSize%pageSize != 0 {
		return paramInvalid(field.Invalid(path.Child("totalSize"), item.TotalSize,
			fmt.Sprintf("must be a multiple of %s page size %d", item.PageType, pageSize)))
	}
	if !util.IsPowerOfTwo(uint64(item.BlockSize)) || item.BlockSize > MaxBlockSize {
		return paramInvalid(field.Invalid(path.Child("blkSize"), item.BlockSize,
			fmt.Sprintf("must be a power of 2 and not greater than %d", MaxBlockSize)))
	}
	if item.TotalSize%item.BlockSize != 0 {
		return paramInvalid(field.Invalid(path.Child("totalSize"), item.TotalSize,
			fmt.Sprintf("must be a multiple of blkSize %d", item.BlockSize)))
	}
	return nil
}

func paramInvalid(fieldErr *field.Error) error {
	klog.V(util.LogErrorLev).Infof("check buffer pool failed: %s.", fieldErr.Error())
	return fmt.Errorf("%w: %s", util.ErrParamInvalid, fieldErr.Error())
}
