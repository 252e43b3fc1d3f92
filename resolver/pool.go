package resolver

import "sync"

// literalSlicePool reuses the []int buffers resolve() merges clause
// literals into. A proof run performs one resolve per ladder step per
// apply call, so this buffer is the hottest allocation in the package.
var literalSlicePool = sync.Pool{
	New: func() interface{} {
		return make([]int, 0, 16)
	},
}

func getLiteralSlice(size int) []int {
	slice := literalSlicePool.Get().([]int)
	if cap(slice) < size {
		return make([]int, 0, size)
	}
	return slice[:0]
}

func putLiteralSlice(slice []int) {
	if slice != nil && cap(slice) <= 128 {
		literalSlicePool.Put(slice)
	}
}
