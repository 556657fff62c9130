// Package pool provides object pools for the render path.
package pool

import (
	"strings"
	"sync"
)

var stringBuilderPool = sync.Pool{
	New: func() any {
		return &strings.Builder{}
	},
}

// GetStringBuilder returns an empty builder from the pool.
func GetStringBuilder() *strings.Builder {
	return stringBuilderPool.Get().(*strings.Builder)
}

// PutStringBuilder resets sb and returns it to the pool. Builders that grew
// very large are dropped so one oversized frame doesn't pin memory.
func PutStringBuilder(sb *strings.Builder) {
	if sb == nil || sb.Cap() > 64*1024 {
		return
	}
	sb.Reset()
	stringBuilderPool.Put(sb)
}
