package types

import (
	"bytes"
	"encoding/json"
)

// Optional 区分请求体中“没有这个字段”和“字段为 null ”两种情况。
// 字段缺失时 Set 为 false ；字段存在时 Set 为 true ，值为 null 时 Null 为 true 。
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true

	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		o.Null = true
		o.Value = zero
		return nil
	}

	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

// Apply 字段存在时写入 target ， null 写入零值
func (o Optional[T]) Apply(target *T) {
	if o.Set {
		*target = o.Value
	}
}

// ApplyPtr 用于可空字段， null 写入 nil
func (o Optional[T]) ApplyPtr(target **T) {
	if !o.Set {
		return
	}
	if o.Null {
		*target = nil
		return
	}
	v := o.Value
	*target = &v
}
