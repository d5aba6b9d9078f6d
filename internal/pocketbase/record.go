package pocketbase

import "encoding/json"

// 记录字段的类型安全读取
// 后端 JSON 数字统一解码为 float64，这里做集中转换

func (r Record) GetString(key string) string {
	if v, ok := r[key].(string); ok {
		return v
	}
	return ""
}

func (r Record) GetInt(key string) int {
	return int(r.GetInt64(key))
}

func (r Record) GetInt64(key string) int64 {
	switch v := r[key].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	case json.Number:
		n, _ := v.Int64()
		return n
	default:
		return 0
	}
}
