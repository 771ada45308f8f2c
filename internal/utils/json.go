package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"k8s.io/klog/v2"
)

func ToJSON(v any) string {
	jsonData, err := json.Marshal(v)
	if err != nil {
		klog.Errorf("JSON序列化失败: %v", err)
		return ""
	}
	return string(jsonData)
}

// ParseKeyValues 解析序列化的表单数据（JSON 对象字符串）为字符串键值对
// 标量值统一转为字符串，嵌套结构保留其 JSON 文本形式
func ParseKeyValues(raw string) (map[string]string, error) {
	if raw == "" {
		return map[string]string{}, nil
	}

	decoder := json.NewDecoder(bytes.NewReader([]byte(raw)))
	decoder.UseNumber()

	var parsed map[string]any
	if err := decoder.Decode(&parsed); err != nil {
		return nil, fmt.Errorf("invalid JSON object: %w", err)
	}

	values := make(map[string]string, len(parsed))
	for key, v := range parsed {
		switch val := v.(type) {
		case string:
			values[key] = val
		case json.Number:
			values[key] = val.String()
		case bool:
			values[key] = strconv.FormatBool(val)
		case nil:
			values[key] = ""
		default:
			values[key] = ToJSON(val)
		}
	}
	return values, nil
}
