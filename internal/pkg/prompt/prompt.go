package prompt

import (
	"fmt"
	"regexp"
	"strings"
)

// placeholderPattern 匹配 {name} 形式的占位符
// 名称为一个或多个非 '}' 字符；不支持嵌套与转义，未闭合的 '{' 不产生匹配
var placeholderPattern = regexp.MustCompile(`\{([^}]+)\}`)

// ExtractPlaceholders 提取模板正文中引用的占位符名称
// 按首次出现顺序排列并去重；名称区分大小写与空白
func ExtractPlaceholders(body string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(body, -1)
	names := make([]string, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		name := m[1]
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// NewFormValues 根据占位符集合构建空白表单
// 切换模板时必须重建表单，避免旧模板的值泄漏到新表单
func NewFormValues(placeholders []string) map[string]string {
	values := make(map[string]string, len(placeholders))
	for _, name := range placeholders {
		values[name] = ""
	}
	return values
}

// Missing 返回未填写的占位符名称（缺失或为空字符串均视为未填写）
func Missing(placeholders []string, values map[string]string) []string {
	var missing []string
	for _, name := range placeholders {
		if values[name] == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

// Render 将表单值代入模板正文
// 所有占位符都必须有非空值，否则整体失败，不做部分替换。
// 单趟扫描原始正文：表单值中出现的 {token} 保持字面文本，不会被二次替换
func Render(body string, values map[string]string) (string, error) {
	placeholders := ExtractPlaceholders(body)
	if missing := Missing(placeholders, values); len(missing) > 0 {
		return "", fmt.Errorf("missing data for template placeholders: %s", strings.Join(missing, ", "))
	}
	rendered := placeholderPattern.ReplaceAllStringFunc(body, func(match string) string {
		return values[match[1:len(match)-1]]
	})
	return rendered, nil
}
