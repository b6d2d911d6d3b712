// Package binding 把场景文本中的 ${path} 占位符替换为数据中的值。
package binding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Interpolate 将文本中的 ${path.to.value} 替换为 data 中的值。
// ${path:-fallback} 在路径不存在时使用 fallback；没有 fallback 时保留原占位符。
func Interpolate(text string, data any) string {
	if !strings.Contains(text, "${") {
		return text
	}
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := exprPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		path, fallback, hasFallback := strings.Cut(groups[1], ":-")
		path = strings.TrimSpace(path)
		if path == "" {
			return match
		}
		if val, ok := Lookup(data, path); ok && val != nil {
			return fmt.Sprint(val)
		}
		if hasFallback {
			return fallback
		}
		return match
	})
}

// Lookup 按 a.b[0].c 形式的路径在 map/slice 嵌套数据中取值。
func Lookup(data any, path string) (any, bool) {
	if data == nil {
		return nil, false
	}
	current := data
	segments := strings.Split(path, ".")
	for _, segment := range segments {
		name, indexes := parseSegment(segment)
		if name != "" {
			var ok bool
			current, ok = descendMap(current, name)
			if !ok {
				return nil, false
			}
		}
		for _, idxStr := range indexes {
			idx, err := strconv.Atoi(idxStr)
			if err != nil {
				return nil, false
			}
			var ok bool
			current, ok = descendArray(current, idx)
			if !ok {
				return nil, false
			}
		}
	}
	return current, true
}

func parseSegment(segment string) (string, []string) {
	name := segment
	indexes := []string{}
	if i := strings.Index(segment, "["); i != -1 {
		name = segment[:i]
		rest := segment[i:]
		for len(rest) > 0 {
			if rest[0] != '[' {
				break
			}
			end := strings.IndexByte(rest, ']')
			if end == -1 {
				break
			}
			indexes = append(indexes, rest[1:end])
			rest = rest[end+1:]
		}
	}
	return name, indexes
}

func descendMap(current any, key string) (any, bool) {
	switch c := current.(type) {
	case map[string]any:
		val, ok := c[key]
		return val, ok
	case map[string]string:
		val, ok := c[key]
		return val, ok
	case map[string]int:
		val, ok := c[key]
		return val, ok
	default:
		return nil, false
	}
}

func descendArray(current any, idx int) (any, bool) {
	switch c := current.(type) {
	case []any:
		if idx < 0 || idx >= len(c) {
			return nil, false
		}
		return c[idx], true
	case []string:
		if idx < 0 || idx >= len(c) {
			return nil, false
		}
		return c[idx], true
	default:
		return nil, false
	}
}
