package fonts

import (
	"fmt"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
)

var embedded = map[string][]byte{
	"goregular":    goregular.TTF,
	"gobold":       gobold.TTF,
	"goitalic":     goitalic.TTF,
	"gobolditalic": gobolditalic.TTF,
}

// Load 返回内置字体的字节数据，name 可写为 "embed:goregular" 或直接 "goregular"。
func Load(name string) ([]byte, error) {
	key := strings.ToLower(strings.TrimSuffix(strings.TrimPrefix(name, "embed:"), ".ttf"))
	data, ok := embedded[key]
	if !ok {
		return nil, fmt.Errorf("读取内置字体 %s 失败: 不存在", name)
	}
	return data, nil
}
