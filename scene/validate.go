package scene

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// 用户输入校验失败。错误文本即对话框中展示的提示。
var (
	ErrInvalidColumns = errors.New("无效的正整数!")
	ErrInvalidFloors  = errors.New("无效的正整数，且必须大于 1 !")
)

// ParseColumns 解析列数，必须是正整数。
func ParseColumns(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidColumns, s)
	}
	return n, nil
}

// ParseFloors 解析层数，必须是大于 1 的整数。
// 与列数不同，单层骑楼没有意义：屋顶和地面层的画法都假定至少两层。
func ParseFloors(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFloors, s)
	}
	return n, nil
}

// dialogMessage 返回展示给用户的校验提示。
func dialogMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidColumns):
		return ErrInvalidColumns.Error()
	case errors.Is(err, ErrInvalidFloors):
		return ErrInvalidFloors.Error()
	default:
		return err.Error()
	}
}
