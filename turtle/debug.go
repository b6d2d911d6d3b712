package turtle

import (
	"encoding/json"
	"os"
	"sort"
)

// WriteDebugJSON 将显示列表输出为 JSON，便于调试或比对。
func WriteDebugJSON(d *Drawing, path string) error {
	if d == nil {
		return nil
	}
	payload := struct {
		Clears int      `json:"clears"`
		Shapes []string `json:"shapes"`
		Ops    []Op     `json:"ops"`
	}{Clears: d.clears, Ops: d.Ops()}
	for name := range d.shapes {
		payload.Shapes = append(payload.Shapes, name)
	}
	sort.Strings(payload.Shapes)
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
