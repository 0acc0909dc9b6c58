package layout

import (
	"encoding/json"
	"os"
)

// DebugDump 是调试 JSON 的根结构：视图尺寸与逐帧快照。
type DebugDump struct {
	Width  int            `json:"width"`
	Height int            `json:"height"`
	Bounds Endpoint[Rect] `json:"bounds"`
	Frames []Frame        `json:"frames"`
}

// WriteDebugJSON 将帧快照输出为 JSON，便于调试或可视化。
func WriteDebugJSON(dump *DebugDump, path string) error {
	if dump == nil {
		return nil
	}
	data, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
