package tools

import (
	"encoding/json"
	"path/filepath"
)

func FmtJSONString(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "marshal data fail"
	}
	return string(data)
}

func GetFilenameWithoutExtension(filePath string) string {
	nameWext := filepath.Base(filePath)
	extension := filepath.Ext(nameWext)
	return nameWext[0 : len(nameWext)-len(extension)]
}
