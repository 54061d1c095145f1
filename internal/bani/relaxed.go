package bani

import (
	"bytes"
	"encoding/json"

	"github.com/tailscale/hujson"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Standardize приводит «расслабленный» текст BANI к компактному строгому
// JSON: снимает BOM, висячие запятые и комментарии. Строки не затрагиваются.
// Входной срез не меняется.
func Standardize(text []byte) ([]byte, error) {
	src := bytes.Clone(bytes.TrimPrefix(text, utf8BOM))
	std, err := hujson.Standardize(src)
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, std); err != nil {
		return nil, &ParseError{Err: err}
	}
	return buf.Bytes(), nil
}
