package bani

import (
	"bytes"
	"encoding/json"
	"strings"
)

// marshal работает как json.Marshal без HTML-экранирования, имена файлов пишутся как есть.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// pathKey экранирует ключ объекта для путей gjson/sjson, чтобы точки и
// шаблонные символы в ключе не разбивали путь.
func pathKey(key string) string {
	if strings.IndexFunc(key, isPathSpecial) < 0 {
		return key
	}
	var b strings.Builder
	for _, r := range key {
		if isPathSpecial(r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isPathSpecial(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	case r == '_', r == '-', r == ' ', r > '~':
		return false
	}
	return true
}
