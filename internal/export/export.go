package export

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ErrNoDocumentLoaded прерывает экспорт, которому нечего писать.
var ErrNoDocumentLoaded = errors.New("no BANI files loaded")

const updatedSuffix = "_updated.bani"

// Output: один обработанный документ, готовый к записи.
type Output struct {
	Name string
	Data []byte
}

// Exporter пишет обработанные документы и возвращает созданные пути.
type Exporter interface {
	Export(ctx context.Context, outputs []Output) ([]string, error)
}

// OutputName строит имя выходного файла из имени входного:
// "walk.bani" превращается в "walk_updated.bani".
func OutputName(input string) string {
	base := filepath.Base(input)
	if strings.HasSuffix(strings.ToLower(base), ".bani") {
		base = base[:len(base)-len(".bani")]
	}
	return base + updatedSuffix
}

// New выбирает архив для пакета и отдельные файлы в остальных случаях.
func New(dir, archiveName string, forceArchive bool, count int) Exporter {
	if forceArchive || count > 1 {
		return &ArchiveExporter{Dir: dir, Name: archiveName}
	}
	return &FileExporter{Dir: dir}
}

// FileExporter пишет каждый результат отдельным файлом в Dir.
type FileExporter struct {
	Dir string
}

func (e *FileExporter) Export(ctx context.Context, outputs []Output) ([]string, error) {
	if len(outputs) == 0 {
		return nil, ErrNoDocumentLoaded
	}
	if err := os.MkdirAll(e.Dir, 0755); err != nil {
		return nil, err
	}

	names := uniqueNames(outputs)
	paths := make([]string, 0, len(outputs))
	for i, out := range outputs {
		if err := ctx.Err(); err != nil {
			return paths, err
		}
		path := filepath.Join(e.Dir, names[i])
		if err := os.WriteFile(path, out.Data, 0644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// ArchiveExporter упаковывает все результаты в один zip.
type ArchiveExporter struct {
	Dir  string
	Name string
}

func (e *ArchiveExporter) Export(ctx context.Context, outputs []Output) ([]string, error) {
	if len(outputs) == 0 {
		return nil, ErrNoDocumentLoaded
	}
	if err := os.MkdirAll(e.Dir, 0755); err != nil {
		return nil, err
	}

	path := filepath.Join(e.Dir, e.Name)
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return nil, err
	}

	if err := writeArchive(ctx, f, outputs); err != nil {
		f.Close()
		os.Remove(tmp)
		return nil, err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return nil, err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return nil, err
	}
	return []string{path}, nil
}

func writeArchive(ctx context.Context, f *os.File, outputs []Output) error {
	zw := zip.NewWriter(f)
	now := time.Now()
	names := uniqueNames(outputs)

	for i, out := range outputs {
		if err := ctx.Err(); err != nil {
			return err
		}
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     names[i],
			Method:   zip.Deflate,
			Modified: now,
		})
		if err != nil {
			return err
		}
		if _, err := w.Write(out.Data); err != nil {
			return fmt.Errorf("archive %s: %w", names[i], err)
		}
	}
	return zw.Close()
}

// uniqueNames добавляет суффикс к повторам, чтобы ничего не затереть:
// walk_updated.bani, walk_updated_2.bani, ...
func uniqueNames(outputs []Output) []string {
	names := make([]string, len(outputs))
	seen := make(map[string]int, len(outputs))
	for i, out := range outputs {
		name := out.Name
		seen[name]++
		if n := seen[name]; n > 1 {
			ext := filepath.Ext(name)
			name = strings.TrimSuffix(name, ext) + "_" + strconv.Itoa(n) + ext
		}
		names[i] = name
	}
	return names
}
