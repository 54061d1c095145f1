package source

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ivlev/banimask/internal/system"
)

// Input: сырой текст одного загруженного документа.
type Input struct {
	Name string // имя файла без папки, из него строится имя результата
	Path string
	Data []byte
}

// Source выдаёт сырые BANI-документы по индексу.
type Source interface {
	Count() int
	Read(index int) (Input, error)
	Close() error
}

// FileSource читает документы с диска. Папка раскрывается в лежащие
// в ней .bani файлы.
type FileSource struct {
	paths []string
}

func NewFileSource(paths ...string) (*FileSource, error) {
	var files []string
	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if fi.IsDir() {
			found, err := system.FindBaniFiles(p)
			if err != nil {
				return nil, err
			}
			files = append(files, found...)
			continue
		}
		files = append(files, p)
	}
	return &FileSource{paths: files}, nil
}

func (s *FileSource) Count() int {
	return len(s.paths)
}

func (s *FileSource) Read(index int) (Input, error) {
	if index < 0 || index >= len(s.paths) {
		return Input{}, fmt.Errorf("input %d out of range", index)
	}
	path := s.paths[index]
	data, err := os.ReadFile(path)
	if err != nil {
		return Input{}, err
	}
	return Input{Name: filepath.Base(path), Path: path, Data: data}, nil
}

func (s *FileSource) Close() error {
	return nil
}
