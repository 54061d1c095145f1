package system

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
)

// BaniExt: расширение файлов описания анимации.
const BaniExt = ".bani"

// IsBaniFile сообщает, есть ли у name расширение .bani в любом регистре.
func IsBaniFile(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), BaniExt)
}

// FindBaniFiles возвращает .bani файлы прямо в dir, по имени.
func FindBaniFiles(dir string) ([]string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var found []string
	for _, f := range files {
		if !f.IsDir() && IsBaniFile(f.Name()) {
			found = append(found, filepath.Join(dir, f.Name()))
		}
	}

	if len(found) == 0 {
		return nil, fmt.Errorf("в папке %s не найдено BANI-файлов", dir)
	}

	sort.Strings(found)
	return found, nil
}

// EnsureDirs создаёт рабочие папки, если их нет.
func EnsureDirs(dirs ...string) error {
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}
	return nil
}

// DefaultWorkers возвращает число логических CPU.
func DefaultWorkers() int {
	n, err := cpu.Counts(true)
	if err != nil || n < 1 {
		if err != nil {
			log.Printf("[!] Не удалось определить число CPU: %v", err)
		}
		return runtime.NumCPU()
	}
	return n
}
