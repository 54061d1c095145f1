package source

import "fmt"

// MemorySource отдаёт документы, уже лежащие в памяти, например прочитанные из stdin.
type MemorySource struct {
	inputs []Input
}

func NewMemorySource(inputs ...Input) *MemorySource {
	return &MemorySource{inputs: inputs}
}

// Add добавляет документ и возвращает его индекс.
func (s *MemorySource) Add(name string, data []byte) int {
	s.inputs = append(s.inputs, Input{Name: name, Data: data})
	return len(s.inputs) - 1
}

func (s *MemorySource) Count() int {
	return len(s.inputs)
}

func (s *MemorySource) Read(index int) (Input, error) {
	if index < 0 || index >= len(s.inputs) {
		return Input{}, fmt.Errorf("input %d out of range", index)
	}
	return s.inputs[index], nil
}

func (s *MemorySource) Close() error {
	return nil
}
