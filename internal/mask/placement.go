package mask

import (
	"errors"

	"github.com/ivlev/banimask/internal/bani"
)

// ErrNoHeadSprites: уведомление, в документе нечего маскировать, кадры не изменены.
var ErrNoHeadSprites = errors.New("no HEAD sprites with bounds 48x48 found")

const (
	headGfx  = "HEAD"
	headSize = 48
)

// ScanOrder: порядок обхода списков направлений. Он отличается от
// bani.StorageOrder и должен отличаться: это порядок колонок листа масок
// (down, up, затем стороны).
var ScanOrder = [4]bani.Direction{bani.Down, bani.Up, bani.Left, bani.Right}

// headOffsets переводит позицию головы в позицию маски, индексы как в ScanOrder.
var headOffsets = [4]Offset{
	{X: 0, Y: -16},
	{X: 0, Y: -10},
	{X: -1, Y: -15},
	{X: 1, Y: -15},
}

// Candidate: ссылка на голову, которая получит маску.
type Candidate struct {
	Frame     int
	Direction bani.Direction
	SpriteKey string
	HeadX     float64
	HeadY     float64
	MaskX     float64
	MaskY     float64
}

// Stats: итоги одного прохода.
type Stats struct {
	Candidates int
	Placed     int
}

// IsHead: спрайт HEAD размером ровно 48x48.
func IsHead(def bani.SpriteDef) bool {
	return def.Gfx == headGfx && def.Width() == headSize && def.Height() == headSize
}

// FindCandidates ищет ссылки на головы во всех кадрах. Две головы одного
// кадра с одинаковой позицией маски дают одного кандидата, даже если они в
// разных направлениях.
func FindCandidates(doc *bani.Document, refs Refs) []Candidate {
	var candidates []Candidate
	for fi, frame := range doc.Frames() {
		seen := make(map[[2]float64]bool)

		for si, d := range ScanOrder {
			shift := refs.For(d).Offset
			for _, ref := range frame.Directions.List(d) {
				def, ok := doc.Sprites().Get(ref.Key)
				if !ok || !IsHead(def) {
					continue
				}
				x := ref.X + headOffsets[si].X + shift.X
				y := ref.Y + headOffsets[si].Y + shift.Y
				pos := [2]float64{x, y}
				if seen[pos] {
					continue
				}
				seen[pos] = true
				candidates = append(candidates, Candidate{
					Frame:     fi,
					Direction: d,
					SpriteKey: ref.Key,
					HeadX:     ref.X,
					HeadY:     ref.Y,
					MaskX:     x,
					MaskY:     y,
				})
			}
		}
	}
	return candidates
}

// PlaceMasks дописывает ссылку на маску для каждой найденной головы. Если в
// списке направления уже есть запись в той же позиции, маска не добавляется,
// поэтому повторный запуск ничего не меняет.
func PlaceMasks(doc *bani.Document, refs Refs) (Stats, error) {
	candidates := FindCandidates(doc, refs)
	stats := Stats{Candidates: len(candidates)}
	if len(candidates) == 0 {
		return stats, ErrNoHeadSprites
	}

	for _, c := range candidates {
		list := doc.Frames()[c.Frame].Directions.List(c.Direction)
		if hasPosition(list, c.MaskX, c.MaskY) {
			continue
		}
		ref := bani.NewSpriteRef(refs.For(c.Direction).Key, c.MaskX, c.MaskY)
		if err := doc.AppendRef(c.Frame, c.Direction, ref); err != nil {
			return stats, err
		}
		stats.Placed++
	}
	return stats, nil
}

func hasPosition(list []bani.SpriteRef, x, y float64) bool {
	for _, ref := range list {
		if ref.X == x && ref.Y == y {
			return true
		}
	}
	return false
}
