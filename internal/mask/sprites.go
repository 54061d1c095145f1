package mask

import (
	"strconv"

	"github.com/ivlev/banimask/internal/bani"
)

// Gfx: роль сгенерированных спрайтов.
const Gfx = "MASK"

// Offset сдвигает все маски одного направления, в пикселях.
type Offset struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Offsets: по одному сдвигу на направление. Нулевое значение означает отсутствие сдвига.
type Offsets struct {
	Up    Offset `yaml:"up"`
	Left  Offset `yaml:"left"`
	Down  Offset `yaml:"down"`
	Right Offset `yaml:"right"`
}

func (o Offsets) For(d bani.Direction) Offset {
	switch d {
	case bani.Up:
		return o.Up
	case bani.Left:
		return o.Left
	case bani.Down:
		return o.Down
	case bani.Right:
		return o.Right
	}
	return Offset{}
}

// Ref: выделенный ключ спрайта маски и сдвиг для его направления.
type Ref struct {
	Key    string
	Offset Offset
}

// Refs сопоставляет направлению его спрайт маски.
type Refs struct {
	Up    Ref
	Left  Ref
	Down  Ref
	Right Ref
}

func (r Refs) For(d bani.Direction) Ref {
	switch d {
	case bani.Up:
		return r.Up
	case bani.Left:
		return r.Left
	case bani.Down:
		return r.Down
	case bani.Right:
		return r.Right
	}
	return Ref{}
}

func (r *Refs) set(d bani.Direction, ref Ref) {
	switch d {
	case bani.Up:
		r.Up = ref
	case bani.Left:
		r.Left = ref
	case bani.Down:
		r.Down = ref
	case bani.Right:
		r.Right = ref
	}
}

type spriteShape struct {
	dir    bani.Direction
	bounds [4]float64
	scale  *[2]float64
}

// maskSheet: раскладка листа масок в порядке выделения ключей.
// Колонки "left" на листе нет: используется правая, отраженная.
var maskSheet = []spriteShape{
	{dir: bani.Down, bounds: [4]float64{0, 0, 48, 72}},
	{dir: bani.Up, bounds: [4]float64{48, 0, 48, 72}},
	{dir: bani.Right, bounds: [4]float64{96, 0, 48, 72}},
	{dir: bani.Left, bounds: [4]float64{96, 0, 48, 72}, scale: &[2]float64{-1, 1}},
}

// GenerateSprites добавляет в документ четыре спрайта маски и возвращает их
// ключи. Каждый вызов добавляет еще четыре записи.
func GenerateSprites(doc *bani.Document, offsets Offsets) (Refs, error) {
	var refs Refs
	sprites := doc.Sprites()
	next := sprites.Len()
	for _, shape := range maskSheet {
		key := NextKey(sprites, next)
		def := bani.SpriteDef{Gfx: Gfx, Bounds: shape.bounds}
		if shape.scale != nil {
			scale := *shape.scale
			def.Scale = &scale
		}
		if err := doc.AddSprite(key, def); err != nil {
			return refs, err
		}
		refs.set(shape.dir, Ref{Key: key, Offset: offsets.For(shape.dir)})

		n, _ := strconv.Atoi(key)
		next = n + 1
	}
	return refs, nil
}
