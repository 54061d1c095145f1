package bani

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
)

// Direction: индекс списка размещений кадра в порядке хранения.
type Direction int

const (
	Up Direction = iota
	Left
	Down
	Right
)

// StorageOrder: позиционный порядок массива "directions" в кадре.
var StorageOrder = [4]Direction{Up, Left, Down, Right}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Left:
		return "left"
	case Down:
		return "down"
	case Right:
		return "right"
	}
	return "Direction(" + strconv.Itoa(int(d)) + ")"
}

// SpriteRef размещает спрайт в кадре: [key, x, y].
type SpriteRef struct {
	Key string
	X   float64
	Y   float64
}

func NewSpriteRef(key string, x, y float64) SpriteRef {
	return SpriteRef{Key: key, X: x, Y: y}
}

// Equal сравнивает ключ и позицию.
func (r SpriteRef) Equal(o SpriteRef) bool {
	return r.Key == o.Key && r.X == o.X && r.Y == o.Y
}

func (r SpriteRef) MarshalJSON() ([]byte, error) {
	return marshal([]any{r.Key, r.X, r.Y})
}

// parseSpriteRef читает [key, x, y, ...]. Лишние элементы остаются только в
// исходном документе. Числовой ключ приводится к той же строке, что и ключ
// таблицы спрайтов: 5, 5.0 и 5e0 дают "5".
func parseSpriteRef(v gjson.Result) (SpriteRef, error) {
	if !v.IsArray() {
		return SpriteRef{}, fmt.Errorf("sprite reference: expected an array, got %s", v.Raw)
	}
	parts := v.Array()
	if len(parts) < 3 {
		return SpriteRef{}, fmt.Errorf("sprite reference: expected [key, x, y], got %d elements", len(parts))
	}

	var r SpriteRef
	switch parts[0].Type {
	case gjson.String:
		r.Key = parts[0].Str
	case gjson.Number:
		r.Key = strconv.FormatFloat(parts[0].Num, 'f', -1, 64)
	default:
		return SpriteRef{}, fmt.Errorf("sprite reference key: unexpected %s", parts[0].Raw)
	}
	if parts[1].Type != gjson.Number || parts[2].Type != gjson.Number {
		return SpriteRef{}, fmt.Errorf("sprite reference %s: x and y must be numbers", r.Key)
	}
	r.X, r.Y = parts[1].Num, parts[2].Num
	return r, nil
}

// Directions: четыре списка размещений одного кадра.
type Directions struct {
	Up    []SpriteRef
	Left  []SpriteRef
	Down  []SpriteRef
	Right []SpriteRef
}

// List возвращает список для направления d.
func (ds Directions) List(d Direction) []SpriteRef {
	return *ds.ptr(d)
}

func (ds *Directions) ptr(d Direction) *[]SpriteRef {
	switch d {
	case Up:
		return &ds.Up
	case Left:
		return &ds.Left
	case Down:
		return &ds.Down
	case Right:
		return &ds.Right
	}
	panic("bani: unknown direction " + d.String())
}

// MarshalJSON пишет списки позиционно, пустые как [].
func (ds Directions) MarshalJSON() ([]byte, error) {
	lists := make([][]SpriteRef, 0, len(StorageOrder))
	for _, d := range StorageOrder {
		list := ds.List(d)
		if list == nil {
			list = []SpriteRef{}
		}
		lists = append(lists, list)
	}
	return marshal(lists)
}

func parseDirections(v gjson.Result) (Directions, error) {
	var ds Directions
	if !v.IsArray() {
		return ds, fmt.Errorf("expected %d direction lists, got %s", len(StorageOrder), v.Raw)
	}
	lists := v.Array()
	if len(lists) != len(StorageOrder) {
		return ds, fmt.Errorf("expected %d direction lists, got %d", len(StorageOrder), len(lists))
	}
	for i, d := range StorageOrder {
		if !lists[i].IsArray() {
			return ds, fmt.Errorf("direction %s: expected a list, got %s", d, lists[i].Raw)
		}
		refs := make([]SpriteRef, 0, len(lists[i].Array()))
		for _, item := range lists[i].Array() {
			ref, err := parseSpriteRef(item)
			if err != nil {
				return ds, fmt.Errorf("direction %s: %w", d, err)
			}
			refs = append(refs, ref)
		}
		*ds.ptr(d) = refs
	}
	return ds, nil
}

// Frame: один шаг анимации. Остальные поля кадра (wait, sound и т.п.)
// живут только в исходном документе.
type Frame struct {
	Directions Directions `json:"directions"`
}

func parseFrame(v gjson.Result) (Frame, error) {
	var f Frame
	if !v.IsObject() {
		return f, fmt.Errorf("%w: expected an object", ErrInvalidFrame)
	}
	dirs := v.Get("directions")
	if !dirs.Exists() {
		return f, fmt.Errorf("%w: missing directions", ErrInvalidFrame)
	}
	ds, err := parseDirections(dirs)
	if err != nil {
		return f, fmt.Errorf("%w: directions: %v", ErrInvalidFrame, err)
	}
	f.Directions = ds
	return f, nil
}

// SpriteDef: запись таблицы спрайтов.
type SpriteDef struct {
	Gfx    string
	Bounds [4]float64
	Scale  *[2]float64 // только у отраженных спрайтов
}

// Width и Height берутся из bounds [x, y, w, h].
func (s SpriteDef) Width() float64  { return s.Bounds[2] }
func (s SpriteDef) Height() float64 { return s.Bounds[3] }

type spriteJSON struct {
	Gfx    string      `json:"gfx"`
	Bounds [4]float64  `json:"bounds"`
	Scale  *[2]float64 `json:"scale,omitempty"`
}

// MarshalJSON используется только для новых спрайтов: уже существующие
// записи не перекодируются и сохраняются байт в байт.
func (s SpriteDef) MarshalJSON() ([]byte, error) {
	return marshal(spriteJSON{Gfx: s.Gfx, Bounds: s.Bounds, Scale: s.Scale})
}

func parseSpriteDef(v gjson.Result) (SpriteDef, error) {
	var s SpriteDef
	if !v.IsObject() {
		return s, fmt.Errorf("expected an object, got %s", v.Raw)
	}
	if gfx := v.Get("gfx"); gfx.Exists() {
		if gfx.Type != gjson.String {
			return s, fmt.Errorf("gfx: expected a string, got %s", gfx.Raw)
		}
		s.Gfx = gfx.Str
	}
	if bounds := v.Get("bounds"); bounds.Exists() {
		nums, err := numbers(bounds, 4)
		if err != nil {
			return s, fmt.Errorf("bounds: %w", err)
		}
		copy(s.Bounds[:], nums)
	}
	if scale := v.Get("scale"); scale.Exists() && scale.Type != gjson.Null {
		nums, err := numbers(scale, 2)
		if err != nil {
			return s, fmt.Errorf("scale: %w", err)
		}
		s.Scale = &[2]float64{nums[0], nums[1]}
	}
	return s, nil
}

func numbers(v gjson.Result, n int) ([]float64, error) {
	if !v.IsArray() {
		return nil, fmt.Errorf("expected %d numbers, got %s", n, v.Raw)
	}
	items := v.Array()
	if len(items) != n {
		return nil, fmt.Errorf("expected %d numbers, got %d", n, len(items))
	}
	out := make([]float64, n)
	for i, item := range items {
		if item.Type != gjson.Number {
			return nil, fmt.Errorf("element %d is not a number: %s", i, item.Raw)
		}
		out[i] = item.Num
	}
	return out, nil
}

// SpriteTable: таблица спрайтов в порядке документа. Только для чтения:
// новые записи добавляет Document.AddSprite.
type SpriteTable struct {
	keys []string
	defs map[string]SpriteDef
}

func newSpriteTable() *SpriteTable {
	return &SpriteTable{defs: make(map[string]SpriteDef)}
}

func (t *SpriteTable) Len() int {
	return len(t.keys)
}

func (t *SpriteTable) Has(key string) bool {
	_, ok := t.defs[key]
	return ok
}

func (t *SpriteTable) Get(key string) (SpriteDef, bool) {
	def, ok := t.defs[key]
	return def, ok
}

func (t *SpriteTable) Keys() []string {
	keys := make([]string, len(t.keys))
	copy(keys, t.keys)
	return keys
}

func (t *SpriteTable) put(key string, def SpriteDef) {
	if _, ok := t.defs[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.defs[key] = def
}

// Options: типизированное представление записи "options".
type Options struct {
	Looping        bool            `json:"looping"`
	Continuous     bool            `json:"continuous"`
	BlockingBounds [4]float64      `json:"blockingbounds"`
	Center         json.RawMessage `json:"center"`
}
