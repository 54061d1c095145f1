package bani

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// DefaultMaskFile: лист спрайтов для defaults.MASK, если документ его не задает.
const DefaultMaskFile = "bbuilder_enueanbumask.png"

// Document: разобранная BANI-анимация.
//
// Источник истины тут сам JSON документа. Все правки идут через sjson точечно,
// поэтому незнакомые поля, их порядок и запись чисел сохраняются. Спрайты и
// кадры дополнительно разобраны в типизированное представление только для
// чтения, которое мутаторы держат в актуальном состоянии.
type Document struct {
	name    string
	sprites *SpriteTable
	frames  []Frame

	raw []byte
}

// Parse читает текст BANI, проверяет структуру и строит представление.
// Проверка идет до разбора, поэтому отклоненный документ не оставляет
// частичного состояния.
func Parse(text []byte) (*Document, error) {
	raw, err := Standardize(text)
	if err != nil {
		return nil, err
	}
	if !gjson.ParseBytes(raw).IsObject() {
		return nil, &ParseError{Err: fmt.Errorf("document is not a JSON object")}
	}
	if err := Validate(raw); err != nil {
		return nil, err
	}
	return decode(raw)
}

// New создает пустой документ с именем name, без проверки обязательных полей.
func New(name string) *Document {
	raw, _ := marshal(struct {
		Name    string   `json:"name"`
		Sprites struct{} `json:"sprites"`
		Frames  []Frame  `json:"frames"`
	}{Name: name, Frames: []Frame{}})
	return &Document{name: name, sprites: newSpriteTable(), frames: []Frame{}, raw: raw}
}

func decode(raw []byte) (*Document, error) {
	root := gjson.ParseBytes(raw)
	doc := &Document{
		name:    root.Get("name").String(),
		sprites: newSpriteTable(),
		raw:     raw,
	}

	var err error
	root.Get("sprites").ForEach(func(key, value gjson.Result) bool {
		def, perr := parseSpriteDef(value)
		if perr != nil {
			err = fmt.Errorf("sprite %s: %w", key.String(), perr)
			return false
		}
		doc.sprites.put(key.String(), def)
		return true
	})
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	frames := root.Get("frames")
	switch {
	case !frames.Exists() || frames.Type == gjson.Null:
		// Нет кадров: нечего размечать.
	case !frames.IsArray():
		return nil, &ParseError{Err: fmt.Errorf("frames: expected an array, got %s", frames.Raw)}
	default:
		items := frames.Array()
		doc.frames = make([]Frame, len(items))
		for i, item := range items {
			f, err := parseFrame(item)
			if err != nil {
				return nil, &ParseError{Err: fmt.Errorf("frame %d: %w", i, err)}
			}
			doc.frames[i] = f
		}
	}
	return doc, nil
}

func (d *Document) Name() string { return d.name }

// Sprites возвращает таблицу спрайтов.
func (d *Document) Sprites() *SpriteTable { return d.sprites }

// Frames возвращает кадры. Срез нельзя менять напрямую: используйте AppendRef.
func (d *Document) Frames() []Frame { return d.frames }

// Options разбирает запись options.
func (d *Document) Options() (Options, error) {
	var opts Options
	err := json.Unmarshal([]byte(gjson.GetBytes(d.raw, "options").Raw), &opts)
	return opts, err
}

// DefaultFile возвращает лист спрайтов для роли, например "HEAD" или "MASK".
func (d *Document) DefaultFile(role string) (string, bool) {
	v := gjson.GetBytes(d.raw, "defaults."+pathKey(role))
	if v.Type != gjson.String {
		return "", false
	}
	return v.Str, true
}

// EnsureDefault записывает defaults[role] = file, если там нет непустого
// значения. Новая роль добавляется в конец defaults. Возвращает true, если
// документ изменился.
func (d *Document) EnsureDefault(role, file string) (bool, error) {
	if cur, ok := d.DefaultFile(role); ok && cur != "" {
		return false, nil
	}
	return true, d.set("defaults."+pathKey(role), file)
}

// Field возвращает сырое значение поля верхнего уровня.
func (d *Document) Field(key string) (json.RawMessage, bool) {
	v := gjson.GetBytes(d.raw, pathKey(key))
	if !v.Exists() {
		return nil, false
	}
	return json.RawMessage(v.Raw), true
}

// SetField записывает произвольное поле верхнего уровня, например "online".
func (d *Document) SetField(key string, v any) error {
	switch key {
	case "name", "defaults", "sprites", "frames":
		return fmt.Errorf("field %q is owned by the document model", key)
	}
	return d.set(pathKey(key), v)
}

// AddSprite добавляет новую запись в конец таблицы спрайтов.
func (d *Document) AddSprite(key string, def SpriteDef) error {
	if d.sprites.Has(key) {
		return fmt.Errorf("sprite %s already exists", key)
	}
	if err := d.set("sprites."+pathKey(key), def); err != nil {
		return err
	}
	d.sprites.put(key, def)
	return nil
}

// AddFrame добавляет кадр в конец frames и возвращает его индекс.
func (d *Document) AddFrame(dirs Directions) (int, error) {
	f := Frame{Directions: dirs}
	if err := d.set("frames.-1", f); err != nil {
		return 0, err
	}
	for _, dir := range StorageOrder {
		if *f.Directions.ptr(dir) == nil {
			*f.Directions.ptr(dir) = []SpriteRef{}
		}
	}
	d.frames = append(d.frames, f)
	return len(d.frames) - 1, nil
}

// AppendRef дописывает ref в конец списка направления dir кадра frame.
func (d *Document) AppendRef(frame int, dir Direction, ref SpriteRef) error {
	if frame < 0 || frame >= len(d.frames) {
		return fmt.Errorf("frame %d out of range", frame)
	}
	path := fmt.Sprintf("frames.%d.directions.%d.-1", frame, int(dir))
	if err := d.set(path, ref); err != nil {
		return err
	}
	list := d.frames[frame].Directions.ptr(dir)
	*list = append(*list, ref)
	return nil
}

func (d *Document) set(path string, v any) error {
	value, err := marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	out, err := sjson.SetRawBytes(d.raw, path, value)
	if err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	d.raw = out
	return nil
}

// Bytes возвращает документ в компактном виде.
func (d *Document) Bytes() []byte {
	return bytes.Clone(d.raw)
}

// Encode пишет документ с отступом в 4 пробела, без завершающего перевода строки.
func Encode(w io.Writer, d *Document) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(d.raw), "", "    "); err != nil {
		return fmt.Errorf("encode %s: %w", d.name, err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}
