package mask

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/ivlev/banimask/internal/bani"
	"github.com/tidwall/gjson"
)

type keySet map[string]bool

func (k keySet) Has(key string) bool { return k[key] }

func newDoc(t *testing.T, keys ...string) *bani.Document {
	t.Helper()
	doc := bani.New("test")
	for _, k := range keys {
		addSprite(t, doc, k, bani.SpriteDef{Gfx: "BODY", Bounds: [4]float64{0, 0, 32, 32}})
	}
	return doc
}

func addSprite(t *testing.T, doc *bani.Document, key string, def bani.SpriteDef) {
	t.Helper()
	if err := doc.AddSprite(key, def); err != nil {
		t.Fatalf("AddSprite(%s) failed: %v", key, err)
	}
}

func addHead(t *testing.T, doc *bani.Document, key string, w, h float64) {
	addSprite(t, doc, key, bani.SpriteDef{Gfx: "HEAD", Bounds: [4]float64{0, 0, w, h}})
}

func addFrame(t *testing.T, doc *bani.Document, dirs bani.Directions) {
	t.Helper()
	if _, err := doc.AddFrame(dirs); err != nil {
		t.Fatalf("AddFrame failed: %v", err)
	}
}

func generate(t *testing.T, doc *bani.Document, offsets Offsets) Refs {
	t.Helper()
	refs, err := GenerateSprites(doc, offsets)
	if err != nil {
		t.Fatalf("GenerateSprites failed: %v", err)
	}
	return refs
}

func frameDirs(doc *bani.Document, i int) bani.Directions {
	return doc.Frames()[i].Directions
}

func TestNextKey(t *testing.T) {
	tests := []struct {
		keys  keySet
		start int
		want  string
	}{
		{keySet{}, 0, "0"},
		{keySet{"0": true, "1": true, "2": true}, 0, "3"},
		{keySet{"0": true, "1": true, "2": true}, 3, "3"},
		{keySet{"3": true, "4": true, "6": true}, 3, "5"},
		{keySet{"1": true}, -4, "0"},
	}
	for _, tt := range tests {
		if got := NextKey(tt.keys, tt.start); got != tt.want {
			t.Errorf("NextKey(%v, %d) = %s, want %s", tt.keys, tt.start, got, tt.want)
		}
	}
}

func TestNextKeySequentialNeverRepeats(t *testing.T) {
	keys := keySet{}
	for i := 0; i < 50; i += 3 {
		keys[strconv.Itoa(i)] = true
	}
	existing := len(keys)

	for i := 0; i < 20; i++ {
		k := NextKey(keys, 0)
		if keys[k] {
			t.Fatalf("NextKey returned taken key %s", k)
		}
		keys[k] = true
	}
	if len(keys) != existing+20 {
		t.Errorf("Expected %d keys, got %d", existing+20, len(keys))
	}
}

func TestGenerateSprites(t *testing.T) {
	doc := newDoc(t, "0", "1", "2")
	refs := generate(t, doc, Offsets{})

	if doc.Sprites().Len() != 7 {
		t.Fatalf("Expected 7 sprites, got %d", doc.Sprites().Len())
	}

	want := []struct {
		dir    bani.Direction
		key    string
		bounds [4]float64
		scaled bool
	}{
		{bani.Down, "3", [4]float64{0, 0, 48, 72}, false},
		{bani.Up, "4", [4]float64{48, 0, 48, 72}, false},
		{bani.Right, "5", [4]float64{96, 0, 48, 72}, false},
		{bani.Left, "6", [4]float64{96, 0, 48, 72}, true},
	}
	for _, w := range want {
		t.Run(w.dir.String(), func(t *testing.T) {
			ref := refs.For(w.dir)
			if ref.Key != w.key {
				t.Errorf("Expected key %s, got %s", w.key, ref.Key)
			}
			def, ok := doc.Sprites().Get(ref.Key)
			if !ok {
				t.Fatalf("Sprite %s not inserted", ref.Key)
			}
			if def.Gfx != "MASK" || def.Bounds != w.bounds {
				t.Errorf("Unexpected sprite: %+v", def)
			}
			if w.scaled {
				if def.Scale == nil || *def.Scale != [2]float64{-1, 1} {
					t.Errorf("Expected scale [-1 1], got %v", def.Scale)
				}
			} else if def.Scale != nil {
				t.Errorf("Expected no scale, got %v", *def.Scale)
			}
		})
	}
}

func TestGenerateSpritesSkipsTakenKeys(t *testing.T) {
	doc := newDoc(t, "0", "3", "4")
	refs := generate(t, doc, Offsets{})

	got := []string{refs.Down.Key, refs.Up.Key, refs.Right.Key, refs.Left.Key}
	want := []string{"5", "6", "7", "8"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Allocation %d: expected %s, got %s", i, want[i], got[i])
		}
	}
	if doc.Sprites().Len() != 7 {
		t.Errorf("Expected 7 sprites, got %d", doc.Sprites().Len())
	}
}

func TestGenerateSpritesIsNotIdempotent(t *testing.T) {
	doc := newDoc(t, "0")
	first := generate(t, doc, Offsets{})
	second := generate(t, doc, Offsets{})

	if doc.Sprites().Len() != 9 {
		t.Errorf("Expected 9 sprites after two runs, got %d", doc.Sprites().Len())
	}
	if first.Down.Key == second.Down.Key {
		t.Error("Second run must allocate fresh keys")
	}
}

func TestPlacementOffsets(t *testing.T) {
	tests := []struct {
		dir  bani.Direction
		x, y float64
	}{
		{bani.Down, 100, 84},
		{bani.Up, 100, 90},
		{bani.Left, 99, 85},
		{bani.Right, 101, 85},
	}
	for _, tt := range tests {
		t.Run(tt.dir.String(), func(t *testing.T) {
			doc := newDoc(t)
			addHead(t, doc, "0", 48, 48)
			addFrame(t, doc, bani.Directions{})
			if err := doc.AppendRef(0, tt.dir, bani.NewSpriteRef("0", 100, 100)); err != nil {
				t.Fatal(err)
			}

			refs := generate(t, doc, Offsets{})
			stats, err := PlaceMasks(doc, refs)
			if err != nil {
				t.Fatalf("PlaceMasks failed: %v", err)
			}
			if stats.Placed != 1 {
				t.Fatalf("Expected 1 placement, got %d", stats.Placed)
			}

			got := frameDirs(doc, 0).List(tt.dir)[1]
			want := bani.NewSpriteRef(refs.For(tt.dir).Key, tt.x, tt.y)
			if !got.Equal(want) {
				t.Errorf("Expected %+v, got %+v", want, got)
			}
			for _, other := range bani.StorageOrder {
				if other != tt.dir && len(frameDirs(doc, 0).List(other)) != 0 {
					t.Errorf("Direction %s should be untouched", other)
				}
			}
		})
	}
}

func TestPlacementConfiguredOffsets(t *testing.T) {
	doc := newDoc(t)
	addHead(t, doc, "0", 48, 48)
	addFrame(t, doc, bani.Directions{Down: []bani.SpriteRef{bani.NewSpriteRef("0", 10, 10)}})

	refs := generate(t, doc, Offsets{Down: Offset{X: 2, Y: -3}})
	if _, err := PlaceMasks(doc, refs); err != nil {
		t.Fatalf("PlaceMasks failed: %v", err)
	}
	got := frameDirs(doc, 0).Down[1]
	if got.X != 12 || got.Y != -9 {
		t.Errorf("Expected mask at (12,-9), got (%v,%v)", got.X, got.Y)
	}
}

func TestPlacementIgnoresOtherSprites(t *testing.T) {
	doc := newDoc(t, "0")
	addHead(t, doc, "1", 32, 32)
	addHead(t, doc, "2", 48, 32)
	addSprite(t, doc, "3", bani.SpriteDef{Gfx: "HAT", Bounds: [4]float64{0, 0, 48, 48}})
	addFrame(t, doc, bani.Directions{
		Down: []bani.SpriteRef{
			bani.NewSpriteRef("0", 1, 1),
			bani.NewSpriteRef("1", 2, 2),
			bani.NewSpriteRef("2", 3, 3),
			bani.NewSpriteRef("3", 4, 4),
			bani.NewSpriteRef("99", 5, 5),
		},
	})

	refs := generate(t, doc, Offsets{})
	_, err := PlaceMasks(doc, refs)
	if !errors.Is(err, ErrNoHeadSprites) {
		t.Fatalf("Expected ErrNoHeadSprites, got %v", err)
	}
	if len(frameDirs(doc, 0).Down) != 5 {
		t.Error("Frames must be left unmodified when no head is found")
	}
}

func TestPlacementDeduplicatesPerFrame(t *testing.T) {
	doc := newDoc(t)
	addHead(t, doc, "0", 48, 48)
	addHead(t, doc, "1", 48, 48)
	addFrame(t, doc, bani.Directions{Down: []bani.SpriteRef{
		bani.NewSpriteRef("0", 20, 20),
		bani.NewSpriteRef("1", 20, 20),
	}})
	addFrame(t, doc, bani.Directions{Down: []bani.SpriteRef{
		bani.NewSpriteRef("0", 20, 20),
	}})

	refs := generate(t, doc, Offsets{})
	stats, err := PlaceMasks(doc, refs)
	if err != nil {
		t.Fatalf("PlaceMasks failed: %v", err)
	}
	if stats.Candidates != 2 || stats.Placed != 2 {
		t.Errorf("Expected 2 candidates and 2 placements, got %+v", stats)
	}
	if len(frameDirs(doc, 0).Down) != 3 {
		t.Errorf("Frame 0: expected one mask appended, got %d refs", len(frameDirs(doc, 0).Down))
	}
	if len(frameDirs(doc, 1).Down) != 2 {
		t.Errorf("Frame 1: expected its own mask, got %d refs", len(frameDirs(doc, 1).Down))
	}
}

func TestPlacementDeduplicatesAcrossDirections(t *testing.T) {
	doc := newDoc(t)
	addHead(t, doc, "0", 48, 48)
	// down (0,16) and up (0,10) both map to (0,0).
	addFrame(t, doc, bani.Directions{
		Down: []bani.SpriteRef{bani.NewSpriteRef("0", 0, 16)},
		Up:   []bani.SpriteRef{bani.NewSpriteRef("0", 0, 10)},
	})

	refs := generate(t, doc, Offsets{})
	stats, _ := PlaceMasks(doc, refs)
	if stats.Candidates != 1 {
		t.Fatalf("Expected 1 candidate, got %d", stats.Candidates)
	}
	if len(frameDirs(doc, 0).Down) != 2 || len(frameDirs(doc, 0).Up) != 1 {
		t.Error("Only the down list should receive the mask")
	}
}

func TestPlacementSecondRunIsNoop(t *testing.T) {
	doc := newDoc(t)
	addHead(t, doc, "0", 48, 48)
	addFrame(t, doc, bani.Directions{
		Left:  []bani.SpriteRef{bani.NewSpriteRef("0", 5, 5)},
		Right: []bani.SpriteRef{bani.NewSpriteRef("0", 5, 5)},
	})

	refs := generate(t, doc, Offsets{})
	if _, err := PlaceMasks(doc, refs); err != nil {
		t.Fatalf("first PlaceMasks failed: %v", err)
	}
	stats, err := PlaceMasks(doc, refs)
	if err != nil {
		t.Fatalf("second PlaceMasks failed: %v", err)
	}
	if stats.Placed != 0 {
		t.Errorf("Second run placed %d masks", stats.Placed)
	}
	if len(frameDirs(doc, 0).Left) != 2 || len(frameDirs(doc, 0).Right) != 2 {
		t.Error("Second run changed direction lists")
	}
}

func TestPlacementSkipsOccupiedPosition(t *testing.T) {
	doc := newDoc(t, "9")
	addHead(t, doc, "0", 48, 48)
	addFrame(t, doc, bani.Directions{Down: []bani.SpriteRef{
		bani.NewSpriteRef("0", 10, 10),
		bani.NewSpriteRef("9", 10, -6),
	}})

	refs := generate(t, doc, Offsets{})
	stats, err := PlaceMasks(doc, refs)
	if err != nil {
		t.Fatalf("PlaceMasks failed: %v", err)
	}
	if stats.Candidates != 1 || stats.Placed != 0 {
		t.Errorf("Expected occupied position to be skipped, got %+v", stats)
	}
}

const numericKeyDoc = `{
	"name": "numeric", "modificationDate": "x", "filetype": "BANI",
	"options": {"looping": false, "continuous": false, "blockingbounds": [0, 0, 0, 0], "center": [0, 0]},
	"defaults": {"BODY": "b.png", "HEAD": "h.png", "HAT": "t.png"},
	"sprites": {"5": {"gfx": "HEAD", "bounds": [0, 0, 48, 48]}},
	"frames": [{"directions": [[], [], [[5.0, 10, 10]], []], "wait": 2}]
}`

func TestPlacementResolvesNumericKeys(t *testing.T) {
	doc, err := bani.Parse([]byte(numericKeyDoc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	refs := generate(t, doc, Offsets{})
	stats, err := PlaceMasks(doc, refs)
	if err != nil {
		t.Fatalf("PlaceMasks failed: %v", err)
	}
	if stats.Placed != 1 {
		t.Fatalf("Numeric key 5.0 should resolve to sprite 5, placed %d", stats.Placed)
	}

	down := gjson.GetBytes(doc.Bytes(), "frames.0.directions.2")
	want := `[[5.0,10,10],["` + refs.Down.Key + `",10,-6]]`
	if down.Raw != want {
		t.Errorf("Down list = %s, want %s", down.Raw, want)
	}
	if gjson.GetBytes(doc.Bytes(), "frames.0.wait").Int() != 2 {
		t.Error("Frame fields must survive placement")
	}
}

func TestGeneratedSpritesAreWritten(t *testing.T) {
	doc, err := bani.Parse([]byte(numericKeyDoc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	refs := generate(t, doc, Offsets{})

	sprites := gjson.GetBytes(doc.Bytes(), "sprites")
	left := sprites.Get(refs.Left.Key).Raw
	if left != `{"gfx":"MASK","bounds":[96,0,48,72],"scale":[-1,1]}` {
		t.Errorf("Left mask sprite = %s", left)
	}
	if down := sprites.Get(refs.Down.Key).Raw; strings.Contains(down, "scale") {
		t.Errorf("Down mask sprite should carry no scale: %s", down)
	}
}
