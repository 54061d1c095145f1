package engine

import (
	"bytes"
	"errors"
	"fmt"
	"log"

	"github.com/ivlev/banimask/internal/bani"
	"github.com/ivlev/banimask/internal/config"
	"github.com/ivlev/banimask/internal/export"
	"github.com/ivlev/banimask/internal/mask"
	"github.com/ivlev/banimask/internal/source"
	"github.com/ivlev/banimask/internal/system"
)

// Result описывает, что произошло с одним входным документом.
type Result struct {
	Input   string
	Output  export.Output
	Masks   mask.Refs
	Stats   mask.Stats
	NoHeads bool // не найдено ни одной головы 48x48, маски не размещены
	Skipped bool // NoHeads, и конфиг просит такие документы не экспортировать
}

// ProcessDocument проводит один документ через весь конвейер: разбор,
// проверка, спрайты масок, размещение и кодирование. При ошибке разбора или
// проверки результата нет.
func ProcessDocument(in source.Input, cfg *config.Config) (*Result, error) {
	doc, err := bani.Parse(in.Data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", in.Name, err)
	}

	if _, err := doc.EnsureDefault("MASK", cfg.MaskFile); err != nil {
		return nil, fmt.Errorf("%s: set defaults.MASK: %w", in.Name, err)
	}
	if cfg.Online > 0 {
		if err := doc.SetField("online", cfg.Online); err != nil {
			return nil, fmt.Errorf("%s: set online: %w", in.Name, err)
		}
	}

	res := &Result{Input: in.Name}
	res.Masks, err = mask.GenerateSprites(doc, cfg.Offsets)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", in.Name, err)
	}

	res.Stats, err = mask.PlaceMasks(doc, res.Masks)
	switch {
	case errors.Is(err, mask.ErrNoHeadSprites):
		res.NoHeads = true
		log.Printf("[!] %s: %v", in.Name, err)
		if cfg.SkipWithoutHeads {
			res.Skipped = true
			return res, nil
		}
	case err != nil:
		return nil, fmt.Errorf("%s: %w", in.Name, err)
	}

	buf := system.GetBuffer()
	defer system.PutBuffer(buf)
	if err := bani.Encode(buf, doc); err != nil {
		return nil, fmt.Errorf("%s: %w", in.Name, err)
	}

	res.Output = export.Output{
		Name: export.OutputName(in.Name),
		Data: bytes.Clone(buf.Bytes()),
	}
	return res, nil
}
