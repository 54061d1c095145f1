package engine

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/ivlev/banimask/internal/config"
	"github.com/ivlev/banimask/internal/export"
	"github.com/ivlev/banimask/internal/source"
	"golang.org/x/sync/errgroup"
)

// ErrNoDocumentLoaded возвращается, если ни один вход не пережил разбор.
var ErrNoDocumentLoaded = export.ErrNoDocumentLoaded

type Project struct {
	Config *config.Config
	Source source.Source
	// Если nil, экспортер выбирается по конфигу.
	Exporter export.Exporter
}

func NewProject(cfg *config.Config, src source.Source, exp export.Exporter) *Project {
	return &Project{
		Config:   cfg,
		Source:   src,
		Exporter: exp,
	}
}

// Run обрабатывает каждый вход источника и экспортирует результаты.
// Битый документ попадает в лог и пропускается, остальные идут дальше.
func (p *Project) Run(ctx context.Context) (*Report, error) {
	startTime := time.Now()

	count := p.Source.Count()
	if count == 0 {
		return nil, ErrNoDocumentLoaded
	}

	workers := p.Config.Workers
	if workers > count {
		workers = count
	}
	if workers < 1 {
		workers = 1
	}

	fmt.Println("--- [BANIMASK] ---")
	fmt.Printf("[*] Файлов: %d | Потоков: %d\n", count, workers)
	fmt.Println("------------------")

	results := make([]*Result, count)
	failures := make([]error, count)
	var done atomic.Int32

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := 0; i < count; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			in, err := p.Source.Read(i)
			if err != nil {
				log.Printf("[!] Ошибка чтения файла %d: %v", i, err)
				failures[i] = err
				return nil
			}

			res, err := ProcessDocument(in, p.Config)
			if err != nil {
				log.Printf("[!] Ошибка обработки BANI: %v", err)
				failures[i] = err
				return nil
			}
			results[i] = res
			fmt.Printf("[>] Ready: %d/%d %s\n", done.Add(1), count, in.Name)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	processEnd := time.Now()

	report := newReport(results, failures)
	outputs := make([]export.Output, 0, count)
	for _, r := range results {
		if r != nil && !r.Skipped {
			outputs = append(outputs, r.Output)
		}
	}
	if len(outputs) == 0 {
		return report, ErrNoDocumentLoaded
	}

	exp := p.Exporter
	if exp == nil {
		exp = export.New(p.Config.OutputDir, p.Config.ArchiveName, p.Config.Archive, len(outputs))
	}

	exportStart := time.Now()
	paths, err := exp.Export(ctx, outputs)
	if err != nil {
		return report, fmt.Errorf("ошибка экспорта: %w", err)
	}
	report.Paths = paths

	report.ProcessTime = processEnd.Sub(startTime)
	report.ExportTime = time.Since(exportStart)
	report.TotalTime = time.Since(startTime)

	if p.Config.ShowStats {
		report.Print(p.Config.BuildVersion)
		if err := report.AppendLog(p.Config.StatsLog, p.Config.BuildVersion); err != nil {
			fmt.Printf("[!] Не удалось записать %s: %v\n", p.Config.StatsLog, err)
		}
	}
	return report, nil
}
