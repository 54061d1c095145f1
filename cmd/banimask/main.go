package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/ivlev/banimask/internal/bani"
	"github.com/ivlev/banimask/internal/config"
	"github.com/ivlev/banimask/internal/engine"
	"github.com/ivlev/banimask/internal/mask"
	"github.com/ivlev/banimask/internal/source"
	"github.com/ivlev/banimask/internal/system"
	"github.com/urfave/cli/v3"
)

// version задаётся при сборке: -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cmd := &cli.Command{
		Name:      "banimask",
		Usage:     "добавляет MASK-спрайты к головам в BANI-анимациях",
		ArgsUsage: "[файл.bani | папка | -] ...",
		Version:   version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML-файл конфигурации"},
			&cli.StringFlag{Name: "write-config", Usage: "Сохранить итоговую конфигурацию в YAML и выйти"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Value: config.DefaultOutputDir, Usage: "Папка для результатов"},
			&cli.BoolFlag{Name: "archive", Usage: "Всегда упаковывать результат в zip, даже для одного файла"},
			&cli.StringFlag{Name: "archive-name", Value: config.DefaultArchiveName, Usage: "Имя zip-архива"},
			&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "Потоки (0 - по числу CPU)"},
			&cli.StringFlag{Name: "mask-file", Value: bani.DefaultMaskFile, Usage: "Файл для defaults.MASK, если его нет"},
			&cli.IntFlag{Name: "online", Usage: "Значение поля online (0 - не добавлять)"},
			&cli.BoolFlag{Name: "skip-without-heads", Usage: "Не экспортировать файлы без голов 48x48"},
			&cli.FloatFlag{Name: "up-x", Usage: "Доп. смещение маски вверх по X"},
			&cli.FloatFlag{Name: "up-y", Usage: "Доп. смещение маски вверх по Y"},
			&cli.FloatFlag{Name: "left-x", Usage: "Доп. смещение маски влево по X"},
			&cli.FloatFlag{Name: "left-y", Usage: "Доп. смещение маски влево по Y"},
			&cli.FloatFlag{Name: "down-x", Usage: "Доп. смещение маски вниз по X"},
			&cli.FloatFlag{Name: "down-y", Usage: "Доп. смещение маски вниз по Y"},
			&cli.FloatFlag{Name: "right-x", Usage: "Доп. смещение маски вправо по X"},
			&cli.FloatFlag{Name: "right-y", Usage: "Доп. смещение маски вправо по Y"},
			&cli.BoolFlag{Name: "stats", Usage: "Показать отчет и дописать его в лог"},
			&cli.StringFlag{Name: "stats-log", Value: config.DefaultStatsLog, Usage: "Файл лога статистики"},
			&cli.BoolFlag{Name: "debug", Usage: "Подробный вывод валидации"},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatalf("[-] Ошибка: %v", err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if path := cmd.String("write-config"); path != "" {
		if err := config.Save(cfg, path); err != nil {
			return fmt.Errorf("не удалось сохранить конфигурацию: %w", err)
		}
		fmt.Printf("[+] Конфигурация сохранена: %s\n", path)
		return nil
	}

	if err := system.EnsureDirs(config.DefaultInputDir, cfg.OutputDir); err != nil {
		return err
	}

	src, err := openSource(cfg.Inputs)
	if err != nil {
		return fmt.Errorf("ошибка инициализации источника: %w", err)
	}
	defer src.Close()

	project := engine.NewProject(cfg, src, nil)
	report, err := project.Run(ctx)
	if errors.Is(err, engine.ErrNoDocumentLoaded) {
		return fmt.Errorf("%w: проверьте файлы в %v", err, cfg.Inputs)
	}
	if err != nil {
		return fmt.Errorf("ошибка проекта: %w", err)
	}

	if report.Failed > 0 {
		fmt.Printf("[!] Пропущено файлов с ошибками: %d\n", report.Failed)
	}
	for _, p := range report.Paths {
		fmt.Printf("[+++] Успех! Результат: %s\n", p)
	}
	return nil
}

// buildConfig накладывает на умолчания YAML-файл, затем явно заданные флаги.
func buildConfig(cmd *cli.Command) (*config.Config, error) {
	cfg := config.Default()
	cfg.Workers = system.DefaultWorkers()
	cfg.BuildVersion = version

	if path := cmd.String("config"); path != "" {
		if err := config.Load(path, cfg); err != nil {
			return nil, err
		}
	}

	if cmd.IsSet("output") {
		cfg.OutputDir = cmd.String("output")
	}
	if cmd.IsSet("archive") {
		cfg.Archive = cmd.Bool("archive")
	}
	if cmd.IsSet("archive-name") {
		cfg.ArchiveName = cmd.String("archive-name")
	}
	if cmd.IsSet("workers") {
		if n := int(cmd.Int("workers")); n > 0 {
			cfg.Workers = n
		}
	}
	if cmd.IsSet("mask-file") {
		cfg.MaskFile = cmd.String("mask-file")
	}
	if cmd.IsSet("online") {
		cfg.Online = int(cmd.Int("online"))
	}
	if cmd.IsSet("skip-without-heads") {
		cfg.SkipWithoutHeads = cmd.Bool("skip-without-heads")
	}
	if cmd.IsSet("stats") {
		cfg.ShowStats = cmd.Bool("stats")
	}
	if cmd.IsSet("stats-log") {
		cfg.StatsLog = cmd.String("stats-log")
	}
	if cmd.IsSet("debug") {
		cfg.Debug = cmd.Bool("debug")
	}
	applyOffsetFlags(cmd, "up", &cfg.Offsets.Up)
	applyOffsetFlags(cmd, "left", &cfg.Offsets.Left)
	applyOffsetFlags(cmd, "down", &cfg.Offsets.Down)
	applyOffsetFlags(cmd, "right", &cfg.Offsets.Right)

	cfg.Inputs = cmd.Args().Slice()
	if len(cfg.Inputs) == 0 {
		cfg.Inputs = []string{config.DefaultInputDir}
	}
	bani.Debug = cfg.Debug

	if err := cfg.Check(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyOffsetFlags(cmd *cli.Command, dir string, off *mask.Offset) {
	if cmd.IsSet(dir + "-x") {
		off.X = cmd.Float(dir + "-x")
	}
	if cmd.IsSet(dir + "-y") {
		off.Y = cmd.Float(dir + "-y")
	}
}

// openSource читает "-" из stdin, иначе это файл или папка с .bani.
func openSource(inputs []string) (source.Source, error) {
	if len(inputs) == 1 && inputs[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, err
		}
		return source.NewMemorySource(source.Input{Name: "stdin.bani", Data: data}), nil
	}

	src, err := source.NewFileSource(inputs...)
	if err != nil {
		return nil, err
	}
	if src.Count() == 0 {
		return nil, fmt.Errorf("нет входных файлов. Положите BANI в %s/", config.DefaultInputDir)
	}
	fmt.Printf("[*] Найдено файлов: %d\n", src.Count())
	return src, nil
}
