package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ivlev/banimask/internal/bani"
	"github.com/ivlev/banimask/internal/mask"
	"gopkg.in/yaml.v3"
)

const (
	DefaultInputDir    = "input/bani"
	DefaultOutputDir   = "output"
	DefaultArchiveName = "bani_files.zip"
	DefaultStatsLog    = "banimask.log"
)

type Config struct {
	Inputs           []string     `yaml:"-"`
	OutputDir        string       `yaml:"output_dir"`
	Archive          bool         `yaml:"archive"`
	ArchiveName      string       `yaml:"archive_name"`
	Workers          int          `yaml:"workers"`
	MaskFile         string       `yaml:"mask_file"`
	Online           int          `yaml:"online"`
	SkipWithoutHeads bool         `yaml:"skip_without_heads"`
	Offsets          mask.Offsets `yaml:"offsets"`
	ShowStats        bool         `yaml:"show_stats"`
	StatsLog         string       `yaml:"stats_log"`
	Debug            bool         `yaml:"debug"`
	BuildVersion     string       `yaml:"-"`
}

// Default возвращает конфиг, который действует, пока файл или флаги не сказали иначе.
func Default() *Config {
	return &Config{
		OutputDir:   DefaultOutputDir,
		ArchiveName: DefaultArchiveName,
		Workers:     1,
		MaskFile:    bani.DefaultMaskFile,
		StatsLog:    DefaultStatsLog,
	}
}

// Load накладывает YAML-файл по пути path поверх cfg. Ключи, которых нет
// в файле, сохраняют текущие значения.
func Load(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config '%s': %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config '%s': %w", path, err)
	}
	return nil
}

// Save пишет cfg в YAML.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

// Check отклоняет значения, с которыми движок работать не может.
func (c *Config) Check() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory is empty")
	}
	if !strings.HasSuffix(strings.ToLower(c.ArchiveName), ".zip") {
		return fmt.Errorf("archive name %q must end with .zip", c.ArchiveName)
	}
	if c.MaskFile == "" {
		return fmt.Errorf("mask file is empty")
	}
	if c.Online < 0 {
		return fmt.Errorf("online must not be negative, got %d", c.Online)
	}
	return nil
}
