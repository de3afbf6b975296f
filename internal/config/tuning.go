package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"unicode"

	"gopkg.in/yaml.v3"

	"git.lost.host/meutraa/beatfall/internal/game"
)

//go:embed defaults/beatfall.yaml
var defaultTuningYAML []byte

var (
	ErrKeyMap = errors.New("invalid key map")
	ErrTuning = errors.New("invalid tuning")
)

// Keys binds one rune per column plus the undo key.
type Keys struct {
	Columns string `yaml:"columns"`
	Undo    string `yaml:"undo"`
}

// Tuning is the content of a settings file.
type Tuning struct {
	Field game.Tuning `yaml:"field"`
	Keys  Keys        `yaml:"keys"`
}

func DefaultTuning() Tuning {
	return Tuning{
		Field: game.DefaultTuning(),
		Keys:  Keys{Columns: "dfjk", Undo: "u"},
	}
}

// LoadTuning reads the settings file.
// Search order: customPath -> ./beatfall.yaml -> embedded default.
// Fields missing from a file keep their default values.
func LoadTuning(customPath string) (Tuning, error) {
	cfg := DefaultTuning()
	if err := yaml.Unmarshal(defaultTuningYAML, &cfg); nil != err {
		cfg = DefaultTuning()
	}

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if nil != err {
			return cfg, fmt.Errorf("failed to read settings %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); nil != err {
			return cfg, fmt.Errorf("failed to parse settings %s: %w", customPath, err)
		}
		return cfg, nil
	}

	if data, err := os.ReadFile("beatfall.yaml"); nil == err {
		if err := yaml.Unmarshal(data, &cfg); nil != err {
			return cfg, fmt.Errorf("failed to parse settings beatfall.yaml: %w", err)
		}
	}
	return cfg, nil
}

// ColumnKeys returns the column bindings in column order, lowercased the
// same way incoming key presses are.
func (t Tuning) ColumnKeys() []rune {
	keys := []rune(t.Keys.Columns)
	for i, k := range keys {
		keys[i] = unicode.ToLower(k)
	}
	return keys
}

func (t Tuning) UndoKey() rune {
	r := []rune(t.Keys.Undo)
	if len(r) == 0 {
		return 0
	}
	return unicode.ToLower(r[0])
}

// Validate rejects settings the game loop cannot run with. Key map problems
// are caught here so no key press can ever resolve to a column outside the
// field.
func (t Tuning) Validate() error {
	f := t.Field
	switch {
	case f.Columns < 1:
		return fmt.Errorf("%w: need at least one column, got %d", ErrTuning, f.Columns)
	case f.Width <= 0 || f.Height <= 0:
		return fmt.Errorf("%w: field must have a positive size", ErrTuning)
	case f.TargetSize <= 0 || f.TargetSize > f.ColumnWidth():
		return fmt.Errorf("%w: target size %v does not fit a column", ErrTuning, f.TargetSize)
	case f.FallSpeed <= 0:
		return fmt.Errorf("%w: fall speed must be positive", ErrTuning)
	case f.Tolerance < 0 || f.Linger < 0 || f.LeadIn < 0:
		return fmt.Errorf("%w: tolerance, linger and lead-in cannot be negative", ErrTuning)
	case f.HitZoneY <= f.SpawnY || f.HitZoneY > f.Height:
		return fmt.Errorf("%w: hit zone %v must lie between the spawn line and the bottom", ErrTuning, f.HitZoneY)
	}

	keys := t.ColumnKeys()
	if len(keys) != f.Columns {
		return fmt.Errorf("%w: %d column keys for %d columns", ErrKeyMap, len(keys), f.Columns)
	}
	if len([]rune(t.Keys.Undo)) != 1 {
		return fmt.Errorf("%w: undo must be a single key, got %q", ErrKeyMap, t.Keys.Undo)
	}
	seen := map[rune]bool{}
	for _, k := range append(keys, t.UndoKey()) {
		// The keyboard reports space and control keys without a rune.
		if !unicode.IsGraphic(k) || unicode.IsSpace(k) {
			return fmt.Errorf("%w: key %q cannot be bound", ErrKeyMap, k)
		}
		if seen[k] {
			return fmt.Errorf("%w: key %q is bound twice", ErrKeyMap, k)
		}
		seen[k] = true
	}
	return nil
}
