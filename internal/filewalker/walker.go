package filewalker

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// ErrNotDirectory is returned when a pair root is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// DefaultExtension is the script file extension searched for.
const DefaultExtension = ".txt"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Pair is an original script and its translation.
type Pair struct {
	// Name is the original file's base name.
	Name       string
	Original   string
	Translated string
}

// Walker finds original/translated pairs. An original abc.txt in the raw
// directory pairs with abc<Suffix>.txt in the translated directory.
type Walker struct {
	Suffix    string
	Extension string
}

// NewWalker creates a Walker for the given translated-file suffix.
func NewWalker(suffix string) *Walker {
	return &Walker{Suffix: suffix, Extension: DefaultExtension}
}

// TranslatedName returns the translated file name for an original name.
func (w *Walker) TranslatedName(original string) string {
	ext := filepath.Ext(original)
	return strings.TrimSuffix(original, ext) + w.Suffix + ext
}

// Pairs discovers pairs under rawDir. translatedDir defaults to rawDir.
// Originals without a translation are logged and skipped. Files that already
// carry the suffix are never treated as originals.
func (w *Walker) Pairs(rawDir, translatedDir string) ([]Pair, error) {
	rawDir, err := resolveDir(rawDir)
	if err != nil {
		return nil, err
	}
	if translatedDir == "" {
		translatedDir = rawDir
	} else if translatedDir, err = resolveDir(translatedDir); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(rawDir)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}

	var pairs []Pair
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := filepath.Ext(name)
		if !strings.EqualFold(ext, w.Extension) {
			continue
		}
		if strings.HasSuffix(strings.TrimSuffix(name, ext), w.Suffix) {
			continue
		}

		translated := filepath.Join(translatedDir, w.TranslatedName(name))
		if _, err := os.Stat(translated); err != nil {
			log.Warn().Str("file", name).Str("expected", translated).Msg("No translation found")
			continue
		}

		pairs = append(pairs, Pair{
			Name:       name,
			Original:   filepath.Join(rawDir, name),
			Translated: translated,
		})
	}

	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Name < pairs[j].Name })

	log.Info().Int("count", len(pairs)).Str("root", rawDir).Msg("Discovered file pairs")
	return pairs, nil
}

func resolveDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve root path: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotDirectory, abs)
	}
	return abs, nil
}

// ReadText reads a script file as text, dropping a leading UTF-8 byte order
// mark.
func ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read script: %w", err)
	}
	return string(bytes.TrimPrefix(data, utf8BOM)), nil
}

// ReadPair reads both sides of a pair.
func ReadPair(p Pair) (original, translated string, err error) {
	if original, err = ReadText(p.Original); err != nil {
		return "", "", err
	}
	if translated, err = ReadText(p.Translated); err != nil {
		return "", "", err
	}
	return original, translated, nil
}

// MoveDone moves both files of a passing pair into dir.
func MoveDone(p Pair, dir string) (Pair, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return p, fmt.Errorf("create done directory: %w", err)
	}

	moved := Pair{
		Name:       p.Name,
		Original:   filepath.Join(dir, filepath.Base(p.Original)),
		Translated: filepath.Join(dir, filepath.Base(p.Translated)),
	}
	if err := os.Rename(p.Original, moved.Original); err != nil {
		return p, fmt.Errorf("move original: %w", err)
	}
	if err := os.Rename(p.Translated, moved.Translated); err != nil {
		return p, fmt.Errorf("move translation: %w", err)
	}

	log.Info().Str("file", p.Name).Str("dir", dir).Msg("Moved checked pair")
	return moved, nil
}
