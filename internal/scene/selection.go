package scene

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sahilm/fuzzy"
)

// maxSuggestions bounds the "did you mean" list per missing name.
const maxSuggestions = 3

// Missing describes a selected name that is not in the scene.
type Missing struct {
	Name        string
	Suggestions []string
}

// SelectionWarning lists selected names that did not match any object. It is
// informational: the selection still resolves, with nil entries in place of
// the missing objects.
type SelectionWarning struct {
	Missing []Missing
}

func (w *SelectionWarning) Error() string {
	parts := make([]string, 0, len(w.Missing))
	for _, m := range w.Missing {
		if len(m.Suggestions) > 0 {
			parts = append(parts, fmt.Sprintf("%q (did you mean %s?)", m.Name, strings.Join(m.Suggestions, ", ")))
		} else {
			parts = append(parts, fmt.Sprintf("%q", m.Name))
		}
	}
	return "objects not found in scene: " + strings.Join(parts, "; ")
}

// Names returns the missing names in selection order.
func (w *SelectionWarning) Names() []string {
	names := make([]string, len(w.Missing))
	for i, m := range w.Missing {
		names[i] = m.Name
	}
	return names
}

// Select maps names to scene objects, preserving order. Names that do not
// resolve become nil entries. An object named more than once is selected
// once, at its first position. The returned slice holds opaque values, like a
// host selection would.
func (s *Scene) Select(names []string) ([]any, *SelectionWarning) {
	selected := make([]any, 0, len(names))
	seen := make(map[*Object]struct{}, len(names))
	var warn *SelectionWarning

	for _, name := range names {
		if obj, ok := s.Find(name); ok {
			if _, dup := seen[obj]; !dup {
				seen[obj] = struct{}{}
				selected = append(selected, obj)
			}
			continue
		}
		selected = append(selected, nil)
		if warn == nil {
			warn = &SelectionWarning{}
		}
		warn.Missing = append(warn.Missing, Missing{Name: name, Suggestions: s.suggest(name)})
	}

	return selected, warn
}

// SelectAll returns every object in manifest order.
func (s *Scene) SelectAll() []any {
	selected := make([]any, len(s.Objects))
	for i, o := range s.Objects {
		selected[i] = o
	}
	return selected
}

func (s *Scene) suggest(name string) []string {
	matches := fuzzy.Find(name, s.Names())
	if len(matches) > maxSuggestions {
		matches = matches[:maxSuggestions]
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Str
	}
	return out
}

// ParseSelection reads one object name per line. Blank lines and lines
// starting with '#' are ignored; surrounding whitespace is trimmed.
func ParseSelection(r io.Reader) ([]string, error) {
	var names []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return names, nil
}

// ReadSelectionFile parses the selection file at path. A missing file is an
// empty selection.
func ReadSelectionFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading selection %s: %w", path, err)
	}
	defer f.Close()

	return ParseSelection(f)
}
