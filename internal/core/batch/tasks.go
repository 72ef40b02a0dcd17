package batch

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/wizzomafizzo/scour/internal/core/engine"
)

// ErrDestinationConflict is matched by every *ConflictError.
var ErrDestinationConflict = errors.New("output path conflict")

// ConflictError reports two tasks whose files overlap: both write the same
// output, or one writes over the other's input.
type ConflictError struct {
	Path   string
	First  string
	Second string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s and %s both use %s", e.First, e.Second, e.Path)
}

// Is makes errors.Is(err, ErrDestinationConflict) hold.
func (*ConflictError) Is(target error) bool {
	return target == ErrDestinationConflict
}

// ParseLanguages splits a comma separated language list, dropping blanks and
// duplicates while keeping order.
func ParseLanguages(list string) []string {
	var languages []string
	seen := make(map[string]bool)

	for _, lang := range strings.Split(list, ",") {
		lang = strings.TrimSpace(lang)
		if lang == "" || seen[lang] {
			continue
		}
		seen[lang] = true
		languages = append(languages, lang)
	}

	return languages
}

// ExpandTasks builds one task per (corpus, language) pair. A corpus name has
// no language suffix; the file read is "<inputDir>/<corpus>.<lang>" and the
// file written is the same name under outputDir, or the input itself when
// outputDir is empty.
//
// With no languages every corpus argument is taken as a file path. Tasks
// that resolve to the same input file are collapsed into the first one. Tasks
// whose files would otherwise overlap yield a *ConflictError and no tasks, so
// every file is processed independently of the others.
func ExpandTasks(corpora, languages []string, inputDir, outputDir string) ([]engine.Task, error) {
	var tasks []engine.Task
	seen := make(map[string]bool)

	add := func(task engine.Task) {
		key := filepath.Clean(task.Input)
		if seen[key] {
			return
		}
		seen[key] = true
		task.Index = len(tasks)
		tasks = append(tasks, task)
	}

	for _, corpus := range corpora {
		if len(languages) == 0 {
			add(engine.Task{
				ID:     corpus,
				Corpus: corpus,
				Input:  resolve(inputDir, corpus),
				Output: destination(outputDir, corpus),
			})
			continue
		}

		for _, lang := range languages {
			name := corpus + "." + lang
			add(engine.Task{
				ID:       name,
				Corpus:   corpus,
				Language: lang,
				Input:    resolve(inputDir, name),
				Output:   destination(outputDir, name),
			})
		}
	}

	if err := checkConflicts(tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func checkConflicts(tasks []engine.Task) error {
	owners := make(map[string]string, 2*len(tasks))
	for _, task := range tasks {
		owners[filepath.Clean(task.Input)] = task.ID
	}

	for _, task := range tasks {
		if task.InPlace() {
			continue
		}
		dest := filepath.Clean(task.Destination())
		if owner, ok := owners[dest]; ok {
			return &ConflictError{Path: dest, First: owner, Second: task.ID}
		}
		owners[dest] = task.ID
	}
	return nil
}

func resolve(dir, name string) string {
	if filepath.IsAbs(name) || dir == "" {
		return filepath.Clean(name)
	}
	return filepath.Join(dir, name)
}

func destination(dir, name string) string {
	if dir == "" {
		return ""
	}
	if filepath.IsAbs(name) {
		name = filepath.Base(name)
	}
	return filepath.Join(dir, name)
}
