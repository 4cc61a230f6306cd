package application

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/scholarfund/eligibility-scanner/constants"
	"github.com/scholarfund/eligibility-scanner/internal/eligibility"
)

// localFile adapts a stored upload to the scanner's File contract. Name
// reports the original file name, not the storage path, so extension
// sniffing sees what the applicant uploaded.
type localFile struct {
	name string
	f    *os.File
}

func (l *localFile) Name() string { return l.name }

func (l *localFile) Read(p []byte) (int, error) { return l.f.Read(p) }

func (l *localFile) Seek(offset int64, whence int) (int64, error) { return l.f.Seek(offset, whence) }

func (l *localFile) Close() error { return l.f.Close() }

// Open builds a Documents set from per-slot file paths. The returned cleanup
// closes every opened file; it is non-nil even on error.
func Open(paths map[constants.SlotKind]string) (*eligibility.Documents, func(), error) {
	docs := &eligibility.Documents{}
	var opened []*localFile
	cleanup := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}

	for slot, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			cleanup()
			return nil, func() {}, fmt.Errorf("open %s: %w", slot, err)
		}
		lf := &localFile{name: filepath.Base(path), f: f}
		opened = append(opened, lf)
		docs.Set(slot, lf)
	}
	return docs, cleanup, nil
}

// OpenDir loads a directory of conventionally named documents
// (transcript.pdf, id_card.png, ...). The stem must match the slot name;
// missing files simply leave the slot empty. Used by the runscan CLI.
func OpenDir(dir string) (*eligibility.Documents, func(), error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, func() {}, err
	}

	known := make(map[string]constants.SlotKind, len(constants.SlotOrder)+1)
	for _, k := range append(append([]constants.SlotKind{}, constants.SlotOrder...), constants.SlotExpressionOfInterest) {
		known[string(k)] = k
	}

	paths := make(map[constants.SlotKind]string)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		stem := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		if kind, ok := known[strings.ToLower(stem)]; ok {
			paths[kind] = filepath.Join(dir, e.Name())
		}
	}
	return Open(paths)
}
