package documents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Request asks the file-selection collaborator for one or many files.
type Request struct {
	Slot         SlotID
	Label        string
	Accept       []string
	Multiple     bool
	MediaLibrary bool
	MaxBytes     int64
}

// Picker is the file-selection collaborator. Implementations return
// ErrPickerCancelled when the user dismisses the selection.
type Picker interface {
	Pick(ctx context.Context, req Request) ([]Descriptor, error)
}

// PickerFunc adapts a function into a Picker.
type PickerFunc func(ctx context.Context, req Request) ([]Descriptor, error)

// Pick delegates to the underlying function.
func (fn PickerFunc) Pick(ctx context.Context, req Request) ([]Descriptor, error) {
	return fn(ctx, req)
}

// PathSource supplies local paths for a request, typically by prompting. An
// empty result means the user cancelled.
type PathSource func(ctx context.Context, req Request) ([]string, error)

// LocalPicker resolves local file paths into descriptors.
type LocalPicker struct {
	Paths PathSource
}

// NewLocalPicker returns a picker reading paths from source.
func NewLocalPicker(source PathSource) *LocalPicker {
	return &LocalPicker{Paths: source}
}

// Pick stats each path and sniffs its content type. Directories and missing
// files fail the whole pick.
func (p *LocalPicker) Pick(ctx context.Context, req Request) ([]Descriptor, error) {
	if p == nil || p.Paths == nil {
		return nil, errors.New("documents: local picker has no path source")
	}
	paths, err := p.Paths(ctx, req)
	if err != nil {
		return nil, err
	}

	var out []Descriptor
	for _, raw := range paths {
		path := strings.TrimSpace(raw)
		if path == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		d, err := describe(path)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if len(out) == 0 {
		return nil, ErrPickerCancelled
	}
	return out, nil
}

func describe(path string) (Descriptor, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Descriptor{}, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return Descriptor{}, err
	}
	if info.IsDir() {
		return Descriptor{}, fmt.Errorf("%s is a directory", path)
	}
	return Descriptor{
		Name:        info.Name(),
		SizeBytes:   Size(info.Size()),
		Location:    "file://" + filepath.ToSlash(abs),
		ContentType: sniff(abs, info.Name()),
	}, nil
}

func sniff(path, name string) string {
	byName := ContentTypeOf(name)
	f, err := os.Open(path)
	if err != nil {
		return byName
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return byName
	}
	detected := http.DetectContentType(head[:n])
	if strings.HasPrefix(detected, "application/octet-stream") || strings.HasPrefix(detected, "text/plain") {
		return byName
	}
	return detected
}
