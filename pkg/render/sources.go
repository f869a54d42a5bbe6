package render

import (
	"io/fs"
	"path"
	"strings"
)

// Sources provides shader text by locator
type Sources interface {
	ReadText(locator string) (string, error)
}

// FSSources reads locators as slash-separated paths inside an fs.FS
type FSSources struct {
	fsys fs.FS
}

// NewFSSources wraps fsys. Both embedded and on-disk (os.DirFS) trees work.
func NewFSSources(fsys fs.FS) *FSSources {
	return &FSSources{fsys: fsys}
}

// ReadText returns the full text behind locator or a *ResourceNotFoundError
func (s *FSSources) ReadText(locator string) (string, error) {
	name := path.Clean(strings.TrimPrefix(locator, "/"))
	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		return "", &ResourceNotFoundError{Locator: locator, Err: err}
	}
	return string(data), nil
}
