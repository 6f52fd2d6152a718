// Package fonts serves the built-in label faces.
package fonts

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Default is the face used when no font is configured.
const Default = "go-regular"

var builtin = map[string][]byte{
	"go-regular": goregular.TTF,
	"go-bold":    gobold.TTF,
}

// Load returns the TTF data of a built-in face. name may be written as
// "embed:go-regular" or "go-regular".
func Load(name string) ([]byte, error) {
	name = strings.TrimPrefix(name, "embed:")
	data, ok := builtin[name]
	if !ok {
		return nil, fmt.Errorf("unknown built-in font %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return data, nil
}

// IsBuiltin reports whether src refers to a built-in face rather than a file.
func IsBuiltin(src string) bool {
	if strings.HasPrefix(src, "embed:") {
		return true
	}
	_, ok := builtin[src]
	return ok
}

// Names lists the built-in faces.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for n := range builtin {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
