package portraster

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/flopp/go-findfont"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// findFont resolves name: an existing path is used as is,
// a bare file name is searched in the system font directories.
func findFont(name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}
	if filepath.Base(name) != name {
		return "", fmt.Errorf("font %s: %w", name, os.ErrNotExist)
	}
	path, err := findfont.Find(name)
	if err != nil {
		return "", fmt.Errorf("font %s: %w", name, err)
	}
	return path, nil
}

// LoadFace loads a TrueType font at the given pixel size.
// When the font can't be used, basicfont.Face7x13 is returned
// along with the reason.
func LoadFace(name string, size float64) (font.Face, error) {
	path, err := findFont(name)
	if err != nil {
		return basicfont.Face7x13, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return basicfont.Face7x13, err
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return basicfont.Face7x13, fmt.Errorf("parsing font %s: %w", path, err)
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}
