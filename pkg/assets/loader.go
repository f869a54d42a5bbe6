// Package assets decodes texture images and uploads them through a render.Device.
package assets

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"path"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/transform"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"

	"wormhole/internal/logger"
	"wormhole/pkg/render"
)

// FaceNames lists cubemap face files in GL face order (+X, -X, +Y, -Y, +Z, -Z)
var FaceNames = [6]string{"right", "left", "top", "bottom", "front", "back"}

// imageExtensions are probed in order when looking up a cubemap face
var imageExtensions = []string{".png", ".jpg", ".jpeg", ".bmp", ".tiff"}

const (
	rampWidth    = 256
	starfieldRes = 512
)

// Loader resolves asset paths against fsys
type Loader struct {
	fsys   fs.FS
	device render.Device
	logger *logger.Logger
	seed   int64
}

// NewLoader creates a loader. seed drives the procedural fallbacks.
func NewLoader(fsys fs.FS, device render.Device, log *logger.Logger, seed int64) *Loader {
	return &Loader{
		fsys:   fsys,
		device: device,
		logger: log,
		seed:   seed,
	}
}

// ReadImage decodes the image at p into tightly packed RGBA
func (l *Loader) ReadImage(p string) (*image.RGBA, error) {
	f, err := l.fsys.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &render.ResourceNotFoundError{Locator: p, Err: err}
		}
		return nil, fmt.Errorf("failed to open image %s: %w", p, err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", p, err)
	}
	l.logger.Debugf("Decoded %s image %s (%dx%d)", format, p, img.Bounds().Dx(), img.Bounds().Dy())

	return clone.AsRGBA(img), nil
}

// Texture2D uploads the image at p with its rows flipped to GL's bottom-left origin.
// An empty path yields the procedural color ramp.
func (l *Loader) Texture2D(p string, repeat bool) (render.Texture, error) {
	if p == "" {
		l.logger.Info("No color map configured, using procedural ramp")
		return l.device.UploadTexture2D(ColorRamp(rampWidth), repeat), nil
	}

	img, err := l.ReadImage(p)
	if err != nil {
		return 0, err
	}
	return l.device.UploadTexture2D(transform.FlipV(img), repeat), nil
}

// Cubemap uploads the six faces found in dir. An empty dir yields a noise starfield.
func (l *Loader) Cubemap(dir string) (render.Texture, error) {
	if dir == "" {
		l.logger.Info("No cubemap configured, using procedural starfield")
		return l.device.UploadCubemap(Starfield(starfieldRes, l.seed)), nil
	}

	faces, err := l.Faces(dir)
	if err != nil {
		return 0, err
	}
	return l.device.UploadCubemap(faces), nil
}

// Faces decodes the six faces in dir and scales any face that differs in
// size from the first one to match it
func (l *Loader) Faces(dir string) (render.CubemapFaces, error) {
	var faces render.CubemapFaces
	for i, name := range FaceNames {
		p, err := l.findFace(dir, name)
		if err != nil {
			return faces, err
		}
		img, err := l.ReadImage(p)
		if err != nil {
			return faces, err
		}
		faces[i] = img
	}

	size := faces[0].Bounds()
	for i := 1; i < len(faces); i++ {
		if faces[i].Bounds().Size() == size.Size() {
			continue
		}
		l.logger.Warnf("Cubemap face %s is %v, scaling to %v", FaceNames[i], faces[i].Bounds().Size(), size.Size())
		scaled := image.NewRGBA(image.Rect(0, 0, size.Dx(), size.Dy()))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), faces[i], faces[i].Bounds(), draw.Src, nil)
		faces[i] = scaled
	}
	return faces, nil
}

func (l *Loader) findFace(dir, name string) (string, error) {
	for _, ext := range imageExtensions {
		p := path.Join(dir, name+ext)
		if _, err := fs.Stat(l.fsys, p); err == nil {
			return p, nil
		}
	}
	return "", &render.ResourceNotFoundError{Locator: path.Join(dir, name+imageExtensions[0]), Err: fs.ErrNotExist}
}
