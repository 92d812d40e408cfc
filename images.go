package siteweb

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/siyuanink/siteweb/apiclient"
)

const (
	maxImageWidth = 1600
	jpegQuality   = 85
	maxUploadSize = 10 << 20 // 10MB
)

var (
	errUnsupportedImage = errors.New("unsupported image type (use JPEG, PNG, GIF or WebP)")
	errImageTooLarge    = errors.New("file too large (max 10MB)")

	imageExtensions = mapset.NewSet(".jpg", ".jpeg", ".png", ".gif", ".webp")
	imageTypes      = mapset.NewSet("image/jpeg", "image/png", "image/gif", "image/webp")
)

// prepareUpload reads a submitted file and turns it into an API upload.
func prepareUpload(fh *multipart.FileHeader) (apiclient.Upload, error) {
	if fh.Size > maxUploadSize {
		return apiclient.Upload{}, fmt.Errorf("%s: %w", fh.Filename, errImageTooLarge)
	}
	src, err := fh.Open()
	if err != nil {
		return apiclient.Upload{}, err
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxUploadSize+1))
	if err != nil {
		return apiclient.Upload{}, err
	}
	if len(data) > maxUploadSize {
		return apiclient.Upload{}, fmt.Errorf("%s: %w", fh.Filename, errImageTooLarge)
	}
	return processImage(data, fh.Filename)
}

// processImage checks that data is a supported image and downscales it to
// maxImageWidth, re-encoding as JPEG. GIFs and images that already fit are
// passed through untouched.
func processImage(data []byte, originalName string) (apiclient.Upload, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	mime := http.DetectContentType(data)
	if !imageExtensions.Contains(ext) || !imageTypes.Contains(mime) {
		return apiclient.Upload{}, fmt.Errorf("%s: %w", originalName, errUnsupportedImage)
	}

	name := slugifyFilename(originalName)
	if name == "" {
		name = "image"
	}
	passthrough := apiclient.Upload{Name: name + ext, ContentType: mime, Data: data}
	if mime == "image/gif" {
		return passthrough, nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return apiclient.Upload{}, fmt.Errorf("decode image: %w", err)
	}
	if cfg.Width <= maxImageWidth {
		return passthrough, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return apiclient.Upload{}, fmt.Errorf("decode image: %w", err)
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	newH := h * maxImageWidth / w
	dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return apiclient.Upload{}, fmt.Errorf("encode jpeg: %w", err)
	}
	return apiclient.Upload{Name: name + ".jpg", ContentType: "image/jpeg", Data: buf.Bytes()}, nil
}

// slugifyFilename converts a filename (without extension) to a URL-safe slug.
func slugifyFilename(name string) string {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	return Slugify(base)
}
