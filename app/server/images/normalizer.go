package images

import (
	"bytes"
	"errors"
	"fmt"
	"github.com/google/uuid"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"os"
	"path"
	"path/filepath"
	"strings"
)

var (
	// ErrNotImage 声明的类型不是图片，不会尝试解码
	ErrNotImage = errors.New("file is not an image")
	// ErrProcessing 解码、缩放或编码失败
	ErrProcessing = errors.New("failed to process image")
)

type Options struct {
	Dir          string // 存储目录
	PublicPrefix string // 对外的路径前缀，例如 /uploads
	MaxWidth     int
	MaxHeight    int
	Quality      int // JPEG 质量
	Extension    string
	MaxPixels    int // 解码前允许的最大像素数
}

const defaultMaxPixels = 40_000_000

type Normalizer struct {
	opts Options
}

func New(opts Options) (*Normalizer, error) {
	if opts.Dir == "" {
		return nil, errors.New("upload dir is empty")
	}
	if opts.MaxWidth <= 0 || opts.MaxHeight <= 0 {
		return nil, errors.New("max image size must be positive")
	}
	if opts.Quality < 1 || opts.Quality > 100 {
		return nil, errors.New("image quality must be between 1 and 100")
	}
	if opts.MaxPixels <= 0 {
		opts.MaxPixels = defaultMaxPixels
	}
	if opts.Extension == "" {
		opts.Extension = ".jpg"
	}
	opts.PublicPrefix = "/" + strings.Trim(opts.PublicPrefix, "/")

	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	return &Normalizer{opts: opts}, nil
}

// Normalize 把上传的图片处理成统一格式后保存，返回可以通过静态文件服务访问的路径
func (n *Normalizer) Normalize(data []byte, contentType string) (string, error) {
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/") {
		return "", ErrNotImage
	}

	// 先读尺寸，避免解码时按声明的尺寸分配过多内存
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: decode config: %v", ErrProcessing, err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > int64(n.opts.MaxPixels) {
		return "", fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrProcessing, cfg.Width, cfg.Height, n.opts.MaxPixels)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: decode: %v", ErrProcessing, err)
	}

	img = flatten(img)
	img = n.fit(img)

	var buf bytes.Buffer
	if err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: n.opts.Quality}); err != nil {
		return "", fmt.Errorf("%w: encode: %v", ErrProcessing, err)
	}

	// 文件名与原始文件无关，编码全部成功后才落盘
	filename := uuid.NewString() + n.opts.Extension
	f, err := os.OpenFile(filepath.Join(n.opts.Dir, filename), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("%w: create file: %v", ErrProcessing, err)
	}
	if _, err = f.Write(buf.Bytes()); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("%w: write file: %v", ErrProcessing, err)
	}
	if err = f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("%w: close file: %v", ErrProcessing, err)
	}

	return path.Join(n.opts.PublicPrefix, filename), nil
}

// Remove 删除由本服务管理的图片。外部 URL 或者不在前缀下的路径直接忽略，返回 false
func (n *Normalizer) Remove(ref string) (bool, error) {
	filename, ok := n.managedFilename(ref)
	if !ok {
		return false, nil
	}

	if err := os.Remove(filepath.Join(n.opts.Dir, filename)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("remove %s: %w", filename, err)
	}

	return true, nil
}

func (n *Normalizer) managedFilename(ref string) (string, bool) {
	prefix := n.opts.PublicPrefix + "/"
	if !strings.HasPrefix(ref, prefix) {
		return "", false
	}

	filename := strings.TrimPrefix(ref, prefix)
	// 只接受目录下的直接文件，防止路径穿越
	if filename == "" || filename != filepath.Base(filename) || strings.ContainsAny(filename, `/\`) || filename == "." || filename == ".." {
		return "", false
	}

	return filename, true
}

// fit 等比缩小到边界框以内，不放大
func (n *Normalizer) fit(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= n.opts.MaxWidth && h <= n.opts.MaxHeight {
		return img
	}

	newW, newH := fitSize(w, h, n.opts.MaxWidth, n.opts.MaxHeight)
	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

func fitSize(w, h, maxW, maxH int) (int, int) {
	// 按整数比较，避免浮点误差
	if w*maxH >= h*maxW {
		// 宽度受限
		newH := (h*maxW + w/2) / w
		if newH < 1 {
			newH = 1
		}
		return maxW, newH
	}

	newW := (w*maxH + h/2) / h
	if newW < 1 {
		newW = 1
	}
	return newW, maxH
}

// flatten 把带透明通道或调色板的图片铺到白色背景上
func flatten(img image.Image) image.Image {
	if !needsFlatten(img) {
		return img
	}

	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}

func needsFlatten(img image.Image) bool {
	switch img.(type) {
	case *image.Paletted:
		return true
	case *image.Gray, *image.Gray16, *image.YCbCr, *image.CMYK:
		return false
	}

	if o, ok := img.(interface{ Opaque() bool }); ok {
		return !o.Opaque()
	}

	return true
}
