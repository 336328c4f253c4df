// Package photos 将用户选择的图片文件分配给照片面板。
package photos

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io"
	"log"
	"os"

	_ "golang.org/x/image/bmp"  // Register BMP decoder
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// ErrNoFreeSlot 选中的图片多于照片面板数量，多余的图片被忽略
var ErrNoFreeSlot = errors.New("no free photo slot")

// Target 接收图片宽高比的展示状态机
// game.Controller 实现该接口
type Target interface {
	PhotoCount() int
	SetPhotoAspect(index int, aspect float64) error
}

// Loaded 一张已分配的图片
type Loaded struct {
	Index  int
	Path   string
	Image  image.Image
	Aspect float64
}

// Loader 图片上传协作者
type Loader struct {
	target Target
}

// NewLoader 创建图片加载器
func NewLoader(target Target) *Loader {
	return &Loader{target: target}
}

// LoadFiles 解码一批图片并依次分配到照片 0, 1, 2, ...
//
// 无法解码的文件被跳过，不占用照片索引。
// 照片全部分配后剩余的路径不再解码，直接忽略并返回 ErrNoFreeSlot（已分配的结果仍然返回）。
func (l *Loader) LoadFiles(paths []string) ([]Loaded, error) {
	count := l.target.PhotoCount()
	var loaded []Loaded
	var ignored []string

	for i, path := range paths {
		if len(loaded) >= count {
			ignored = paths[i:]
			break
		}
		img, err := decodeFile(path)
		if err != nil {
			log.Printf("[PhotoLoader] 跳过 %s: %v", path, err)
			continue
		}

		item, err := l.assign(len(loaded), path, img)
		if err != nil {
			return loaded, err
		}
		loaded = append(loaded, item)
	}

	log.Printf("[PhotoLoader] 已加载 %d 张图片", len(loaded))
	if len(ignored) > 0 {
		log.Printf("[PhotoLoader] 照片已满，忽略 %d 个文件", len(ignored))
		return loaded, fmt.Errorf("%w: %d file(s) ignored, %d photo(s) available", ErrNoFreeSlot, len(ignored), count)
	}
	return loaded, nil
}

// Load 从 reader 解码一张图片并分配到指定照片
func (l *Loader) Load(index int, r io.Reader) (Loaded, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return Loaded{}, fmt.Errorf("failed to decode image: %w", err)
	}
	return l.assign(index, "", img)
}

func (l *Loader) assign(index int, path string, img image.Image) (Loaded, error) {
	b := img.Bounds()
	aspect := float64(b.Dx()) / float64(b.Dy())
	if err := l.target.SetPhotoAspect(index, aspect); err != nil {
		return Loaded{}, fmt.Errorf("failed to assign image to photo %d: %w", index, err)
	}
	return Loaded{Index: index, Path: path, Image: img, Aspect: aspect}, nil
}

func decodeFile(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file %s: %w", path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	if b := img.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("empty image %s", path)
	}
	return img, nil
}
