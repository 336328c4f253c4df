package app

import (
	"errors"

	"github.com/ncruces/zenity"
)

// imagePatterns 文件对话框中可选的图片类型
var imagePatterns = []string{"*.png", "*.jpg", "*.jpeg", "*.gif", "*.webp", "*.bmp"}

// pickPhotos 打开系统文件对话框选择多张图片，取消时返回 nil, nil
func pickPhotos(dir string) ([]string, error) {
	opts := []zenity.Option{
		zenity.Title("Choose Photos"),
		zenity.FileFilters{{
			Name:     "Images",
			Patterns: imagePatterns,
		}},
	}
	if dir != "" {
		opts = append(opts, zenity.Filename(dir+"/"))
	}

	paths, err := zenity.SelectFileMultiple(opts...)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return nil, nil
		}
		return nil, err
	}
	return paths, nil
}
