package storage

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // GIF decoder
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // WebP decoder
)

// ImageInfo 描述上传图片的格式与尺寸。
type ImageInfo struct {
	Format string
	Width  int
	Height int
}

// InspectImage 读取图片头部信息，不解码完整像素。
func InspectImage(data []byte) (ImageInfo, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ImageInfo{}, fmt.Errorf("decode image config: %w", err)
	}
	return ImageInfo{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}

// FitWidth 在 JPEG/PNG 宽度超过 maxWidth 时等比缩小并重新编码。
// 其他格式或无需缩放时原样返回。maxWidth <= 0 表示不限制。
func FitWidth(data []byte, info ImageInfo, maxWidth int) ([]byte, ImageInfo, error) {
	if maxWidth <= 0 || info.Width <= maxWidth {
		return data, info, nil
	}

	var format imaging.Format
	switch info.Format {
	case "jpeg":
		format = imaging.JPEG
	case "png":
		format = imaging.PNG
	default:
		return data, info, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, info, fmt.Errorf("decode image: %w", err)
	}

	resized := imaging.Resize(img, maxWidth, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format, imaging.JPEGQuality(85)); err != nil {
		return nil, info, fmt.Errorf("encode image: %w", err)
	}

	bounds := resized.Bounds()
	return buf.Bytes(), ImageInfo{Format: info.Format, Width: bounds.Dx(), Height: bounds.Dy()}, nil
}
