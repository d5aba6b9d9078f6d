package utils

import (
	"bytes"
	"errors"
	"image"
	"strings"

	// 注册标准图片解码器，只读取头部信息
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gabriel-vasile/mimetype"
)

// ImageInfo 是客户端解码得到的图片元数据
type ImageInfo struct {
	Width    int
	Height   int
	MimeType string
}

// DetectMimeType 基于文件内容嗅探 MIME 类型（不信任扩展名）
func DetectMimeType(data []byte) string {
	return mimetype.Detect(data).String()
}

// IsImage 判断内容是否为图片
func IsImage(data []byte) bool {
	return strings.HasPrefix(DetectMimeType(data), "image/")
}

// ProbeImage 解码图片头部，获取宽高与 MIME 类型
// 内容不是图片或头部损坏时返回错误，上传流程把这类失败视为该文件上传失败
func ProbeImage(data []byte) (*ImageInfo, error) {
	if len(data) == 0 {
		return nil, errors.New("文件内容为空")
	}

	mime := DetectMimeType(data)
	if !strings.HasPrefix(mime, "image/") {
		return nil, errors.New("不是受支持的图片文件")
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, errors.New("图片解码失败: " + err.Error())
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, errors.New("图片尺寸无效")
	}

	return &ImageInfo{Width: cfg.Width, Height: cfg.Height, MimeType: mime}, nil
}
