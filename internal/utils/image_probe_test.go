package utils

import (
	"testing"

	"github.com/toughbox/pocketpic/internal/testutils"
)

// 测试内容：验证合法 PNG 能被探测出尺寸与 MIME 类型。
func TestProbeImage_ValidPNG(t *testing.T) {
	info, err := ProbeImage(testutils.MinimalPNG())
	if err != nil {
		t.Fatalf("期望探测成功，实际为 %v", err)
	}
	if info.Width != 1 || info.Height != 1 {
		t.Fatalf("期望尺寸 1x1，实际为 %dx%d", info.Width, info.Height)
	}
	if info.MimeType != "image/png" {
		t.Fatalf("期望 MIME 为 image/png，实际为 %q", info.MimeType)
	}
}

// 测试内容：验证非图片内容被拒绝。
func TestProbeImage_NotAnImage(t *testing.T) {
	if _, err := ProbeImage(testutils.NotAnImage()); err == nil {
		t.Fatalf("期望非图片内容探测失败")
	}
	if IsImage(testutils.NotAnImage()) {
		t.Fatalf("期望 IsImage 对文本返回 false")
	}
}

// 测试内容：验证带图片签名但内容损坏的数据解码失败。
func TestProbeImage_CorruptImage(t *testing.T) {
	data := testutils.CorruptImage()
	if !IsImage(data) {
		t.Fatalf("期望损坏样本仍带有图片签名")
	}
	if _, err := ProbeImage(data); err == nil {
		t.Fatalf("期望损坏图片解码失败")
	}
}
