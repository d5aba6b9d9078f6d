package testutils

import "encoding/base64"

// 1x1 透明 PNG，用作最小合法图片样本
const minimalPNGBase64 = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mP8z8BQDwAEhQGAhKmMIQAAAABJRU5ErkJggg=="

// MinimalPNG returns a valid 1x1 PNG image.
func MinimalPNG() []byte {
	data, err := base64.StdEncoding.DecodeString(minimalPNGBase64)
	if err != nil {
		panic(err)
	}
	return data
}

// CorruptImage returns bytes that carry a PNG signature but cannot be decoded.
func CorruptImage() []byte {
	data := MinimalPNG()
	return data[:16]
}

// NotAnImage returns plain text bytes.
func NotAnImage() []byte {
	return []byte("hello, this is definitely not an image")
}
