package dto

import "fmt"

// PhotoUpload 是一次照片上传的全部输入
// 可选字段为空时不会出现在提交给后端的表单里
type PhotoUpload struct {
	Title        string
	Description  string
	Filename     string
	Size         int64
	LastModified int64
	MimeType     string
	Width        int
	Height       int
	Content      []byte
}

// Fingerprint 标识"同一个逻辑文件"，用于并发重复提交防护
func (u PhotoUpload) Fingerprint() string {
	return fmt.Sprintf("%s-%d-%d", u.Filename, u.Size, u.LastModified)
}

// PhotoListResponse 是照片列表接口的响应体
type PhotoListResponse struct {
	List  any `json:"list"`
	Total int `json:"total"`
}
