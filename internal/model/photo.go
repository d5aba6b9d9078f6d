package model

// Photo 对应后端 photos 集合的记录
// URL / ThumbnailURL 由服务层解析，后端记录里只有文件名
type Photo struct {
	ID          string `json:"id"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image"`
	Thumbnail   string `json:"thumbnail,omitempty"`
	Size        int64  `json:"size,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
	Created     string `json:"created"`
	Updated     string `json:"updated"`

	URL          string `json:"url,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	DetailURL    string `json:"detailUrl,omitempty"`
}
