package model

import "github.com/toughbox/pocketpic/internal/pocketbase"

// PhotoFromRecord 把后端原始记录转换为 Photo
func PhotoFromRecord(r pocketbase.Record) Photo {
	return Photo{
		ID:          r.GetString("id"),
		Title:       r.GetString("title"),
		Description: r.GetString("description"),
		Image:       r.GetString("image"),
		Thumbnail:   r.GetString("thumbnail"),
		Size:        r.GetInt64("size"),
		MimeType:    r.GetString("mimeType"),
		Width:       r.GetInt("width"),
		Height:      r.GetInt("height"),
		Created:     r.GetString("created"),
		Updated:     r.GetString("updated"),
	}
}

// UserFromRecord 把后端原始记录转换为 User，记录为空时返回 nil
func UserFromRecord(r pocketbase.Record) *User {
	if r == nil {
		return nil
	}
	return &User{
		ID:      r.GetString("id"),
		Email:   r.GetString("email"),
		Name:    r.GetString("name"),
		Avatar:  r.GetString("avatar"),
		Created: r.GetString("created"),
		Updated: r.GetString("updated"),
	}
}
