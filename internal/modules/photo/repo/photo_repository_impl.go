package repo

import (
	"bytes"
	"context"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/toughbox/pocketpic/internal/model"
	moduledto "github.com/toughbox/pocketpic/internal/modules/photo/dto"
	"github.com/toughbox/pocketpic/internal/pocketbase"
)

// PhotoRepository 基于 PocketBase 客户端实现 PhotoStore
type PhotoRepository struct {
	client     *pocketbase.Client
	collection string
}

func NewPhotoRepository(client *pocketbase.Client, collection string) PhotoStore {
	return &PhotoRepository{client: client, collection: collection}
}

// List 拉取全部照片记录，按创建时间倒序（最新在前）
func (r *PhotoRepository) List(ctx context.Context, token string) ([]model.Photo, error) {
	records, err := r.client.WithToken(token).GetFullList(ctx, r.collection, "-created")
	if err != nil {
		return nil, err
	}

	photos := make([]model.Photo, 0, len(records))
	for _, record := range records {
		photos = append(photos, model.PhotoFromRecord(record))
	}
	return photos, nil
}

// Create 以 multipart 表单创建照片记录
// 可选字段为空时不写入表单，与后端的字段校验规则保持一致
func (r *PhotoRepository) Create(ctx context.Context, token string, upload moduledto.PhotoUpload) (model.Photo, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	part, err := w.CreateFormFile("image", upload.Filename)
	if err != nil {
		return model.Photo{}, err
	}
	if _, err := part.Write(upload.Content); err != nil {
		return model.Photo{}, err
	}

	if title := strings.TrimSpace(upload.Title); title != "" {
		_ = w.WriteField("title", title)
	}
	if description := strings.TrimSpace(upload.Description); description != "" {
		_ = w.WriteField("description", description)
	}
	if upload.Size > 0 {
		_ = w.WriteField("size", strconv.FormatInt(upload.Size, 10))
	}
	if upload.MimeType != "" {
		_ = w.WriteField("mimeType", upload.MimeType)
	}
	if upload.Width > 0 {
		_ = w.WriteField("width", strconv.Itoa(upload.Width))
	}
	if upload.Height > 0 {
		_ = w.WriteField("height", strconv.Itoa(upload.Height))
	}

	if err := w.Close(); err != nil {
		return model.Photo{}, err
	}

	record, err := r.client.WithToken(token).CreateRecord(ctx, r.collection, &body, w.FormDataContentType())
	if err != nil {
		return model.Photo{}, err
	}
	return model.PhotoFromRecord(record), nil
}

func (r *PhotoRepository) Delete(ctx context.Context, token, id string) error {
	return r.client.WithToken(token).DeleteRecord(ctx, r.collection, id)
}

func (r *PhotoRepository) FileURL(recordID, filename, thumb string) string {
	return r.client.FileURL(r.collection, recordID, filename, thumb)
}
