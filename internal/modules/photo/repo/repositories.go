package repo

import (
	"context"

	"github.com/toughbox/pocketpic/internal/model"
	moduledto "github.com/toughbox/pocketpic/internal/modules/photo/dto"
)

// PhotoStore 是照片记录的存取接口，由远端后端实现
// token 为空表示匿名访问，是否放行由后端的集合规则决定
type PhotoStore interface {
	List(ctx context.Context, token string) ([]model.Photo, error)
	Create(ctx context.Context, token string, upload moduledto.PhotoUpload) (model.Photo, error)
	Delete(ctx context.Context, token, id string) error
	FileURL(recordID, filename, thumb string) string
}
