package service

import (
	"context"
	"log"
	"sync"

	"github.com/toughbox/pocketpic/internal/consts"
	"github.com/toughbox/pocketpic/internal/model"
	moduledto "github.com/toughbox/pocketpic/internal/modules/photo/dto"
	"github.com/toughbox/pocketpic/internal/modules/photo/repo"
	platformservice "github.com/toughbox/pocketpic/internal/platform/service"
)

type Service struct {
	*platformservice.AppService
	store repo.PhotoStore
	guard *uploadGuard
}

func New(appService *platformservice.AppService, store repo.PhotoStore) *Service {
	return &Service{
		AppService: appService,
		store:      store,
		guard:      newUploadGuard(),
	}
}

// uploadGuard 防止同一逻辑文件的并发重复提交
// 指纹由 文件名-大小-修改时间 组成，归属于服务实例而不是进程全局
type uploadGuard struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func newUploadGuard() *uploadGuard {
	return &uploadGuard{keys: make(map[string]struct{})}
}

// acquire 尝试占用指纹，已被占用时返回 false
func (g *uploadGuard) acquire(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.keys[key]; exists {
		return false
	}
	g.keys[key] = struct{}{}
	return true
}

// release 无条件释放指纹，成功失败都要调用
func (g *uploadGuard) release(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.keys, key)
}

// GetPhotos 拉取全部照片并解析文件访问地址，最新在前
func (s *Service) GetPhotos(ctx context.Context, token string) ([]model.Photo, error) {
	photos, err := s.store.List(ctx, token)
	if err != nil {
		log.Printf("获取照片列表失败: %v", err)
		return nil, platformservice.NormalizeBackendError(err, "获取照片列表失败")
	}

	for i := range photos {
		s.resolveURLs(&photos[i])
	}
	return photos, nil
}

// UploadPhoto 上传单张照片
// 同一逻辑文件（名称+大小+修改时间）在上一次调用未结束前会被拒绝
func (s *Service) UploadPhoto(ctx context.Context, token string, upload moduledto.PhotoUpload) (model.Photo, error) {
	if len(upload.Content) == 0 {
		return model.Photo{}, platformservice.NewValidationError("文件内容为空")
	}

	key := upload.Fingerprint()
	if !s.guard.acquire(key) {
		return model.Photo{}, platformservice.NewConflictError("同一文件正在上传中，请勿重复提交")
	}
	defer s.guard.release(key)

	photo, err := s.store.Create(ctx, token, upload)
	if err != nil {
		log.Printf("上传照片失败 (%s): %v", upload.Filename, err)
		return model.Photo{}, platformservice.NormalizeBackendError(err, "上传照片失败")
	}

	s.resolveURLs(&photo)
	return photo, nil
}

// DeletePhoto 删除一条照片记录
func (s *Service) DeletePhoto(ctx context.Context, token, id string) error {
	if err := s.store.Delete(ctx, token, id); err != nil {
		log.Printf("删除照片失败 (%s): %v", id, err)
		return platformservice.NormalizeBackendError(err, "删除照片失败")
	}
	return nil
}

// ImageURL 返回原图地址，thumb 非空时返回对应尺寸的变换地址
func (s *Service) ImageURL(photo model.Photo, thumb string) string {
	return s.store.FileURL(photo.ID, photo.Image, thumb)
}

// ThumbnailURL 返回缩略图地址
// 记录带有显式缩略图文件时直接使用；否则请求原图的缩略变换
func (s *Service) ThumbnailURL(photo model.Photo) string {
	if photo.Thumbnail != "" {
		return s.store.FileURL(photo.ID, photo.Thumbnail, "")
	}
	thumbSize := s.GetString(consts.SettingThumbSize)
	if thumbSize == "" {
		thumbSize = "300x300"
	}
	return s.store.FileURL(photo.ID, photo.Image, thumbSize)
}

// DetailURL 返回大图预览地址，灯箱在原图加载完成前先展示它
func (s *Service) DetailURL(photo model.Photo) string {
	detailSize := s.GetString(consts.SettingDetailThumbSize)
	if detailSize == "" {
		detailSize = "400x400"
	}
	return s.store.FileURL(photo.ID, photo.Image, detailSize)
}

func (s *Service) resolveURLs(photo *model.Photo) {
	photo.URL = s.ImageURL(*photo, "")
	photo.ThumbnailURL = s.ThumbnailURL(*photo)
	photo.DetailURL = s.DetailURL(*photo)
}
