package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/toughbox/pocketpic/internal/modules/common/httpx"
	moduledto "github.com/toughbox/pocketpic/internal/modules/photo/dto"
	"github.com/toughbox/pocketpic/internal/utils"
)

// ListPhotos 返回全部照片，最新在前
func (h *Handler) ListPhotos(c *gin.Context) {
	token := c.GetString("token")

	photos, err := h.photoService.GetPhotos(c.Request.Context(), token)
	if err != nil {
		httpx.WriteServiceError(c, err, "获取照片列表失败")
		return
	}

	c.JSON(http.StatusOK, moduledto.PhotoListResponse{List: photos, Total: len(photos)})
}

// UploadPhoto 单张上传（上传弹窗的非批量路径）
// 宽高在服务端解码获得，前端不需要提交
func (h *Handler) UploadPhoto(c *gin.Context) {
	token := c.GetString("token")

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请选择文件"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无法读取上传的文件"})
		return
	}
	defer func() { _ = src.Close() }()

	content, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无法读取上传的文件"})
		return
	}

	info, err := utils.ProbeImage(content)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	photo, err := h.photoService.UploadPhoto(c.Request.Context(), token, moduledto.PhotoUpload{
		Title:        c.PostForm("title"),
		Description:  c.PostForm("description"),
		Filename:     file.Filename,
		Size:         file.Size,
		LastModified: lastModifiedForm(c),
		MimeType:     info.MimeType,
		Width:        info.Width,
		Height:       info.Height,
		Content:      content,
	})
	if err != nil {
		httpx.WriteServiceError(c, err, "上传失败，请稍后重试")
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "上传成功", "photo": photo})
}

// DeletePhoto 删除一条照片
func (h *Handler) DeletePhoto(c *gin.Context) {
	token := c.GetString("token")

	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id 参数错误"})
		return
	}

	if err := h.photoService.DeletePhoto(c.Request.Context(), token, id); err != nil {
		httpx.WriteServiceError(c, err, "删除失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "删除成功"})
}

// lastModifiedForm 读取前端附带的文件修改时间（毫秒时间戳），缺省为 0
func lastModifiedForm(c *gin.Context) int64 {
	ts, err := strconv.ParseInt(c.PostForm("lastModified"), 10, 64)
	if err != nil {
		return 0
	}
	return ts
}
