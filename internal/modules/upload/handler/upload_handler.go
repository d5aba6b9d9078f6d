package handler

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/toughbox/pocketpic/internal/modules/common/httpx"
	photodto "github.com/toughbox/pocketpic/internal/modules/photo/dto"
	"github.com/toughbox/pocketpic/internal/ws"
)

// CreateBatch 接收多文件表单，创建待上传批次并返回初始快照
// lastModified 字段与 files 按下标对应，用于重复上传判定
func (h *Handler) CreateBatch(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请选择图片文件"})
		return
	}

	files := form.File["files"]
	lastModified := form.Value["lastModified"]

	uploads := make([]photodto.PhotoUpload, 0, len(files))
	for i, fileHeader := range files {
		file, err := fileHeader.Open()
		if err != nil {
			log.Printf("⚠️ 读取上传文件失败 (%s): %v", fileHeader.Filename, err)
			continue
		}
		content, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			log.Printf("⚠️ 读取上传文件失败 (%s): %v", fileHeader.Filename, err)
			continue
		}

		var modified int64
		if i < len(lastModified) {
			modified, _ = strconv.ParseInt(lastModified[i], 10, 64)
		}

		uploads = append(uploads, photodto.PhotoUpload{
			Filename:     fileHeader.Filename,
			Size:         fileHeader.Size,
			LastModified: modified,
			Content:      content,
		})
	}

	batch, err := h.uploadService.CreateBatch(uploads)
	if err != nil {
		httpx.WriteServiceError(c, err, "创建上传批次失败")
		return
	}

	c.JSON(http.StatusOK, batch.Snapshot())
}

// StartBatch 异步启动批次上传
func (h *Handler) StartBatch(c *gin.Context) {
	batch, ok := h.uploadService.GetBatch(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "上传批次不存在"})
		return
	}

	if err := h.uploadService.Start(batch, c.GetString("token")); err != nil {
		httpx.WriteServiceError(c, err, "启动上传失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "开始上传"})
}

// GetBatch 返回批次当前快照，用于断线或刷新后补齐状态
func (h *Handler) GetBatch(c *gin.Context) {
	batch, ok := h.uploadService.GetBatch(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "上传批次不存在"})
		return
	}
	c.JSON(http.StatusOK, batch.Snapshot())
}

// Events 升级为 WebSocket 并订阅批次进度事件
// 连接建立后先推送一条当前快照，再持续推送增量更新
func (h *Handler) Events(c *gin.Context) {
	batch, ok := h.uploadService.GetBatch(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "上传批次不存在"})
		return
	}

	initial, err := json.Marshal(ws.Event{Type: ws.EventTaskUpdate, Data: batch.Snapshot()})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "服务器内部错误"})
		return
	}

	if err := h.hub.Subscribe(c.Writer, c.Request, h.uploadService.Topic(batch.ID), initial); err != nil {
		log.Printf("⚠️ WebSocket 升级失败: %v", err)
	}
}
