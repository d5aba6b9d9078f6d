package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/toughbox/pocketpic/internal/consts"
	photodto "github.com/toughbox/pocketpic/internal/modules/photo/dto"
	photoservice "github.com/toughbox/pocketpic/internal/modules/photo/service"
	"github.com/toughbox/pocketpic/internal/modules/upload/dto"
	platformservice "github.com/toughbox/pocketpic/internal/platform/service"
	"github.com/toughbox/pocketpic/internal/utils"
	"github.com/toughbox/pocketpic/internal/ws"
)

// 批量上传服务：严格按文件顺序逐个上传，单个文件失败不影响后续文件
// 进度通过 WebSocket 推送，快照接口用于断线后补齐状态

const (
	TaskPending   = "pending"
	TaskUploading = "uploading"
	TaskCompleted = "completed"
	TaskError     = "error"
)

type Task struct {
	Index    int
	Upload   photodto.PhotoUpload
	Status   string
	Progress int
	PhotoID  string
	Err      string
}

type Batch struct {
	ID string

	mu           sync.Mutex
	tasks        []*Task
	currentIndex int
	completed    int
	errored      int
	started      bool
	finished     bool
	notice       string
	skipped      int
	createdAt    time.Time
	finishedAt   time.Time
}

type Service struct {
	*platformservice.AppService
	photoService *photoservice.Service
	hub          *ws.Hub
	batches      sync.Map
}

func New(appService *platformservice.AppService, photoService *photoservice.Service, hub *ws.Hub) *Service {
	s := &Service{
		AppService:   appService,
		photoService: photoService,
		hub:          hub,
	}
	go s.cleanupLoop()
	return s
}

// Topic 返回批次对应的 WebSocket 订阅主题
func (s *Service) Topic(batchID string) string {
	return "uploads:" + batchID
}

// CreateBatch 过滤非图片文件并按上限截断，创建待上传批次
func (s *Service) CreateBatch(uploads []photodto.PhotoUpload) (*Batch, error) {
	kept := make([]photodto.PhotoUpload, 0, len(uploads))
	skipped := 0
	for _, upload := range uploads {
		if !utils.IsImage(upload.Content) {
			skipped++
			continue
		}
		kept = append(kept, upload)
	}

	if len(kept) == 0 {
		return nil, platformservice.NewValidationError("请选择图片文件")
	}

	maxFiles := s.GetInt(consts.SettingMaxBatchFiles)
	if maxFiles <= 0 {
		maxFiles = 100
	}

	notice := ""
	if len(kept) > maxFiles {
		notice = fmt.Sprintf("最多一次上传 %d 张图片，已忽略多余的 %d 张", maxFiles, len(kept)-maxFiles)
		kept = kept[:maxFiles]
	}

	batch := &Batch{
		ID:           uuid.New().String(),
		currentIndex: -1,
		notice:       notice,
		skipped:      skipped,
		createdAt:    time.Now(),
	}
	for i, upload := range kept {
		batch.tasks = append(batch.tasks, &Task{Index: i, Upload: upload, Status: TaskPending})
	}

	s.batches.Store(batch.ID, batch)
	log.Printf("创建上传批次 %s: %d 个文件", batch.ID, len(batch.tasks))
	return batch, nil
}

// GetBatch 按 ID 查找批次
func (s *Service) GetBatch(batchID string) (*Batch, bool) {
	value, ok := s.batches.Load(batchID)
	if !ok {
		return nil, false
	}
	return value.(*Batch), true
}

// Start 异步执行批次上传，重复调用返回错误
func (s *Service) Start(batch *Batch, token string) error {
	batch.mu.Lock()
	if batch.started {
		batch.mu.Unlock()
		return platformservice.NewValidationError("该批次已在上传中")
	}
	batch.started = true
	batch.mu.Unlock()

	go s.run(context.Background(), batch, token)
	return nil
}

// run 逐个上传批次内的文件，进度节点为 0、50、100
func (s *Service) run(ctx context.Context, batch *Batch, token string) {
	topic := s.Topic(batch.ID)

	for i, task := range batch.tasks {
		batch.mu.Lock()
		batch.currentIndex = i
		task.Status = TaskUploading
		task.Progress = 0
		batch.mu.Unlock()
		s.hub.Publish(topic, ws.Event{Type: ws.EventTaskUpdate, Data: batch.Snapshot()})

		if maxMB := s.GetInt(consts.SettingMaxUploadMB); maxMB > 0 && task.Upload.Size > int64(maxMB)*1024*1024 {
			s.settleTask(batch, task, topic, "", fmt.Sprintf("文件超过大小限制 (%d MB)", maxMB))
			continue
		}

		info, err := utils.ProbeImage(task.Upload.Content)
		if err != nil {
			s.settleTask(batch, task, topic, "", err.Error())
			continue
		}

		batch.mu.Lock()
		task.Progress = 50
		batch.mu.Unlock()
		s.hub.Publish(topic, ws.Event{Type: ws.EventTaskUpdate, Data: batch.Snapshot()})

		upload := task.Upload
		upload.MimeType = info.MimeType
		upload.Width = info.Width
		upload.Height = info.Height
		if upload.Title == "" {
			upload.Title = titleFromFilename(upload.Filename)
		}

		photo, err := s.photoService.UploadPhoto(ctx, token, upload)
		if err != nil {
			message := "上传失败"
			if svcErr, ok := platformservice.AsServiceError(err); ok && svcErr.Message != "" {
				message = svcErr.Message
			}
			log.Printf("⚠️ 批次 %s 第 %d 个文件上传失败: %v", batch.ID, i+1, err)
			s.settleTask(batch, task, topic, "", message)
			continue
		}

		s.settleTask(batch, task, topic, photo.ID, "")
	}

	batch.mu.Lock()
	batch.currentIndex = -1
	batch.finished = true
	batch.finishedAt = time.Now()
	completed := batch.completed
	batch.mu.Unlock()

	s.hub.Publish(topic, ws.Event{Type: ws.EventBatchDone, Data: batch.Snapshot()})
	if completed >= 1 {
		s.hub.Publish(topic, ws.Event{Type: ws.EventGalleryRefresh, Data: nil})
	}
	log.Printf("✅ 批次 %s 完成: 成功 %d，失败 %d", batch.ID, completed, len(batch.tasks)-completed)
}

// settleTask 结算单个任务并推送更新
func (s *Service) settleTask(batch *Batch, task *Task, topic, photoID, errMessage string) {
	batch.mu.Lock()
	if errMessage != "" {
		task.Status = TaskError
		task.Err = errMessage
		batch.errored++
	} else {
		task.Status = TaskCompleted
		task.Progress = 100
		task.PhotoID = photoID
		batch.completed++
	}
	batch.mu.Unlock()
	s.hub.Publish(topic, ws.Event{Type: ws.EventTaskUpdate, Data: batch.Snapshot()})
}

// Snapshot 返回批次当前状态的完整快照
func (b *Batch) Snapshot() dto.BatchState {
	b.mu.Lock()
	defer b.mu.Unlock()

	state := dto.BatchState{
		ID:           b.ID,
		Total:        len(b.tasks),
		CurrentIndex: b.currentIndex,
		Completed:    b.completed,
		Errored:      b.errored,
		Finished:     b.finished,
		Notice:       b.notice,
		Skipped:      b.skipped,
		Tasks:        make([]dto.TaskState, 0, len(b.tasks)),
	}
	if len(b.tasks) > 0 {
		state.Progress = int(math.Round(float64(b.completed+b.errored) / float64(len(b.tasks)) * 100))
	}
	for _, task := range b.tasks {
		state.Tasks = append(state.Tasks, dto.TaskState{
			Index:    task.Index,
			Filename: task.Upload.Filename,
			Size:     task.Upload.Size,
			Status:   task.Status,
			Progress: task.Progress,
			PhotoID:  task.PhotoID,
			Error:    task.Err,
		})
	}
	return state
}

// cleanupLoop 定期清理过期批次，避免内存堆积
func (s *Service) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		ttlMinutes := s.GetInt(consts.SettingBatchTTLMinutes)
		if ttlMinutes <= 0 {
			ttlMinutes = 30
		}
		ttl := time.Duration(ttlMinutes) * time.Minute
		now := time.Now()

		s.batches.Range(func(key, value any) bool {
			batch := value.(*Batch)
			batch.mu.Lock()
			expired := batch.finished && now.Sub(batch.finishedAt) > ttl
			// 创建后一直没启动的批次也按 TTL 清理
			if !batch.started && now.Sub(batch.createdAt) > ttl {
				expired = true
			}
			batch.mu.Unlock()
			if expired {
				s.batches.Delete(key)
			}
			return true
		})
	}
}

func titleFromFilename(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
