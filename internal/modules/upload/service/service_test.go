package service_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/toughbox/pocketpic/internal/config"
	photodto "github.com/toughbox/pocketpic/internal/modules/photo/dto"
	photorepo "github.com/toughbox/pocketpic/internal/modules/photo/repo"
	photoservice "github.com/toughbox/pocketpic/internal/modules/photo/service"
	"github.com/toughbox/pocketpic/internal/modules/upload/dto"
	"github.com/toughbox/pocketpic/internal/modules/upload/service"
	"github.com/toughbox/pocketpic/internal/pocketbase"
	platformservice "github.com/toughbox/pocketpic/internal/platform/service"
	"github.com/toughbox/pocketpic/internal/testutils"
	"github.com/toughbox/pocketpic/internal/ws"
)

func newUploadService(t *testing.T) (*service.Service, *testutils.FakeBackend, string) {
	t.Helper()

	backend := testutils.NewFakeBackend(t)
	token := backend.IssueToken(t, time.Hour)

	appService := platformservice.NewAppService(config.Config{
		Upload: config.UploadConfig{
			MaxBatchFiles:   100,
			MaxUploadMB:     10,
			ThumbSize:       "300x300",
			BatchTTLMinutes: 30,
		},
	})

	store := photorepo.NewPhotoRepository(pocketbase.New(backend.URL()), "photos")
	photoSvc := photoservice.New(appService, store)

	hub := ws.NewHub()
	go hub.Run()

	return service.New(appService, photoSvc, hub), backend, token
}

func pngUpload(name string, lastModified int64) photodto.PhotoUpload {
	content := testutils.MinimalPNG()
	return photodto.PhotoUpload{
		Filename:     name,
		Size:         int64(len(content)),
		LastModified: lastModified,
		Content:      content,
	}
}

func corruptUpload(name string) photodto.PhotoUpload {
	content := testutils.CorruptImage()
	return photodto.PhotoUpload{
		Filename:     name,
		Size:         int64(len(content)),
		LastModified: 1,
		Content:      content,
	}
}

func waitForFinish(t *testing.T, batch *service.Batch) dto.BatchState {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		state := batch.Snapshot()
		if state.Finished {
			return state
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("批次在超时时间内未完成")
	return dto.BatchState{}
}

// 测试内容：验证 3 个文件按下标顺序全部上传成功。
func TestRun_HappyPath(t *testing.T) {
	svc, backend, token := newUploadService(t)

	uploads := []photodto.PhotoUpload{
		pngUpload("one.png", 1),
		pngUpload("two.png", 2),
		pngUpload("three.png", 3),
	}
	batch, err := svc.CreateBatch(uploads)
	if err != nil {
		t.Fatalf("期望创建批次成功，实际为 %v", err)
	}
	if err := svc.Start(batch, token); err != nil {
		t.Fatalf("期望启动成功，实际为 %v", err)
	}

	state := waitForFinish(t, batch)
	if state.Completed != 3 || state.Errored != 0 {
		t.Fatalf("期望成功 3 失败 0，实际为成功 %v 失败 %v", state.Completed, state.Errored)
	}
	if state.Progress != 100 {
		t.Fatalf("期望总进度 100，实际为 %v", state.Progress)
	}
	if state.CurrentIndex != -1 {
		t.Fatalf("期望完成后当前下标为 -1，实际为 %v", state.CurrentIndex)
	}
	for i, task := range state.Tasks {
		if task.Index != i {
			t.Fatalf("期望任务按下标顺序，实际第 %v 项下标为 %v", i, task.Index)
		}
		if task.Status != service.TaskCompleted || task.Progress != 100 {
			t.Fatalf("期望任务 %v 完成且进度 100，实际为 %q/%v", i, task.Status, task.Progress)
		}
		if task.PhotoID == "" {
			t.Fatalf("期望任务 %v 携带照片 ID", i)
		}
	}
	if backend.PhotoCount() != 3 {
		t.Fatalf("期望后端记录 3 条，实际为 %v", backend.PhotoCount())
	}
}

// 测试内容：验证单个损坏文件失败不会中断批次，其余文件继续上传。
func TestRun_FailureIsolation(t *testing.T) {
	svc, backend, token := newUploadService(t)

	batch, err := svc.CreateBatch([]photodto.PhotoUpload{
		corruptUpload("broken.png"),
		pngUpload("fine.png", 1),
	})
	if err != nil {
		t.Fatalf("期望创建批次成功，实际为 %v", err)
	}
	if err := svc.Start(batch, token); err != nil {
		t.Fatalf("期望启动成功，实际为 %v", err)
	}

	state := waitForFinish(t, batch)
	if state.Completed != 1 || state.Errored != 1 {
		t.Fatalf("期望成功 1 失败 1，实际为成功 %v 失败 %v", state.Completed, state.Errored)
	}
	if state.Tasks[0].Status != service.TaskError || state.Tasks[0].Error == "" {
		t.Fatalf("期望第一个任务失败且带错误消息，实际为 %q/%q", state.Tasks[0].Status, state.Tasks[0].Error)
	}
	if state.Tasks[1].Status != service.TaskCompleted {
		t.Fatalf("期望第二个任务完成，实际为 %q", state.Tasks[1].Status)
	}
	if backend.PhotoCount() != 1 {
		t.Fatalf("期望后端记录 1 条，实际为 %v", backend.PhotoCount())
	}
}

// 测试内容：验证全部失败时总进度依然到达 100。
func TestRun_AllErroredStillReaches100(t *testing.T) {
	svc, _, token := newUploadService(t)

	batch, err := svc.CreateBatch([]photodto.PhotoUpload{
		corruptUpload("b1.png"),
		corruptUpload("b2.png"),
	})
	if err != nil {
		t.Fatalf("期望创建批次成功，实际为 %v", err)
	}
	if err := svc.Start(batch, token); err != nil {
		t.Fatalf("期望启动成功，实际为 %v", err)
	}

	state := waitForFinish(t, batch)
	if state.Errored != 2 || state.Completed != 0 {
		t.Fatalf("期望全部失败，实际为成功 %v 失败 %v", state.Completed, state.Errored)
	}
	if state.Progress != 100 {
		t.Fatalf("期望总进度 100，实际为 %v", state.Progress)
	}
}

// 测试内容：验证超过批次上限的文件被截断并附带提示。
func TestCreateBatch_TruncatesOverLimit(t *testing.T) {
	svc, _, _ := newUploadService(t)

	uploads := make([]photodto.PhotoUpload, 0, 103)
	for i := 0; i < 103; i++ {
		uploads = append(uploads, pngUpload(fmt.Sprintf("p%03d.png", i), int64(i)))
	}

	batch, err := svc.CreateBatch(uploads)
	if err != nil {
		t.Fatalf("期望创建批次成功，实际为 %v", err)
	}

	state := batch.Snapshot()
	if state.Total != 100 {
		t.Fatalf("期望截断为 100 个任务，实际为 %v", state.Total)
	}
	if state.Notice == "" {
		t.Fatalf("期望截断时附带提示")
	}
}

// 测试内容：验证非图片文件在建批时被过滤并计入 skipped。
func TestCreateBatch_FiltersNonImages(t *testing.T) {
	svc, _, _ := newUploadService(t)

	text := photodto.PhotoUpload{
		Filename: "note.txt",
		Size:     10,
		Content:  testutils.NotAnImage(),
	}
	batch, err := svc.CreateBatch([]photodto.PhotoUpload{text, pngUpload("ok.png", 1)})
	if err != nil {
		t.Fatalf("期望创建批次成功，实际为 %v", err)
	}

	state := batch.Snapshot()
	if state.Total != 1 || state.Skipped != 1 {
		t.Fatalf("期望 1 个任务 1 个被过滤，实际为 %v/%v", state.Total, state.Skipped)
	}
}

// 测试内容：验证没有任何图片文件时返回校验错误。
func TestCreateBatch_Empty(t *testing.T) {
	svc, _, _ := newUploadService(t)

	_, err := svc.CreateBatch(nil)
	svcErr, ok := platformservice.AsServiceError(err)
	if !ok || svcErr.Code != platformservice.ErrorCodeValidation {
		t.Fatalf("期望校验错误，实际为 %v", err)
	}
}

// 测试内容：验证批次重复启动被拒绝。
func TestStart_Twice(t *testing.T) {
	svc, _, token := newUploadService(t)

	batch, err := svc.CreateBatch([]photodto.PhotoUpload{pngUpload("a.png", 1)})
	if err != nil {
		t.Fatalf("期望创建批次成功，实际为 %v", err)
	}
	if err := svc.Start(batch, token); err != nil {
		t.Fatalf("期望第一次启动成功，实际为 %v", err)
	}
	if err := svc.Start(batch, token); err == nil {
		t.Fatalf("期望重复启动被拒绝")
	}
	waitForFinish(t, batch)
}

// 测试内容：验证按 ID 能取回批次，未知 ID 返回 false。
func TestGetBatch(t *testing.T) {
	svc, _, _ := newUploadService(t)

	batch, err := svc.CreateBatch([]photodto.PhotoUpload{pngUpload("a.png", 1)})
	if err != nil {
		t.Fatalf("期望创建批次成功，实际为 %v", err)
	}

	got, ok := svc.GetBatch(batch.ID)
	if !ok || got.ID != batch.ID {
		t.Fatalf("期望取回批次 %q", batch.ID)
	}
	if _, ok := svc.GetBatch("missing"); ok {
		t.Fatalf("期望未知批次返回 false")
	}
}
