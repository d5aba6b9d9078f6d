package dto

// TaskState 单个文件上传任务的对外快照
type TaskState struct {
	Index    int    `json:"index"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	Status   string `json:"status"`
	Progress int    `json:"progress"`
	PhotoID  string `json:"photoId,omitempty"`
	Error    string `json:"error,omitempty"`
}

// BatchState 整个批次的对外快照
type BatchState struct {
	ID           string      `json:"id"`
	Total        int         `json:"total"`
	CurrentIndex int         `json:"currentIndex"`
	Completed    int         `json:"completed"`
	Errored      int         `json:"errored"`
	Progress     int         `json:"progress"`
	Finished     bool        `json:"finished"`
	Notice       string      `json:"notice,omitempty"`
	Skipped      int         `json:"skipped,omitempty"`
	Tasks        []TaskState `json:"tasks"`
}
