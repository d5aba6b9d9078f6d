package testutils

import "os"

// SavedEnv 记录某个环境变量被覆盖前的状态
// 测试里配置读取走 POCKET_PIC_ 前缀的环境变量，用完必须恢复原值
type SavedEnv struct {
	Key   string
	Had   bool
	Value string
}

// SetEnv 设置环境变量并返回它之前的状态
func SetEnv(key, value string) SavedEnv {
	prev, had := os.LookupEnv(key)
	_ = os.Setenv(key, value)
	return SavedEnv{Key: key, Had: had, Value: prev}
}

// RestoreEnv 把一组环境变量恢复到保存时的状态，原本不存在的会被删除
func RestoreEnv(envs []SavedEnv) {
	for _, env := range envs {
		if env.Had {
			_ = os.Setenv(env.Key, env.Value)
		} else {
			_ = os.Unsetenv(env.Key)
		}
	}
}
