package service

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/toughbox/pocketpic/internal/consts"
	"github.com/toughbox/pocketpic/internal/pocketbase"
	platformservice "github.com/toughbox/pocketpic/internal/platform/service"
)

// sessionRegistry 维护 sid 到认证快照的映射
// 内存永远是权威来源；启用 Redis 时额外落一份，用于进程重启后恢复会话
type sessionRegistry struct {
	appService *platformservice.AppService
	mu         sync.Mutex
	stores     map[string]*pocketbase.AuthStore
}

type persistedSession struct {
	Token  string            `json:"token"`
	Record pocketbase.Record `json:"record"`
}

func newSessionRegistry(appService *platformservice.AppService) *sessionRegistry {
	return &sessionRegistry{
		appService: appService,
		stores:     make(map[string]*pocketbase.AuthStore),
	}
}

// ensure 获取会话快照，不存在时创建
func (r *sessionRegistry) ensure(sid string) *pocketbase.AuthStore {
	r.mu.Lock()
	defer r.mu.Unlock()
	if store, ok := r.stores[sid]; ok {
		return store
	}
	store := pocketbase.NewAuthStore()
	r.stores[sid] = store
	return store
}

// lookup 获取会话快照；内存未命中时尝试从 Redis 恢复
func (r *sessionRegistry) lookup(sid string) *pocketbase.AuthStore {
	if sid == "" {
		return nil
	}

	r.mu.Lock()
	store, ok := r.stores[sid]
	r.mu.Unlock()
	if ok {
		return store
	}

	return r.restore(sid)
}

// persist 把会话写入 Redis（未启用时为空操作）
func (r *sessionRegistry) persist(sid, token string, record pocketbase.Record) {
	redisClient := platformservice.GetRedisClient()
	if redisClient == nil {
		return
	}

	data, err := json.Marshal(persistedSession{Token: token, Record: record})
	if err != nil {
		return
	}

	ttlHours := r.appService.GetInt(consts.SettingSessionTTLHours)
	if ttlHours <= 0 {
		ttlHours = 336
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := redisClient.Set(ctx, platformservice.RedisKey("session", sid), data, time.Duration(ttlHours)*time.Hour).Err(); err != nil {
		log.Printf("⚠️ 会话写入 Redis 失败: %v", err)
	}
}

// restore 尝试从 Redis 恢复会话，失败返回 nil
func (r *sessionRegistry) restore(sid string) *pocketbase.AuthStore {
	redisClient := platformservice.GetRedisClient()
	if redisClient == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	data, err := redisClient.Get(ctx, platformservice.RedisKey("session", sid)).Bytes()
	if err != nil {
		return nil
	}

	var saved persistedSession
	if err := json.Unmarshal(data, &saved); err != nil || saved.Token == "" {
		return nil
	}

	store := r.ensure(sid)
	store.Save(saved.Token, saved.Record)
	return store
}

// drop 移除会话（登出）
func (r *sessionRegistry) drop(sid string) {
	r.mu.Lock()
	delete(r.stores, sid)
	r.mu.Unlock()

	if redisClient := platformservice.GetRedisClient(); redisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = redisClient.Del(ctx, platformservice.RedisKey("session", sid)).Err()
	}
}
