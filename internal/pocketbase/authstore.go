package pocketbase

import (
	"sort"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// 距离过期不足 5 秒的令牌按已过期处理，避免拿着临期令牌发请求
const tokenExpiryLeeway = 5 * time.Second

// AuthStore 持有一个会话的认证快照（令牌 + 用户记录）
// 变更（登录、登出、令牌刷新）会同步通知所有订阅者
type AuthStore struct {
	mu        sync.RWMutex
	token     string
	record    Record
	nextSubID int
	subs      map[int]func(token string, record Record)
}

func NewAuthStore() *AuthStore {
	return &AuthStore{subs: make(map[int]func(token string, record Record))}
}

func (s *AuthStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *AuthStore) Record() Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.record
}

// IsValid 判断当前令牌是否存在且未过期
// 只读取 exp 声明，不校验签名：签名密钥属于后端
func (s *AuthStore) IsValid() bool {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()
	if token == "" {
		return false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.After(time.Now().Add(tokenExpiryLeeway))
}

// Save 保存新的令牌与用户记录并通知订阅者
// 登录和令牌刷新都会走这里
func (s *AuthStore) Save(token string, record Record) {
	s.mu.Lock()
	s.token = token
	s.record = record
	subs := s.snapshotSubs()
	s.mu.Unlock()

	for _, cb := range subs {
		cb(token, record)
	}
}

// Clear 清空会话并通知订阅者（record 为 nil 表示已登出）
func (s *AuthStore) Clear() {
	s.mu.Lock()
	s.token = ""
	s.record = nil
	subs := s.snapshotSubs()
	s.mu.Unlock()

	for _, cb := range subs {
		cb("", nil)
	}
}

// OnChange 订阅会话变更，返回取消订阅函数
// 每次转变（登录、登出、刷新）都会触发；取消订阅可重复调用
func (s *AuthStore) OnChange(cb func(token string, record Record)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = cb
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// snapshotSubs 拷贝订阅者列表，避免在持锁状态下回调
// 按注册顺序调用
func (s *AuthStore) snapshotSubs() []func(token string, record Record) {
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	// 订阅 id 单调递增，排序即注册顺序
	sort.Ints(ids)
	out := make([]func(token string, record Record), 0, len(ids))
	for _, id := range ids {
		out = append(out, s.subs[id])
	}
	return out
}
