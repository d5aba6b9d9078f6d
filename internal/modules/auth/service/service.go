package service

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/toughbox/pocketpic/internal/model"
	"github.com/toughbox/pocketpic/internal/pocketbase"
	platformservice "github.com/toughbox/pocketpic/internal/platform/service"
)

// 认证服务：密码登录/注册、会话快照读取、会话变更订阅
// 凭据校验完全由后端完成，这里只持有会话快照

type Service struct {
	*platformservice.AppService
	client          *pocketbase.Client
	usersCollection string
	sessions        *sessionRegistry
}

func New(appService *platformservice.AppService, client *pocketbase.Client, usersCollection string) *Service {
	return &Service{
		AppService:      appService,
		client:          client,
		usersCollection: usersCollection,
		sessions:        newSessionRegistry(appService),
	}
}

// NewSessionID 生成新的会话标识
func (s *Service) NewSessionID() string {
	return uuid.New().String()
}

// StoreFor 返回会话的认证快照，未知会话返回 nil
func (s *Service) StoreFor(sid string) *pocketbase.AuthStore {
	return s.sessions.lookup(sid)
}

// Login 密码登录，成功后把令牌与用户记录写入会话
func (s *Service) Login(ctx context.Context, sid, email, password string) (*model.User, string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, "", platformservice.NewValidationError("请输入邮箱和密码")
	}

	record, token, err := s.client.AuthWithPassword(ctx, s.usersCollection, email, password)
	if err != nil {
		log.Printf("登录失败 (%s): %v", email, err)
		if respErr, ok := pocketbase.AsResponseError(err); ok {
			message := respErr.Message
			if message == "" {
				message = "登录失败"
			}
			return nil, "", platformservice.NewUnauthorizedError(message)
		}
		return nil, "", err
	}

	s.sessions.ensure(sid).Save(token, record)
	s.sessions.persist(sid, token, record)

	log.Printf("✅ 用户登录成功: %s", email)
	return model.UserFromRecord(record), token, nil
}

// Register 创建用户后立即登录
// name 缺省使用邮箱 @ 前的部分
func (s *Service) Register(ctx context.Context, sid, email, password, passwordConfirm, name string) (*model.User, string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, "", platformservice.NewValidationError("请输入邮箱和密码")
	}

	if strings.TrimSpace(name) == "" {
		name = email
		if at := strings.Index(email, "@"); at > 0 {
			name = email[:at]
		}
	}

	payload := map[string]string{
		"email":           email,
		"password":        password,
		"passwordConfirm": passwordConfirm,
		"name":            name,
	}
	if _, err := s.client.CreateRecordJSON(ctx, s.usersCollection, payload); err != nil {
		log.Printf("注册失败 (%s): %v", email, err)
		return nil, "", platformservice.NormalizeBackendError(err, "注册失败")
	}

	log.Printf("✅ 用户注册成功: %s", email)

	// 注册成功后直接走登录流程拿令牌
	return s.Login(ctx, sid, email, password)
}

// Logout 清空会话快照并通知订阅者
func (s *Service) Logout(sid string) {
	if store := s.sessions.lookup(sid); store != nil {
		store.Clear()
	}
	s.sessions.drop(sid)
	log.Println("用户已登出")
}

// IsAuthenticated 同步读取会话是否有效
func (s *Service) IsAuthenticated(sid string) bool {
	store := s.sessions.lookup(sid)
	return store != nil && store.IsValid()
}

// CurrentUser 同步读取当前用户快照，未登录返回 nil
func (s *Service) CurrentUser(sid string) *model.User {
	store := s.sessions.lookup(sid)
	if store == nil || !store.IsValid() {
		return nil
	}
	return model.UserFromRecord(store.Record())
}

// OnAuthChange 订阅会话变更（登录、登出、令牌刷新），返回取消订阅函数
// 登出时回调收到 nil
func (s *Service) OnAuthChange(sid string, cb func(user *model.User)) func() {
	store := s.sessions.ensure(sid)
	return store.OnChange(func(_ string, record pocketbase.Record) {
		cb(model.UserFromRecord(record))
	})
}
