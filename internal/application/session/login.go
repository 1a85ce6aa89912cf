package session

import (
	"context"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/xiebiao/stockpile/internal/infrastructure/config"
	"github.com/xiebiao/stockpile/internal/infrastructure/persistence/redis"
	apperrors "github.com/xiebiao/stockpile/pkg/errors"
	"github.com/xiebiao/stockpile/pkg/jwt"
)

// LoginUseCase 操作员登录用例
// 设计说明:
// 1. 单操作员模型:凭据来自配置(用户名+bcrypt哈希),不落数据库
// 2. 验证通过后生成JWT Token对,会话写入Redis
// 3. 密码错误和用户名错误返回同一个错误,不泄露哪一半错了
type LoginUseCase struct {
	admin        config.AdminConfig
	jwtManager   *jwt.Manager
	sessionStore *redis.SessionStore
}

// NewLoginUseCase 创建登录用例
func NewLoginUseCase(
	admin config.AdminConfig,
	jwtManager *jwt.Manager,
	sessionStore *redis.SessionStore,
) *LoginUseCase {
	return &LoginUseCase{
		admin:        admin,
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
	}
}

// Execute 执行登录
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	// 1. 校验操作员凭据
	if req.Username != uc.admin.Username {
		// 即使用户名不匹配也走一次bcrypt,拉平两种失败的响应时间
		_ = bcrypt.CompareHashAndPassword([]byte(uc.admin.PasswordHash), []byte(req.Password))
		return nil, apperrors.ErrInvalidPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(uc.admin.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperrors.ErrInvalidPassword
	}

	// 2. 生成JWT Token对
	tokenPair, err := uc.jwtManager.GenerateToken(req.Username)
	if err != nil {
		return nil, err
	}

	// 3. 保存会话到Redis
	sessionData := map[string]interface{}{
		"operator": req.Username,
		"login_at": time.Now().Unix(),
	}

	// 会话有效期 = Refresh Token有效期
	if err := uc.sessionStore.SaveSession(ctx, req.Username, sessionData, 7*24*time.Hour); err != nil {
		// 会话保存失败不影响登录,只记录日志
		log.Printf("⚠️ 会话保存失败 operator=%s: %v", req.Username, err)
	}

	// 4. 返回登录响应
	return &LoginResponse{
		Operator:     req.Username,
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	}, nil
}

// LogoutUseCase 操作员登出用例
type LogoutUseCase struct {
	sessionStore *redis.SessionStore
}

// NewLogoutUseCase 创建登出用例
func NewLogoutUseCase(sessionStore *redis.SessionStore) *LogoutUseCase {
	return &LogoutUseCase{sessionStore: sessionStore}
}

// Execute 执行登出
func (uc *LogoutUseCase) Execute(ctx context.Context, operator, accessToken string) error {
	// 1. 删除会话
	if err := uc.sessionStore.DeleteSession(ctx, operator); err != nil {
		return err
	}

	// 2. 将Access Token加入黑名单(防止Token在过期前继续使用)
	if err := uc.sessionStore.AddToBlacklist(ctx, accessToken, 2*time.Hour); err != nil {
		return err
	}

	return nil
}

// =========================================
// 应用层DTO
// =========================================

// LoginRequest 登录请求
type LoginRequest struct {
	Username string
	Password string
}

// LoginResponse 登录响应
type LoginResponse struct {
	Operator     string `json:"operator"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // Access Token过期时间(秒)
}
