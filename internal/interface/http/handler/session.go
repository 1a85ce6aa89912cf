package handler

import (
	"github.com/gin-gonic/gin"

	appsession "github.com/xiebiao/stockpile/internal/application/session"
	"github.com/xiebiao/stockpile/internal/interface/http/dto"
	"github.com/xiebiao/stockpile/internal/interface/http/middleware"
	"github.com/xiebiao/stockpile/pkg/response"
)

// SessionHandler 操作员会话HTTP处理器
// 设计说明：
// 1. Handler只负责HTTP相关的事情：解析请求、调用应用层、返回响应
// 2. 不包含业务逻辑（凭据校验在application层,Token在pkg/jwt）
// 3. 使用依赖注入，便于测试
type SessionHandler struct {
	loginUseCase  *appsession.LoginUseCase
	logoutUseCase *appsession.LogoutUseCase
}

// NewSessionHandler 创建会话处理器
func NewSessionHandler(
	loginUseCase *appsession.LoginUseCase,
	logoutUseCase *appsession.LogoutUseCase,
) *SessionHandler {
	return &SessionHandler{
		loginUseCase:  loginUseCase,
		logoutUseCase: logoutUseCase,
	}
}

// Login 操作员登录
// @Summary      操作员登录
// @Description  验证操作员凭据，返回JWT Token
// @Tags         会话
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "登录信息"
// @Success      200 {object} response.Response{data=dto.LoginResponse} "登录成功"
// @Failure      400 {object} response.Response "参数错误"
// @Failure      401 {object} response.Response "用户名或密码错误"
// @Router       /api/v1/session/login [post]
func (h *SessionHandler) Login(c *gin.Context) {
	// 1. 绑定并验证参数
	// 学习要点：Gin的ShouldBindJSON会自动校验binding tag
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40901, "参数错误: "+err.Error())
		return
	}

	// 2. 调用登录用例
	result, err := h.loginUseCase.Execute(c.Request.Context(), appsession.LoginRequest{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		// 登录失败（用户名或密码错误）
		response.Error(c, err)
		return
	}

	// 3. 返回成功响应（包含Token）
	response.Success(c, &dto.LoginResponse{
		Operator:     result.Operator,
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		ExpiresIn:    result.ExpiresIn,
	})
}

// Logout 操作员登出
// @Summary      操作员登出
// @Description  删除会话并将当前Token加入黑名单
// @Tags         会话
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response "登出成功"
// @Failure      401 {object} response.Response "未登录"
// @Router       /api/v1/session/logout [post]
func (h *SessionHandler) Logout(c *gin.Context) {
	operator := middleware.MustGetOperator(c)
	token := middleware.GetAccessToken(c)

	if err := h.logoutUseCase.Execute(c.Request.Context(), operator, token); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
