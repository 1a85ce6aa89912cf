package dto

// LoginRequest HTTP层登录请求
// 说明:HTTP层的DTO,包含参数验证tag
type LoginRequest struct {
	Username string `json:"username" binding:"required,min=2,max=50" example:"admin"`
	Password string `json:"password" binding:"required,min=8,max=64" example:"changeme123"`
}

// LoginResponse HTTP层登录响应
type LoginResponse struct {
	Operator     string `json:"operator" example:"admin"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in" example:"7200"` // Access Token过期时间(秒)
}
