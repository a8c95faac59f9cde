package api

import (
	"errors"
	"net/http"

	"househelper/apperr"
	"househelper/config"
	"househelper/middleware"
	"househelper/models"
	"househelper/service"
	"househelper/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserHandler 用户注册、登录与管理
type UserHandler struct {
	base
	db     *gorm.DB
	users  *store.Store[models.User]
	jwt    *middleware.JWTManager
	wechat *service.WechatClient
	email  *service.EmailService
}

func NewUserHandler(cfg *config.Config, log *zap.Logger, db *gorm.DB, jwtm *middleware.JWTManager, wechat *service.WechatClient, email *service.EmailService) *UserHandler {
	return &UserHandler{
		base: base{cfg: cfg, log: log},
		db:   db,
		users: store.New(db, store.Options[models.User]{
			NotFoundMessage: "用户不存在",
			ConflictMessage: "用户名或邮箱已被注册",
		}),
		jwt:    jwtm,
		wechat: wechat,
		email:  email,
	}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email,max=100"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// LoginRequest 表单登录
type LoginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// WechatLoginRequest 小程序登录，encrypted_data 与 iv 为可选的手机号加密数据
type WechatLoginRequest struct {
	Code          string                 `json:"code" binding:"required"`
	EncryptedData string                 `json:"encrypted_data"`
	IV            string                 `json:"iv"`
	UserInfo      map[string]interface{} `json:"user_info"`
}

// UserUpdateRequest 用户更新，is_active、is_superuser、role_id 仅超级管理员可修改；role_id 为 0 表示取消角色
type UserUpdateRequest struct {
	Email          *string `json:"email" binding:"omitempty,email,max=100"`
	Password       *string `json:"password" binding:"omitempty,min=6,max=72"`
	Phone          *string `json:"phone" binding:"omitempty,max=20"`
	WechatNickname *string `json:"wechat_nickname" binding:"omitempty,max=64"`
	IsActive       *bool   `json:"is_active"`
	IsSuperuser    *bool   `json:"is_superuser"`
	RoleID         *uint   `json:"role_id"`

	hashedPassword string
}

func (r UserUpdateRequest) privileged() bool {
	return r.IsActive != nil || r.IsSuperuser != nil || r.RoleID != nil
}

// Apply 实现 store.Patch
func (r UserUpdateRequest) Apply(u *models.User) []string {
	var cols []string
	if r.Email != nil {
		email := *r.Email
		u.Email = &email
		cols = append(cols, "email")
	}
	if r.hashedPassword != "" {
		u.HashedPassword = r.hashedPassword
		cols = append(cols, "hashed_password")
	}
	if r.Phone != nil {
		u.Phone = *r.Phone
		cols = append(cols, "phone")
	}
	if r.WechatNickname != nil {
		u.WechatNickname = *r.WechatNickname
		cols = append(cols, "wechat_nickname")
	}
	if r.IsActive != nil {
		u.IsActive = *r.IsActive
		cols = append(cols, "is_active")
	}
	if r.IsSuperuser != nil {
		u.IsSuperuser = *r.IsSuperuser
		cols = append(cols, "is_superuser")
	}
	if r.RoleID != nil {
		if *r.RoleID == 0 {
			u.RoleID = nil
		} else {
			roleID := *r.RoleID
			u.RoleID = &roleID
		}
		cols = append(cols, "role_id")
	}
	return cols
}

// Register 用户注册
// @Summary 用户注册
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "注册信息"
// @Success 201 {object} models.User
// @Failure 400 {object} ErrorResponse "用户名或邮箱已被注册"
// @Failure 422 {object} ErrorResponse "参数错误"
// @Router /users/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !h.bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()

	taken, err := h.users.Count(ctx, map[string]interface{}{"username": req.Username})
	if err != nil {
		h.fail(c, err)
		return
	}
	if taken > 0 {
		h.fail(c, apperr.Conflict("用户名已被注册"))
		return
	}
	taken, err = h.users.Count(ctx, map[string]interface{}{"email": req.Email})
	if err != nil {
		h.fail(c, err)
		return
	}
	if taken > 0 {
		h.fail(c, apperr.Conflict("邮箱已被注册"))
		return
	}

	hashed, err := h.hashPassword(req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	email := req.Email
	user := models.User{
		Username:       req.Username,
		Email:          &email,
		HashedPassword: hashed,
		IsActive:       true,
	}
	if err := h.users.Create(ctx, &user); err != nil {
		h.fail(c, err)
		return
	}

	if h.email != nil && h.email.Enabled() {
		if err := h.email.SendWelcomeEmail(email, user.Username); err != nil {
			h.log.Warn("发送欢迎邮件失败", zap.String("username", user.Username), zap.Error(err))
		}
	}
	c.JSON(http.StatusCreated, user)
}

// Login 用户名密码登录
// @Summary 用户登录
// @Description 表单提交 username、password，返回 Bearer 令牌
// @Tags 用户
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "用户名"
// @Param password formData string true "密码"
// @Success 200 {object} TokenResponse
// @Failure 401 {object} ErrorResponse "用户名或密码错误"
// @Router /users/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !h.bind(c, &req, c.ShouldBind) {
		return
	}

	var user models.User
	err := h.db.WithContext(c.Request.Context()).Where("username = ?", req.Username).First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		h.fail(c, apperr.Internal("登录失败", err))
		return
	}
	if err != nil || bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)) != nil {
		h.fail(c, apperr.Unauthorized("用户名或密码错误"))
		return
	}
	if !user.IsActive {
		h.fail(c, apperr.Forbidden("用户已被禁用"))
		return
	}
	h.respondToken(c, user.Username, user.ID)
}

// WechatLogin 微信小程序登录
// @Summary 微信小程序登录
// @Description 使用 wx.login 的 code 换取会话并登录，首次登录自动创建用户
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body WechatLoginRequest true "登录信息"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} ErrorResponse "微信登录失败"
// @Failure 500 {object} ErrorResponse "微信小程序未配置"
// @Router /users/wxlogin [post]
func (h *UserHandler) WechatLogin(c *gin.Context) {
	var req WechatLoginRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if h.wechat == nil || !h.wechat.Configured() {
		h.fail(c, apperr.Internal("微信小程序未配置", nil))
		return
	}

	ctx := c.Request.Context()
	session, err := h.wechat.Code2Session(ctx, req.Code)
	if err != nil {
		h.log.Warn("微信 code 换取会话失败", zap.Error(err))
		h.fail(c, apperr.External("微信登录失败", err))
		return
	}

	var phone string
	if req.EncryptedData != "" && req.IV != "" {
		info, err := service.DecryptPhoneNumber(h.wechat.AppID(), session.SessionKey, req.EncryptedData, req.IV)
		if err != nil {
			h.log.Warn("解密微信手机号失败", zap.String("openid", session.OpenID), zap.Error(err))
		} else {
			phone = info.PurePhoneNumber
		}
	}
	nickname, _ := req.UserInfo["nickName"].(string)

	user, err := h.upsertWechatUser(c, session, phone, nickname)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !user.IsActive {
		h.fail(c, apperr.Forbidden("用户已被禁用"))
		return
	}
	h.respondToken(c, *user.OpenID, user.ID)
}

// upsertWechatUser 按 openid 查找用户，不存在则创建，存在则刷新会话信息
func (h *UserHandler) upsertWechatUser(c *gin.Context, session *service.WechatSession, phone, nickname string) (*models.User, error) {
	db := h.db.WithContext(c.Request.Context())
	var user models.User
	err := db.Where("openid = ?", session.OpenID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		hashed, err := h.hashPassword(uuid.NewString())
		if err != nil {
			return nil, err
		}
		openID := session.OpenID
		user = models.User{
			Username:       "wx_" + openID,
			HashedPassword: hashed,
			IsActive:       true,
			OpenID:         &openID,
			SessionKey:     session.SessionKey,
			Phone:          phone,
			WechatNickname: nickname,
		}
		if err := h.users.Create(c.Request.Context(), &user); err != nil {
			return nil, err
		}
		return &user, nil
	}
	if err != nil {
		return nil, apperr.Internal("查询用户失败", err)
	}

	cols := []string{"session_key"}
	user.SessionKey = session.SessionKey
	if phone != "" {
		user.Phone = phone
		cols = append(cols, "phone")
	}
	if nickname != "" {
		user.WechatNickname = nickname
		cols = append(cols, "wechat_nickname")
	}
	if err := db.Model(&user).Select(cols).Updates(&user).Error; err != nil {
		return nil, apperr.Internal("更新用户失败", err)
	}
	return &user, nil
}

// Me 当前用户
// @Summary 当前用户信息
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} ErrorResponse
// @Router /users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentUser(c))
}

// List 用户列表，仅超级管理员
func (h *UserHandler) List(c *gin.Context) {
	if !middleware.CurrentUser(c).IsSuperuser {
		h.fail(c, apperr.Forbidden("权限不足"))
		return
	}
	var page store.Page
	if !h.bindQuery(c, &page) {
		return
	}
	page = page.Normalize(store.DefaultLimit)
	list, err := h.users.List(c.Request.Context(), page.Skip, page.Limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Get 用户详情，本人或超级管理员
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := h.selfOrSuperuser(c)
	if !ok {
		return
	}
	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Update 更新用户，本人或超级管理员
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := h.selfOrSuperuser(c)
	if !ok {
		return
	}
	var req UserUpdateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if req.privileged() && !middleware.CurrentUser(c).IsSuperuser {
		h.fail(c, apperr.Forbidden("权限不足，无法修改用户状态或角色"))
		return
	}

	ctx := c.Request.Context()
	db := h.db.WithContext(ctx)
	if req.Email != nil {
		var taken int64
		if err := db.Model(&models.User{}).Where("email = ? AND id <> ?", *req.Email, id).Count(&taken).Error; err != nil {
			h.fail(c, apperr.Internal("更新失败", err))
			return
		}
		if taken > 0 {
			h.fail(c, apperr.Conflict("邮箱已被注册"))
			return
		}
	}
	if req.RoleID != nil && *req.RoleID != 0 {
		var roles int64
		if err := db.Model(&models.Role{}).Where("id = ?", *req.RoleID).Count(&roles).Error; err != nil {
			h.fail(c, apperr.Internal("更新失败", err))
			return
		}
		if roles == 0 {
			h.fail(c, apperr.Validation("角色不存在"))
			return
		}
	}
	if req.Password != nil {
		hashed, err := h.hashPassword(*req.Password)
		if err != nil {
			h.fail(c, err)
			return
		}
		req.hashedPassword = hashed
	}

	user, err := h.users.Update(ctx, id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Delete 删除用户，本人或超级管理员
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := h.selfOrSuperuser(c)
	if !ok {
		return
	}
	if _, err := h.users.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) selfOrSuperuser(c *gin.Context) (uint, bool) {
	id, ok := h.parseID(c)
	if !ok {
		return 0, false
	}
	current := middleware.CurrentUser(c)
	if current.ID != id && !current.IsSuperuser {
		h.fail(c, apperr.Forbidden("权限不足"))
		return 0, false
	}
	return id, true
}

func (h *UserHandler) hashPassword(password string) (string, error) {
	cost := h.cfg.Auth.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", apperr.Internal("密码加密失败", err)
	}
	return string(hashed), nil
}

func (h *UserHandler) respondToken(c *gin.Context, subject string, userID uint) {
	token, err := h.jwt.Issue(subject, userID, 0)
	if err != nil {
		h.fail(c, apperr.Internal("生成令牌失败", err))
		return
	}
	c.JSON(http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}
