package router

import (
	"net/http"
	"time"

	"househelper/api"
	"househelper/config"
	"househelper/docs"
	"househelper/logger"
	"househelper/middleware"
	"househelper/rbac"
	"househelper/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Setup 设置路由
// 全局中间件顺序：恢复、trace id、访问日志、CORS、认证，开启接口权限时再校验角色接口
func Setup(cfg *config.Config, log *zap.Logger, db *gorm.DB) (*gin.Engine, error) {
	gin.SetMode(cfg.Server.Mode)
	api.RegisterValidators()

	jwtm, err := middleware.NewJWTManager(cfg.JWT)
	if err != nil {
		return nil, err
	}
	graph := rbac.NewGraph(db)
	prefix := cfg.API.Prefix

	r := gin.New()
	r.Use(logger.GinRecovery(log), middleware.Trace(), logger.GinLogger(log))
	r.Use(cors.New(corsConfig(cfg.CORS)))
	r.Use(middleware.AuthGate(jwtm, middleware.NewDBUserResolver(db), middleware.NewWhitelist(prefix)))
	if cfg.Auth.EnforceAPIPermissions {
		r.Use(middleware.APIPermission(graph, prefix+"/users/me"))
	}

	baseHandler := api.NewBaseHandler(cfg, log)
	r.GET("/", baseHandler.Root)
	r.GET("/health", baseHandler.Health)
	r.GET("/info", baseHandler.Info)

	// OpenAPI 文档
	r.GET("/openapi.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(docs.SwaggerInfo.ReadDoc()))
	})
	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/openapi.json")))

	v1 := r.Group(prefix)

	loginLimit := middleware.LoginRateLimit(cfg.Auth.LoginRateLimit, time.Duration(cfg.Auth.LoginRateWindowSeconds)*time.Second)
	userHandler := api.NewUserHandler(cfg, log, db, jwtm,
		service.NewWechatClient(cfg.Wechat),
		service.NewEmailService(cfg.Email, cfg.Project.Name),
	)
	users := v1.Group("/users")
	{
		users.POST("/register", userHandler.Register)
		users.POST("/login", loginLimit, userHandler.Login)
		users.POST("/wxlogin", loginLimit, userHandler.WechatLogin)
		users.GET("/me", userHandler.Me)
		users.GET("/", userHandler.List)
		users.GET("/:id", userHandler.Get)
		users.PUT("/:id", userHandler.Update)
		users.DELETE("/:id", userHandler.Delete)
	}

	roleHandler := api.NewRoleHandler(cfg, log, db)
	roles := v1.Group("/roles")
	{
		roles.GET("/", roleHandler.List)
		roles.POST("/", roleHandler.Create)
		roles.GET("/:id", roleHandler.Get)
		roles.PUT("/:id", roleHandler.Update)
		roles.DELETE("/:id", roleHandler.Delete)
		roles.PUT("/:id/permissions", roleHandler.SetPermissions)
	}

	menuHandler := api.NewMenuHandler(cfg, log, db)
	menus := v1.Group("/menus")
	{
		menus.GET("/", menuHandler.List)
		menus.POST("/", menuHandler.Create)
		menus.GET("/tree", menuHandler.Tree)
		menus.GET("/:id", menuHandler.Get)
		menus.PUT("/:id", menuHandler.Update)
		menus.DELETE("/:id", menuHandler.Delete)
	}

	apiHandler := api.NewAPIHandler(cfg, log, db)
	apis := v1.Group("/apis")
	{
		apis.GET("/", apiHandler.List)
		apis.POST("/", apiHandler.Create)
		apis.GET("/:id", apiHandler.Get)
		apis.PUT("/:id", apiHandler.Update)
		apis.DELETE("/:id", apiHandler.Delete)
	}

	houseHandler := api.NewHouseTransactionHandler(cfg, log, db)
	house := v1.Group("/house-transactions")
	{
		house.GET("/", houseHandler.List)
		house.POST("/", houseHandler.Create)
		house.GET("/export", houseHandler.Export)
		house.GET("/by-city/:city", houseHandler.ByCity)
		house.GET("/:id", houseHandler.Get)
		house.PUT("/:id", houseHandler.Update)
		house.DELETE("/:id", houseHandler.Delete)
	}

	geoHandler := api.NewGeoJSONHandler(cfg, log, db)
	v1.GET("/geojson", geoHandler.List)
	v1.POST("/geojson", geoHandler.Create)
	v1.GET("/geojson/:name", geoHandler.Lookup)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Detail: "Not Found"})
	})
	return r, nil
}

// corsConfig 允许的来源包含 * 时放开全部来源
func corsConfig(cfg config.CORSConfig) cors.Config {
	cc := cors.DefaultConfig()
	cc.AllowHeaders = append(cc.AllowHeaders, "Authorization", "X-Trace-Id")
	cc.ExposeHeaders = []string{"X-Trace-Id", "Content-Disposition"}
	for _, origin := range cfg.Origins {
		if origin == "*" {
			cc.AllowAllOrigins = true
			return cc
		}
	}
	cc.AllowOrigins = cfg.Origins
	cc.AllowCredentials = true
	return cc
}
