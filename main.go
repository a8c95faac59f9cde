package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"househelper/config"
	"househelper/database"
	"househelper/logger"
	"househelper/router"

	"go.uber.org/zap"
)

// @title House Helper API
// @version 1.0
// @description 房产数据与后台权限管理 API：用户、角色、菜单、接口权限、房产成交量与 GeoJSON
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

var (
	configFile  string
	port        string
	showVersion bool
)

func init() {
	flag.StringVar(&configFile, "config", "", "外部配置文件路径（可选）")
	flag.StringVar(&configFile, "c", "", "外部配置文件路径（简写）")
	flag.StringVar(&port, "port", "", "监听端口，如: 8000 或 :8000")
	flag.StringVar(&port, "p", "", "监听端口（简写）")
	flag.BoolVar(&showVersion, "version", false, "显示版本信息")
	flag.BoolVar(&showVersion, "v", false, "显示版本信息（简写）")
}

func main() {
	flag.Parse()

	// 加载配置（内置配置 + 可选的外部配置覆盖 + 环境变量）
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}
	if showVersion {
		fmt.Printf("%s v%s\n", cfg.Project.Name, cfg.Project.Version)
		return
	}

	// 命令行参数覆盖端口配置
	if port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
	}

	log, err := logger.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("配置加载完成", zap.Any("config", cfg.Summary()))

	db, err := database.Open(cfg, log)
	if err != nil {
		log.Fatal("数据库初始化失败", zap.Error(err))
	}

	r, err := router.Setup(cfg, log, db)
	if err != nil {
		log.Fatal("路由初始化失败", zap.Error(err))
	}

	log.Info("服务已启动",
		zap.String("addr", cfg.Server.Port),
		zap.String("api", cfg.API.Prefix),
		zap.String("docs", "/docs/index.html"),
	)
	if err := r.Run(cfg.Server.Port); err != nil {
		log.Fatal("服务器启动失败", zap.Error(err))
	}
}
