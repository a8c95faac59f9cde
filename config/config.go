package config

import (
	"bytes"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "HOUSEHELPER"

// Config 应用配置，进程启动时构造一次，之后只读
type Config struct {
	Project   ProjectConfig   `mapstructure:"project"`
	Server    ServerConfig    `mapstructure:"server"`
	API       APIConfig       `mapstructure:"api"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Log       LogConfig       `mapstructure:"log"`
	Wechat    WechatConfig    `mapstructure:"wechat"`
	GeoJSON   GeoJSONConfig   `mapstructure:"geojson"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Email     EmailConfig     `mapstructure:"email"`
	Bootstrap BootstrapConfig `mapstructure:"bootstrap"`
}

// ProjectConfig 项目信息
type ProjectConfig struct {
	Name        string `mapstructure:"name"`
	Description string `mapstructure:"description"`
	Version     string `mapstructure:"version"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// APIConfig 接口路径前缀
type APIConfig struct {
	Prefix string `mapstructure:"prefix"`
}

// DatabaseConfig 数据库配置，driver 支持 mysql、postgres
type DatabaseConfig struct {
	Driver                 string `mapstructure:"driver"`
	DSN                    string `mapstructure:"dsn"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns"`
	MaxOpenConns           int    `mapstructure:"max_open_conns"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes"`
	LogSQL                 bool   `mapstructure:"log_sql"`
}

// JWTConfig JWT配置
type JWTConfig struct {
	Secret        string        `mapstructure:"secret"`
	Algorithm     string        `mapstructure:"algorithm"`
	ExpireMinutes int           `mapstructure:"expire_minutes"`
	ExpireTime    time.Duration `mapstructure:"-"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	Origins []string `mapstructure:"origins"`
}

// LogConfig 日志配置，file 为空时只输出到 stdout
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// WechatConfig 微信小程序配置
type WechatConfig struct {
	AppID     string `mapstructure:"app_id"`
	AppSecret string `mapstructure:"app_secret"`
	BaseURL   string `mapstructure:"base_url"`
}

// Configured 是否已配置小程序凭据
func (w WechatConfig) Configured() bool {
	return w.AppID != "" && w.AppSecret != ""
}

// GeoJSONConfig GeoJSON 文件目录
type GeoJSONConfig struct {
	Dir string `mapstructure:"dir"`
}

// AuthConfig 认证与权限配置
type AuthConfig struct {
	EnforceAPIPermissions  bool `mapstructure:"enforce_api_permissions"`
	BcryptCost             int  `mapstructure:"bcrypt_cost"`
	LoginRateLimit         int  `mapstructure:"login_rate_limit"`
	LoginRateWindowSeconds int  `mapstructure:"login_rate_window_seconds"`
}

// EmailConfig 邮件配置
type EmailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// BootstrapConfig 启动时创建的超级管理员，username 为空则跳过
type BootstrapConfig struct {
	Username string `mapstructure:"username"`
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

// LoadConfig 加载配置
// 优先级: 环境变量 > 外部配置文件 > 嵌入的默认配置
// configPath: 可选的外部配置文件路径
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if err := v.ReadConfig(bytes.NewReader(DefaultConfigYAML)); err != nil {
		return nil, fmt.Errorf("读取内置配置失败: %w", err)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("读取配置文件 %s 失败: %w", configPath, err)
		}
	} else {
		external := viper.New()
		external.SetConfigName("config")
		external.SetConfigType("yaml")
		external.AddConfigPath(".")
		external.AddConfigPath("./config")
		external.AddConfigPath("/etc/househelper")
		external.AddConfigPath("$HOME/.househelper")

		if err := external.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(external.AllSettings()); err != nil {
				log.Printf("警告: 合并外部配置失败: %v", err)
			}
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	cfg.normalize()
	return &cfg, nil
}

func (c *Config) normalize() {
	if c.JWT.ExpireMinutes <= 0 {
		c.JWT.ExpireMinutes = 7 * 24 * 60
	}
	c.JWT.ExpireTime = time.Duration(c.JWT.ExpireMinutes) * time.Minute
	if c.JWT.Algorithm == "" {
		c.JWT.Algorithm = "HS256"
	}
	if c.API.Prefix != "" && !strings.HasPrefix(c.API.Prefix, "/") {
		c.API.Prefix = "/" + c.API.Prefix
	}
	c.API.Prefix = strings.TrimSuffix(c.API.Prefix, "/")
	if c.Server.Port != "" && !strings.HasPrefix(c.Server.Port, ":") {
		c.Server.Port = ":" + c.Server.Port
	}
	if len(c.CORS.Origins) == 0 {
		c.CORS.Origins = []string{"*"}
	}
	if c.GeoJSON.Dir == "" {
		c.GeoJSON.Dir = "data/geojson"
	}
}

// IsRelease 是否生产模式
func (c *Config) IsRelease() bool {
	return c != nil && c.Server.Mode == "release"
}

// SafeErrorMessage 生产环境下不向客户端暴露内部错误详情
func (c *Config) SafeErrorMessage(err error, fallback string) string {
	if err == nil || c.IsRelease() {
		return fallback
	}
	return err.Error()
}

// Summary 返回隐藏敏感信息后的配置摘要，用于启动日志
func (c *Config) Summary() map[string]interface{} {
	return map[string]interface{}{
		"project":  c.Project.Name + " " + c.Project.Version,
		"port":     c.Server.Port,
		"mode":     c.Server.Mode,
		"prefix":   c.API.Prefix,
		"driver":   c.Database.Driver,
		"jwt_alg":  c.JWT.Algorithm,
		"jwt_ttl":  c.JWT.ExpireTime.String(),
		"wechat":   c.Wechat.Configured(),
		"email":    c.Email.Enabled,
		"geojson":  c.GeoJSON.Dir,
		"api_perm": c.Auth.EnforceAPIPermissions,
	}
}
