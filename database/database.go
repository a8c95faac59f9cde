package database

import (
	"errors"
	"fmt"
	"time"

	"househelper/config"
	"househelper/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models 参与自动迁移的全部模型
var Models = []interface{}{
	&models.User{},
	&models.Role{},
	&models.Menu{},
	&models.API{},
	&models.RoleMenu{},
	&models.RoleAPI{},
	&models.HouseTransaction{},
	&models.GeoJsonData{},
}

// Dialector 根据 driver 选择 gorm 方言
func Dialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "", "mysql":
		return mysql.Open(cfg.DSN), nil
	case "postgres", "postgresql":
		return postgres.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", cfg.Driver)
	}
}

// Open 建立连接池并完成迁移与超级管理员初始化
func Open(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	dialector, err := Dialector(cfg.Database)
	if err != nil {
		return nil, err
	}

	logLevel := logger.Silent
	if cfg.Database.LogSQL {
		logLevel = logger.Info
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	if cfg.Database.ConnMaxLifetimeMinutes > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetimeMinutes) * time.Minute)
	}

	if err := db.AutoMigrate(Models...); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	if err := EnsureSuperuser(db, cfg.Bootstrap, cfg.Auth.BcryptCost); err != nil {
		return nil, err
	}

	log.Info("数据库初始化成功", zap.String("driver", cfg.Database.Driver))
	return db, nil
}

// EnsureSuperuser 按配置创建超级管理员（仅当用户名不存在时）
func EnsureSuperuser(db *gorm.DB, boot config.BootstrapConfig, cost int) error {
	if boot.Username == "" || boot.Password == "" {
		return nil
	}
	var existing models.User
	err := db.Where("username = ?", boot.Username).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("查询超级管理员失败: %w", err)
	}

	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(boot.Password), cost)
	if err != nil {
		return fmt.Errorf("密码加密失败: %w", err)
	}
	user := models.User{
		Username:       boot.Username,
		HashedPassword: string(hashed),
		IsActive:       true,
		IsSuperuser:    true,
	}
	if boot.Email != "" {
		email := boot.Email
		user.Email = &email
	}
	if err := db.Create(&user).Error; err != nil {
		return fmt.Errorf("创建超级管理员失败: %w", err)
	}
	return nil
}
