package mysql

import (
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/stockpile/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 自动迁移表结构（AutoMigrate）
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	// 1. 构建DSN连接字符串
	dsn := cfg.Database.DSN()

	// 2. 配置GORM日志
	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	// 3. 连接数据库
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 4. 配置连接池
	// 学习要点：合理的连接池配置对性能至关重要
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	// 最大打开连接数（建议：CPU核数 * 2 + 磁盘数量）
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)

	// 最大空闲连接数（建议：MaxOpenConns的1/4到1/2）
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	// 连接最大存活时间（防止数据库主动断开连接）
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	// 5. 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Println("✓ 数据库连接成功")

	// 6. 自动迁移表结构（开发环境）
	// 注意：生产环境应使用专门的迁移工具（如golang-migrate）
	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// autoMigrate 自动迁移表结构
// 学习要点：
// 1. AutoMigrate只会创建表、添加字段，不会删除或修改现有字段
// 2. 生产环境应使用版本化的迁移脚本，不要依赖AutoMigrate
func autoMigrate(db *gorm.DB) error {
	// 定义需要迁移的模型
	// 注意：这里需要使用GORM的模型定义（带tag），不是domain层的实体
	return db.AutoMigrate(
		&ItemModel{},
		&HistoryModel{},
		&AlertRuleModel{},
	)
}

// ItemModel GORM商品快照模型
// 设计说明:
// 1. 这是infrastructure层的数据模型,包含GORM tag
// 2. domain/inventory/entity.go是领域实体,不依赖GORM
// 3. snapshotRepository负责两者之间的转换
// 4. 价格使用int64存储"分"为单位(避免浮点数精度问题)
// 5. 标签序列化为逗号分隔串
type ItemModel struct {
	ID        uint      `gorm:"primaryKey"`
	Code      string    `gorm:"uniqueIndex;size:64;not null;comment:商品编码"`
	Name      string    `gorm:"index;size:200;not null;comment:商品名称"`
	Quantity  int       `gorm:"not null;comment:库存数量"`
	Price     int64     `gorm:"not null;comment:单价(分)"`
	Category  string    `gorm:"index;size:100;comment:分类"`
	Tags      string    `gorm:"size:500;comment:标签(逗号分隔)"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (ItemModel) TableName() string {
	return "items"
}

// HistoryModel GORM历史快照模型
// 教学要点:
// 1. 每行是某商品一次编辑前的状态快照
// 2. Seq是该商品内的序号,按(code, seq)还原时序
// 3. 已删除商品的历史仍然保留(审计需要),所以code没有外键约束
type HistoryModel struct {
	ID       uint      `gorm:"primaryKey"`
	Code     string    `gorm:"index:idx_code_seq;size:64;not null;comment:商品编码"`
	Seq      int       `gorm:"index:idx_code_seq;not null;comment:商品内序号"`
	Name     string    `gorm:"size:200;not null;comment:编辑前名称"`
	Quantity int       `gorm:"not null;comment:编辑前数量"`
	Price    int64     `gorm:"not null;comment:编辑前单价(分)"`
	Category string    `gorm:"size:100;comment:编辑前分类"`
	Tags     string    `gorm:"size:500;comment:编辑前标签(逗号分隔)"`
	TakenAt  time.Time `gorm:"comment:快照时间"`
}

// TableName 指定表名
func (HistoryModel) TableName() string {
	return "item_histories"
}

// AlertRuleModel GORM告警规则模型
type AlertRuleModel struct {
	ID        uint      `gorm:"primaryKey"`
	RuleID    string    `gorm:"uniqueIndex;size:32;not null;comment:规则ID"`
	Seq       int       `gorm:"not null;comment:注册顺序"`
	Code      string    `gorm:"size:64;comment:商品编码(编码作用域)"`
	Category  string    `gorm:"size:100;comment:分类(分类作用域)"`
	Field     string    `gorm:"size:16;not null;comment:监控字段(quantity/price)"`
	Direction string    `gorm:"size:16;not null;comment:比较方向(at_most/at_least)"`
	Threshold int64     `gorm:"not null;comment:阈值"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
}

// TableName 指定表名
func (AlertRuleModel) TableName() string {
	return "alert_rules"
}

// =========================================
// 辅助函数:标签序列化
// =========================================

// joinTags 标签切片 → 逗号分隔串
func joinTags(tags []string) string {
	return strings.Join(tags, ",")
}

// splitTags 逗号分隔串 → 标签切片
func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
