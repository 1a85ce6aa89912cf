package mysql

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/stockpile/internal/domain/inventory"
	apperrors "github.com/xiebiao/stockpile/pkg/errors"
)

// snapshotRepository 快照仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/inventory/repository.go定义的SnapshotRepository接口
// 2. 核心状态在内存里,库里永远只存"最近一次快照":
//    Save是整库替换(事务内先清后写),Load是整库读回
// 3. 负责domain实体与GORM模型之间的转换
type snapshotRepository struct {
	db *gorm.DB
	tx *TxManager
}

// NewSnapshotRepository 创建快照仓储
func NewSnapshotRepository(db *gorm.DB) inventory.SnapshotRepository {
	return &snapshotRepository{
		db: db,
		tx: NewTxManager(db),
	}
}

// Save 落盘全量快照
// 教学要点:
// 1. 清空+重写在同一个事务里,崩溃时要么是旧快照要么是新快照,不会半套
// 2. 行数与商品数同量级(单机库存几千行),整库替换比差量对账简单得多
func (r *snapshotRepository) Save(ctx context.Context, snap *inventory.Snapshot) error {
	if snap == nil {
		return apperrors.ErrInvalidParams
	}

	return r.tx.Transaction(ctx, func(ctx context.Context) error {
		db := r.getDB(ctx)

		// 1. 清空旧快照
		for _, model := range []interface{}{&ItemModel{}, &HistoryModel{}, &AlertRuleModel{}} {
			if err := db.Where("1 = 1").Delete(model).Error; err != nil {
				return apperrors.Wrap(err, "清空旧快照失败")
			}
		}

		// 2. 写入商品
		if len(snap.Items) > 0 {
			models := make([]ItemModel, 0, len(snap.Items))
			for _, item := range snap.Items {
				models = append(models, toItemModel(item))
			}
			if err := db.Create(&models).Error; err != nil {
				// 快照内编码重复说明导出方状态已坏,报业务错误而不是落半套数据
				if isDuplicateError(err) {
					return inventory.ErrDuplicateCode
				}
				return apperrors.Wrap(err, "写入商品快照失败")
			}
		}

		// 3. 写入历史(按商品内序号保序)
		var histories []HistoryModel
		for code, entries := range snap.Histories {
			for seq, entry := range entries {
				histories = append(histories, toHistoryModel(code, seq, entry, snap.TakenAt))
			}
		}
		if len(histories) > 0 {
			if err := db.Create(&histories).Error; err != nil {
				return apperrors.Wrap(err, "写入历史快照失败")
			}
		}

		// 4. 写入告警规则(Seq记录注册顺序)
		if len(snap.Rules) > 0 {
			rules := make([]AlertRuleModel, 0, len(snap.Rules))
			for seq, rule := range snap.Rules {
				rules = append(rules, toAlertRuleModel(seq, rule))
			}
			if err := db.Create(&rules).Error; err != nil {
				return apperrors.Wrap(err, "写入告警规则失败")
			}
		}

		return nil
	})
}

// Load 读回最近一次快照
// 库里没有任何数据时返回(nil, nil),调用方据此跳过恢复
func (r *snapshotRepository) Load(ctx context.Context) (*inventory.Snapshot, error) {
	var itemModels []ItemModel
	if err := r.db.WithContext(ctx).Order("code ASC").Find(&itemModels).Error; err != nil {
		return nil, apperrors.Wrap(err, "读取商品快照失败")
	}

	var historyModels []HistoryModel
	if err := r.db.WithContext(ctx).Order("code ASC, seq ASC").Find(&historyModels).Error; err != nil {
		return nil, apperrors.Wrap(err, "读取历史快照失败")
	}

	var ruleModels []AlertRuleModel
	if err := r.db.WithContext(ctx).Order("seq ASC").Find(&ruleModels).Error; err != nil {
		return nil, apperrors.Wrap(err, "读取告警规则失败")
	}

	// 空库:没有可恢复的快照
	if len(itemModels) == 0 && len(historyModels) == 0 && len(ruleModels) == 0 {
		return nil, nil
	}

	snap := &inventory.Snapshot{
		Histories: make(map[string][]*inventory.Item),
		TakenAt:   time.Now(),
	}

	for i := range itemModels {
		snap.Items = append(snap.Items, toItemEntity(&itemModels[i]))
	}

	for i := range historyModels {
		m := &historyModels[i]
		snap.Histories[m.Code] = append(snap.Histories[m.Code], toHistoryEntity(m))
	}

	// 规则已按注册顺序读出,再稳一手防止Seq重复时顺序抖动
	sort.SliceStable(ruleModels, func(i, j int) bool {
		return ruleModels[i].Seq < ruleModels[j].Seq
	})
	for i := range ruleModels {
		snap.Rules = append(snap.Rules, toAlertRuleEntity(&ruleModels[i]))
	}

	return snap, nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toItemModel 领域实体 → GORM模型
func toItemModel(item *inventory.Item) ItemModel {
	return ItemModel{
		Code:      item.Code,
		Name:      item.Name,
		Quantity:  item.Quantity,
		Price:     item.Price,
		Category:  item.Category,
		Tags:      joinTags(item.Tags),
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}

// toItemEntity GORM模型 → 领域实体
func toItemEntity(model *ItemModel) *inventory.Item {
	return &inventory.Item{
		Code:      model.Code,
		Name:      model.Name,
		Quantity:  model.Quantity,
		Price:     model.Price,
		Category:  model.Category,
		Tags:      splitTags(model.Tags),
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

// toHistoryModel 历史快照 → GORM模型
func toHistoryModel(code string, seq int, entry *inventory.Item, takenAt time.Time) HistoryModel {
	return HistoryModel{
		Code:     code,
		Seq:      seq,
		Name:     entry.Name,
		Quantity: entry.Quantity,
		Price:    entry.Price,
		Category: entry.Category,
		Tags:     joinTags(entry.Tags),
		TakenAt:  takenAt,
	}
}

// toHistoryEntity GORM模型 → 历史快照
func toHistoryEntity(model *HistoryModel) *inventory.Item {
	return &inventory.Item{
		Code:     model.Code,
		Name:     model.Name,
		Quantity: model.Quantity,
		Price:    model.Price,
		Category: model.Category,
		Tags:     splitTags(model.Tags),
	}
}

// toAlertRuleModel 告警规则 → GORM模型
func toAlertRuleModel(seq int, rule *inventory.AlertRule) AlertRuleModel {
	return AlertRuleModel{
		RuleID:    rule.ID,
		Seq:       seq,
		Code:      rule.Code,
		Category:  rule.Category,
		Field:     string(rule.Field),
		Direction: string(rule.Direction),
		Threshold: rule.Threshold,
	}
}

// toAlertRuleEntity GORM模型 → 告警规则
func toAlertRuleEntity(model *AlertRuleModel) *inventory.AlertRule {
	return &inventory.AlertRule{
		ID:        model.RuleID,
		Code:      model.Code,
		Category:  model.Category,
		Field:     inventory.AlertField(model.Field),
		Direction: inventory.AlertDirection(model.Direction),
		Threshold: model.Threshold,
	}
}

// getDB 从context获取事务DB,如果没有则使用默认DB
// 教学要点:事务传递机制
func (r *snapshotRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return r.db
}
