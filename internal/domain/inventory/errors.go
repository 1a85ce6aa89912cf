package inventory

import (
	apperrors "github.com/xiebiao/stockpile/pkg/errors"
)

// 库存领域错误定义
var (
	// ErrDuplicateCode 商品编码已存在
	ErrDuplicateCode = apperrors.New(apperrors.ErrCodeDuplicateCode, "商品编码已存在")

	// ErrItemNotFound 商品不存在
	ErrItemNotFound = apperrors.New(apperrors.ErrCodeItemNotFound, "商品不存在")

	// ErrInvalidCode 无效的商品编码
	ErrInvalidCode = apperrors.New(apperrors.ErrCodeInvalidParams, "商品编码不能为空")

	// ErrEmptyName 无效的商品名称
	ErrEmptyName = apperrors.New(apperrors.ErrCodeInvalidParams, "商品名称不能为空")

	// ErrInvalidQuantity 无效的数量(必须是非负整数)
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidQuantity, "数量必须是非负整数")

	// ErrInvalidPrice 无效的价格(必须是非负数)
	ErrInvalidPrice = apperrors.New(apperrors.ErrCodeInvalidPrice, "价格必须是非负数")

	// ErrMissingParameters 编辑语法错误:无标签的词没有跟在名称标签之后
	ErrMissingParameters = apperrors.New(apperrors.ErrCodeMissingParameters, "编辑参数缺失:续写词必须跟在名称标签之后")

	// ErrInvalidAlertRule 无效的告警规则
	ErrInvalidAlertRule = apperrors.New(apperrors.ErrCodeInvalidAlertRule, "无效的告警规则")

	// ErrDuplicateAlertRule 同作用域同方向的告警规则已存在
	ErrDuplicateAlertRule = apperrors.New(apperrors.ErrCodeDuplicateAlertRule, "告警规则已存在")

	// ErrAlertRuleNotFound 告警规则不存在
	ErrAlertRuleNotFound = apperrors.New(apperrors.ErrCodeAlertRuleNotFound, "告警规则不存在")

	// ErrInvalidSnapshot 快照数据非法,无法恢复
	ErrInvalidSnapshot = apperrors.New(apperrors.ErrCodeInvalidParams, "快照数据非法")

	// ErrSnapshotDisabled 未配置快照存储
	ErrSnapshotDisabled = apperrors.New(apperrors.ErrCodeBusinessError, "快照存储未启用")
)
