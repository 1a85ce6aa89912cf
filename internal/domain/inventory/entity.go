package inventory

import (
	"strings"
	"time"
)

// Item 库存商品实体(聚合根)
// 设计说明:
// 1. Code是UPC商品编码,业务唯一标识,创建后不可变更
// 2. 价格使用int64存储"分"为单位(避免浮点数精度问题)
// 3. 名称是自由文本,按空格切词后进入搜索索引(见token_index.go)
// 4. 实体只通过ItemStore.ApplyMutation变更,索引层永远不持有可变引用
type Item struct {
	Code      string   // UPC编码(唯一,不可变)
	Name      string   // 商品名称(可变,自由文本)
	Quantity  int      // 库存数量(非负)
	Price     int64    // 价格(单位:分,1元=100分)
	Category  string   // 分类标签(可选)
	Tags      []string // 自定义标签集合
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewItem 创建新商品(工厂方法)
// 业务规则:
// - 编码和名称不能为空
// - 数量必须>=0,价格必须>=0
// - 标签去重,保留首次出现顺序
func NewItem(code, name string, quantity int, price int64, category string, tags []string) (*Item, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrInvalidCode
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	if price < 0 {
		return nil, ErrInvalidPrice
	}

	now := time.Now()
	return &Item{
		Code:      code,
		Name:      name,
		Quantity:  quantity,
		Price:     price,
		Category:  strings.TrimSpace(category),
		Tags:      dedupTags(tags),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Clone 深拷贝商品
// 教学要点:历史快照和对外返回值都必须是拷贝,
// 否则调用方可以绕过ItemStore直接修改实体,破坏索引一致性
func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}
	c := *i
	if i.Tags != nil {
		c.Tags = make([]string, len(i.Tags))
		copy(c.Tags, i.Tags)
	}
	return &c
}

// SetName 更新名称(领域行为)
func (i *Item) SetName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	i.Name = name
	return nil
}

// SetQuantity 更新数量
// 业务规则:数量不能为负数
func (i *Item) SetQuantity(quantity int) error {
	if quantity < 0 {
		return ErrInvalidQuantity
	}
	i.Quantity = quantity
	return nil
}

// SetPrice 更新价格(分)
// 业务规则:价格不能为负数
func (i *Item) SetPrice(price int64) error {
	if price < 0 {
		return ErrInvalidPrice
	}
	i.Price = price
	return nil
}

// HasTag 判断商品是否带有指定标签
func (i *Item) HasTag(tag string) bool {
	for _, t := range i.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// NameTokens 返回当前名称的搜索词元
func (i *Item) NameTokens() []string {
	return Tokenize(i.Name)
}

// Tokenize 名称切词规则:按空白切分,统一转小写,丢弃空词,去重
// 这是搜索索引的唯一切词入口,新旧名称必须用同一规则对比
func Tokenize(name string) []string {
	fields := strings.Fields(strings.ToLower(name))
	if len(fields) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(fields))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		tokens = append(tokens, f)
	}
	return tokens
}

// dedupTags 标签去重(保留首次出现顺序)
func dedupTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(tags))
	result := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		result = append(result, t)
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
