package inventory

import (
	"sort"
	"time"
)

// ItemStore 商品主存储(编码→商品映射)
// 设计说明:
// 1. ItemStore是商品状态的唯一属主,二级索引只保存编码,不保存实体引用
// 2. 所有字段变更必须通过ApplyMutation,调用方由此拿到变更前后快照做索引增量维护
// 3. 本身不加锁,原子性由上层Service的操作级互斥保证(见service.go)
type ItemStore struct {
	items map[string]*Item
}

// NewItemStore 创建商品存储
func NewItemStore() *ItemStore {
	return &ItemStore{
		items: make(map[string]*Item),
	}
}

// Insert 插入新商品
// 业务规则:编码重复返回ErrDuplicateCode,存储不变
func (s *ItemStore) Insert(item *Item) error {
	if _, ok := s.items[item.Code]; ok {
		return ErrDuplicateCode
	}
	s.items[item.Code] = item
	return nil
}

// Get 按编码查询商品(返回拷贝,只读视图)
func (s *ItemStore) Get(code string) (*Item, error) {
	item, ok := s.items[code]
	if !ok {
		return nil, ErrItemNotFound
	}
	return item.Clone(), nil
}

// Contains 判断编码是否存在
func (s *ItemStore) Contains(code string) bool {
	_, ok := s.items[code]
	return ok
}

// ApplyMutation 对商品应用一次字段变更,返回变更前快照和变更后状态
// 教学要点:这是唯一的变更入口
// 1. 变更函数作用在拷贝上,出错时原商品原样保留(天然回滚)
// 2. 成功后用拷贝整体替换,调用方用(before, after)做新旧token差量
func (s *ItemStore) ApplyMutation(code string, fn func(*Item) error) (before, after *Item, err error) {
	current, ok := s.items[code]
	if !ok {
		return nil, nil, ErrItemNotFound
	}

	updated := current.Clone()
	if err := fn(updated); err != nil {
		return nil, nil, err
	}
	updated.UpdatedAt = time.Now()

	s.items[code] = updated
	return current, updated.Clone(), nil
}

// Remove 删除商品并返回被删实体
// 注意:调用方必须先(或随后立即)清理二级索引,见Service.Remove
func (s *ItemStore) Remove(code string) (*Item, error) {
	item, ok := s.items[code]
	if !ok {
		return nil, ErrItemNotFound
	}
	delete(s.items, code)
	return item, nil
}

// Len 商品总数
func (s *ItemStore) Len() int {
	return len(s.items)
}

// All 返回全部商品拷贝,按编码升序
func (s *ItemStore) All() []*Item {
	items := make([]*Item, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item.Clone())
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Code < items[j].Code
	})
	return items
}
