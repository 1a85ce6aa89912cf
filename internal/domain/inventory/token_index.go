package inventory

import (
	"sort"
	"strings"
)

// NameTokenIndex 名称词元搜索索引
// 设计说明:
// 1. tokens维护"词元→引用它的商品编码集合",trie维护同一词集的前缀结构
// 2. 不变量:词元存在 ⟺ 至少一个在库商品的名称包含它(无孤儿词,也不缺词)
// 3. 索引只存编码,不存实体引用——商品状态以ItemStore为准
type NameTokenIndex struct {
	tokens map[string]map[string]struct{} // 词元 → 商品编码集合
	trie   *Trie
}

// NewNameTokenIndex 创建搜索索引
func NewNameTokenIndex() *NameTokenIndex {
	return &NameTokenIndex{
		tokens: make(map[string]map[string]struct{}),
		trie:   NewTrie(),
	}
}

// AddItem 登记商品的全部名称词元
// 词元不存在时同步建入映射和前缀树
func (idx *NameTokenIndex) AddItem(code string, tokens []string) {
	for _, token := range tokens {
		codes, ok := idx.tokens[token]
		if !ok {
			codes = make(map[string]struct{})
			idx.tokens[token] = codes
			idx.trie.Insert(token)
		}
		codes[code] = struct{}{}
	}
}

// RemoveItem 注销商品在给定词元下的引用
// 教学要点:按引用计数收缩——编码集合清空时才整体删除词元
// (其他商品还引用同一词元时只摘掉本商品,绝不重建词条)
func (idx *NameTokenIndex) RemoveItem(code string, tokens []string) {
	for _, token := range tokens {
		codes, ok := idx.tokens[token]
		if !ok {
			continue
		}
		delete(codes, code)
		if len(codes) == 0 {
			delete(idx.tokens, token)
			idx.trie.Remove(token)
		}
	}
}

// Retokenize 名称变更时的差量更新
// 只动变化的词元:OLD−NEW做注销,NEW−OLD做登记,交集不动
func (idx *NameTokenIndex) Retokenize(code string, oldTokens, newTokens []string) {
	newSet := make(map[string]struct{}, len(newTokens))
	for _, t := range newTokens {
		newSet[t] = struct{}{}
	}
	oldSet := make(map[string]struct{}, len(oldTokens))
	for _, t := range oldTokens {
		oldSet[t] = struct{}{}
	}

	removed := make([]string, 0, len(oldTokens))
	for _, t := range oldTokens {
		if _, ok := newSet[t]; !ok {
			removed = append(removed, t)
		}
	}
	added := make([]string, 0, len(newTokens))
	for _, t := range newTokens {
		if _, ok := oldSet[t]; !ok {
			added = append(added, t)
		}
	}

	idx.RemoveItem(code, removed)
	idx.AddItem(code, added)
}

// SearchPrefix 前缀搜索:返回名称中存在以prefix开头词元的商品编码,升序
// 无命中返回空切片(不是错误)
func (idx *NameTokenIndex) SearchPrefix(prefix string) []string {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return nil
	}

	seen := make(map[string]struct{})
	for _, token := range idx.trie.WordsWithPrefix(prefix) {
		for code := range idx.tokens[token] {
			seen[code] = struct{}{}
		}
	}

	codes := make([]string, 0, len(seen))
	for code := range seen {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// HasToken 判断词元是否在索引中(测试和一致性校验用)
func (idx *NameTokenIndex) HasToken(token string) bool {
	_, ok := idx.tokens[token]
	return ok
}

// TokenCodes 返回引用指定词元的商品编码,升序
func (idx *NameTokenIndex) TokenCodes(token string) []string {
	codes := make([]string, 0, len(idx.tokens[token]))
	for code := range idx.tokens[token] {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// TokenCount 当前词元总数(映射与前缀树必须一致)
func (idx *NameTokenIndex) TokenCount() int {
	return len(idx.tokens)
}
