package inventory

import "sort"

// trieNode 前缀树节点
type trieNode struct {
	children map[rune]*trieNode
	end      bool // 是否有词在此结束
}

// Trie 词元前缀树(自动补全/前缀搜索用)
// 设计说明:
// 1. 只存当前被至少一个商品引用的词元,词集必须与NameTokenIndex的key集完全一致
// 2. Remove会自底向上剪掉空分支,防止删除后残留"幽灵前缀"
type Trie struct {
	root *trieNode
	size int
}

// NewTrie 创建前缀树
func NewTrie() *Trie {
	return &Trie{root: &trieNode{children: make(map[rune]*trieNode)}}
}

// Insert 插入词元(重复插入是幂等的)
func (t *Trie) Insert(word string) {
	if word == "" {
		return
	}

	node := t.root
	for _, r := range word {
		child, ok := node.children[r]
		if !ok {
			child = &trieNode{children: make(map[rune]*trieNode)}
			node.children[r] = child
		}
		node = child
	}
	if !node.end {
		node.end = true
		t.size++
	}
}

// Remove 删除词元并剪枝
func (t *Trie) Remove(word string) {
	if word == "" {
		return
	}

	// 记录下行路径,便于回溯剪枝
	path := make([]*trieNode, 0, len(word)+1)
	runes := []rune(word)
	node := t.root
	path = append(path, node)
	for _, r := range runes {
		child, ok := node.children[r]
		if !ok {
			return // 词不存在
		}
		node = child
		path = append(path, node)
	}

	if !node.end {
		return
	}
	node.end = false
	t.size--

	// 自底向上删除既无子节点又不是词尾的节点
	for i := len(path) - 1; i > 0; i-- {
		n := path[i]
		if len(n.children) > 0 || n.end {
			break
		}
		delete(path[i-1].children, runes[i-1])
	}
}

// Contains 判断词元是否存在(完整词,不是前缀)
func (t *Trie) Contains(word string) bool {
	node := t.find(word)
	return node != nil && node.end
}

// WordsWithPrefix 返回以prefix开头的全部词元,字典序
func (t *Trie) WordsWithPrefix(prefix string) []string {
	node := t.find(prefix)
	if node == nil {
		return nil
	}

	var words []string
	collect(node, prefix, &words)
	return words
}

// Len 当前词元总数
func (t *Trie) Len() int {
	return t.size
}

// find 定位前缀对应的节点
func (t *Trie) find(prefix string) *trieNode {
	node := t.root
	for _, r := range prefix {
		child, ok := node.children[r]
		if !ok {
			return nil
		}
		node = child
	}
	return node
}

// collect 深度优先收集子树里的完整词(子节点按字符排序,保证结果确定)
func collect(node *trieNode, prefix string, words *[]string) {
	if node.end {
		*words = append(*words, prefix)
	}

	runes := make([]rune, 0, len(node.children))
	for r := range node.children {
		runes = append(runes, r)
	}
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })

	for _, r := range runes {
		collect(node.children[r], prefix+string(r), words)
	}
}
