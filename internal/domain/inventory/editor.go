package inventory

import (
	"math"
	"strconv"
	"strings"
)

// 编辑命令的字段标签(源自命令行语法 upc/编码 n/名称 qty/数量 p/价格)
const (
	nameLabel     = "n/"
	quantityLabel = "qty/"
	priceLabel    = "p/"
)

// EditTokenKind 编辑词的类别
type EditTokenKind int

const (
	// EditTokenName 名称字段(n/开头)
	EditTokenName EditTokenKind = iota
	// EditTokenQuantity 数量字段(qty/开头)
	EditTokenQuantity
	// EditTokenPrice 价格字段(p/开头)
	EditTokenPrice
	// EditTokenContinuation 无标签续写词(只允许续接名称)
	EditTokenContinuation
)

// EditToken 分类后的编辑词
// 设计说明:标签识别与字段变更分离成两步——
// 先把原始词分类成带标记的token流,再由ParseFieldEdits按语法求值,
// 避免续写词恰好包含标签子串时产生歧义(识别只看前缀,不看包含)
type EditToken struct {
	Kind  EditTokenKind
	Value string
}

// ClassifyEditTokens 把原始词流按前缀标签分类
// 多词名称会产生一个EditTokenName加若干EditTokenContinuation
func ClassifyEditTokens(raw []string) []EditToken {
	tokens := make([]EditToken, 0, len(raw))
	for _, word := range raw {
		switch {
		case strings.HasPrefix(word, nameLabel):
			tokens = append(tokens, EditToken{Kind: EditTokenName, Value: strings.TrimPrefix(word, nameLabel)})
		case strings.HasPrefix(word, quantityLabel):
			tokens = append(tokens, EditToken{Kind: EditTokenQuantity, Value: strings.TrimPrefix(word, quantityLabel)})
		case strings.HasPrefix(word, priceLabel):
			tokens = append(tokens, EditToken{Kind: EditTokenPrice, Value: strings.TrimPrefix(word, priceLabel)})
		default:
			tokens = append(tokens, EditToken{Kind: EditTokenContinuation, Value: word})
		}
	}
	return tokens
}

// FieldEdits 解析完成的字段编辑集(nil表示该字段不动)
type FieldEdits struct {
	Name     *string
	Quantity *int
	Price    *int64 // 分
}

// ParseFieldEdits 按编辑语法求值token流
// 语法规则:
// 1. 名称标签激活"名称续写"状态,后续无标签词空格拼接进名称
// 2. 数量/价格标签结束名称续写;值解析失败返回对应的数值错误
// 3. 名称未激活时遇到续写词,或token流为空,返回ErrMissingParameters
// 教学要点:解析在任何状态变更之前完成(parse-then-apply),
// 解析失败时主存储和全部索引保持原样
func ParseFieldEdits(tokens []EditToken) (*FieldEdits, error) {
	if len(tokens) == 0 {
		return nil, ErrMissingParameters
	}

	edits := &FieldEdits{}
	var nameParts []string
	nameActive := false

	for _, token := range tokens {
		switch token.Kind {
		case EditTokenName:
			nameParts = []string{token.Value}
			nameActive = true

		case EditTokenQuantity:
			quantity, err := parseQuantity(token.Value)
			if err != nil {
				return nil, err
			}
			edits.Quantity = &quantity
			nameActive = false

		case EditTokenPrice:
			price, err := parsePriceFen(token.Value)
			if err != nil {
				return nil, err
			}
			edits.Price = &price
			nameActive = false

		default: // EditTokenContinuation
			if !nameActive {
				return nil, ErrMissingParameters
			}
			nameParts = append(nameParts, token.Value)
		}
	}

	if nameParts != nil {
		name := strings.TrimSpace(strings.Join(nameParts, " "))
		if name == "" {
			return nil, ErrMissingParameters
		}
		edits.Name = &name
	}
	return edits, nil
}

// apply 把编辑集作用到商品上(在ApplyMutation的拷贝里执行)
func (e *FieldEdits) apply(item *Item) error {
	if e.Name != nil {
		if err := item.SetName(*e.Name); err != nil {
			return err
		}
	}
	if e.Quantity != nil {
		if err := item.SetQuantity(*e.Quantity); err != nil {
			return err
		}
	}
	if e.Price != nil {
		if err := item.SetPrice(*e.Price); err != nil {
			return err
		}
	}
	return nil
}

// parseQuantity 解析数量词:必须是非负整数
func parseQuantity(s string) (int, error) {
	quantity, err := strconv.Atoi(s)
	if err != nil || quantity < 0 {
		return 0, ErrInvalidQuantity
	}
	return quantity, nil
}

// parsePriceFen 解析价格词:十进制元,转成分
// "1.50" → 150分;负数、非数字返回ErrInvalidPrice
func parsePriceFen(s string) (int64, error) {
	yuan, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(yuan) || math.IsInf(yuan, 0) || yuan < 0 {
		return 0, ErrInvalidPrice
	}
	return int64(math.Round(yuan * 100)), nil
}
