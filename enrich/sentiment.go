package enrich

import (
	"sort"
	"strings"
	"unicode"
)

// Analyzer 是情感分析的可替换能力：分词 + 极性。
//
// 默认实现是内置词表的 LexiconAnalyzer；接入外部情感服务或更强的
// 泰文分词器时只需替换 Analyzer，排序逻辑不感知差异。
type Analyzer interface {
	// Tokenize 将文本切分为词项
	Tokenize(text string) []string

	// Polarity 返回文本极性，约定取值 [-1, 1]，0 表示中性或无法解析
	Polarity(text string) float64
}

// LexiconAnalyzer 是基于正负词表的极性分析器。
//
// 分词路径按脚本选择：含泰文字符的文本走词典最长匹配（泰文不以空格
// 分词），否则按空白切分。极性 = (命中正词数 - 命中负词数) / 命中总数。
type LexiconAnalyzer struct {
	Positive map[string]struct{}
	Negative map[string]struct{}

	// lexicon 按长度降序的全词项列表，用于泰文最长匹配
	lexicon []string
}

// NewLexiconAnalyzer 创建一个使用内置英/泰词表的分析器。
func NewLexiconAnalyzer() *LexiconAnalyzer {
	a := &LexiconAnalyzer{
		Positive: make(map[string]struct{}),
		Negative: make(map[string]struct{}),
	}
	for _, w := range defaultPositive {
		a.Positive[w] = struct{}{}
	}
	for _, w := range defaultNegative {
		a.Negative[w] = struct{}{}
	}
	a.rebuildLexicon()
	return a
}

// AddPositive / AddNegative 扩充词表（部署方可按品类追加领域词）。
func (a *LexiconAnalyzer) AddPositive(words ...string) {
	for _, w := range words {
		a.Positive[strings.ToLower(w)] = struct{}{}
	}
	a.rebuildLexicon()
}

func (a *LexiconAnalyzer) AddNegative(words ...string) {
	for _, w := range words {
		a.Negative[strings.ToLower(w)] = struct{}{}
	}
	a.rebuildLexicon()
}

func (a *LexiconAnalyzer) rebuildLexicon() {
	a.lexicon = a.lexicon[:0]
	for w := range a.Positive {
		a.lexicon = append(a.lexicon, w)
	}
	for w := range a.Negative {
		a.lexicon = append(a.lexicon, w)
	}
	// 最长匹配要求先试长词
	sort.Slice(a.lexicon, func(i, j int) bool {
		if len(a.lexicon[i]) != len(a.lexicon[j]) {
			return len(a.lexicon[i]) > len(a.lexicon[j])
		}
		return a.lexicon[i] < a.lexicon[j]
	})
}

// Tokenize 按脚本选择分词路径。
func (a *LexiconAnalyzer) Tokenize(text string) []string {
	if ContainsThai(text) {
		return a.tokenizeThai(text)
	}
	return strings.Fields(strings.ToLower(text))
}

// tokenizeThai 对泰文文本做词典最长匹配；词典外的连续字符segment成一个 token。
func (a *LexiconAnalyzer) tokenizeThai(text string) []string {
	text = strings.ToLower(text)
	var tokens []string
	var unknown []rune

	flush := func() {
		if len(unknown) > 0 {
			tokens = append(tokens, string(unknown))
			unknown = unknown[:0]
		}
	}

	runes := []rune(text)
	for i := 0; i < len(runes); {
		if unicode.IsSpace(runes[i]) {
			flush()
			i++
			continue
		}
		matched := ""
		rest := string(runes[i:])
		for _, w := range a.lexicon {
			if strings.HasPrefix(rest, w) {
				matched = w
				break
			}
		}
		if matched != "" {
			flush()
			tokens = append(tokens, matched)
			i += len([]rune(matched))
			continue
		}
		unknown = append(unknown, runes[i])
		i++
	}
	flush()
	return tokens
}

// Polarity 计算文本极性。无命中词项时返回 0。
func (a *LexiconAnalyzer) Polarity(text string) float64 {
	tokens := a.Tokenize(text)
	var pos, neg int
	for _, tok := range tokens {
		if _, ok := a.Positive[tok]; ok {
			pos++
			continue
		}
		if _, ok := a.Negative[tok]; ok {
			neg++
		}
	}
	total := pos + neg
	if total == 0 {
		return 0
	}
	return float64(pos-neg) / float64(total)
}

// ContainsThai 判断文本是否含有泰文字符（U+0E00..U+0E7F）。
func ContainsThai(text string) bool {
	for _, r := range text {
		if unicode.Is(unicode.Thai, r) {
			return true
		}
	}
	return false
}

// BucketPolarity 将连续极性 p 映射为离散情感桶：
//
//	p >  0.5        →  3
//	0 < p <= 0.5    →  1
//	-0.5 <= p < 0   → -1
//	p < -0.5        → -3
//	p == 0          →  0（中性/无法解析的评论不贡献情感）
func BucketPolarity(p float64) int {
	switch {
	case p > 0.5:
		return 3
	case p > 0:
		return 1
	case p == 0:
		return 0
	case p >= -0.5:
		return -1
	default:
		return -3
	}
}

// 内置词表：评价类应用的常见正负词（英文 + 泰文），够用即可，
// 领域词通过 AddPositive/AddNegative 追加。
var defaultPositive = []string{
	"good", "great", "excellent", "awesome", "amazing", "love", "best",
	"nice", "perfect", "wonderful", "recommend", "happy", "fast", "cheap",
	"quality", "beautiful", "fresh", "worth",
	"ดี", "ดีมาก", "สุดยอด", "เยี่ยม", "ชอบ", "ประทับใจ", "คุ้ม", "คุ้มค่า",
	"สวย", "อร่อย", "เร็ว", "แนะนำ", "ถูกใจ", "พอใจ",
}

var defaultNegative = []string{
	"bad", "terrible", "awful", "horrible", "hate", "worst", "poor",
	"slow", "broken", "expensive", "disappointed", "waste", "fake",
	"แย่", "แย่มาก", "ห่วย", "ไม่ดี", "ผิดหวัง", "แพง", "ช้า", "ปลอม",
	"ไม่คุ้ม", "ไม่แนะนำ", "เสีย",
}
