package textsim

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// VectorizerOptions 是 TF-IDF 向量化的配置项。零值使用默认值。
type VectorizerOptions struct {
	// MaxFeatures 词表上限，按语料频次截断（默认 10000）
	MaxFeatures int

	// NGramMin / NGramMax n-gram 窗口（默认 1..2，即 unigram + bigram）
	NGramMin int
	NGramMax int

	// MinDF 词项最少出现的文档数，低于该值的词被剪枝（默认 1）
	MinDF int

	// MaxDF 词项最多出现的文档比例，高于该比例的词被剪枝（默认 1.0，不剪）
	MaxDF float64
}

func (o VectorizerOptions) withDefaults() VectorizerOptions {
	if o.MaxFeatures == 0 {
		o.MaxFeatures = 10000
	}
	if o.NGramMin == 0 {
		o.NGramMin = 1
	}
	if o.NGramMax == 0 {
		o.NGramMax = 2
	}
	if o.MinDF == 0 {
		o.MinDF = 1
	}
	if o.MaxDF == 0 {
		o.MaxDF = 1.0
	}
	return o
}

// Vectorizer 是 TF-IDF 文本向量化器。
//
// 核心思想：突出"在单个文档中频繁、在语料中少见"的词项。
// idf 采用平滑形式 ln((1+N)/(1+df)) + 1，向量按 L2 归一化，
// 因此两个向量的点积即余弦相似度。
//
// Fit 之后 Vocabulary/IDF 不再变化，Transform 并发安全。
type Vectorizer struct {
	Opts VectorizerOptions `json:"opts"`

	// Vocabulary 词项 → 向量维度下标
	Vocabulary map[string]int `json:"vocabulary"`

	// IDF 每个维度的逆文档频率权重
	IDF []float64 `json:"idf"`

	// Docs 拟合语料的文档总数
	Docs int `json:"docs"`
}

// NewVectorizer 创建一个 TF-IDF 向量化器。
func NewVectorizer(opts VectorizerOptions) *Vectorizer {
	return &Vectorizer{Opts: opts.withDefaults()}
}

// Fit 在语料上构建词表与 IDF 权重。
//
// 词表构建是确定性的：候选词按（语料频次降序，字典序升序）排序后截断到
// MaxFeatures，保证固定输入下向量维度稳定，模型工件可复现。
func (v *Vectorizer) Fit(docs []string) {
	df := make(map[string]int)    // 文档频率
	tfTotal := make(map[string]int) // 语料总频次

	for _, doc := range docs {
		terms := v.ngrams(tokenize(doc))
		seen := make(map[string]struct{}, len(terms))
		for _, term := range terms {
			tfTotal[term]++
			if _, ok := seen[term]; !ok {
				seen[term] = struct{}{}
				df[term]++
			}
		}
	}

	// DF 剪枝
	maxDocs := int(v.Opts.MaxDF * float64(len(docs)))
	candidates := make([]string, 0, len(df))
	for term, n := range df {
		if n < v.Opts.MinDF {
			continue
		}
		if v.Opts.MaxDF < 1.0 && n > maxDocs {
			continue
		}
		candidates = append(candidates, term)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if tfTotal[candidates[i]] != tfTotal[candidates[j]] {
			return tfTotal[candidates[i]] > tfTotal[candidates[j]]
		}
		return candidates[i] < candidates[j]
	})
	if len(candidates) > v.Opts.MaxFeatures {
		candidates = candidates[:v.Opts.MaxFeatures]
	}

	v.Docs = len(docs)
	v.Vocabulary = make(map[string]int, len(candidates))
	v.IDF = make([]float64, len(candidates))
	for i, term := range candidates {
		v.Vocabulary[term] = i
		v.IDF[i] = math.Log(float64(1+v.Docs)/float64(1+df[term])) + 1
	}
}

// Transform 将一个文档变换为 L2 归一化的稀疏 TF-IDF 向量（维度下标 → 权重）。
// 词表外的词项被忽略；空文档返回空向量。
func (v *Vectorizer) Transform(doc string) map[int]float64 {
	vec := make(map[int]float64)
	for _, term := range v.ngrams(tokenize(doc)) {
		if idx, ok := v.Vocabulary[term]; ok {
			vec[idx] += v.IDF[idx]
		}
	}

	var norm float64
	for _, w := range vec {
		norm += w * w
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for idx := range vec {
		vec[idx] /= norm
	}
	return vec
}

// ngrams 将 token 序列展开为 NGramMin..NGramMax 的 n-gram（以空格连接）。
func (v *Vectorizer) ngrams(tokens []string) []string {
	min, max := v.Opts.NGramMin, v.Opts.NGramMax
	if min <= 1 && max <= 1 {
		return tokens
	}
	out := make([]string, 0, len(tokens)*(max-min+1))
	for n := min; n <= max; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}

// tokenize 小写化并按非字母数字切分。泰文等无空格书写的脚本会整段成为
// 单个 token，配合 bigram 仍能产生可用的重叠信号。
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// CosineSparse 计算两个稀疏向量的余弦相似度（向量已 L2 归一化时即点积）。
func CosineSparse(a, b map[int]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for idx, w := range a {
		if w2, ok := b[idx]; ok {
			dot += w * w2
		}
	}
	return dot
}
