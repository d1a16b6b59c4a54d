package textsim

import (
	"context"
	"encoding/json"
	"os"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/reviewapp/hybridrec/core"
)

// BuildOptions 是相似度索引构建的配置项。
type BuildOptions struct {
	// Vectorizer TF-IDF 向量化配置
	Vectorizer VectorizerOptions

	// ExtraDoc 可选：为帖子追加结构化特征文本（如互动量分桶），
	// 与正文/标题/分类名拼接成一个文档参与向量化
	ExtraDoc func(core.Post) string

	// Parallelism 相似度矩阵分块计算的并发度（默认 GOMAXPROCS）
	Parallelism int
}

// SimilarityIndex 是帖子全集上的稠密余弦相似度矩阵。
//
// 不做增量更新：语料变化时整体重建是正确性基线，旧索引在新索引
// 建完之前保持可服务。索引发布后不可变，并发查询无锁安全。
type SimilarityIndex struct {
	// Vectorizer 拟合后的向量化器，随索引一起持久化
	Vectorizer *Vectorizer `json:"vectorizer"`

	// PostIDs 行下标 → 帖子 ID
	PostIDs []int64 `json:"post_ids"`

	// Rows 帖子 ID → 行下标
	Rows map[int64]int `json:"rows"`

	// Matrix 对称矩阵，Matrix[i][i] == 1，取值 [-1,1]
	Matrix [][]float64 `json:"matrix"`
}

// Build 向量化帖子文本并计算两两余弦相似度。
//
// 文档 = 正文 + 标题 + 分类名（+ 可选结构化特征文本），与训练语料一致。
// 矩阵按行分块并行计算（errgroup），块之间响应 ctx 取消；
// 取消只丢弃在建索引，不产生半成品。
func Build(ctx context.Context, posts []core.Post, opts BuildOptions) (*SimilarityIndex, error) {
	idx := &SimilarityIndex{
		Vectorizer: NewVectorizer(opts.Vectorizer),
		PostIDs:    make([]int64, len(posts)),
		Rows:       make(map[int64]int, len(posts)),
	}

	docs := make([]string, len(posts))
	for i, p := range posts {
		parts := []string{p.Content, p.Title, p.Category}
		if opts.ExtraDoc != nil {
			parts = append(parts, opts.ExtraDoc(p))
		}
		docs[i] = strings.Join(parts, " ")
		idx.PostIDs[i] = p.ID
		idx.Rows[p.ID] = i
	}

	idx.Vectorizer.Fit(docs)

	vectors := make([]map[int]float64, len(docs))
	for i, doc := range docs {
		vectors[i] = idx.Vectorizer.Transform(doc)
	}

	n := len(posts)
	idx.Matrix = make([][]float64, n)
	for i := range idx.Matrix {
		idx.Matrix[i] = make([]float64, n)
	}

	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}

	// 上三角按行并行计算，结果在 Wait 之后统一回填，避免跨行写竞争
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(parallelism)

	type rowResult struct {
		row  int
		sims []float64 // 长度 n-row，sims[0] 是对角线
	}
	results := make([]rowResult, n)

	for i := 0; i < n; i++ {
		row := i
		eg.Go(func() error {
			select {
			case <-egCtx.Done():
				return egCtx.Err()
			default:
			}

			sims := make([]float64, n-row)
			sims[0] = 1 // 对角线恒为 1
			for j := row + 1; j < n; j++ {
				sims[j-row] = CosineSparse(vectors[row], vectors[j])
			}
			results[row] = rowResult{row: row, sims: sims}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	for _, r := range results {
		for off, sim := range r.sims {
			j := r.row + off
			idx.Matrix[r.row][j] = sim
			idx.Matrix[j][r.row] = sim
		}
	}

	return idx, nil
}

// Neighbors 返回与 postID 最相似的 topK 个帖子（排除自身），按相似度降序。
//
// minSim > 0 时过滤低于阈值的近邻。postID 不在索引中（例如新帖尚未
// 重建索引）时返回空列表而不是错误。
func (idx *SimilarityIndex) Neighbors(postID int64, topK int, minSim float64) []core.Neighbor {
	row, ok := idx.Rows[postID]
	if !ok {
		return nil
	}
	if topK <= 0 {
		topK = 10
	}

	neighbors := make([]core.Neighbor, 0, len(idx.PostIDs)-1)
	for j, sim := range idx.Matrix[row] {
		if j == row {
			continue
		}
		if sim < minSim {
			continue
		}
		neighbors = append(neighbors, core.Neighbor{PostID: idx.PostIDs[j], Similarity: sim})
	}

	sort.SliceStable(neighbors, func(i, j int) bool {
		return neighbors[i].Similarity > neighbors[j].Similarity
	})
	if len(neighbors) > topK {
		neighbors = neighbors[:topK]
	}
	return neighbors
}

// Size 返回索引中的帖子数量。
func (idx *SimilarityIndex) Size() int {
	return len(idx.PostIDs)
}

// Save 将索引（含向量化器）以 JSON 工件形式写入磁盘。
func (idx *SimilarityIndex) Save(path string) error {
	data, err := json.Marshal(idx)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadIndex 从磁盘加载索引工件，无需重新向量化。
func LoadIndex(path string) (*SimilarityIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var idx SimilarityIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, err
	}
	return &idx, nil
}

// 确保 SimilarityIndex 实现了 core.NeighborIndex 接口
var _ core.NeighborIndex = (*SimilarityIndex)(nil)
