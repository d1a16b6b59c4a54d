package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//
// 错误分层约定：
//   - 配置类错误（INVALID_INPUT / EMPTY_DATASET）：致命，直接返回调用方，不重试
//   - 上游数据错误（UPSTREAM）：可重试，由外部调用方决定重试策略
//   - 冷启动（unseen user/item）与索引缺失（post 不在相似度索引中）不是错误，
//     由各组件以兜底值处理
type DomainError struct {
	Code    string // 错误代码（如 "INVALID_INPUT", "EMPTY_DATASET"）
	Message string // 错误消息
	Module  string // 模块名称（如 "collab", "rank", "store"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// GetDomainError 获取 DomainError，如果不是则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	ErrorCodeNotFound      = "NOT_FOUND"      // 资源不存在
	ErrorCodeNotSupported  = "NOT_SUPPORTED"  // 操作不支持
	ErrorCodeUnavailable   = "UNAVAILABLE"    // 无可服务快照 / 服务不可用
	ErrorCodeInvalidInput  = "INVALID_INPUT"  // 配置或参数无效（如 alpha 越界）
	ErrorCodeEmptyDataset  = "EMPTY_DATASET"  // 训练集为空，无法产出模型
	ErrorCodeUpstream      = "UPSTREAM"       // 上游数据源不可达或数据损坏（可重试）
	ErrorCodeInternalError = "INTERNAL_ERROR" // 内部错误
)

// 模块名称常量
const (
	ModuleCollab  = "collab"  // 协同过滤模块
	ModuleTextSim = "textsim" // 内容相似度模块
	ModuleEnrich  = "enrich"  // 互动增强模块
	ModuleRank    = "rank"    // 融合排序模块
	ModuleEngine  = "engine"  // 快照引擎模块
	ModuleStore   = "store"   // 存储模块
	ModuleFeature = "feature" // 特征模块
)

func codeIs(err error, code string) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}

// IsInvalidInput 检查错误是否为配置/参数无效
func IsInvalidInput(err error) bool {
	return codeIs(err, ErrorCodeInvalidInput)
}

// IsEmptyDataset 检查错误是否为空训练集
func IsEmptyDataset(err error) bool {
	return codeIs(err, ErrorCodeEmptyDataset)
}

// IsUpstream 检查错误是否为上游数据错误（可重试）
func IsUpstream(err error) bool {
	return codeIs(err, ErrorCodeUpstream)
}

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool {
	return codeIs(err, ErrorCodeNotFound)
}

// IsUnavailable 检查错误是否为 UNAVAILABLE
func IsUnavailable(err error) bool {
	return codeIs(err, ErrorCodeUnavailable)
}
