package types

// BlogPostPatch 创建与部分更新共用的请求体。没有 id 字段，请求体里的 id 会被忽略
type BlogPostPatch struct {
	Title       Optional[string]   `json:"title"`
	Excerpt     Optional[string]   `json:"excerpt"`
	Content     Optional[string]   `json:"content"`
	Tags        Optional[[]string] `json:"tags"`
	IsPublished Optional[bool]     `json:"is_published"`
}
