package entity

// ExtractedEntities 从原始文本中提取出的结构化片段。
// 所有序列按文本中首次出现的顺序排列，提取完成后不再修改。
type ExtractedEntities struct {
	Claims  []string `json:"claims"`
	Dates   []string `json:"dates"`
	Numbers []string `json:"numbers"`
	Names   []string `json:"names"`
	Links   []string `json:"links"`
}

// HasLinks 是否提取到了链接
func (e ExtractedEntities) HasLinks() bool {
	return len(e.Links) > 0
}
