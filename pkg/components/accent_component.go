package components

// AccentComponent 标记星星（树顶装饰物）
type AccentComponent struct{}
