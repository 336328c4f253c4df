package components

// PhotoComponent 照片面板的身份与基础尺寸
//
// 照片在启动时创建、数量固定、会话内不销毁。
// 上传图片只修改基础宽高（以及渲染层的纹理），不改变索引。
type PhotoComponent struct {
	// Index 照片索引，从 0 开始
	Index int

	// BaseWidth 基础宽度 = BaseHeight × 图片宽高比
	BaseWidth float64

	// BaseHeight 基础高度（默认 52）
	BaseHeight float64

	// HasImage 是否已分配上传的图片（否则渲染占位图）
	HasImage bool
}
