//go:build !mobile

package utils

import "os"

// IsMobile 检测当前是否在移动设备上运行
// 桌面端编译时返回 false，设置 PHOTOTREE_MOBILE_EMULATE=1 可强制启用（本地调试）
func IsMobile() bool {
	return os.Getenv("PHOTOTREE_MOBILE_EMULATE") == "1"
}
