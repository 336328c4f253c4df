package game

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// ViewerSettings 查看器偏好设置
// 只保存窗口与输入偏好，不保存任何布局或展示状态
type ViewerSettings struct {
	Fullscreen    bool   `yaml:"fullscreen"`    // 启动时是否全屏
	SimulatedHand bool   `yaml:"simulatedHand"` // 启动时是否开启鼠标模拟手
	ShowHints     bool   `yaml:"showHints"`     // 是否显示按键提示
	LastPhotoDir  string `yaml:"lastPhotoDir"`  // 上次选择图片的目录
}

// DefaultSettings 返回默认设置
func DefaultSettings() *ViewerSettings {
	return &ViewerSettings{
		Fullscreen:    false,
		SimulatedHand: false,
		ShowHints:     true,
	}
}

// SettingsManager 设置管理器
type SettingsManager struct {
	gdataManager *gdata.Manager // 可为 nil（降级模式，仅内存设置）
	settings     *ViewerSettings
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "viewer"
)

// NewSettingsManager 创建设置管理器并尝试加载已保存的设置
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式）
func NewSettingsManager(gdataManager *gdata.Manager) *SettingsManager {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}
	if err := sm.Load(); err != nil {
		log.Printf("[SettingsManager] 加载设置失败: %v（使用默认值）", err)
	}
	return sm
}

// Load 从 gdata 加载设置，不存在时使用默认值
func (sm *SettingsManager) Load() error {
	if sm.gdataManager == nil || !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	sm.settings = loaded
	log.Printf("[SettingsManager] 设置已加载")
	return nil
}

// Save 保存设置，降级模式下直接返回 nil
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// Settings 返回当前设置
func (sm *SettingsManager) Settings() *ViewerSettings {
	return sm.settings
}

// SetFullscreen 设置全屏（仅内存，需 Save 持久化）
func (sm *SettingsManager) SetFullscreen(enabled bool) {
	sm.settings.Fullscreen = enabled
}

// SetSimulatedHand 设置鼠标模拟手开关
func (sm *SettingsManager) SetSimulatedHand(enabled bool) {
	sm.settings.SimulatedHand = enabled
}

// SetShowHints 设置按键提示开关
func (sm *SettingsManager) SetShowHints(enabled bool) {
	sm.settings.ShowHints = enabled
}

// RememberPhotoDir 记录本次选择的第一张图片所在目录
func (sm *SettingsManager) RememberPhotoDir(paths []string) {
	if len(paths) == 0 {
		return
	}
	sm.settings.LastPhotoDir = filepath.Dir(paths[0])
}
