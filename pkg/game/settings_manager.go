// Package game 管理跨局保存的玩家偏好
//
// 只保存偏好（角色、电脑难度、全屏），比赛进度不做持久化。
package game

import (
	"fmt"
	"log"

	"github.com/decker502/shuttlerally/pkg/entities"
	"github.com/decker502/shuttlerally/pkg/utils"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// AppName gdata 存储使用的应用名
const AppName = "shuttlerally"

// Preferences 玩家偏好
type Preferences struct {
	CharacterIndex int     `yaml:"characterIndex"` // 角色外观序号
	Difficulty     float64 `yaml:"difficulty"`     // 电脑难度 (0,1]
	Fullscreen     bool    `yaml:"fullscreen"`     // 启动时是否全屏
}

// DefaultPreferences 返回默认偏好
func DefaultPreferences() *Preferences {
	return &Preferences{
		CharacterIndex: 0,
		Difficulty:     0.75,
		Fullscreen:     false,
	}
}

// SettingsManager 偏好管理器
// 负责偏好的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	prefs        *Preferences   // 当前偏好
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "preferences"
)

// OpenStorage 打开 gdata 存储
// 失败时返回错误，调用方可以传 nil 给 NewSettingsManager 进入降级模式
func OpenStorage() (*gdata.Manager, error) {
	if err := utils.EnsureStorageDir(); err != nil {
		return nil, fmt.Errorf("failed to prepare storage dir: %w", err)
	}
	m, err := gdata.Open(gdata.Config{AppName: AppName})
	if err != nil {
		return nil, fmt.Errorf("failed to open gdata: %w", err)
	}
	return m, nil
}

// NewSettingsManager 创建新的偏好管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存偏好）
//
// 加载失败不是致命错误，会记录日志并使用默认偏好。
func NewSettingsManager(gdataManager *gdata.Manager) *SettingsManager {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		prefs:        DefaultPreferences(),
	}

	if err := sm.Load(); err != nil {
		log.Printf("[Settings] Warning: Failed to load preferences: %v (using defaults)", err)
	}
	return sm
}

// Load 从 gdata 加载偏好
//
// gdataManager 为 nil 或没有保存过时使用默认偏好；
// 读到的数值超出范围时按合法范围修正。
func (sm *SettingsManager) Load() error {
	if sm.gdataManager == nil {
		sm.prefs = DefaultPreferences()
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.prefs = DefaultPreferences()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.prefs = DefaultPreferences()
		return fmt.Errorf("failed to load preferences: %w", err)
	}

	loaded := DefaultPreferences()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.prefs = DefaultPreferences()
		return fmt.Errorf("failed to unmarshal preferences: %w", err)
	}

	sm.prefs = loaded
	sm.SetDifficulty(loaded.Difficulty)
	sm.SetCharacterIndex(loaded.CharacterIndex)
	log.Printf("[Settings] Preferences loaded (character=%d, difficulty=%.2f)", sm.prefs.CharacterIndex, sm.prefs.Difficulty)
	return nil
}

// Save 保存偏好到 gdata
//
// gdataManager 为 nil 时返回 nil（降级模式，不报错）
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.prefs)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}

	log.Printf("[Settings] Preferences saved")
	return nil
}

// Preferences 当前偏好
func (sm *SettingsManager) Preferences() *Preferences {
	return sm.prefs
}

// Persistent 偏好是否能持久化
func (sm *SettingsManager) Persistent() bool {
	return sm.gdataManager != nil
}

// SetCharacterIndex 设置角色外观序号，负数按 0 处理
// 仅修改内存中的偏好，需调用 Save() 持久化
func (sm *SettingsManager) SetCharacterIndex(index int) {
	sm.prefs.CharacterIndex = max(0, index)
}

// SetDifficulty 设置电脑难度，限制在 [entities.MinDifficulty, 1]
// 仅修改内存中的偏好，需调用 Save() 持久化
func (sm *SettingsManager) SetDifficulty(d float64) {
	sm.prefs.Difficulty = max(entities.MinDifficulty, min(d, 1))
}

// SetFullscreen 设置全屏偏好
func (sm *SettingsManager) SetFullscreen(enabled bool) {
	sm.prefs.Fullscreen = enabled
}
