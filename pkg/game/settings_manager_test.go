package game

import (
	"testing"

	"github.com/decker502/shuttlerally/pkg/entities"
	"github.com/quasilyte/gdata/v2"
)

// openTestStorage 在临时目录中创建 gdata manager
func openTestStorage(t *testing.T) *gdata.Manager {
	t.Helper()
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", tempDir)
	t.Setenv("XDG_DATA_HOME", tempDir)

	m, err := gdata.Open(gdata.Config{AppName: "test_shuttlerally"})
	if err != nil {
		t.Fatalf("Failed to create gdata manager: %v", err)
	}
	return m
}

// TestDefaultPreferences 测试默认偏好
func TestDefaultPreferences(t *testing.T) {
	prefs := DefaultPreferences()
	if prefs.CharacterIndex != 0 {
		t.Errorf("CharacterIndex: got %d, want 0", prefs.CharacterIndex)
	}
	if prefs.Difficulty != 0.75 {
		t.Errorf("Difficulty: got %v, want 0.75", prefs.Difficulty)
	}
	if prefs.Fullscreen {
		t.Error("Fullscreen: got true, want false")
	}
}

// TestNilGdataDegrades 测试 gdataManager 为 nil 时的降级模式
func TestNilGdataDegrades(t *testing.T) {
	sm := NewSettingsManager(nil)
	if sm.Persistent() {
		t.Error("Persistent: got true, want false")
	}

	sm.SetCharacterIndex(2)
	if err := sm.Save(); err != nil {
		t.Errorf("Save() in degraded mode should not fail, got %v", err)
	}
	if err := sm.Load(); err != nil {
		t.Errorf("Load() in degraded mode should not fail, got %v", err)
	}
	// 降级模式下 Load 回到默认值
	if sm.Preferences().CharacterIndex != 0 {
		t.Errorf("CharacterIndex after Load: got %d, want 0", sm.Preferences().CharacterIndex)
	}
}

// TestPreferencesRoundTrip 测试保存后重新打开能读回偏好
func TestPreferencesRoundTrip(t *testing.T) {
	storage := openTestStorage(t)

	sm1 := NewSettingsManager(storage)
	if !sm1.Persistent() {
		t.Fatal("Persistent: got false, want true")
	}
	sm1.SetCharacterIndex(1)
	sm1.SetDifficulty(0.4)
	sm1.SetFullscreen(true)
	if err := sm1.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	sm2 := NewSettingsManager(storage)
	got := sm2.Preferences()
	if got.CharacterIndex != 1 {
		t.Errorf("CharacterIndex: got %d, want 1", got.CharacterIndex)
	}
	if got.Difficulty != 0.4 {
		t.Errorf("Difficulty: got %v, want 0.4", got.Difficulty)
	}
	if !got.Fullscreen {
		t.Error("Fullscreen: got false, want true")
	}
}

// TestCorruptPreferencesFallBack 测试存储内容损坏时回到默认偏好
func TestCorruptPreferencesFallBack(t *testing.T) {
	storage := openTestStorage(t)
	if err := storage.SaveObjectProp(settingsObject, settingsProperty, []byte("difficulty: [not a number")); err != nil {
		t.Fatalf("SaveObjectProp() error: %v", err)
	}

	sm := NewSettingsManager(storage)
	if sm.Preferences().Difficulty != 0.75 {
		t.Errorf("Difficulty: got %v, want default 0.75", sm.Preferences().Difficulty)
	}
}

// TestLoadClampsOutOfRangeValues 测试读回的越界数值被修正
func TestLoadClampsOutOfRangeValues(t *testing.T) {
	storage := openTestStorage(t)
	if err := storage.SaveObjectProp(settingsObject, settingsProperty, []byte("characterIndex: -3\ndifficulty: 7\n")); err != nil {
		t.Fatalf("SaveObjectProp() error: %v", err)
	}

	sm := NewSettingsManager(storage)
	if sm.Preferences().CharacterIndex != 0 {
		t.Errorf("CharacterIndex: got %d, want 0", sm.Preferences().CharacterIndex)
	}
	if sm.Preferences().Difficulty != 1 {
		t.Errorf("Difficulty: got %v, want 1", sm.Preferences().Difficulty)
	}
}

// TestSetDifficultyClamp 测试难度范围限制
func TestSetDifficultyClamp(t *testing.T) {
	sm := NewSettingsManager(nil)

	tests := []struct {
		input    float64
		expected float64
	}{
		{0.5, 0.5},
		{1.0, 1.0},
		{1.5, 1.0},
		{0, entities.MinDifficulty},
		{-2, entities.MinDifficulty},
	}

	for _, tt := range tests {
		sm.SetDifficulty(tt.input)
		if got := sm.Preferences().Difficulty; got != tt.expected {
			t.Errorf("SetDifficulty(%v): got %v, want %v", tt.input, got, tt.expected)
		}
	}
}
