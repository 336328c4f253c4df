package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultSceneConfigIsValid(t *testing.T) {
	cfg := DefaultSceneConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("默认配置应有效: %v", err)
	}
	if cfg.Counts.Particles != 7000 || cfg.Counts.Ribbons != 600 || cfg.Counts.Photos != 12 {
		t.Errorf("默认数量错误: %+v", cfg.Counts)
	}
	if cfg.Morph.DefaultSpeed != 0.03 {
		t.Errorf("DefaultSpeed = %v, 期望 0.03", cfg.Morph.DefaultSpeed)
	}
}

// TestEmbeddedYAMLMatchesDefaults 仓库中的 data/scene.yaml 应与内置默认值一致
func TestEmbeddedYAMLMatchesDefaults(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", "data", "scene.yaml"))
	if err != nil {
		t.Skipf("data/scene.yaml 不可读: %v", err)
	}
	cfg, err := ParseSceneConfig(data, &SceneConfig{})
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	want := DefaultSceneConfig()
	if *cfg != *want {
		t.Errorf("data/scene.yaml 与 DefaultSceneConfig 不一致:\n got  %+v\n want %+v", cfg, want)
	}
}

func TestLoadSceneConfig(t *testing.T) {
	tests := []struct {
		name        string
		yamlContent string
		env         map[string]string
		wantErr     bool
		errContains string
		validate    func(*testing.T, *SceneConfig)
	}{
		{
			name: "partial override keeps defaults",
			yamlContent: `
counts:
  photos: 5
morph:
  defaultSpeed: 0.05
transition:
  fast:
    position: 300ms
`,
			validate: func(t *testing.T, cfg *SceneConfig) {
				if cfg.Counts.Photos != 5 {
					t.Errorf("photos = %d, 期望 5", cfg.Counts.Photos)
				}
				if cfg.Counts.Particles != 7000 {
					t.Errorf("particles 应保持默认 7000, got %d", cfg.Counts.Particles)
				}
				if cfg.Morph.DefaultSpeed != 0.05 {
					t.Errorf("defaultSpeed = %v, 期望 0.05", cfg.Morph.DefaultSpeed)
				}
				if cfg.Transition.Fast.Position != 300*time.Millisecond {
					t.Errorf("fast.position = %v, 期望 300ms", cfg.Transition.Fast.Position)
				}
				if cfg.Transition.Fast.Scale != 200*time.Millisecond {
					t.Errorf("fast.scale 应保持默认 200ms, got %v", cfg.Transition.Fast.Scale)
				}
			},
		},
		{
			name:        "zero morph speed rejected",
			yamlContent: "morph:\n  defaultSpeed: 0\n",
			wantErr:     true,
			errContains: "defaultSpeed",
		},
		{
			name:        "inverted tree height",
			yamlContent: "layout:\n  tree:\n    heightMin: 10\n    heightMax: -10\n",
			wantErr:     true,
			errContains: "tree height",
		},
		{
			name:        "inverted snow range",
			yamlContent: "ambient:\n  snowFloor: 600\n",
			wantErr:     true,
			errContains: "snow range",
		},
		{
			name:        "env override ambient",
			yamlContent: "",
			env:         map[string]string{"PHOTOTREE_AMBIENT_SNOW": "0"},
			validate: func(t *testing.T, cfg *SceneConfig) {
				if cfg.Ambient.Snow != 0 || cfg.Ambient.Stars != 3000 {
					t.Errorf("ambient = %+v, 期望 snow=0 stars=3000", cfg.Ambient)
				}
			},
		},
		{
			name:        "malformed yaml",
			yamlContent: "counts: [1, 2",
			wantErr:     true,
			errContains: "parse",
		},
		{
			name:        "env override",
			yamlContent: "counts:\n  photos: 5\n",
			env: map[string]string{
				"PHOTOTREE_COUNTS_PHOTOS":           "9",
				"PHOTOTREE_MORPH_BOOST_HOLD":        "500ms",
				"PHOTOTREE_GESTURE_PINCH_THRESHOLD": "0.08",
			},
			validate: func(t *testing.T, cfg *SceneConfig) {
				if cfg.Counts.Photos != 9 {
					t.Errorf("photos = %d, 期望环境变量覆盖为 9", cfg.Counts.Photos)
				}
				if cfg.Morph.BoostHold != 500*time.Millisecond {
					t.Errorf("boostHold = %v, 期望 500ms", cfg.Morph.BoostHold)
				}
				if cfg.Gesture.PinchThreshold != 0.08 {
					t.Errorf("pinchThreshold = %v, 期望 0.08", cfg.Gesture.PinchThreshold)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			path := filepath.Join(t.TempDir(), "scene.yaml")
			if err := os.WriteFile(path, []byte(tt.yamlContent), 0644); err != nil {
				t.Fatalf("failed to write temp config: %v", err)
			}

			cfg, err := LoadSceneConfig(nil, path)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q should contain %q", err.Error(), tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.validate(t, cfg)
		})
	}
}

func TestLoadSceneConfigMissingFile(t *testing.T) {
	_, err := LoadSceneConfig(nil, filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("缺失文件应返回错误")
	}
}

func TestLoadSceneConfigWithoutUserFile(t *testing.T) {
	cfg, err := LoadSceneConfig([]byte("counts:\n  ribbons: 64\n"), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Counts.Ribbons != 64 {
		t.Errorf("ribbons = %d, 期望 64", cfg.Counts.Ribbons)
	}
}

func TestTransitionProfile(t *testing.T) {
	tc := DefaultSceneConfig().Transition
	if tc.Profile(true).Position != 250*time.Millisecond {
		t.Errorf("fast position = %v", tc.Profile(true).Position)
	}
	if tc.Profile(false).Position != 1500*time.Millisecond {
		t.Errorf("normal position = %v", tc.Profile(false).Position)
	}
}
