package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix 环境变量覆盖前缀，例如 PHOTOTREE_MORPH_DEFAULT_SPEED=0.05
const EnvPrefix = "PHOTOTREE_"

// SceneConfig 场景配置
//
// 包含粒子/丝带/照片数量、各状态布局的几何常量、补间时长、
// 收敛速度以及手势阈值。
//
// 配置文件位置: data/scene.yaml（内嵌默认值，可用 --config 覆盖）
type SceneConfig struct {
	Counts     CountsConfig     `yaml:"counts" envPrefix:"COUNTS_"`
	Layout     LayoutConfig     `yaml:"layout"`
	Transition TransitionConfig `yaml:"transition" envPrefix:"TRANSITION_"`
	Morph      MorphConfig      `yaml:"morph" envPrefix:"MORPH_"`
	Gesture    GestureConfig    `yaml:"gesture" envPrefix:"GESTURE_"`
	Camera     CameraConfig     `yaml:"camera" envPrefix:"CAMERA_"`
	Photo      PhotoConfig      `yaml:"photo" envPrefix:"PHOTO_"`
	Spin       SpinConfig       `yaml:"spin" envPrefix:"SPIN_"`
	Ambient    AmbientConfig    `yaml:"ambient" envPrefix:"AMBIENT_"`
}

// CountsConfig 对象数量
type CountsConfig struct {
	Particles int `yaml:"particles" env:"PARTICLES"`
	Ribbons   int `yaml:"ribbons" env:"RIBBONS"`
	Photos    int `yaml:"photos" env:"PHOTOS"`
}

// Vec3 三维向量（YAML 中写作 [x, y, z]）
type Vec3 [3]float64

// AccentTarget 星星（装饰物）的目标位置与统一缩放
type AccentTarget struct {
	Position Vec3    `yaml:"position"`
	Scale    float64 `yaml:"scale"`
}

// LayoutConfig 各状态布局的几何常量
type LayoutConfig struct {
	Tree     TreeLayoutConfig     `yaml:"tree"`
	Carousel CarouselLayoutConfig `yaml:"carousel"`
	Chaos    ChaosLayoutConfig    `yaml:"chaos"`
	Focus    FocusLayoutConfig    `yaml:"focus"`
}

// TreeLayoutConfig 树形布局
type TreeLayoutConfig struct {
	// 粒子锥体：高度均匀分布在 [HeightMin, HeightMax)，底部半径 BaseRadius，顶点收缩为 0
	HeightMin  float64 `yaml:"heightMin"`
	HeightMax  float64 `yaml:"heightMax"`
	BaseRadius float64 `yaml:"baseRadius"`

	// 丝带螺旋：角度 = t·RibbonTurns·2π，高度 = t·RibbonHeight - RibbonHeight/2
	RibbonTurns      float64 `yaml:"ribbonTurns"`
	RibbonHeight     float64 `yaml:"ribbonHeight"`
	RibbonBaseRadius float64 `yaml:"ribbonBaseRadius"`
	RibbonMinRadius  float64 `yaml:"ribbonMinRadius"`

	// 照片螺旋（更松散）
	PhotoTurns      float64 `yaml:"photoTurns"`
	PhotoHeight     float64 `yaml:"photoHeight"`
	PhotoBaseRadius float64 `yaml:"photoBaseRadius"`
	PhotoMinRadius  float64 `yaml:"photoMinRadius"`
	PhotoTilt       float64 `yaml:"photoTilt"`
	PhotoScale      float64 `yaml:"photoScale"`

	Accent AccentTarget `yaml:"accent"`
}

// CarouselLayoutConfig 环形画廊布局
type CarouselLayoutConfig struct {
	ParticleBox Vec3         `yaml:"particleBox"`
	RibbonBox   Vec3         `yaml:"ribbonBox"`
	PhotoRadius float64      `yaml:"photoRadius"`
	PhotoScale  float64      `yaml:"photoScale"`
	Accent      AccentTarget `yaml:"accent"`
}

// ChaosLayoutConfig 混沌布局
type ChaosLayoutConfig struct {
	ParticleBox   Vec3         `yaml:"particleBox"`
	RibbonBox     Vec3         `yaml:"ribbonBox"`
	PhotoBox      Vec3         `yaml:"photoBox"`
	PhotoScaleMin float64      `yaml:"photoScaleMin"`
	PhotoScaleMax float64      `yaml:"photoScaleMax"`
	Accent        AccentTarget `yaml:"accent"`
}

// FocusLayoutConfig 聚焦布局（在切换时动态计算）
type FocusLayoutConfig struct {
	Distance     float64 `yaml:"distance"`
	Scale        float64 `yaml:"scale"`
	HiddenScale  float64 `yaml:"hiddenScale"`
	HiddenSpread float64 `yaml:"hiddenSpread"`
	HiddenDepth  float64 `yaml:"hiddenDepth"`
}

// DurationProfile 一次切换中各类补间的时长
type DurationProfile struct {
	SceneRotation time.Duration `yaml:"sceneRotation"`
	GroupRotation time.Duration `yaml:"groupRotation"`
	Position      time.Duration `yaml:"position"`
	Rotation      time.Duration `yaml:"rotation"`
	Scale         time.Duration `yaml:"scale"`
	Accent        time.Duration `yaml:"accent"`
}

// TransitionConfig 普通/快速两套时长
type TransitionConfig struct {
	Normal DurationProfile `yaml:"normal"`
	Fast   DurationProfile `yaml:"fast"`
}

// MorphConfig 粒子/丝带指数收敛参数
type MorphConfig struct {
	DefaultSpeed float64       `yaml:"defaultSpeed" env:"DEFAULT_SPEED"`
	BoostSpeed   float64       `yaml:"boostSpeed" env:"BOOST_SPEED"`
	BoostHold    time.Duration `yaml:"boostHold" env:"BOOST_HOLD"`
}

// GestureConfig 手势分类与触发策略参数
type GestureConfig struct {
	ThumbOpenDistance float64       `yaml:"thumbOpenDistance" env:"THUMB_OPEN_DISTANCE"`
	PinchThreshold    float64       `yaml:"pinchThreshold" env:"PINCH_THRESHOLD"`
	PinchCooldown     time.Duration `yaml:"pinchCooldown" env:"PINCH_COOLDOWN"`
	ActionDebounce    time.Duration `yaml:"actionDebounce" env:"ACTION_DEBOUNCE"`
	PollInterval      time.Duration `yaml:"pollInterval" env:"POLL_INTERVAL"`
	OpenHandMin       int           `yaml:"openHandMin" env:"OPEN_HAND_MIN"`
	ClosedHandMax     int           `yaml:"closedHandMax" env:"CLOSED_HAND_MAX"`
	RotationEase      float64       `yaml:"rotationEase" env:"ROTATION_EASE"`
	YawRange          float64       `yaml:"yawRange" env:"YAW_RANGE"`
	TreeTiltRange     float64       `yaml:"treeTiltRange" env:"TREE_TILT_RANGE"`
	ChaosTiltRange    float64       `yaml:"chaosTiltRange" env:"CHAOS_TILT_RANGE"`
}

// CameraConfig 相机参数
type CameraConfig struct {
	Position        Vec3    `yaml:"position"`
	Target          Vec3    `yaml:"target"`
	FOV             float64 `yaml:"fov" env:"FOV"`
	Near            float64 `yaml:"near" env:"NEAR"`
	Far             float64 `yaml:"far" env:"FAR"`
	AutoRotateSpeed float64 `yaml:"autoRotateSpeed" env:"AUTO_ROTATE_SPEED"`
}

// PhotoConfig 照片基础尺寸
type PhotoConfig struct {
	BaseHeight    float64 `yaml:"baseHeight" env:"BASE_HEIGHT"`
	DefaultAspect float64 `yaml:"defaultAspect" env:"DEFAULT_ASPECT"`
}

// AmbientConfig 背景星空与飘雪，与展示状态无关
type AmbientConfig struct {
	Stars     int     `yaml:"stars" env:"STARS"`
	StarBox   Vec3    `yaml:"starBox"`
	StarDrift float64 `yaml:"starDrift" env:"STAR_DRIFT"`

	Snow        int     `yaml:"snow" env:"SNOW"`
	SnowBox     Vec3    `yaml:"snowBox"`
	SnowLift    float64 `yaml:"snowLift"`
	SnowFall    float64 `yaml:"snowFall" env:"SNOW_FALL"`
	SnowFloor   float64 `yaml:"snowFloor"`
	SnowCeiling float64 `yaml:"snowCeiling"`
	SnowSway    float64 `yaml:"snowSway" env:"SNOW_SWAY"`
}

// SpinConfig 无手势时照片组每帧自转角度（弧度）
type SpinConfig struct {
	Carousel float64 `yaml:"carousel" env:"CAROUSEL"`
	Chaos    float64 `yaml:"chaos" env:"CHAOS"`
}

// DefaultSceneConfig 返回内置默认配置
func DefaultSceneConfig() *SceneConfig {
	return &SceneConfig{
		Counts: CountsConfig{Particles: 7000, Ribbons: 600, Photos: 12},
		Layout: LayoutConfig{
			Tree: TreeLayoutConfig{
				HeightMin:        -300,
				HeightMax:        300,
				BaseRadius:       240,
				RibbonTurns:      9,
				RibbonHeight:     560,
				RibbonBaseRadius: 250,
				RibbonMinRadius:  10,
				PhotoTurns:       2.5,
				PhotoHeight:      450,
				PhotoBaseRadius:  260,
				PhotoMinRadius:   30,
				PhotoTilt:        0.2,
				PhotoScale:       0.5,
				Accent:           AccentTarget{Position: Vec3{0, 320, 0}, Scale: 1},
			},
			Carousel: CarouselLayoutConfig{
				ParticleBox: Vec3{1500, 1200, 1500},
				RibbonBox:   Vec3{1200, 1200, 1200},
				PhotoRadius: 320,
				PhotoScale:  1.0,
				Accent:      AccentTarget{Position: Vec3{0, 800, 0}, Scale: 0.1},
			},
			Chaos: ChaosLayoutConfig{
				ParticleBox:   Vec3{600, 500, 600},
				RibbonBox:     Vec3{500, 500, 500},
				PhotoBox:      Vec3{800, 600, 800},
				PhotoScaleMin: 0.5,
				PhotoScaleMax: 1.5,
				Accent:        AccentTarget{Position: Vec3{0, 600, 0}, Scale: 0.1},
			},
			Focus: FocusLayoutConfig{
				Distance:     200,
				Scale:        4.0,
				HiddenScale:  0.1,
				HiddenSpread: 1500,
				HiddenDepth:  -1000,
			},
		},
		Transition: TransitionConfig{
			Normal: DurationProfile{
				SceneRotation: 1000 * time.Millisecond,
				GroupRotation: 800 * time.Millisecond,
				Position:      1500 * time.Millisecond,
				Rotation:      1500 * time.Millisecond,
				Scale:         1500 * time.Millisecond,
				Accent:        1500 * time.Millisecond,
			},
			Fast: DurationProfile{
				SceneRotation: 200 * time.Millisecond,
				GroupRotation: 200 * time.Millisecond,
				Position:      250 * time.Millisecond,
				Rotation:      200 * time.Millisecond,
				Scale:         200 * time.Millisecond,
				Accent:        200 * time.Millisecond,
			},
		},
		Morph: MorphConfig{
			DefaultSpeed: 0.03,
			BoostSpeed:   0.2,
			BoostHold:    300 * time.Millisecond,
		},
		Gesture: GestureConfig{
			ThumbOpenDistance: 0.28,
			PinchThreshold:    0.05,
			PinchCooldown:     400 * time.Millisecond,
			ActionDebounce:    250 * time.Millisecond,
			PollInterval:      20 * time.Millisecond,
			OpenHandMin:       4,
			ClosedHandMax:     1,
			RotationEase:      0.08,
			YawRange:          8.0,
			TreeTiltRange:     1.5,
			ChaosTiltRange:    8.0,
		},
		Camera: CameraConfig{
			Position:        Vec3{0, 50, 650},
			Target:          Vec3{0, 0, 0},
			FOV:             75,
			Near:            0.1,
			Far:             3000,
			AutoRotateSpeed: 0.8,
		},
		Photo: PhotoConfig{
			BaseHeight:    52,
			DefaultAspect: 1.0,
		},
		Spin: SpinConfig{
			Carousel: 0.006,
			Chaos:    0.002,
		},
		Ambient: AmbientConfig{
			Stars:       3000,
			StarBox:     Vec3{2500, 1800, 2500},
			StarDrift:   0.2,
			Snow:        2000,
			SnowBox:     Vec3{2000, 2000, 2000},
			SnowLift:    500,
			SnowFall:    0.5,
			SnowFloor:   -500,
			SnowCeiling: 500,
			SnowSway:    0.1,
		},
	}
}

// ParseSceneConfig 在默认配置之上叠加 YAML 内容
// 未出现在 YAML 中的字段保持默认值
func ParseSceneConfig(data []byte, base *SceneConfig) (*SceneConfig, error) {
	cfg := base
	if cfg == nil {
		cfg = DefaultSceneConfig()
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse scene config: %w", err)
	}
	return cfg, nil
}

// LoadSceneConfig 加载场景配置
//
// 加载顺序：内置默认值 → defaults（内嵌的 data/scene.yaml，可为 nil）
// → path 指定的用户文件（可为空）→ PHOTOTREE_* 环境变量，最后统一校验。
//
// 参数:
//   - defaults: 内嵌默认 YAML 内容，为 nil 时只使用内置默认值
//   - path: 用户配置文件路径，为空时跳过
//
// 返回:
//   - *SceneConfig: 合并后的配置
//   - error: 读取、解析或校验失败时返回错误
func LoadSceneConfig(defaults []byte, path string) (*SceneConfig, error) {
	cfg := DefaultSceneConfig()

	if len(defaults) > 0 {
		if _, err := ParseSceneConfig(defaults, cfg); err != nil {
			return nil, fmt.Errorf("embedded defaults: %w", err)
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read scene config: %w", err)
		}
		if _, err := ParseSceneConfig(data, cfg); err != nil {
			return nil, err
		}
		log.Printf("[Config] 加载场景配置: %s", path)
	}

	if err := ApplyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scene config: %w", err)
	}
	return cfg, nil
}

// ApplyEnvOverrides 使用 PHOTOTREE_* 环境变量覆盖标量配置
func ApplyEnvOverrides(cfg *SceneConfig) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate 验证配置有效性
//
// 检查：
//   - 数量必须为正（照片数量允许为 0，此时最近照片查询返回 -1）
//   - 收敛速度必须在 (0, 1]，否则粒子会冻结或发散
//   - 各范围的 min 不大于 max
//   - 时长不为负
func (c *SceneConfig) Validate() error {
	if c.Counts.Particles <= 0 {
		return fmt.Errorf("particle count must be > 0, got %d", c.Counts.Particles)
	}
	if c.Counts.Ribbons <= 0 {
		return fmt.Errorf("ribbon count must be > 0, got %d", c.Counts.Ribbons)
	}
	if c.Counts.Photos < 0 {
		return fmt.Errorf("photo count must be >= 0, got %d", c.Counts.Photos)
	}

	if !validMorphSpeed(c.Morph.DefaultSpeed) {
		return fmt.Errorf("morph defaultSpeed must be in (0, 1], got %v", c.Morph.DefaultSpeed)
	}
	if !validMorphSpeed(c.Morph.BoostSpeed) {
		return fmt.Errorf("morph boostSpeed must be in (0, 1], got %v", c.Morph.BoostSpeed)
	}
	if c.Morph.BoostHold < 0 {
		return fmt.Errorf("morph boostHold must be >= 0, got %v", c.Morph.BoostHold)
	}

	tree := c.Layout.Tree
	if tree.HeightMin >= tree.HeightMax {
		return fmt.Errorf("tree height range invalid: min(%.1f) >= max(%.1f)", tree.HeightMin, tree.HeightMax)
	}
	chaos := c.Layout.Chaos
	if chaos.PhotoScaleMin > chaos.PhotoScaleMax {
		return fmt.Errorf("chaos photo scale range invalid: min(%.2f) > max(%.2f)", chaos.PhotoScaleMin, chaos.PhotoScaleMax)
	}

	for name, p := range map[string]DurationProfile{"normal": c.Transition.Normal, "fast": c.Transition.Fast} {
		for _, d := range []time.Duration{p.SceneRotation, p.GroupRotation, p.Position, p.Rotation, p.Scale, p.Accent} {
			if d < 0 {
				return fmt.Errorf("%s transition durations must be >= 0", name)
			}
		}
	}

	if c.Photo.BaseHeight <= 0 {
		return fmt.Errorf("photo baseHeight must be > 0, got %v", c.Photo.BaseHeight)
	}
	if c.Photo.DefaultAspect <= 0 {
		return fmt.Errorf("photo defaultAspect must be > 0, got %v", c.Photo.DefaultAspect)
	}
	if c.Ambient.Stars < 0 || c.Ambient.Snow < 0 {
		return fmt.Errorf("ambient counts must be >= 0, got stars=%d snow=%d", c.Ambient.Stars, c.Ambient.Snow)
	}
	if c.Ambient.SnowFloor >= c.Ambient.SnowCeiling {
		return fmt.Errorf("snow range invalid: floor(%.1f) >= ceiling(%.1f)", c.Ambient.SnowFloor, c.Ambient.SnowCeiling)
	}
	if c.Gesture.PollInterval < 0 {
		return fmt.Errorf("gesture pollInterval must be >= 0, got %v", c.Gesture.PollInterval)
	}
	return nil
}

// Profile 返回 fast 对应的时长配置
func (t TransitionConfig) Profile(fast bool) DurationProfile {
	if fast {
		return t.Fast
	}
	return t.Normal
}

func validMorphSpeed(v float64) bool {
	return v > 0 && v <= 1
}
