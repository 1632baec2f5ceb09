// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Scene    SceneConfig    `yaml:"scene"`
	Camera   CameraConfig   `yaml:"camera"`
	Controls ControlsConfig `yaml:"controls"`
	Light    LightConfig    `yaml:"light"`
	Portal   PortalConfig   `yaml:"portal"`
	Capture  CaptureConfig  `yaml:"capture"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// WindowConfig holds display and render target settings.
type WindowConfig struct {
	Title         string  `yaml:"title"`
	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`
	Fullscreen    bool    `yaml:"fullscreen"`
	VSync         bool    `yaml:"vsync"`
	Antialias     int     `yaml:"antialias"`       // MSAA samples, 0 disables
	MaxPixelRatio float32 `yaml:"max_pixel_ratio"` // Upper bound for device pixel ratio
}

// SceneConfig holds the model and scene-wide settings.
type SceneConfig struct {
	Model      string `yaml:"model"`       // Path or http(s) URL of a .glb/.gltf bundle
	PortalNode string `yaml:"portal_node"` // Child that receives the portal material
	ClearColor string `yaml:"clear_color"`
}

// CameraConfig holds perspective camera settings.
type CameraConfig struct {
	FOV      float32    `yaml:"fov"` // Vertical field of view in degrees
	Near     float32    `yaml:"near"`
	Far      float32    `yaml:"far"`
	Position [3]float32 `yaml:"position"`
	Target   [3]float32 `yaml:"target"`
}

// ControlsConfig holds orbit controller settings.
type ControlsConfig struct {
	Damping       bool    `yaml:"damping"`
	DampingFactor float32 `yaml:"damping_factor"`
	RotateSpeed   float32 `yaml:"rotate_speed"`
	ZoomSpeed     float32 `yaml:"zoom_speed"`
	MinDistance   float32 `yaml:"min_distance"`
	MaxDistance   float32 `yaml:"max_distance"` // 0 means unlimited
}

// LightConfig holds the directional light.
type LightConfig struct {
	Color     string     `yaml:"color"`
	Intensity float32    `yaml:"intensity"`
	Position  [3]float32 `yaml:"position"`
}

// PortalConfig holds the portal shader colors.
type PortalConfig struct {
	ColorStart string `yaml:"color_start"`
	ColorEnd   string `yaml:"color_end"`
}

// CaptureConfig holds screenshot settings.
type CaptureConfig struct {
	Dir string `yaml:"dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with the viewer's stock scene.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:         "Portal Viewer",
			Width:         1280,
			Height:        720,
			Fullscreen:    false,
			VSync:         true,
			Antialias:     4,
			MaxPixelRatio: 2,
		},
		Scene: SceneConfig{
			Model:      "ironman helmet.glb",
			PortalNode: "portal",
			ClearColor: "#000000",
		},
		Camera: CameraConfig{
			FOV:      45,
			Near:     0.1,
			Far:      100,
			Position: [3]float32{4, 6, 6},
			Target:   [3]float32{0, 0, 0},
		},
		Controls: ControlsConfig{
			Damping:       true,
			DampingFactor: 0.05,
			RotateSpeed:   1,
			ZoomSpeed:     1,
			MinDistance:   0,
			MaxDistance:   0,
		},
		Light: LightConfig{
			Color:     "#ffffff",
			Intensity: 0.8,
			Position:  [3]float32{-5, 5, 3},
		},
		Portal: PortalConfig{
			ColorStart: "#34d8eb",
			ColorEnd:   "#3489eb",
		},
		Capture: CaptureConfig{
			Dir: "screenshots",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
