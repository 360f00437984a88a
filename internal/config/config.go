// Package config provides centralized configuration for the control stack.
// This is the SINGLE SOURCE OF TRUTH for network endpoints, team color, and
// run-mode settings, following the teacher's config.Load() convention: one
// place builds defaults, overridden by environment variables (CLI flag
// parsing itself lives outside this module, per spec.md §1).
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// =============================================================================
// COMMON CONFIGURATION
// =============================================================================

// CommonConfig holds the flags every binary in the stack shares.
type CommonConfig struct {
	TeamColor string // "blue" or "yellow"
	Real      bool   // true = physical base station, false = simulator
	EnableGC  bool   // consume referee (game controller) packets
	LogLevel  string
	LogStyle  string
}

// DefaultCommon returns the teacher-style hardcoded defaults.
func DefaultCommon() CommonConfig {
	return CommonConfig{
		TeamColor: "blue",
		Real:      false,
		EnableGC:  true,
		LogLevel:  "info",
		LogStyle:  "auto",
	}
}

// CommonFromEnv overlays CRABE_* environment variables onto the defaults,
// per spec.md §6: "CRABE_LOG_LEVEL sets the log level; CRABE_LOG_STYLE sets
// terminal color style."
func CommonFromEnv() CommonConfig {
	cfg := DefaultCommon()
	if v := os.Getenv("CRABE_TEAM_COLOR"); v != "" {
		cfg.TeamColor = v
	}
	if v := os.Getenv("CRABE_REAL"); v != "" {
		cfg.Real = v == "true"
	}
	if v := os.Getenv("CRABE_ENABLE_GC"); v != "" {
		cfg.EnableGC = v != "false"
	}
	if v := os.Getenv("CRABE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("CRABE_LOG_STYLE"); v != "" {
		cfg.LogStyle = v
	}
	return cfg
}

// =============================================================================
// INPUT (VISION / TRACKER / GAME CONTROLLER) CONFIGURATION
// =============================================================================

// MulticastConfig is one multicast UDP source's address.
type MulticastConfig struct {
	IP   string
	Port int
}

// VisionConfig configures the SSL-Vision multicast receiver.
type VisionConfig struct {
	Multicast MulticastConfig
}

func DefaultVision() VisionConfig {
	return VisionConfig{Multicast: MulticastConfig{IP: "224.5.23.2", Port: 10006}}
}

func VisionFromEnv() VisionConfig {
	cfg := DefaultVision()
	if v := os.Getenv("CRABE_VISION_IP"); v != "" {
		cfg.Multicast.IP = v
	}
	if p := getEnvInt("CRABE_VISION_PORT", 0); p > 0 {
		cfg.Multicast.Port = p
	}
	return cfg
}

// TrackerConfig configures the optional external-tracker receiver.
type TrackerConfig struct {
	Enabled   bool
	Multicast MulticastConfig
}

func DefaultTracker() TrackerConfig {
	return TrackerConfig{Enabled: false, Multicast: MulticastConfig{IP: "224.5.23.2", Port: 10010}}
}

func TrackerFromEnv() TrackerConfig {
	cfg := DefaultTracker()
	if v := os.Getenv("CRABE_TRACKER_ENABLED"); v != "" {
		cfg.Enabled = v == "true"
	}
	if v := os.Getenv("CRABE_TRACKER_IP"); v != "" {
		cfg.Multicast.IP = v
	}
	if p := getEnvInt("CRABE_TRACKER_PORT", 0); p > 0 {
		cfg.Multicast.Port = p
	}
	return cfg
}

// GameControllerConfig configures the SSL referee multicast receiver.
type GameControllerConfig struct {
	Multicast MulticastConfig
}

func DefaultGameController() GameControllerConfig {
	return GameControllerConfig{Multicast: MulticastConfig{IP: "224.5.23.1", Port: 10003}}
}

func GameControllerFromEnv() GameControllerConfig {
	cfg := DefaultGameController()
	if v := os.Getenv("CRABE_GC_IP"); v != "" {
		cfg.Multicast.IP = v
	}
	if p := getEnvInt("CRABE_GC_PORT", 0); p > 0 {
		cfg.Multicast.Port = p
	}
	return cfg
}

// =============================================================================
// OUTPUT CONFIGURATION
// =============================================================================

// SimulatorOutputConfig configures the grSim-style UDP unicast output.
type SimulatorOutputConfig struct {
	Host      string
	BluePort  int
	YellowPort int
}

func DefaultSimulatorOutput() SimulatorOutputConfig {
	return SimulatorOutputConfig{Host: "127.0.0.1", BluePort: 10301, YellowPort: 10302}
}

func SimulatorOutputFromEnv() SimulatorOutputConfig {
	cfg := DefaultSimulatorOutput()
	if v := os.Getenv("CRABE_SIM_HOST"); v != "" {
		cfg.Host = v
	}
	if p := getEnvInt("CRABE_SIM_BLUE_PORT", 0); p > 0 {
		cfg.BluePort = p
	}
	if p := getEnvInt("CRABE_SIM_YELLOW_PORT", 0); p > 0 {
		cfg.YellowPort = p
	}
	return cfg
}

// RealOutputConfig configures the USB serial link to the physical base.
type RealOutputConfig struct {
	Device string
	Baud   int
}

func DefaultRealOutput() RealOutputConfig {
	return RealOutputConfig{Device: "/dev/ttyUSB0", Baud: 115200}
}

func RealOutputFromEnv() RealOutputConfig {
	cfg := DefaultRealOutput()
	if v := os.Getenv("CRABE_SERIAL_DEVICE"); v != "" {
		cfg.Device = v
	}
	if b := getEnvInt("CRABE_SERIAL_BAUD", 0); b > 0 {
		cfg.Baud = b
	}
	return cfg
}

// =============================================================================
// TOOL SERVER CONFIGURATION
// =============================================================================

type ToolServerConfig struct {
	Enabled bool
	Port    int
}

func DefaultToolServer() ToolServerConfig {
	return ToolServerConfig{Enabled: true, Port: 7780}
}

func ToolServerFromEnv() ToolServerConfig {
	cfg := DefaultToolServer()
	if v := os.Getenv("CRABE_TOOL_ENABLED"); v != "" {
		cfg.Enabled = v != "false"
	}
	if p := getEnvInt("CRABE_TOOL_PORT", 0); p > 0 {
		cfg.Port = p
	}
	return cfg
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete configuration for one control-stack process.
type AppConfig struct {
	Common     CommonConfig
	Vision     VisionConfig
	Tracker    TrackerConfig
	GC         GameControllerConfig
	Simulator  SimulatorOutputConfig
	Real       RealOutputConfig
	ToolServer ToolServerConfig
}

// Load loads a .env file (if present, matching cmd/server's behavior in
// the teacher) and returns the complete configuration with environment
// overrides applied.
func Load() AppConfig {
	_ = godotenv.Load()

	return AppConfig{
		Common:     CommonFromEnv(),
		Vision:     VisionFromEnv(),
		Tracker:    TrackerFromEnv(),
		GC:         GameControllerFromEnv(),
		Simulator:  SimulatorOutputFromEnv(),
		Real:       RealOutputFromEnv(),
		ToolServer: ToolServerFromEnv(),
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}
