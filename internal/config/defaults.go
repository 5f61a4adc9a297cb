package config

import (
	_ "embed"
)

//go:embed defaults/runner.yaml
var defaultRunnerYAML []byte

// DefaultRunnerConfig returns the hard-coded default configuration. It mirrors
// defaults/runner.yaml and is the fallback if the embedded file cannot be parsed.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		Physics: DefaultPhysics(),
		Difficulty: DifficultyConfig{
			SpeedScaleIncrementPerSecond: 0.02,
			InitialMinSpawnIntervalMs:    1200,
			InitialMaxSpawnIntervalMs:    2500,
			MinOverallSpawnIntervalMs:    700,
			ObstacleIntervalSpeedFactor:  0.5,
			MaxSpeedScale:                3.0,
			SpeedFactorReference:         DefaultSpeedFactorReference,
		},
		Player: DefaultPlayer(),
		Canvas: CanvasConfig{
			Width:  800,
			Height: 300,
		},
	}
}

// DefaultPhysics returns the default physics tuning.
func DefaultPhysics() PhysicsConfig {
	return PhysicsConfig{
		Gravity:      2300,
		JumpForce:    880,
		BaseSpeed:    280,
		GroundOffset: 40,
	}
}

// DefaultPlayer returns the default player geometry.
func DefaultPlayer() PlayerConfig {
	return PlayerConfig{
		X:             80,
		Width:         50,
		Height:        60,
		Frames:        4,
		FrameDuration: 0.1,
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultRunnerYAML
}
