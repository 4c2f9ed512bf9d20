package lessons

// Config holds lesson generation settings.
type Config struct {
	MaxTokens int

	// Temperature is used for the first lesson of a topic and
	// RegenTemperature when the learner asks for a different version.
	Temperature      float64
	RegenTemperature float64
}

// DefaultConfig returns the defaults for lesson generation.
func DefaultConfig() Config {
	return Config{
		MaxTokens:        2048,
		Temperature:      0.3,
		RegenTemperature: 0.9,
	}
}
