package main

import (
	"fmt"
	"time"
)

type Config struct {
	LogLevel          string        `env:"LOG_LEVEL,required=true"`
	BadgerFilepath    string        `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath     string        `env:"BLUGE_FILEPATH,required=true"`
	APIBaseURL        string        `env:"API_URL,default=http://localhost:8000"`
	AuthToken         string        `env:"AUTH_TOKEN"`
	GeminiAPIKey      string        `env:"GEMINI_API_KEY"`
	ForbiddenWords    string        `env:"FORBIDDEN_WORDS,required=true"`
	CharReplacement   string        `env:"CHARACTER_REPLACEMENT,default=*"`
	TelemetryInterval time.Duration `env:"TELEMETRY_INTERVAL,default=5s"`
	SignalBufferSize  int           `env:"SIGNAL_BUFFER_SIZE,default=8"`
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
