package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Defaults applied when the corresponding environment variable is unset.
const (
	DefaultPort           = "8080"
	DefaultMaxRooms       = 500
	DefaultMaxRoomSize    = 10
	DefaultMaxObjects     = 1000
	DefaultMaxMessageSize = 64 * 1024
	DefaultMessagesPerSec = 30
	DefaultBurstSize      = 10
)

// Config holds all process configuration, loaded once at startup.
type Config struct {
	Port            string
	AllowedOrigins  []string
	MaxRooms        int
	MaxRoomSize     int
	MaxObjects      int
	MaxMessageSize  int
	MessagesPerSec  float64
	BurstSize       int
}

// Load reads .env (if present) and builds a Config from the environment.
func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("no .env file, using system environment")
	}

	return &Config{
		Port:           getEnv("PORT", DefaultPort),
		AllowedOrigins: splitList(os.Getenv("DOMAINS")),
		MaxRooms:       getEnvInt("MAX_ROOMS", DefaultMaxRooms),
		MaxRoomSize:    getEnvInt("MAX_ROOM_SIZE", DefaultMaxRoomSize),
		MaxObjects:     getEnvInt("MAX_OBJECTS", DefaultMaxObjects),
		MaxMessageSize: getEnvInt("MAX_MESSAGE_SIZE", DefaultMaxMessageSize),
		MessagesPerSec: float64(getEnvInt("MESSAGES_PER_SECOND", DefaultMessagesPerSec)),
		BurstSize:      getEnvInt("BURST_SIZE", DefaultBurstSize),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid %s=%q, using default %d", key, v, fallback)
		return fallback
	}
	return n
}

// splitList parses a comma-separated env value into trimmed entries.
func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
