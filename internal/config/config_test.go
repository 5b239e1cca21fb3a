package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != DefaultPort {
		t.Fatalf("Port = %q, want %q", cfg.Port, DefaultPort)
	}
	if cfg.MaxRoomSize != DefaultMaxRoomSize {
		t.Fatalf("MaxRoomSize = %d, want %d", cfg.MaxRoomSize, DefaultMaxRoomSize)
	}
	if cfg.MaxMessageSize != DefaultMaxMessageSize {
		t.Fatalf("MaxMessageSize = %d, want %d", cfg.MaxMessageSize, DefaultMaxMessageSize)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("MAX_ROOM_SIZE", "4")
	t.Setenv("DOMAINS", "https://a.example.com, https://b.example.com")

	cfg := Load()

	if cfg.Port != "9999" {
		t.Fatalf("Port = %q, want 9999", cfg.Port)
	}
	if cfg.MaxRoomSize != 4 {
		t.Fatalf("MaxRoomSize = %d, want 4", cfg.MaxRoomSize)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example.com" {
		t.Fatalf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
}

func TestLoadInvalidIntFallsBack(t *testing.T) {
	t.Setenv("MAX_ROOMS", "lots")

	cfg := Load()

	if cfg.MaxRooms != DefaultMaxRooms {
		t.Fatalf("MaxRooms = %d, want default %d", cfg.MaxRooms, DefaultMaxRooms)
	}
}
