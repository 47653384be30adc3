package utils

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type ScraperConfig struct {
	ListPath       string // newline-delimited game titles
	BatchSize      int
	Concurrency    int // games processed at once within a batch
	Cooldown       time.Duration
	RequestTimeout time.Duration

	// Firebase RTDB; when URL is empty the job falls back to local sqlite
	FirebaseURL  string
	FirebaseAuth string
}

func LoadScraperConfig() ScraperConfig {
	return ScraperConfig{
		ListPath:       envString("GAMEWATCH_LIST", "games.txt"),
		BatchSize:      envInt("GAMEWATCH_BATCH_SIZE", 40),
		Concurrency:    envInt("GAMEWATCH_CONCURRENCY", 5),
		Cooldown:       envDuration("GAMEWATCH_COOLDOWN", time.Second),
		RequestTimeout: envDuration("GAMEWATCH_REQUEST_TIMEOUT", 8*time.Second),
		FirebaseURL:    envString("GAMEWATCH_FIREBASE_URL", ""),
		FirebaseAuth:   envString("GAMEWATCH_FIREBASE_AUTH", ""),
	}
}

type APIConfig struct {
	Addr string
}

func LoadAPIConfig() APIConfig {
	return APIConfig{
		Addr: envString("GAMEWATCH_API_ADDR", ":8080"),
	}
}

func envString(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func envInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func envDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
