package config

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	shared "github.com/deo-labs/deoai/src/config"
)

type Config struct {
	Port             string
	JWTSecret        string
	AllowOrigins     []string
	RateLimit        int
	RateWindow       time.Duration
	SnapshotEndpoint string
	AI               shared.AI
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func Load() Config {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		// Sessions do not survive a restart anyway; an ephemeral secret is fine.
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			log.Fatalf("generate jwt secret: %v", err)
		}
		secret = hex.EncodeToString(b)
		log.Printf("JWT_SECRET not set, using ephemeral secret")
	}

	rate, err := strconv.Atoi(getenv("RATE_LIMIT", "10"))
	if err != nil || rate <= 0 {
		log.Printf("invalid RATE_LIMIT %q, using 10", os.Getenv("RATE_LIMIT"))
		rate = 10
	}
	windowSec, err := strconv.Atoi(getenv("RATE_WINDOW_SECONDS", "60"))
	if err != nil || windowSec <= 0 {
		log.Printf("invalid RATE_WINDOW_SECONDS %q, using 60", os.Getenv("RATE_WINDOW_SECONDS"))
		windowSec = 60
	}

	origins := strings.Split(getenv("ALLOW_ORIGINS", "http://localhost:3000"), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	return Config{
		Port:             getenv("PORT", "8080"),
		JWTSecret:        secret,
		AllowOrigins:     origins,
		RateLimit:        rate,
		RateWindow:       time.Duration(windowSec) * time.Second,
		SnapshotEndpoint: shared.SnapshotEndpoint(),
		AI:               shared.LoadAIFromEnv(),
	}
}
