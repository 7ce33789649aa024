package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/mind-engage/quizengine/internal/render"
)

type Config struct {
	HTTPAddr string

	DBDriver string // sqlite|postgres|memory
	DBDSN    string

	LogLevel  string
	LogFormat string // json|pretty

	HMACSecret     string
	AuthorUser     string
	AuthorPassHash string // bcrypt
	AllowGuests    bool

	CORSOrigins []string

	Labels         render.Labels
	ExercisePrefix string // used when a quiz has no prefix attribute
	FuzzyMaxEdit   int
}

// Load reads an optional .env file and then the environment.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

func FromEnv() Config {
	def := render.DefaultLabels()
	return Config{
		HTTPAddr:       envOr("HTTP_ADDR", ":8080"),
		DBDriver:       envOr("DB_DRIVER", "sqlite"),
		DBDSN:          envOr("DB_DSN", ""),
		LogLevel:       envOr("LOG_LEVEL", "info"),
		LogFormat:      envOr("LOG_FORMAT", "json"),
		HMACSecret:     envOr("AUTH_HMAC_SECRET", "dev-secret-change-me"),
		AuthorUser:     envOr("AUTHOR_USER", "author"),
		AuthorPassHash: os.Getenv("AUTHOR_PASS_HASH"),
		AllowGuests:    envBool("ENABLE_GUEST", true),
		CORSOrigins:    csvOr("CORS_ORIGINS", "http://localhost:3000"),
		Labels: render.Labels{
			Points:       envOr("LABEL_QUIZ_POINTS", def.Points),
			Evaluate:     envOr("LABEL_QUIZ_EVALUATE", def.Evaluate),
			Retry:        envOr("LABEL_QUIZ_NEW_TRY", def.Retry),
			HeadingLevel: envInt("QUIZ_HEADING_LEVEL", def.HeadingLevel),
		},
		ExercisePrefix: os.Getenv("QUIZ_EXERCISE_HEADING"),
		FuzzyMaxEdit:   envInt("FUZZY_MAX_EDIT", 1),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}

func envInt(k string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(k)))
	if err != nil {
		return def
	}
	return n
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
