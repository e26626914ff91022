package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config agrupa toda la configuración del proceso.
// Se carga una sola vez en el arranque; después es de solo lectura.
type Config struct {
	Port string `env:"PORT" env-default:"8080"`

	// Si está vacío, el router usa repos in-memory (modo dev).
	DBDSN string `env:"DB_DSN"`

	// Secreto HS256 para firmar/verificar tokens.
	// Obligatorio salvo DEV_MODE=true (ver cmd/api).
	JWTSecret string `env:"JWT_SECRET"`

	// Si S3Bucket está vacío, los uploads quedan en memoria (modo dev).
	S3Bucket string `env:"S3_BUCKET"`
	S3Region string `env:"S3_REGION" env-default:"us-east-1"`
	S3Prefix string `env:"S3_PREFIX" env-default:"pets"`

	LogLevel  string `env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `env:"LOG_FORMAT" env-default:"text"`

	DevMode bool `env:"DEV_MODE" env-default:"false"`
}

func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("reading env config: %w", err)
	}
	return cfg, nil
}
