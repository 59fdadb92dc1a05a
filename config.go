package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything the app needs to start up. It's loaded from a
// .config.json file, with secrets overridable through the environment
// (a .env file is picked up if present).
type Config struct {
	Port      int            `json:"port"`
	Env       string         `json:"env"`
	Pepper    string         `json:"pepper"`
	JWTSecret string         `json:"jwt_secret"`
	Database  PostgresConfig `json:"database"`
}

// IsProd reports whether the app is running in production.
func (c Config) IsProd() bool {
	return c.Env == "prod"
}

type PostgresConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// ConnectionInfo builds the postgres connection string out of the config values.
func (pc PostgresConfig) ConnectionInfo() string {
	if pc.Password == "" {
		return fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=disable", pc.Host, pc.Port, pc.User, pc.Name)
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable", pc.Host, pc.Port, pc.User, pc.Password, pc.Name)
}

// DefaultConfig is the setup used for local development when no
// .config.json file is provided.
func DefaultConfig() Config {
	return Config{
		Port:      3000,
		Env:       "dev",
		Pepper:    "secret-random-string",
		JWTSecret: "secret-jwt-key",
		Database:  DefaultPostgresConfig(),
	}
}

func DefaultPostgresConfig() PostgresConfig {
	return PostgresConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "",
		Name:     "simple_twitter",
	}
}

// LoadConfig loads configuration from a .config.json file if present,
// otherwise it falls back to the default dev setup. In production the file
// is required and the app panics without it. Secrets additionally come from
// the environment, so they can be kept out of the config file entirely.
func LoadConfig(prodBool bool) Config {
	// Pick up a .env file if there is one. Not having one is fine, the
	// variables may just as well come from the actual environment.
	godotenv.Load()

	c := DefaultConfig()
	f, err := os.Open(".config.json")
	if err != nil {
		if prodBool {
			panic("A .config.json file is required in production.")
		}
		fmt.Println("Using the default config...")
	} else {
		defer f.Close()
		if err := json.NewDecoder(f).Decode(&c); err != nil {
			panic(err)
		}
		fmt.Println("Successfully loaded .config.json")
	}

	if pepper := os.Getenv("PEPPER"); pepper != "" {
		c.Pepper = pepper
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		c.JWTSecret = secret
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		c.Database.Password = password
	}
	return c
}
