// Package config loads application configuration from environment
// variables into tagged structs.
//
// It layers github.com/joho/godotenv under github.com/caarlos0/env/v11:
// an optional .env file seeds the process environment, then env.Parse
// populates any struct annotated with `env` tags.
//
//	type ServerConfig struct {
//	    Addr string `env:"HTTP_ADDR" envDefault:":8080"`
//	}
//
//	var cfg ServerConfig
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatal(err)
//	}
//
// Missing .env files are not an error; required variables that remain
// unset are.
package config
