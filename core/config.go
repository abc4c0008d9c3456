package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Env      string // DEV (local; default), TEST, QA, PROD
		Debug    bool
		TestMode bool
		AppName  string
		Build    string
		Locale   string

		SecretKey    string
		RollbarToken string

		Server     ServerConfig
		Backend    BackendConfig
		Cloudinary CloudinaryConfig
	}

	ServerConfig struct {
		Host               string
		DebugHost          string
		ShutdownTimeout    time.Duration
		JWTExpirationDelta time.Duration
	}

	BackendConfig struct {
		BaseURL string
		APIKey  string
		Timeout time.Duration
	}

	CloudinaryConfig struct {
		URL    string
		Folder string
	}
)

// NewConfig loads the application Config from defaults, `config/.env.<env>` and the environment.
// Environment variables are prefixed by the current env, e.g. `PROD_SECRETKEY`.
func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "Masomo")
	conf.SetDefault("build", "dev")
	conf.SetDefault("locale", "en")
	conf.SetDefault("secretKey", "poq5-wer)enb$+57=dz&uoxh2(h!x)#*c2(#yg4h^$cegm2emy")
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("host", ":8000")
	conf.SetDefault("debugHost", ":4000")
	conf.SetDefault("shutdownTimeout", 5*time.Second)
	conf.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	conf.SetDefault("backendURL", "") // in-memory backend when empty
	conf.SetDefault("backendAPIKey", "")
	conf.SetDefault("backendTimeout", 10*time.Second)
	conf.SetDefault("cloudinaryURL", "")
	conf.SetDefault("cloudinaryFolder", "masomo_questions")

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		Env:          env,
		Debug:        conf.GetBool("debug"),
		TestMode:     conf.GetBool("testMode"),
		AppName:      conf.GetString("appName"),
		Build:        conf.GetString("build"),
		Locale:       conf.GetString("locale"),
		SecretKey:    conf.GetString("secretKey"),
		RollbarToken: conf.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:               conf.GetString("host"),
			DebugHost:          conf.GetString("debugHost"),
			ShutdownTimeout:    conf.GetDuration("shutdownTimeout"),
			JWTExpirationDelta: conf.GetDuration("jwtExpirationDelta"),
		},
		Backend: BackendConfig{
			BaseURL: conf.GetString("backendURL"),
			APIKey:  conf.GetString("backendAPIKey"),
			Timeout: conf.GetDuration("backendTimeout"),
		},
		Cloudinary: CloudinaryConfig{
			URL:    conf.GetString("cloudinaryURL"),
			Folder: conf.GetString("cloudinaryFolder"),
		},
	}
}
