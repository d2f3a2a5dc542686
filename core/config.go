package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Conf holds the process-wide configuration. It is loaded once at init
// from defaults, an optional config/.env.<env> file and environment variables.
var Conf *Config

type Config struct {
	Debug    bool
	TestMode bool
	Env      string
	AppName  string

	SecretKey     []byte
	SessionCookie string

	Server struct {
		Host string
		Port string
	}

	// Backend is the remote content API this app renders from.
	Backend struct {
		BaseURL        string
		StorageBaseURL string
		Timeout        time.Duration
	}

	JWTExpirationDelta time.Duration

	DefaultFromEmail mail.Address
	ContactEmail     string
	SendgridApiKey   string

	RollbarToken string
	Build        string
}

func init() {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Shule")
	v.SetDefault("secretKey", "w3lq-xpt)dnb$+57=dz&uoxh2(h!x)#*c2(#yg4h^$cegm2emy")
	v.SetDefault("sessionCookie", "shule_admin")
	v.SetDefault("serverHost", "localhost")
	v.SetDefault("serverPort", "8080")
	v.SetDefault("backendBaseURL", "http://127.0.0.1:8000/api")
	v.SetDefault("backendStorageBaseURL", "http://127.0.0.1:8000/storage")
	v.SetDefault("backendTimeout", 15*time.Second)
	v.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("contactEmail", "")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("build", "dev")

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	case "QA", "PROD":
		v.SetDefault("debug", false)
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	Conf = &Config{
		Debug:              v.GetBool("debug"),
		TestMode:           v.GetBool("testMode"),
		Env:                env,
		AppName:            v.GetString("appName"),
		SecretKey:          []byte(v.GetString("secretKey")),
		SessionCookie:      v.GetString("sessionCookie"),
		JWTExpirationDelta: v.GetDuration("jwtExpirationDelta"),
		DefaultFromEmail:   mail.Address{Name: v.GetString("appName"), Address: v.GetString("defaultFromEmail")},
		ContactEmail:       v.GetString("contactEmail"),
		SendgridApiKey:     v.GetString("sendgridApiKey"),
		RollbarToken:       v.GetString("rollbarToken"),
		Build:              v.GetString("build"),
	}
	Conf.Server.Host = v.GetString("serverHost")
	Conf.Server.Port = v.GetString("serverPort")
	Conf.Backend.BaseURL = strings.TrimRight(v.GetString("backendBaseURL"), "/")
	Conf.Backend.StorageBaseURL = strings.TrimRight(v.GetString("backendStorageBaseURL"), "/")
	Conf.Backend.Timeout = v.GetDuration("backendTimeout")
}

// Addr returns the host:port the web server binds to.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}
