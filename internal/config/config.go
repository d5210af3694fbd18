package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type OAuthProvider struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURL  string `mapstructure:"redirect_url"`
}

type Config struct {
	App struct {
		Env       string `mapstructure:"env"`
		Port      string `mapstructure:"port"`
		ClientURL string `mapstructure:"client_url"`
		PublicURL string `mapstructure:"public_url"`
	} `mapstructure:"app"`
	DB struct {
		Driver       string        `mapstructure:"driver"`
		DSN          string        `mapstructure:"dsn"`
		QueryTimeout time.Duration `mapstructure:"query_timeout"`
	} `mapstructure:"db"`
	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`
	Kafka struct {
		Brokers []string `mapstructure:"brokers"`
	} `mapstructure:"kafka"`
	Auth struct {
		JWTSecret     string        `mapstructure:"jwt_secret"`
		TokenLifespan time.Duration `mapstructure:"token_lifespan"`
		BcryptCost    int           `mapstructure:"bcrypt_cost"`
	} `mapstructure:"auth"`
	RateLimit struct {
		Window time.Duration `mapstructure:"window"`
		Max    int           `mapstructure:"max"`
	} `mapstructure:"rate_limit"`
	Cloudinary struct {
		CloudName string `mapstructure:"cloud_name"`
		ApiKey    string `mapstructure:"api_key"`
		ApiSecret string `mapstructure:"api_secret"`
	} `mapstructure:"cloudinary"`
	Jaeger struct {
		OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	} `mapstructure:"jaeger"`
	OAuth struct {
		GitHub   OAuthProvider `mapstructure:"github"`
		LinkedIn OAuthProvider `mapstructure:"linkedin"`
		Google   OAuthProvider `mapstructure:"google"`
	} `mapstructure:"oauth"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "5000")
	v.SetDefault("app.client_url", "http://localhost:5173")
	v.SetDefault("app.public_url", "http://localhost:5173")
	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.query_timeout", 5*time.Second)
	v.SetDefault("auth.token_lifespan", 7*24*time.Hour)
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("rate_limit.window", 15*time.Minute)
	v.SetDefault("rate_limit.max", 100)
}

// LoadConfig reads config.yaml from the given paths (default "."), then .env,
// then the environment. Later sources win.
func LoadConfig(paths ...string) (cfg Config, err error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	envFiles := make([]string, 0, len(paths))
	for _, p := range paths {
		envFiles = append(envFiles, strings.TrimRight(p, "/")+"/.env")
	}
	if err = godotenv.Load(envFiles...); err != nil {
		log.Println("warning: .env file not found, use default.")
	}

	v := viper.New()
	setDefaults(v)
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if err = v.ReadInConfig(); err != nil {
		log.Printf("note: config.yaml not found, read .env only. Error: %v", err)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindings := map[string]string{
		"app.env":                      "APP_ENV",
		"app.port":                     "PORT",
		"app.client_url":               "CLIENT_URL",
		"app.public_url":               "PUBLIC_URL",
		"db.driver":                    "DB_DRIVER",
		"db.dsn":                       "DB_DSN",
		"db.query_timeout":             "DB_QUERY_TIMEOUT",
		"redis.addr":                   "REDIS_ADDR",
		"redis.password":               "REDIS_PASSWORD",
		"kafka.brokers":                "KAFKA_BROKERS",
		"auth.jwt_secret":              "JWT_SECRET",
		"auth.token_lifespan":          "TOKEN_LIFESPAN",
		"auth.bcrypt_cost":             "BCRYPT_COST",
		"rate_limit.window":            "RATE_LIMIT_WINDOW",
		"rate_limit.max":               "RATE_LIMIT_MAX",
		"cloudinary.cloud_name":        "CLOUDINARY_CLOUD_NAME",
		"cloudinary.api_key":           "CLOUDINARY_API_KEY",
		"cloudinary.api_secret":        "CLOUDINARY_API_SECRET",
		"jaeger.otlp_endpoint":         "OTLP_ENDPOINT",
		"oauth.github.client_id":       "GITHUB_CLIENT_ID",
		"oauth.github.client_secret":   "GITHUB_CLIENT_SECRET",
		"oauth.github.redirect_url":    "GITHUB_REDIRECT_URL",
		"oauth.linkedin.client_id":     "LINKEDIN_CLIENT_ID",
		"oauth.linkedin.client_secret": "LINKEDIN_CLIENT_SECRET",
		"oauth.linkedin.redirect_url":  "LINKEDIN_REDIRECT_URL",
		"oauth.google.client_id":       "GOOGLE_CLIENT_ID",
		"oauth.google.client_secret":   "GOOGLE_CLIENT_SECRET",
		"oauth.google.redirect_url":    "GOOGLE_REDIRECT_URL",
	}
	for key, env := range bindings {
		if bindErr := v.BindEnv(key, env); bindErr != nil {
			return cfg, bindErr
		}
	}

	err = v.Unmarshal(&cfg)
	if err == nil && len(cfg.Kafka.Brokers) == 1 && strings.Contains(cfg.Kafka.Brokers[0], ",") {
		cfg.Kafka.Brokers = strings.Split(cfg.Kafka.Brokers[0], ",")
	}
	return
}
