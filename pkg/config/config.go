package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every environment variable read by the shop.
const EnvPrefix = "ESHOP"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Shop         ShopConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"ESHOP_APP_ENV" default:"dev"`
	Port         string `envconfig:"ESHOP_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"ESHOP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ESHOP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"ESHOP_DB_DSN"`
	Driver string `envconfig:"ESHOP_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"ESHOP_DB_HOST"`
	Port     int    `envconfig:"ESHOP_DB_PORT" default:"5432"`
	User     string `envconfig:"ESHOP_DB_USER"`
	Password string `envconfig:"ESHOP_DB_PASSWORD"`
	Name     string `envconfig:"ESHOP_DB_NAME"`
	SSLMode  string `envconfig:"ESHOP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ESHOP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ESHOP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ESHOP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ESHOP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ESHOP_REDIS_URL"`
	Address      string        `envconfig:"ESHOP_REDIS_ADDR"`
	Password     string        `envconfig:"ESHOP_REDIS_PASSWORD"`
	DB           int           `envconfig:"ESHOP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ESHOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ESHOP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ESHOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ESHOP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ESHOP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"ESHOP_JWT_SECRET"`
	Issuer            string `envconfig:"ESHOP_JWT_ISSUER" default:"eshop"`
	ExpirationMinutes int    `envconfig:"ESHOP_JWT_EXPIRATION_MINUTES" default:"60"`
}

// ShopConfig carries the storefront pricing knobs. The VAT rate is a decimal
// string (0.20 means 20%). Shipping zones may be overridden with a JSON
// document of the shape {"zone":{"name":"...","brackets":[{"weight":500,"cost":"5.00"}]}};
// when empty the built-in zone table applies.
type ShopConfig struct {
	VATRate           string `envconfig:"ESHOP_SHOP_VAT_RATE" default:"0.20"`
	ShippingZonesJSON string `envconfig:"ESHOP_SHOP_SHIPPING_ZONES"`
	CartCookieName    string `envconfig:"ESHOP_SHOP_CART_COOKIE" default:"cart_id"`
	CartCookieMaxAge  int    `envconfig:"ESHOP_SHOP_CART_COOKIE_MAX_AGE" default:"604800"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"ESHOP_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"ESHOP_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	for env, value := range map[string]string{
		"ESHOP_DB_HOST": db.Host,
		"ESHOP_DB_USER": db.User,
		"ESHOP_DB_NAME": db.Name,
	} {
		if value == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either ESHOP_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
