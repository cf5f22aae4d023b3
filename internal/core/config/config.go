package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host              string
	Port              int
	ReadTimeoutSec    int
	WriteTimeoutSec   int
	IdleTimeoutSec    int
	RequestTimeoutSec int
	StaticDir         string
	CorsOrigins       []string
}

// AdminHTTP 运维端口；Embedded 为 true 时由 cmd/api 在同一进程内监听
type AdminHTTP struct {
	Host     string
	Port     int
	Embedded bool
}

type App struct {
	Name  string
	Env   string
	HTTP  HTTP
	Admin AdminHTTP
}

type Log struct {
	Level string
	JSON  bool
	File  LogFile
}

type LogFile struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	LogLevel           string
}

// Session 会话 cookie 与存储
type Session struct {
	Store      string // "redis" | "memory"
	CookieName string
	Secret     string
	TTLMin     int
	Secure     bool
	KeyPrefix  string
}

type Auth struct {
	// "plain"：与 password_hash 列逐字比较；"bcrypt"：按 bcrypt 哈希校验
	PasswordMode string
}

// Demo 存储过程测试接口使用的演示参数
type Demo struct {
	ClientEmail      string
	Warehouse        string
	AgingDiscountPct float64
	AgingDays        int
}

type Config struct {
	App     App
	Log     Log
	DB      DB
	Session Session
	Auth    Auth
	Demo    Demo
	Redis   Redis `mapstructure:"redis"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "tiendaonline-web")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.readtimeoutsec", 5)
	v.SetDefault("app.http.writetimeoutsec", 10)
	v.SetDefault("app.http.idletimeoutsec", 60)
	v.SetDefault("app.http.requesttimeoutsec", 10)
	v.SetDefault("app.http.staticdir", "./web/public")
	v.SetDefault("app.admin.host", "127.0.0.1")
	v.SetDefault("app.admin.port", 9090)
	v.SetDefault("app.admin.embedded", true)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)

	v.SetDefault("db.driver", "sqlserver")
	v.SetDefault("db.dsn", "jdbc:sqlserver://localhost:1433;databaseName=tiendaonline;encrypt=false")
	v.SetDefault("db.maxopenconns", 10)
	v.SetDefault("db.maxidleconns", 2)
	v.SetDefault("db.connmaxlifetimemin", 30)
	v.SetDefault("db.username", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.loglevel", "warn")

	v.SetDefault("session.store", "memory")
	v.SetDefault("session.cookiename", "TIENDASESSION")
	v.SetDefault("session.ttlmin", 30)
	v.SetDefault("session.keyprefix", "tienda:session:")
	v.SetDefault("session.secret", "")
	v.SetDefault("session.secure", false)

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.passwordmode", "plain")

	v.SetDefault("demo.clientemail", "cliente@tienda.local")
	v.SetDefault("demo.warehouse", "Bodega Central - WebTest")
	v.SetDefault("demo.agingdiscountpct", 20.0)
	v.SetDefault("demo.agingdays", 60)
}

// Load 读取 YAML 配置；APP_ 前缀的环境变量覆盖文件值（如 APP_DB_PASSWORD）。
// 文件不存在时只使用默认值与环境变量。
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) validate() error {
	switch c.Session.Store {
	case "memory", "redis":
	default:
		return fmt.Errorf("config: unknown session.store %q", c.Session.Store)
	}
	switch c.Auth.PasswordMode {
	case "plain", "bcrypt":
	default:
		return fmt.Errorf("config: unknown auth.passwordmode %q", c.Auth.PasswordMode)
	}
	if c.Session.Secret == "" {
		return errors.New("config: session.secret is required")
	}
	return nil
}
