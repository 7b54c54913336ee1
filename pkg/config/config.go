package config

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	Log     LogConfig
	Storage StorageConfig
	Session SessionConfig
	Orders  OrdersConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, production
	Name string
}

// LogConfig nivel y destino del logger.
type LogConfig struct {
	Level string
	File  string // vacío = stdout
}

// StorageConfig rutas de los archivos SQLite. Cada archivo es una frontera de transacción distinta.
type StorageConfig struct {
	DataDir          string
	AuthDBPath       string // usuarios, registro, contraseña y documentos
	ReportDBPath     string
	OrderRequestPath string // lotes pendientes y staging
	OrderDataPath    string // órdenes durables
	FilesDir         string // archivos adjuntos administrados
}

// Resolve devuelve p bajo DataDir salvo que ya sea absoluto.
func (c StorageConfig) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.DataDir, p)
}

// SessionConfig token de sesión de la consola.
type SessionConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
	BcryptCost int
}

// OrdersConfig parámetros del pipeline de normalización.
type OrdersConfig struct {
	DeadlineBusinessDays int
	EvidenceThreshold    float64
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DATA_DIR, LOG_LEVEL, SESSION_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "controle-estoque"),
		},
		Log: LogConfig{
			Level: getString(v, "LOG_LEVEL", "info"),
			File:  getString(v, "LOG_FILE", ""),
		},
		Storage: StorageConfig{
			DataDir:          getString(v, "DATA_DIR", "data"),
			AuthDBPath:       getString(v, "AUTH_DB_PATH", "app.db"),
			ReportDBPath:     getString(v, "REPORT_DB_PATH", "reports.db"),
			OrderRequestPath: getString(v, "ORDER_REQUEST_DB_PATH", "order_requests.db"),
			OrderDataPath:    getString(v, "ORDER_DATA_DB_PATH", "orders.db"),
			FilesDir:         getString(v, "FILES_DIR", "files"),
		},
		Session: SessionConfig{
			Secret:     getString(v, "SESSION_SECRET", ""),
			Expiration: getInt(v, "SESSION_EXPIRATION_MINUTES", 480),
			Issuer:     getString(v, "SESSION_ISSUER", "controle-estoque"),
			BcryptCost: getInt(v, "BCRYPT_COST", 10),
		},
		Orders: OrdersConfig{
			DeadlineBusinessDays: getInt(v, "DEADLINE_BUSINESS_DAYS", 7),
			EvidenceThreshold:    getFloat(v, "EVIDENCE_THRESHOLD", 50),
		},
	}
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getFloat(v *viper.Viper, key string, def float64) float64 {
	if v.IsSet(key) {
		f, err := strconv.ParseFloat(strings.ReplaceAll(v.GetString(key), ",", "."), 64)
		if err != nil {
			return def
		}
		return f
	}
	return def
}
