package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"pedidos/src/pedidos/domain/entity"
)

// Config agrupa la configuración del servicio, tomada de variables de entorno
type Config struct {
	Port     string
	LogLevel string

	// Store de registros: "postgres" (por defecto) o "http"
	StoreDriver string

	// Postgres
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Store remoto vía HTTP
	StoreBaseURL string
	StoreToken   string

	// Escrituras permitidas, como "create:pedidos,update:lineas_pedido".
	// Vacío permite todo (despliegue sin restricciones).
	WriteGrants []string

	// Política por línea de producto. BRAND_POLICY admite un JSON
	// {"Mayorista": {"terminal": "Pagado", "allows_pending": false}}
	// que reemplaza la tabla por defecto.
	BrandPolicies map[string]entity.BrandPolicy
}

// getEnv obtiene una variable de entorno o devuelve un valor por defecto
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// Load arma la configuración desde el entorno
func Load() (Config, error) {
	cfg := Config{
		Port:         getEnv("PORT", "8080"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		StoreDriver:  getEnv("STORE_DRIVER", "postgres"),
		DBHost:       getEnv("DB_HOST", "localhost"),
		DBPort:       getEnv("DB_PORT", "5432"),
		DBUser:       getEnv("DB_USER", "postgres"),
		DBPassword:   getEnv("DB_PASSWORD", "postgres"),
		DBName:       getEnv("DB_NAME", "pedidos_db"),
		StoreBaseURL: getEnv("STORE_BASE_URL", ""),
		StoreToken:   getEnv("STORE_TOKEN", ""),
	}

	if grants := getEnv("WRITE_GRANTS", ""); grants != "" {
		for _, g := range strings.Split(grants, ",") {
			cfg.WriteGrants = append(cfg.WriteGrants, strings.TrimSpace(g))
		}
	}

	policies, err := loadBrandPolicies(getEnv("BRAND_POLICY", ""))
	if err != nil {
		return Config{}, err
	}
	cfg.BrandPolicies = policies

	return cfg, nil
}

// DSN arma el string de conexión a Postgres
func (c Config) DSN() string {
	return "postgres://" + c.DBUser + ":" + c.DBPassword + "@" +
		c.DBHost + ":" + c.DBPort + "/" + c.DBName + "?sslmode=disable"
}

type brandPolicyJSON struct {
	Terminal      string `json:"terminal"`
	AllowsPending bool   `json:"allows_pending"`
}

func loadBrandPolicies(raw string) (map[string]entity.BrandPolicy, error) {
	if raw == "" {
		return entity.DefaultBrandPolicies(), nil
	}

	var parsed map[string]brandPolicyJSON
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("error al parsear BRAND_POLICY: %w", err)
	}

	policies := make(map[string]entity.BrandPolicy, len(parsed))
	for brand, p := range parsed {
		policies[brand] = entity.BrandPolicy{
			TerminalStatus: p.Terminal,
			AllowsPending:  p.AllowsPending,
		}
	}
	return policies, nil
}
