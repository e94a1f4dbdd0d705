package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Storage    StorageConfig
	JWT        JWTConfig
	Kubernetes KubernetesConfig
	Helm       HelmConfig
	Ingress    IngressConfig
	Logger     LoggerConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

type KubernetesConfig struct {
	Enabled        bool
	InCluster      bool
	KubeConfigPath string
	QuotaCPU       string
	QuotaMemory    string
	QuotaPods      int
}

type HelmConfig struct {
	ChartPath       string
	Timeout         time.Duration
	ImageRepository string
	ImageTag        string
}

type IngressConfig struct {
	Enabled  bool
	Host     string
	NodePort int
	BasePath string
}

type LoggerConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", 5432)
	v.SetDefault("DATABASE_USER", "kubeserve")
	v.SetDefault("DATABASE_PASSWORD", "kubeserve")
	v.SetDefault("DATABASE_NAME", "kubeserve")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("DATABASE_MAX_OPEN_CONNS", 10)
	v.SetDefault("DATABASE_MAX_IDLE_CONNS", 2)
	v.SetDefault("DATABASE_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("STORAGE_ENDPOINT", "localhost:9000")
	v.SetDefault("STORAGE_ACCESS_KEY", "")
	v.SetDefault("STORAGE_SECRET_KEY", "")
	v.SetDefault("STORAGE_BUCKET", "kubeserve-models")
	v.SetDefault("STORAGE_USE_SSL", false)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_TTL", "30m")
	v.SetDefault("KUBERNETES_ENABLED", true)
	v.SetDefault("KUBERNETES_IN_CLUSTER", false)
	v.SetDefault("KUBERNETES_KUBECONFIG", "")
	v.SetDefault("KUBERNETES_QUOTA_CPU", "2")
	v.SetDefault("KUBERNETES_QUOTA_MEMORY", "4Gi")
	v.SetDefault("KUBERNETES_QUOTA_PODS", 5)
	v.SetDefault("HELM_CHART_PATH", "charts/model-serving")
	v.SetDefault("HELM_TIMEOUT", "300s")
	v.SetDefault("HELM_IMAGE_REPOSITORY", "localhost:5001/kubeserve-base")
	v.SetDefault("HELM_IMAGE_TAG", "latest")
	v.SetDefault("INGRESS_ENABLED", true)
	v.SetDefault("INGRESS_HOST", "localhost")
	v.SetDefault("INGRESS_NODE_PORT", 30080)
	v.SetDefault("INGRESS_BASE_PATH", "/api/v1/predict")
	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "json")

	// Env
	v.AutomaticEnv()

	if v.GetString("JWT_SECRET") == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DATABASE_HOST"),
			Port:            v.GetInt("DATABASE_PORT"),
			User:            v.GetString("DATABASE_USER"),
			Password:        v.GetString("DATABASE_PASSWORD"),
			Name:            v.GetString("DATABASE_NAME"),
			SSLMode:         v.GetString("DATABASE_SSLMODE"),
			MaxOpenConns:    v.GetInt("DATABASE_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DATABASE_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DATABASE_CONN_MAX_LIFETIME"),
		},
		Storage: StorageConfig{
			Endpoint:  v.GetString("STORAGE_ENDPOINT"),
			AccessKey: v.GetString("STORAGE_ACCESS_KEY"),
			SecretKey: v.GetString("STORAGE_SECRET_KEY"),
			Bucket:    v.GetString("STORAGE_BUCKET"),
			UseSSL:    v.GetBool("STORAGE_USE_SSL"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
			TTL:    v.GetDuration("JWT_TTL"),
		},
		Kubernetes: KubernetesConfig{
			Enabled:        v.GetBool("KUBERNETES_ENABLED"),
			InCluster:      v.GetBool("KUBERNETES_IN_CLUSTER"),
			KubeConfigPath: v.GetString("KUBERNETES_KUBECONFIG"),
			QuotaCPU:       v.GetString("KUBERNETES_QUOTA_CPU"),
			QuotaMemory:    v.GetString("KUBERNETES_QUOTA_MEMORY"),
			QuotaPods:      v.GetInt("KUBERNETES_QUOTA_PODS"),
		},
		Helm: HelmConfig{
			ChartPath:       v.GetString("HELM_CHART_PATH"),
			Timeout:         v.GetDuration("HELM_TIMEOUT"),
			ImageRepository: v.GetString("HELM_IMAGE_REPOSITORY"),
			ImageTag:        v.GetString("HELM_IMAGE_TAG"),
		},
		Ingress: IngressConfig{
			Enabled:  v.GetBool("INGRESS_ENABLED"),
			Host:     v.GetString("INGRESS_HOST"),
			NodePort: v.GetInt("INGRESS_NODE_PORT"),
			BasePath: v.GetString("INGRESS_BASE_PATH"),
		},
		Logger: LoggerConfig{
			Level:  v.GetString("LOGGER_LEVEL"),
			Format: v.GetString("LOGGER_FORMAT"),
		},
	}

	return cfg, nil
}
