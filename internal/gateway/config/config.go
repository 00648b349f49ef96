package config

import (
	"flag"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string
	Env  string

	Provider   ProviderConfig
	Attachment AttachmentConfig

	// Catalog files. Missing files are tolerated; the service falls
	// back to built-in defaults.
	DocStorePath  string
	TemplatePath  string
	PartnersPath  string
	KnowledgePath string
}

type ProviderConfig struct {
	// Name selects the generation backend: "gemini" or "groq".
	Name         string
	Model        string
	GeminiAPIKey string
	GroqAPIKey   string
}

type AttachmentConfig struct {
	Enabled   bool
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port := flag.String("port", ":8081", "server port")
	flag.Parse()

	if envPort := os.Getenv("PORT"); envPort != "" {
		if strings.HasPrefix(envPort, ":") {
			*port = envPort
		} else {
			*port = ":" + envPort
		}
	}

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}

	return &Config{
		Port:          *port,
		Env:           env,
		Provider:      loadProviderConfig(),
		Attachment:    loadAttachmentConfig(env),
		DocStorePath:  firstNonEmpty(strings.TrimSpace(os.Getenv("DOC_STORE_PATH")), filepath.Join("tmp", "proposals.json")),
		TemplatePath:  firstNonEmpty(strings.TrimSpace(os.Getenv("TEMPLATE_PATH")), filepath.Join("config", "templates.yaml")),
		PartnersPath:  firstNonEmpty(strings.TrimSpace(os.Getenv("PARTNERS_PATH")), filepath.Join("config", "partners.yaml")),
		KnowledgePath: firstNonEmpty(strings.TrimSpace(os.Getenv("KNOWLEDGE_PATH")), filepath.Join("config", "knowledge.yaml")),
	}, nil
}

func loadProviderConfig() ProviderConfig {
	name := strings.ToLower(strings.TrimSpace(os.Getenv("PROVIDER")))
	if name == "" {
		name = "gemini"
	}
	return ProviderConfig{
		Name:         name,
		Model:        strings.TrimSpace(os.Getenv("PROVIDER_MODEL")),
		GeminiAPIKey: strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GroqAPIKey:   strings.TrimSpace(os.Getenv("GROQ_API_KEY")),
	}
}

func loadAttachmentConfig(env string) AttachmentConfig {
	endpoint := resolveAttachmentEndpoint(env)
	return AttachmentConfig{
		Enabled:   strings.EqualFold(strings.TrimSpace(env), "local") || endpoint != "",
		Endpoint:  endpoint,
		Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("ATTACHMENT_S3_REGION")), "us-east-1"),
		AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("ATTACHMENT_S3_ACCESS_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_USER"))),
		SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("ATTACHMENT_S3_SECRET_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_PASSWORD"))),
		Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("ATTACHMENT_S3_BUCKET")), "grantforge-attachments"),
		UseSSL:    resolveAttachmentUseSSL(env),
	}
}

// CanUseS3 reports whether the S3 settings are complete enough to build
// a client.
func (c AttachmentConfig) CanUseS3() bool {
	return c.Endpoint != "" && c.AccessKey != "" && c.SecretKey != "" && c.Bucket != ""
}

func resolveAttachmentEndpoint(env string) string {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return firstNonEmpty(strings.TrimSpace(os.Getenv("ATTACHMENT_MINIO_ENDPOINT")), "minio:9000")
	}
	return strings.TrimSpace(os.Getenv("ATTACHMENT_S3_ENDPOINT"))
}

func resolveAttachmentUseSSL(env string) bool {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return false
	}
	raw := strings.TrimSpace(os.Getenv("ATTACHMENT_S3_USE_SSL"))
	if raw == "" {
		return true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
