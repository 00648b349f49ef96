package app

import (
	"context"
	"fmt"
	"log"

	"grantforge/internal/gateway/config"
	"grantforge/internal/gateway/repository/attachment"
	"grantforge/internal/llmclient"
)

// initAttachmentStore builds the attachment backend: S3 when the
// settings are complete, an in-process store otherwise.
func initAttachmentStore(cfg *config.Config) attachment.Store {
	if cfg.Attachment.CanUseS3() {
		s3Store, err := attachment.NewS3Store(attachment.S3Config{
			Endpoint:  cfg.Attachment.Endpoint,
			Region:    cfg.Attachment.Region,
			AccessKey: cfg.Attachment.AccessKey,
			SecretKey: cfg.Attachment.SecretKey,
			Bucket:    cfg.Attachment.Bucket,
			UseSSL:    cfg.Attachment.UseSSL,
		})
		if err == nil {
			log.Printf("attachment store: s3 bucket=%s endpoint=%s", cfg.Attachment.Bucket, cfg.Attachment.Endpoint)
			return s3Store
		}
		log.Printf("attachment store: s3 init failed (%v), using in-memory fallback", err)
	} else if cfg.Attachment.Enabled {
		log.Printf("attachment store: using in-memory fallback (s3 config incomplete)")
	}
	return attachment.NewMemoryStore()
}

func newProviderClient(cfg config.ProviderConfig) (llmclient.Client, error) {
	switch cfg.Name {
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for the gemini provider")
		}
		return llmclient.NewGeminiClient(context.Background(), cfg.GeminiAPIKey, cfg.Model)
	case "groq":
		if cfg.GroqAPIKey == "" {
			return nil, fmt.Errorf("GROQ_API_KEY is required for the groq provider")
		}
		return llmclient.NewGroqClient(cfg.GroqAPIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown provider %q (want gemini or groq)", cfg.Name)
	}
}
