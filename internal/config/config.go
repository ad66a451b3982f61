package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"kb-agent-lambda/pkg/bedrock"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	AWS       AWSConfig
	Knowledge KnowledgeConfig
	Agent     AgentConfig
	Citations CitationConfig
	Session   SessionConfig
	Telemetry TelemetryConfig
}

type AppConfig struct {
	Environment string
	LogFilePath string
	NatsURL     string
}

type AWSConfig struct {
	Region          string
	// Endpoint overrides every service endpoint, for local stacks
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

type KnowledgeConfig struct {
	EncyclopediaKnowledgeBaseID string
	AccordKnowledgeBaseID       string
	FAQKnowledgeBaseID          string
	ModelID                     string
	ModelARN                    string
	NumberOfResults             int
	UnderwritingNumberOfResults int
	WebSearchLambda             string
}

type AgentConfig struct {
	LLMProvider      string // "bedrock" or "ollama"
	ModelID          string
	OllamaBaseURL    string
	LLMModel         string
	GuardrailID      string
	GuardrailVersion string
	MaxIterations    int
}

type CitationConfig struct {
	EnableDeduplication       bool
	DedupStrategy             string // "span", "name" or "none"
	EncyclopediaSnippetLength int
	UnderwritingSnippetLength int
	WebSnippetLength          int
}

type SessionConfig struct {
	Enabled  bool
	Store    string // "s3", "redis" or "memory"
	Bucket   string
	Prefix   string
	RedisURL string
	TTLHours int
}

type TelemetryConfig struct {
	Enabled  bool
	Endpoint string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	region := getEnv("AWS_REGION", "us-west-2")
	modelID := getEnv("MODEL_ID", "anthropic.claude-3-sonnet-20240229-v1:0")

	return &Config{
		App: AppConfig{
			Environment: getEnv("GO_ENV", "production"),
			LogFilePath: getEnv("LOG_FILE_PATH", ""),
			NatsURL:     getEnv("NATS_URL", ""),
		},
		AWS: AWSConfig{
			Region:          region,
			Endpoint:        getEnv("AWS_ENDPOINT_URL", ""),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		},
		Knowledge: KnowledgeConfig{
			EncyclopediaKnowledgeBaseID: getEnv("KNOWLEDGE_BASE_ID", ""),
			AccordKnowledgeBaseID:       getEnv("ACCORD_KNOWLEDGE_BASE_ID", ""),
			FAQKnowledgeBaseID:          getEnv("FAQ_KNOWLEDGE_BASE_ID", ""),
			ModelID:                     modelID,
			ModelARN:                    getEnv("MODEL_ARN", bedrock.ModelARN(region, modelID)),
			NumberOfResults:             getEnvAsInt("NUMBER_OF_RESULTS", 10),
			UnderwritingNumberOfResults: getEnvAsInt("UNDERWRITING_NUMBER_OF_RESULTS", 100),
			WebSearchLambda:             getEnv("WEB_SEARCH_LAMBDA", ""),
		},
		Agent: AgentConfig{
			LLMProvider:      getEnv("LLM_PROVIDER", "bedrock"),
			ModelID:          getEnv("AGENT_MODEL_ID", "anthropic.claude-3-5-sonnet-20241022-v2:0"),
			OllamaBaseURL:    getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			LLMModel:         getEnv("LLM_MODEL", "llama3.1"),
			GuardrailID:      getEnv("GUARDRAIL_ID", ""),
			GuardrailVersion: getEnv("GUARDRAIL_VERSION", "DRAFT"),
			MaxIterations:    getEnvAsInt("AGENT_MAX_ITERATIONS", 8),
		},
		Citations: CitationConfig{
			EnableDeduplication:       getEnvAsBool("ENABLE_CITATION_DEDUPLICATION", false),
			DedupStrategy:             getEnv("CITATION_DEDUP_STRATEGY", "name"),
			EncyclopediaSnippetLength: getEnvAsInt("ENCYCLOPEDIA_SNIPPET_LENGTH", 500),
			UnderwritingSnippetLength: getEnvAsInt("UNDERWRITING_SNIPPET_LENGTH", 800),
			WebSnippetLength:          getEnvAsInt("WEB_SNIPPET_LENGTH", 200),
		},
		Session: SessionConfig{
			Enabled:  getEnvAsBool("ENABLE_SESSION_MANAGEMENT", false),
			Store:    getEnv("SESSION_STORE", "s3"),
			Bucket:   getEnv("SESSION_BUCKET", ""),
			Prefix:   getEnv("SESSION_PREFIX", "sessions/"),
			RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),
			TTLHours: getEnvAsInt("SESSION_TTL_HOURS", 0),
		},
		Telemetry: TelemetryConfig{
			Enabled:  getEnvAsBool("OTEL_ENABLED", false),
			Endpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
	}
}

// IsProduction selects the JSON console encoder
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsBool accepts "true" in any case, everything else is false
func getEnvAsBool(key string, fallback bool) bool {
	strValue, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return strings.EqualFold(strings.TrimSpace(strValue), "true")
}
