package bootstrap

import (
	"context"
	"fmt"
	"log"
	"time"

	"kb-agent-lambda/internal/config"
	"kb-agent-lambda/internal/constant"
	"kb-agent-lambda/internal/handler"
	"kb-agent-lambda/internal/pkg/logger"
	"kb-agent-lambda/internal/repository/contract"
	"kb-agent-lambda/internal/repository/implementation"
	"kb-agent-lambda/internal/repository/memory"
	"kb-agent-lambda/internal/service"
	"kb-agent-lambda/internal/tool"
	"kb-agent-lambda/internal/tracer"
	"kb-agent-lambda/pkg/agent"
	"kb-agent-lambda/pkg/bedrock"
	"kb-agent-lambda/pkg/citation"
	"kb-agent-lambda/pkg/eventbus"
	"kb-agent-lambda/pkg/events"
	"kb-agent-lambda/pkg/llm"
	llmbedrock "kb-agent-lambda/pkg/llm/bedrock"
	"kb-agent-lambda/pkg/llm/factory"
	pktNats "kb-agent-lambda/pkg/nats"
	"kb-agent-lambda/pkg/websearch"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/redis/go-redis/v9"
)

type Container struct {
	Config  *config.Config
	Logger  logger.ILogger
	Service service.IAgentService

	// Exactly one handler is set, matching the profile
	UnderwritingHandler *handler.UnderwritingHandler
	EncyclopediaHandler *handler.EncyclopediaHandler

	closers []func(context.Context)
}

// clients groups the AWS service clients shared by a profile
type clients struct {
	agentRuntime *bedrockagentruntime.Client
	runtime      *bedrockruntime.Client
	lambda       *lambda.Client
	s3           *s3.Client
}

func NewContainer(ctx context.Context, cfg *config.Config, profile string) (*Container, error) {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	c := &Container{Config: cfg, Logger: sysLogger}

	shutdownTracer := tracer.InitTracer("kb-agent-"+profile, cfg.Telemetry.Enabled, cfg.Telemetry.Endpoint)
	c.closers = append(c.closers, func(ctx context.Context) { _ = shutdownTracer(ctx) })

	// 2. AWS clients
	awsClients, err := newClients(ctx, cfg.AWS)
	if err != nil {
		return nil, err
	}

	// 3. Infrastructure
	sessions, err := c.sessionRepository(ctx, cfg.Session, awsClients)
	if err != nil {
		return nil, err
	}
	publisher := c.eventPublisher(ctx, cfg.App)

	provider, err := factory.NewLLMProvider(factory.Settings{
		Provider:  cfg.Agent.LLMProvider,
		Model:     agentModel(cfg.Agent),
		BaseURL:   cfg.Agent.OllamaBaseURL,
		Converse:  awsClients.runtime,
		Guardrail: guardrail(cfg.Agent),
	})
	if err != nil {
		return nil, err
	}

	// 4. Profile
	var p service.Profile
	switch profile {
	case constant.ProfileUnderwriting:
		p, err = underwritingProfile(cfg, awsClients, provider, sysLogger)
	case constant.ProfileEncyclopedia:
		p = encyclopediaProfile(cfg, awsClients, provider, sysLogger)
	default:
		err = fmt.Errorf("unknown profile: %s", profile)
	}
	if err != nil {
		return nil, err
	}

	// 5. Service and handler
	c.Service = service.NewAgentService(p, sessions, publisher, sysLogger)
	if profile == constant.ProfileUnderwriting {
		c.UnderwritingHandler = handler.NewUnderwritingHandler(c.Service, sysLogger)
	} else {
		c.EncyclopediaHandler = handler.NewEncyclopediaHandler(c.Service, sysLogger)
	}

	sysLogger.Info("Bootstrap", "Container ready", map[string]interface{}{
		"profile":       profile,
		"llm_provider":  cfg.Agent.LLMProvider,
		"sessions":      cfg.Session.Enabled,
		"session_store": cfg.Session.Store,
		"dedup":         p.Pipeline.Strategy(),
	})
	return c, nil
}

// Close flushes telemetry and closes connections, newest first
func (c *Container) Close(ctx context.Context) {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i](ctx)
	}
	_ = c.Logger.Sync()
}

func newClients(ctx context.Context, cfg config.AWSConfig) (*clients, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	var endpoint *string
	if cfg.Endpoint != "" {
		endpoint = aws.String(cfg.Endpoint)
	}

	return &clients{
		agentRuntime: bedrockagentruntime.NewFromConfig(awsCfg, func(o *bedrockagentruntime.Options) {
			o.BaseEndpoint = endpoint
		}),
		runtime: bedrockruntime.NewFromConfig(awsCfg, func(o *bedrockruntime.Options) {
			o.BaseEndpoint = endpoint
		}),
		lambda: lambda.NewFromConfig(awsCfg, func(o *lambda.Options) {
			o.BaseEndpoint = endpoint
		}),
		s3: s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = endpoint
			o.UsePathStyle = endpoint != nil
		}),
	}, nil
}

func (c *Container) sessionRepository(ctx context.Context, cfg config.SessionConfig, awsClients *clients) (contract.SessionRepository, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	ttl := time.Duration(cfg.TTLHours) * time.Hour
	switch cfg.Store {
	case "s3":
		if cfg.Bucket == "" {
			return nil, fmt.Errorf("SESSION_BUCKET is required for the s3 session store")
		}
		return implementation.NewS3SessionRepository(awsClients.s3, cfg.Bucket, cfg.Prefix, c.Logger), nil
	case "redis":
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.RedisURL,
			}
		}
		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		c.closers = append(c.closers, func(context.Context) { _ = rdb.Close() })
		return implementation.NewRedisSessionRepository(rdb, cfg.Prefix, ttl, c.Logger), nil
	case "memory":
		return memory.NewSessionRepository(ttl), nil
	default:
		return nil, fmt.Errorf("unknown session store: %s", cfg.Store)
	}
}

// eventPublisher prefers NATS and falls back to the in-process bus, whose
// subscriber writes turn events to the log.
func (c *Container) eventPublisher(ctx context.Context, cfg config.AppConfig) events.Publisher {
	if cfg.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.NatsURL)
		if err == nil {
			c.closers = append(c.closers, func(context.Context) { natsPub.Close() })
			return natsPub
		}
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	bus := eventbus.New(watermill.NewStdLogger(false, false))
	err := bus.Subscribe(ctx, events.TypeTurnCompleted, func(ctx context.Context, e events.Event) error {
		c.Logger.Info("Events", e.EventType(), e.Payload())
		return nil
	})
	if err != nil {
		log.Printf("[WARN] Failed to subscribe to event bus: %v", err)
	}
	c.closers = append(c.closers, func(context.Context) { _ = bus.Close() })
	return bus
}

func underwritingProfile(cfg *config.Config, awsClients *clients, provider llm.LLMProvider, sysLogger logger.ILogger) (service.Profile, error) {
	k := cfg.Knowledge
	cc := cfg.Citations

	pipeline := citation.NewPipeline(nil)
	if cc.EnableDeduplication {
		dedup, err := citation.StrategyFor(cc.DedupStrategy)
		if err != nil {
			return service.Profile{}, err
		}
		pipeline = citation.NewPipeline(dedup)
	}

	tools := []agent.Tool{
		tool.NewInternalGuidelinesLookup(knowledgeBase(awsClients, k.FAQKnowledgeBaseID, k.ModelARN), cc.UnderwritingSnippetLength, k.UnderwritingNumberOfResults, sysLogger),
		tool.NewUnderwritingDocsSearch(knowledgeBase(awsClients, k.AccordKnowledgeBaseID, k.ModelARN), cc.UnderwritingSnippetLength, k.UnderwritingNumberOfResults, sysLogger),
		tool.NewWebSearch(websearch.NewClient(awsClients.lambda, k.WebSearchLambda), cc.WebSnippetLength, sysLogger),
	}

	return service.Profile{
		Name:     constant.ProfileUnderwriting,
		Runner:   agent.New(provider, constant.UnderwritingSystemPrompt, tools, agent.WithMaxIterations(cfg.Agent.MaxIterations)),
		Pipeline: pipeline,
	}, nil
}

func encyclopediaProfile(cfg *config.Config, awsClients *clients, provider llm.LLMProvider, sysLogger logger.ILogger) service.Profile {
	k := cfg.Knowledge
	kb := bedrock.NewKnowledgeBase(awsClients.agentRuntime, k.EncyclopediaKnowledgeBaseID, k.ModelARN)

	tools := []agent.Tool{
		tool.NewCustomRetrieve(kb, cfg.Citations.EncyclopediaSnippetLength, k.NumberOfResults, sysLogger),
	}

	return service.Profile{
		Name:                 constant.ProfileEncyclopedia,
		Runner:               agent.New(provider, constant.EncyclopediaSystemPrompt, tools, agent.WithMaxIterations(cfg.Agent.MaxIterations)),
		Pipeline:             citation.NewPipeline(citation.SpanAware{}),
		KnowledgeBaseID:      kb.ID(),
		RequireKnowledgeBase: true,
	}
}

// knowledgeBase returns a nil Retriever for an unset id so tools can tell
func knowledgeBase(awsClients *clients, id, modelARN string) tool.Retriever {
	if id == "" {
		return nil
	}
	return bedrock.NewKnowledgeBase(awsClients.agentRuntime, id, modelARN)
}

func agentModel(cfg config.AgentConfig) string {
	if cfg.LLMProvider == "ollama" {
		return cfg.LLMModel
	}
	return cfg.ModelID
}

func guardrail(cfg config.AgentConfig) *llmbedrock.Guardrail {
	if cfg.GuardrailID == "" {
		return nil
	}
	return &llmbedrock.Guardrail{ID: cfg.GuardrailID, Version: cfg.GuardrailVersion}
}
