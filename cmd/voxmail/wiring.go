package main

import (
	"context"
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	openai "github.com/openai/openai-go/v3"
	oaioption "github.com/openai/openai-go/v3/option"

	"github.com/voxmail/voxmail/internal/ceo"
	"github.com/voxmail/voxmail/internal/chat"
	"github.com/voxmail/voxmail/internal/classifier"
	"github.com/voxmail/voxmail/internal/config"
	"github.com/voxmail/voxmail/internal/coordinator"
	"github.com/voxmail/voxmail/internal/email"
	"github.com/voxmail/voxmail/internal/llm"
	"github.com/voxmail/voxmail/internal/memory"
	"github.com/voxmail/voxmail/internal/state"
	"github.com/voxmail/voxmail/internal/voice"
)

// app bundles the wired assistant and everything that needs closing.
type app struct {
	cfg    *config.Config
	db     *state.DB
	mem    *memory.Store
	mgr    *coordinator.SessionManager
	cls    *classifier.Classifier
	ceo    *ceo.CEO
	logger *ceo.DebugLogger
}

// buildApp loads configuration and wires the full assistant.
func buildApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := ceo.NewDebugLogger(cfg.Debug.LogPath)
	if err != nil {
		return nil, fmt.Errorf("open debug log: %w", err)
	}

	db, err := openStateDB()
	if err != nil {
		return nil, fmt.Errorf("open state database: %w", err)
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate state database: %w", err)
	}

	mem, err := memory.NewStore(memory.DefaultDBPath())
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("open memory store: %w", err)
	}
	if err := mem.Migrate(); err != nil {
		mem.Close()
		db.Close()
		return nil, fmt.Errorf("migrate memory store: %w", err)
	}

	cls := classifier.New()
	if cfg.Classifier.RulesPath != "" {
		kw, err := classifier.LoadKeywords(cfg.Classifier.RulesPath)
		if err != nil {
			mem.Close()
			db.Close()
			return nil, fmt.Errorf("load classifier rules: %w", err)
		}
		cls.SetKeywords(kw)
	}

	llmClient, err := llm.NewClient(llm.ClientConfig{
		Model:         anthropic.Model(cfg.Anthropic.Model),
		APIKey:        cfg.Anthropic.APIKey,
		UseAWSBedrock: cfg.Anthropic.UseAWSBedrock,
		AWSRegion:     cfg.Anthropic.AWSRegion,
		AWSProfile:    cfg.Anthropic.AWSProfile,
	})
	if err != nil {
		mem.Close()
		db.Close()
		return nil, fmt.Errorf("create Anthropic client: %w", err)
	}
	runner := llm.NewRunner(llmClient)

	// Transcription is only exercised for audio messages; a missing OpenAI
	// key fails at transcription time, not at startup.
	openaiKey, _ := config.GetOpenAIKey(cfg)
	oa := openai.NewClient(oaioption.WithAPIKey(openaiKey))
	voiceSvc := voice.NewService(
		voice.NewWhisperTranscriber(oa),
		voice.NewExtractor(runner),
	)

	gateway := email.NewGateway(cfg.Gateway.BaseURL, cfg.Gateway.APIKey)
	emailSvc := email.NewService(gateway, email.NewComposer(runner, mem))

	mgr := coordinator.NewSessionManager(db)
	coord := coordinator.New(mgr, coordinator.Policy{
		DirectSendBypass: cfg.Approval.DirectSendBypass,
		MaxRevisions:     cfg.Workflow.MaxRevisions,
	})

	assistant := ceo.New(ceo.Config{
		Preprocessor: coordinator.NewPreprocessor(cls),
		Coordinator:  coord,
		Voice:        voiceSvc,
		Email:        emailSvc,
		Memory:       mem,
		Logger:       logger,
	})

	return &app{
		cfg:    cfg,
		db:     db,
		mem:    mem,
		mgr:    mgr,
		cls:    cls,
		ceo:    assistant,
		logger: logger,
	}, nil
}

// Close releases the app's resources.
func (a *app) Close() {
	a.mem.Close()
	a.db.Close()
	a.logger.Close()
}

// startBackground launches the idle-session reaper and, when configured, the
// classifier rules watcher. Both stop when the context is cancelled.
func (a *app) startBackground(ctx context.Context) {
	go a.mgr.RunReaper(ctx, a.cfg.Approval.ReapInterval, a.cfg.Approval.IdleTimeout, func(err error) {
		a.logger.Log("reaper: %v", err)
	})

	if a.cfg.Classifier.RulesPath != "" {
		go func() {
			err := classifier.Watch(ctx, a.cls, a.cfg.Classifier.RulesPath, func(err error) {
				a.logger.Log("rules watcher: %v", err)
			})
			if err != nil && ctx.Err() == nil {
				a.logger.Log("rules watcher stopped: %v", err)
			}
		}()
	}
}

// handle runs one chat message through the assistant.
func (a *app) handle(ctx context.Context, msg *chat.Message) (string, error) {
	return a.ceo.HandleMessage(ctx, msg)
}

// openStateDB opens the project database when the working directory has a
// .voxmail directory, otherwise the global one.
func openStateDB() (*state.DB, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	projectPath := state.ProjectDBPath(cwd)
	if _, err := os.Stat(projectPath); err == nil {
		return state.Open(projectPath)
	}
	return state.OpenGlobal()
}
