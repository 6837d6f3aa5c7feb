package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"gutenlens/internal/analyzer"
	"gutenlens/internal/api"
	"gutenlens/internal/config"
	"gutenlens/internal/db"
	"gutenlens/internal/gutenberg"
	"gutenlens/internal/library"
	"gutenlens/internal/llm"
	redisdb "gutenlens/internal/redis"
	"gutenlens/internal/retrieval"
)

func main() {
	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := db.Init(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "DB init error: %v\n", err)
		os.Exit(1)
	}
	rdb, err := redisdb.NewClient(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Redis error: %v\n", err)
		os.Exit(1)
	}

	// LLM queue: interactive requests preempt background indexing work.
	breaker := llm.NewCircuitBreaker(3, 5*time.Minute)
	qcfg := llm.DefaultConfig()
	manager := llm.NewManager(qcfg, breaker, cfg.LLM.APIKey)
	defer manager.Stop()
	client := llm.NewClient(manager, llm.PriorityCritical, qcfg.CriticalTimeout)
	gen := llm.NewGenerator(client, cfg.LLM.URL, cfg.LLM.Model)

	fetcher := gutenberg.NewFetcher(
		time.Duration(cfg.Analyzer.FetchTimeoutSecs)*time.Second,
		cfg.Analyzer.UserAgent,
		cfg.Analyzer.MaxPageSizeMB,
	)
	catalog := gutenberg.NewCatalog(fetcher)

	// Retrieval index is optional; without Qdrant, chat uses the text sample.
	var index analyzer.Index
	if cfg.Qdrant.URL != "" {
		store, err := retrieval.NewStore(cfg.Qdrant.URL, cfg.Qdrant.Collection, cfg.Qdrant.APIKey)
		if err != nil {
			log.Printf("[Main] WARNING: Qdrant unavailable, chat retrieval disabled: %v", err)
		} else {
			bgClient := llm.NewClient(manager, llm.PriorityBackground, qcfg.BackgroundTimeout)
			embedder := retrieval.NewEmbedder(bgClient, cfg.Embedding.URL, cfg.Embedding.Model)
			index = retrieval.NewIndex(store, embedder)
			log.Printf("[Main] Retrieval index ready (collection %q)", cfg.Qdrant.Collection)
		}
	} else {
		log.Printf("[Main] Qdrant not configured, chat retrieval disabled")
	}

	pool := api.NewAgentPool(catalog, gen, index, cfg.Analyzer.SampleLimit)
	store := library.NewStore(db.DB)

	r := api.SetupRouter(cfg, rdb, pool, store, manager)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	fmt.Printf("Starting server on %s%s\n", addr, cfg.Server.Subpath)
	if err := r.Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
