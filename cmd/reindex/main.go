package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/leon37/Hamhama/internal/config"
	"github.com/leon37/Hamhama/internal/infrastructure/database"
	"github.com/leon37/Hamhama/internal/infrastructure/embedding"
	"github.com/leon37/Hamhama/internal/infrastructure/vectordb"
	"github.com/leon37/Hamhama/internal/repository"
	"github.com/leon37/Hamhama/internal/service"
)

// reindex 把菜谱目录全量写入 Qdrant，批量导入菜谱后手动执行
func main() {
	configPath := flag.String("config", "", "path to config.yaml")
	batchSize := flag.Int("batch", 100, "recipes per batch")
	flag.Parse()

	conf, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("无法加载配置: %v", err)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: conf.Log.SlogLevel()})))

	if conf.Qdrant.Host == "" {
		log.Fatal("qdrant.host is not configured")
	}

	db, err := database.NewConnection(conf.Database, false)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}

	vecClient, err := vectordb.NewQdrantClient(conf.Qdrant.Host, conf.Qdrant.Port, conf.Qdrant.CollectionName, conf.Embedding.Dimension)
	if err != nil {
		log.Fatalf("Failed to init Vector DB: %v", err)
	}
	defer vecClient.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := vecClient.InitCollection(initCtx); err != nil {
		log.Fatalf("Failed to init Qdrant collection: %v", err)
	}

	embedder := embedding.NewOpenAIClient(conf.Embedding.APIKey, conf.Embedding.BaseURL, conf.Embedding.Model)
	svc := service.NewRecipeService(repository.NewRecipeRepo(db), embedder, vectordb.NewQdrantRepository(vecClient))

	start := time.Now()
	indexed, err := svc.Reindex(ctx, *batchSize)
	if err != nil {
		slog.Error("reindex aborted", "indexed", indexed, "error", err)
		os.Exit(1)
	}
	slog.Info("reindex finished", "indexed", indexed, "took", time.Since(start).String())
}
