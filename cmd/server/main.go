// File: cmd/server/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log" // Standard log for critical startup/shutdown messages before/after zap is active
	"os"
	"os/signal"
	"strings"
	"syscall"

	"localpro_backend/internal/config"
	"localpro_backend/internal/platform/database"
	platformElasticsearch "localpro_backend/internal/platform/elasticsearch"
	"localpro_backend/internal/platform/logger"
	"localpro_backend/internal/provider"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"
)

func main() {
	syncProvidersCmd := flag.NewFlagSet("sync-providers", flag.ExitOnError)
	batchSize := syncProvidersCmd.Int("batch-size", 100, "Batch size for syncing provider profiles")
	esRefresh := syncProvidersCmd.String("es-refresh", "false", "Elasticsearch refresh policy (true, false, wait_for)")

	if len(os.Args) > 1 && os.Args[1] == "sync-providers" {
		syncProvidersCmd.Parse(os.Args[2:])

		cfg, err := config.Load()
		if err != nil {
			log.Fatalf("FATAL: Failed to load configuration for sync: %v", err)
		}
		appLogger, err := logger.New(cfg)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize logger for sync: %v", err)
		}
		db, err := database.NewGORM(cfg)
		if err != nil {
			appLogger.Fatal("FATAL: Failed to initialize database for sync", zap.Error(err))
		}
		sqlDB, _ := db.DB()
		defer sqlDB.Close()

		esClient, err := platformElasticsearch.NewClient(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("FATAL: Failed to initialize Elasticsearch client for sync", zap.Error(err))
		}
		if esClient == nil {
			appLogger.Fatal("FATAL: Elasticsearch client is nil though no error reported, ensure ELASTICSEARCH_URL is set.")
		}

		// Ensure index exists before syncing
		if err := platformElasticsearch.CreateProvidersIndexIfNotExists(esClient, appLogger); err != nil {
			appLogger.Fatal("FATAL: Failed to create/verify Elasticsearch index before sync", zap.Error(err))
		}

		providerRepo := provider.NewGORMRepository(db)

		err = runProviderSync(providerRepo, esClient, appLogger, *batchSize, *esRefresh)
		if err != nil {
			appLogger.Fatal("FATAL: Provider synchronization failed", zap.Error(err))
		}
		appLogger.Info("Provider synchronization completed successfully.")
		return
	}

	// Default: Start server
	startServer()
}

func startServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	server, cleanup, err := initializeServer(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize server: %v", err)
	}
	defer cleanup()

	if server.ESClient != nil {
		if err := platformElasticsearch.CreateProvidersIndexIfNotExists(server.ESClient, server.AppLogger); err != nil {
			server.AppLogger.Error("Failed to create Elasticsearch providers index.", zap.Error(err))
		}
	} else {
		server.AppLogger.Info("Elasticsearch client not initialized, skipping index creation.")
	}

	go func() {
		if err := server.Start(); err != nil && err.Error() != "http: Server closed" {
			log.Fatalf("FATAL: Server failed to start or crashed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Printf("INFO: Received signal '%s'. Shutting down server...", sig)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ServerTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: Server forced to shutdown due to error: %v", err)
	} else {
		log.Println("INFO: Server shutdown complete.")
	}
	log.Println("INFO: Application exiting.")
}

// runProviderSync pushes every provider profile into Elasticsearch in
// batches using the bulk API.
func runProviderSync(
	providerRepo provider.Repository,
	esClient *platformElasticsearch.ESClientWrapper,
	logger *zap.Logger,
	batchSize int,
	esRefresh string,
) error {
	logger.Info("Starting provider synchronization to Elasticsearch...",
		zap.Int("batchSize", batchSize),
		zap.String("esRefreshPolicy", esRefresh),
	)

	offset := 0
	totalSynced := 0
	totalFailed := 0
	batchNumber := 1

	for {
		profiles, err := providerRepo.FindAllForSync(context.Background(), offset, batchSize)
		if err != nil {
			logger.Error("Failed to fetch batch of profiles", zap.Error(err), zap.Int("batchNumber", batchNumber))
			return fmt.Errorf("failed to fetch batch %d: %w", batchNumber, err)
		}

		if len(profiles) == 0 {
			logger.Info("No more profiles to sync.")
			break
		}

		var bulkRequestBody strings.Builder
		batchIDs := make([]string, 0, len(profiles))

		for i := range profiles {
			p := &profiles[i]
			batchIDs = append(batchIDs, p.ID.String())
			docJSON, errDoc := provider.DocumentJSON(p)
			if errDoc != nil {
				logger.Error("Failed to convert profile to Elasticsearch document",
					zap.String("profileID", p.ID.String()),
					zap.Error(errDoc),
				)
				totalFailed++
				continue
			}

			action := fmt.Sprintf(`{ "index" : { "_index" : "%s", "_id" : "%s" } }%s`, platformElasticsearch.ProvidersIndexName, p.ID.String(), "\n")
			bulkRequestBody.WriteString(action)
			bulkRequestBody.WriteString(docJSON)
			bulkRequestBody.WriteString("\n")
		}

		if bulkRequestBody.Len() == 0 {
			offset += len(profiles)
			batchNumber++
			continue
		}

		logger.Info("Sending bulk request to Elasticsearch",
			zap.Int("batchNumber", batchNumber), zap.Int("documentCount", len(batchIDs)))

		req := esapi.BulkRequest{
			Body:    strings.NewReader(bulkRequestBody.String()),
			Refresh: esRefresh,
		}

		res, errBulk := req.Do(context.Background(), esClient.Client)
		if errBulk != nil {
			logger.Error("Failed to send bulk request to Elasticsearch", zap.Error(errBulk), zap.Int("batchNumber", batchNumber))
			totalFailed += len(batchIDs)
			offset += len(profiles)
			batchNumber++
			continue
		}

		batchSynced, batchFailed := countBulkResults(res, batchIDs, logger)

		totalSynced += batchSynced
		totalFailed += batchFailed
		logger.Info("Batch processed.",
			zap.Int("batchNumber", batchNumber),
			zap.Int("syncedInBatch", batchSynced),
			zap.Int("failedInBatch", batchFailed),
		)

		offset += len(profiles)
		batchNumber++
	}

	logger.Info("Provider synchronization process finished.",
		zap.Int("totalProfilesSyncedSuccessfully", totalSynced),
		zap.Int("totalProfilesFailed", totalFailed),
	)
	if totalFailed > 0 {
		return fmt.Errorf("%d profiles failed to sync", totalFailed)
	}
	return nil
}

// countBulkResults inspects a bulk response body item by item, since a bulk
// call can succeed overall while individual documents fail.
func countBulkResults(res *esapi.Response, batchIDs []string, logger *zap.Logger) (synced, failed int) {
	defer res.Body.Close()

	var bulkResponse struct {
		Errors bool `json:"errors"`
		Items  []struct {
			Index struct {
				ID     string                 `json:"_id"`
				Status int                    `json:"status"`
				Error  map[string]interface{} `json:"error,omitempty"`
			} `json:"index"`
		} `json:"items"`
	}

	if err := json.NewDecoder(res.Body).Decode(&bulkResponse); err != nil {
		logger.Error("Failed to parse Elasticsearch bulk response body", zap.Error(err), zap.String("status", res.Status()))
		return 0, len(batchIDs)
	}

	if res.IsError() && len(bulkResponse.Items) == 0 {
		logger.Error("Elasticsearch bulk request returned an error", zap.String("status", res.Status()))
		return 0, len(batchIDs)
	}

	for _, item := range bulkResponse.Items {
		if item.Index.Error != nil {
			logger.Error("Failed to index document in bulk batch",
				zap.String("profileID", item.Index.ID),
				zap.Any("error", item.Index.Error),
				zap.Int("status", item.Index.Status),
			)
			failed++
		} else {
			synced++
		}
	}
	return synced, failed
}
