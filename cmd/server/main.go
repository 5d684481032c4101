package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"entitysearch/database"
	"entitysearch/enrichment"
	"entitysearch/internal/config"
	"entitysearch/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Ошибка конфигурации: %v", err)
	}

	db, err := database.NewSearchDB(cfg.DatabasePath, cfg.BaseName, cfg.DBConfig())
	if err != nil {
		log.Fatalf("Ошибка открытия базы данных: %v", err)
	}
	defer db.Close()

	var registry *enrichment.RegistryClient
	if cfg.Registry.Enabled {
		registry = enrichment.NewRegistryClient(cfg.Registry)
		if cfg.RegistryCache.Enabled {
			registry.SetCache(enrichment.NewRegistryCache(cfg.RegistryCache))
		}
		log.Printf("Внешний реестр подключен: %s (endpoint=%s)", cfg.Registry.BaseURL, cfg.Registry.Endpoint)
	} else {
		log.Println("Внешний реестр отключен, поиск выполняется только по локальной базе")
	}

	router := server.NewRouter(db, registry)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		log.Printf("Сервер поиска сущностей запущен на порту %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Ошибка запуска сервера: %v", err)
		}
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Завершение работы сервера...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Принудительное завершение: %v", err)
	}
	log.Println("Сервер остановлен")
}
