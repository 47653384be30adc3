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

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"gamewatch/internal/games"
	"gamewatch/pkg/database"
	"gamewatch/pkg/utils"
)

func main() {
	_ = godotenv.Load()

	dbCfg := database.DefaultConfig()
	db := database.MustOpen(dbCfg)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	router := gin.Default()
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": dbCfg.Path})
	})

	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "db_error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "db": "ok"})
	})

	// Games (public, read-only)
	repo := games.NewRepo(db)
	handler := games.NewHandler(repo)
	handler.RegisterRoutes(router.Group("/games"))

	apiCfg := utils.LoadAPIConfig()
	srv := &http.Server{
		Addr:    apiCfg.Addr,
		Handler: router,
	}

	go func() {
		log.Printf("HTTP API server listening on %s", apiCfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
