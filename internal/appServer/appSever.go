// launching the server, session store, kafka
package appServer

import (
	"context"
	"crypto/tls"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ds124wfegd/avatar-fix/config"
	"github.com/ds124wfegd/avatar-fix/internal/database"
	redisRepo "github.com/ds124wfegd/avatar-fix/internal/database/redis"
	"github.com/ds124wfegd/avatar-fix/internal/pkg/kafka"
	"github.com/ds124wfegd/avatar-fix/internal/pkg/logger"
	"github.com/ds124wfegd/avatar-fix/internal/pkg/processor"
	"github.com/ds124wfegd/avatar-fix/internal/pkg/redis"
	"github.com/ds124wfegd/avatar-fix/internal/pkg/storage"
	"github.com/ds124wfegd/avatar-fix/internal/service"
	"github.com/ds124wfegd/avatar-fix/internal/transport"
	"github.com/gin-gonic/gin"

	"github.com/sirupsen/logrus"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.Idle_timeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},           // ban on outdate TLS certificate
		ErrorLog:          log.New(os.Stderr, "SERVER ERROR: ", log.LstdFlags), // os.Stderr can be replaced with ElsasticSearch in the feature
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// NewOverlaySource reads overlay.png from the assets dir, cached unless disabled.
func NewOverlaySource(cfg config.AppConfig) processor.OverlaySource {
	assets := storage.NewAssetStorage(cfg.AssetsDir)
	if !assets.Exists(cfg.OverlayPath) {
		logrus.WithField("overlay", cfg.OverlayPath).Warn("Overlay asset not found, results will be published without it")
	}

	overlay := processor.NewFileOverlay(assets, cfg.OverlayPath)
	if cfg.CacheOverlay {
		return processor.NewCachedOverlay(overlay)
	}
	return overlay
}

// NewSessionRepository picks the store named in the config and falls back to memory.
func NewSessionRepository(cfg *config.Config) (database.SessionRepository, func()) {
	if cfg.Store.Driver != "redis" {
		return database.NewMemorySessionRepository(cfg.App.SessionTTL), func() {}
	}

	client := redis.NewRedisClient(&cfg.Redis)
	repo, err := redisRepo.NewSessionRepository(client, cfg.App.SessionTTL)
	if err != nil {
		logrus.WithError(err).Error("Redis unavailable, keeping sessions in memory")
		client.Close()
		return database.NewMemorySessionRepository(cfg.App.SessionTTL), func() {}
	}

	logrus.Info("Sessions stored in Redis")
	return repo, func() { client.Close() }
}

func NewServer(cfg *config.Config) {

	if err := logger.Setup(cfg.Log); err != nil {
		logrus.Fatalf("error occured while configuring logger: %s", err.Error())
	}

	sessionRepo, closeRepo := NewSessionRepository(cfg)
	defer closeRepo()

	producer := kafka.NewProducer(cfg.Kafka)
	defer producer.Close()

	imgProcessor := processor.NewImageProcessor(cfg.App.OutputSize, NewOverlaySource(cfg.App))
	avatarService := service.NewAvatarService(sessionRepo, producer, imgProcessor)
	avatarHandler := transport.NewAvatarHandler(avatarService, cfg.App.DownloadName, cfg.Server.MaxUploadSize)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := new(Server)
	go func() {
		err := srv.Run(cfg, transport.InitRoutes(avatarHandler, cfg.App.SessionTTL, int(cfg.Server.Timeout.Seconds())))
		if err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.WithField("port", cfg.Server.Port).Print("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("App Shutting Down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}

}
