package http

import (
	"context"
	"net/http"

	"github.com/dkeye/Rendezvous/internal/adapters/rtc"
	"github.com/dkeye/Rendezvous/internal/adapters/signal"
	"github.com/dkeye/Rendezvous/internal/app"
	"github.com/dkeye/Rendezvous/internal/app/orch"
	"github.com/dkeye/Rendezvous/internal/config"
	"github.com/dkeye/Rendezvous/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

func SetupRouter(ctx context.Context, cfg *config.Config, o *orch.Orchestrator) (*gin.Engine, error) {
	iceServers, err := rtc.ICEServers(cfg.ICEServers, cfg.TURNUsername, cfg.TURNCredential)
	if err != nil {
		return nil, err
	}

	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())
	r.Use(metrics.Middleware())

	ctrl := signal.NewSignalWSController(o, app.NewAuthenticator(cfg.Password), signal.Options{
		ReadLimit:  cfg.ReadLimit,
		PingPeriod: cfg.PingPeriod,
		WriteWait:  cfg.WriteWait,
		SendBuffer: cfg.SendBuffer,
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, o.Health())
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/api/ice", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"iceServers": iceServers})
	})

	// Everything else is either a websocket handshake or a mistake.
	r.NoRoute(func(c *gin.Context) {
		if !websocket.IsWebSocketUpgrade(c.Request) {
			c.Header("Upgrade", "websocket")
			c.String(http.StatusUpgradeRequired, "Upgrade Required")
			return
		}
		ctrl.HandleSignal(ctx, c)
	})

	log.Info().Str("module", "adapters.http").Int("ice_servers", len(iceServers)).Msg("router setup")
	return r, nil
}
