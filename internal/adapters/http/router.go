package http

import (
	"context"
	"net/http"

	"github.com/dkeye/Agora/internal/adapters/signal"
	"github.com/dkeye/Agora/internal/config"
	"github.com/dkeye/Agora/internal/domain"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const (
	sessionName     = "AgoraSessions"
	sessionUsername = "username"
	sessionImage    = "img"
)

// RoomsReader is the read side of the coordinator.
type RoomsReader interface {
	Rooms() []domain.Room
	Room(id domain.RoomID) (domain.Room, bool)
}

func genClientToken() string {
	return uuid.NewString()
}

func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = genClientToken()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

// ProfileFromSession returns the login profile stored in the cookie session.
func ProfileFromSession(c *gin.Context) domain.Profile {
	s := sessions.Default(c)
	var p domain.Profile
	if v, ok := s.Get(sessionUsername).(string); ok {
		p.Username = v
	}
	if v, ok := s.Get(sessionImage).(string); ok {
		p.ImageURL = v
	}
	return p
}

func SetupRouter(ctx context.Context, cfg *config.Config, rooms RoomsReader, ctl *signal.SignalWSController) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions(sessionName, store))
	r.Use(ClientTokenMiddleware())

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	api := r.Group("/api")

	api.POST("/login", handleLogin)

	api.GET("/me", func(c *gin.Context) {
		p := ProfileFromSession(c)
		if p.Username == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not logged in"})
			return
		}
		c.JSON(http.StatusOK, p)
	})

	api.GET("/rooms", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"rooms": rooms.Rooms()})
	})

	api.GET("/rooms/:id", func(c *gin.Context) {
		room, ok := rooms.Room(domain.RoomID(c.Param("id")))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"room": room, "members": room.Members})
	})

	api.GET("/ws/room", func(c *gin.Context) {
		log.Info().Str("module", "adapters.http").Str("client", c.GetString("client_token")).Msg("ws room endpoint hit")
		ctl.HandleRoom(ctx, c, ProfileFromSession(c))
	})

	api.GET("/ws/lobby", func(c *gin.Context) {
		log.Info().Str("module", "adapters.http").Str("client", c.GetString("client_token")).Msg("ws lobby endpoint hit")
		ctl.HandleLobby(ctx, c)
	})

	return r
}

type loginRequest struct {
	Username string `json:"username"`
	Image    string `json:"img"`
}

func handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_payload"})
		return
	}
	if err := domain.ValidateUsername(req.Username); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s := sessions.Default(c)
	s.Set(sessionUsername, req.Username)
	s.Set(sessionImage, req.Image)
	if err := s.Save(); err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("session save")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session"})
		return
	}
	log.Info().Str("module", "adapters.http").Str("client", c.GetString("client_token")).Str("username", req.Username).Msg("login")
	c.JSON(http.StatusOK, domain.Profile{Username: req.Username, ImageURL: req.Image})
}
