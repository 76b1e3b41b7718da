package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/DedS3t/richman/app/controllers"
	"github.com/DedS3t/richman/app/models"
	"github.com/DedS3t/richman/pkg/routes"
	"github.com/DedS3t/richman/platform/board"
	"github.com/DedS3t/richman/platform/cache"
	"github.com/DedS3t/richman/platform/config"
	"github.com/DedS3t/richman/platform/database"
	"github.com/DedS3t/richman/platform/engine"
	"github.com/DedS3t/richman/platform/identity"
	"github.com/DedS3t/richman/platform/logging"
	"github.com/DedS3t/richman/platform/replication"
	socket "github.com/DedS3t/richman/platform/sockets"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/sirupsen/logrus"
)

type registry interface {
	controllers.RoomRegistry
	replication.Announcer
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	logging.Init(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, local, closeStore, err := openStore(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("could not open store")
	}
	defer closeStore()

	secret := []byte(cfg.JWTSecret)
	user, err := identity.Load(ctx, store, secret)
	if err != nil {
		logrus.WithError(err).Fatal("could not load identity")
	}
	logIdentity(user)

	var rooms registry
	if cfg.UsePostgres() {
		db := database.PostgreSQLConnection(database.PostgresConfig{
			Addr:     cfg.DBAddr,
			User:     cfg.DBUser,
			Password: cfg.DBPassword,
			Database: cfg.DBName,
		})
		defer db.Close()
		reg := database.NewRoomRegistry(db)
		if err := reg.EnsureSchema(); err != nil {
			logrus.WithError(err).Warn("room registry unavailable")
		} else {
			rooms = reg
		}
	} else if local != nil {
		rooms = local
	}

	events, err := board.LoadEvents()
	if err != nil {
		logrus.WithError(err).Fatal("could not load event table")
	}
	e := engine.New(engine.Rules{
		StartingBalance: cfg.StartingBalance,
		StartBonus:      cfg.StartBonus,
		RewardIncrement: cfg.RewardIncrement,
		MaxLevel:        cfg.MaxLevel,
		DiceSides:       cfg.DiceSides,
		Events:          events,
	}, nil)

	opts := replication.Options{
		Engine:   e,
		RoomName: cfg.RoomName,
		OnStatus: func(status string) { logrus.WithField("status", status).Info("connection status") },
	}
	if rooms != nil {
		opts.Announcer = rooms
	}
	self := models.Player{Id: user.Id, Name: cfg.PlayerName}

	var node *replication.Node
	if cfg.Joining() {
		hostId, err := socket.HostFromJoinURL(cfg.JoinURL)
		if err != nil {
			logrus.WithError(err).Fatal("invalid JOIN_URL")
		}
		opts.Announcer = nil
		node = replication.NewClient(self, opts)
		go func() {
			if err := node.Connect(ctx, socket.NewDialer(cfg.JoinURL, user.Id), hostId); err != nil {
				logrus.WithError(err).Error("could not join room")
			}
		}()
	} else {
		sessions := replication.NewSessions(store)
		state, restored, err := sessions.Restore(ctx, user.Id)
		if err != nil {
			logrus.WithError(err).Warn("saved session ignored")
		}
		if !restored {
			if state, err = e.NewRoom(self); err != nil {
				logrus.WithError(err).Fatal("could not create room")
			}
		} else {
			logrus.WithField("version", state.Version).Info("session restored")
		}
		opts.Persister = sessions
		node = replication.NewHost(state, opts)

		server, err := socket.NewServer(cfg.SocketAddr, cfg.AllowedOrigins, user.Id, node)
		if err != nil {
			logrus.WithError(err).Fatal("could not create peer server")
		}
		go func() {
			if err := server.ListenAndServe(); err != nil {
				logrus.WithError(err).Error("peer server stopped")
			}
		}()
		defer server.Shutdown(context.Background())
		logrus.WithField("room", user.Id).Infof("peers join with ws://<this host>%s/ws?host=%s", cfg.SocketAddr, user.Id)
	}

	game := &controllers.GameController{State: node.Replica(), Node: node, RoomName: cfg.RoomName}
	if rooms != nil {
		game.Rooms = rooms
	}

	app := fiber.New()
	app.Use(cors.New())
	routes.GameRoutes(app, game, secret)
	routes.AuthRoutes(app, secret)
	go func() {
		if err := app.Listen(cfg.HTTPAddr); err != nil {
			logrus.WithError(err).Error("http api stopped")
		}
	}()
	defer app.Shutdown()

	if err := node.Run(ctx); err != nil && err != context.Canceled {
		logrus.WithError(err).Error("node stopped")
	}
}

// logIdentity keeps the bearer token out of logs below debug level.
func logIdentity(user models.User) {
	logrus.WithField("peer", user.Id).Info("identity loaded")
	logrus.WithField("token", user.Token).Debug("local api token")
}

// openStore picks the key/value backend. The sqlite store is also returned
// on its own so it can double as the room registry.
func openStore(cfg config.Config) (cache.Store, *database.SQLiteStore, func(), error) {
	switch cfg.StoreBackend {
	case "redis":
		s := cache.NewRedisStore(cache.CreateRedisPool(cfg.RedisURL))
		return s, nil, func() { _ = s.Close() }, nil
	case "memory":
		return cache.NewMemoryStore(), nil, func() {}, nil
	default:
		s, err := database.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, nil, err
		}
		return s, s, func() { _ = s.Close() }, nil
	}
}
