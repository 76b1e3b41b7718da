package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/DedS3t/richman/app/models"
	"github.com/go-pg/pg/v10"
	"github.com/go-pg/pg/v10/orm"
)

type PostgresConfig struct {
	Addr     string
	User     string
	Password string
	Database string
}

func PostgreSQLConnection(cfg PostgresConfig) *pg.DB {
	return pg.Connect(&pg.Options{
		User:     cfg.User,
		Addr:     cfg.Addr,
		Password: cfg.Password,
		Database: cfg.Database,
	})
}

// RoomRegistry is the shared lobby: every host announces its room here so
// other peers can find it.
type RoomRegistry struct {
	db *pg.DB
}

func NewRoomRegistry(db *pg.DB) *RoomRegistry {
	return &RoomRegistry{db: db}
}

func (r *RoomRegistry) EnsureSchema() error {
	return r.db.Model((*models.Room)(nil)).CreateTable(&orm.CreateTableOptions{IfNotExists: true})
}

func (r *RoomRegistry) Announce(ctx context.Context, room models.Room) error {
	_, err := r.db.ModelContext(ctx, &room).
		OnConflict("(id) DO UPDATE").
		Set("name = EXCLUDED.name, host_id = EXCLUDED.host_id, status = EXCLUDED.status, players = EXCLUDED.players").
		Insert()
	if err != nil {
		return fmt.Errorf("announce room %s: %w", room.Id, err)
	}
	return nil
}

func (r *RoomRegistry) Available(ctx context.Context) ([]models.Room, error) {
	rooms := []models.Room{}
	err := r.db.ModelContext(ctx, &rooms).Where("status = ?", string(models.StatusPlaying)).Order("id").Select()
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

func (r *RoomRegistry) Verify(ctx context.Context, code string) (bool, error) {
	room := &models.Room{Id: code}
	err := r.db.ModelContext(ctx, room).WherePK().Select()
	if errors.Is(err, pg.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("verify room %s: %w", code, err)
	}
	return true, nil
}
