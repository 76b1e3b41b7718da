// Package identity gives this peer a stable id and the bearer token its
// local HTTP API accepts.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/DedS3t/richman/app/models"
	"github.com/DedS3t/richman/platform/cache"
	jwt "github.com/form3tech-oss/jwt-go"
	uuid "github.com/satori/go.uuid"
)

const UserIdKey = "richman_userid"

var ErrInvalidToken = errors.New("invalid token")

// LoadOrCreate returns the stored peer id, generating and saving one on
// first use.
func LoadOrCreate(ctx context.Context, store cache.Store) (string, error) {
	id, err := store.Get(ctx, UserIdKey)
	if err == nil && id != "" {
		return id, nil
	}
	if err != nil && !errors.Is(err, cache.ErrNotFound) {
		return "", fmt.Errorf("load user id: %w", err)
	}
	id = "user_" + uuid.NewV4().String()
	if err := store.Set(ctx, UserIdKey, id); err != nil {
		return "", fmt.Errorf("save user id: %w", err)
	}
	return id, nil
}

func Sign(peerId string, secret []byte) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)
	claims["peer_id"] = peerId
	return token.SignedString(secret)
}

func PeerId(token *jwt.Token) (string, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	id, ok := claims["peer_id"].(string)
	if !ok || id == "" {
		return "", ErrInvalidToken
	}
	return id, nil
}

func Parse(raw string, secret []byte) (string, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	return PeerId(token)
}

// Load builds the local user: id from the store, token signed with secret.
func Load(ctx context.Context, store cache.Store, secret []byte) (models.User, error) {
	id, err := LoadOrCreate(ctx, store)
	if err != nil {
		return models.User{}, err
	}
	token, err := Sign(id, secret)
	if err != nil {
		return models.User{}, fmt.Errorf("sign token: %w", err)
	}
	return models.User{Id: id, Token: token}, nil
}
