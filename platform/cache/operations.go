package cache

import (
	"errors"

	"github.com/gomodule/redigo/redis"
)

func Get(key string, conn redis.Conn) (string, error) {
	data, err := redis.String(conn.Do("GET", key))
	if errors.Is(err, redis.ErrNil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return data, nil
}

func Del(key string, conn redis.Conn) error {
	_, err := conn.Do("DEL", key)
	return err
}

func Set(key string, value interface{}, conn redis.Conn) error {
	reply, err := redis.String(conn.Do("SET", key, value))
	if err != nil {
		return err
	}
	if reply != "OK" {
		return errors.New("unexpected SET reply: " + reply)
	}
	return nil
}
