package repository

import (
	"github.com/VibeBuddies/vibecheck-service/internal/repository/redisrepo"
	"github.com/VibeBuddies/vibecheck-service/internal/store"
	"github.com/redis/go-redis/v9"
)

type Repository struct {
	Store store.ContentStore
	Redis *redisrepo.RedisRepository
}

func New(contentStore store.ContentStore, rdb *redis.Client) *Repository {
	repo := &Repository{
		Store: contentStore,
	}
	if rdb != nil {
		repo.Redis = redisrepo.New(rdb)
	}
	return repo
}
