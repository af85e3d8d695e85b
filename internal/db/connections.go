package db

import "gorm.io/gorm"

// Connections holds database and cache connections. Either member may be nil
// when the corresponding backend is not configured.
type Connections struct {
	DB    *gorm.DB
	Redis *RedisClient
}

// NewConnections creates a new Connections instance
func NewConnections(db *gorm.DB, redis *RedisClient) *Connections {
	return &Connections{
		DB:    db,
		Redis: redis,
	}
}
