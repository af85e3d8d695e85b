package handlers

import (
	"github.com/yigitech/x-wrapped/internal/config"
	"github.com/yigitech/x-wrapped/internal/db"
	"github.com/yigitech/x-wrapped/internal/services/profileservice"
)

type Dependencies struct {
	Config   *config.Config
	Conns    *db.Connections
	Profiles *profileservice.Service
}
