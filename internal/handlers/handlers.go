package handlers

import (
	"github.com/abrezinsky/prizedraw/internal/auth"
	"github.com/abrezinsky/prizedraw/internal/logger"
	"github.com/abrezinsky/prizedraw/internal/services"
	"github.com/abrezinsky/prizedraw/internal/websocket"
)

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	Lottery services.LotteryServicer
	Roster  services.RosterServicer
	Config  services.ConfigServicer
	Auth    *auth.Auth
	Hub     *websocket.Hub
	Log     logger.Logger
}

// New creates a new Handlers instance with all dependencies
func New(
	lottery services.LotteryServicer,
	roster services.RosterServicer,
	config services.ConfigServicer,
	adminAuth *auth.Auth,
	hub *websocket.Hub,
	log logger.Logger,
) *Handlers {
	return &Handlers{
		Lottery: lottery,
		Roster:  roster,
		Config:  config,
		Auth:    adminAuth,
		Hub:     hub,
		Log:     log,
	}
}

// NewForTesting creates a Handlers instance with a known admin password
// ("test-password") and a hub that nobody starts.
func NewForTesting(
	lottery services.LotteryServicer,
	roster services.RosterServicer,
	config services.ConfigServicer,
) *Handlers {
	log := logger.Nop()
	return &Handlers{
		Lottery: lottery,
		Roster:  roster,
		Config:  config,
		Auth:    auth.MustNew("test-password"),
		Hub:     websocket.New(log, lottery),
		Log:     log,
	}
}
