package app

import (
	"database/sql"

	"github.com/PraneethJain/simplipy-backend/internal/config"
	"github.com/PraneethJain/simplipy-backend/internal/platform/db"
	"github.com/PraneethJain/simplipy-backend/internal/platform/jwt"
	"github.com/PraneethJain/simplipy-backend/internal/platform/router"
	"github.com/PraneethJain/simplipy-backend/internal/platform/validation"
	"github.com/PraneethJain/simplipy-backend/internal/session"
)

// Provider bundles the app's infrastructure dependencies so tests can
// swap any of them out.
type Provider struct {
	DB        *sql.DB
	Signer    jwt.Signer
	Validator validation.Validator
	Router    router.Router
	TxMgr     db.TxManager
	Registry  *session.Registry
}

func newProvider(cfg *config.Options, securityKey string, dbConn *sql.DB) *Provider {
	return &Provider{
		DB:        dbConn,
		Signer:    jwt.NewGolangJWTSigner(cfg.JWT, securityKey),
		Validator: validation.NewGoPlaygroundValidator(),
		Router:    router.NewGoexpressRouter(),
		TxMgr:     db.NewSQLTxManager(dbConn),
		Registry:  session.NewRegistry(cfg.Session),
	}
}
