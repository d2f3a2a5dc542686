package main

import (
	"context"
	"log"
	"os"
	"time"

	echoweb "github.com/trezcool/shule/apps/web/echo"
	"github.com/trezcool/shule/backend"
	"github.com/trezcool/shule/core"
	emailsvc "github.com/trezcool/shule/services/email"
	logsvc "github.com/trezcool/shule/services/logger"
	"github.com/trezcool/shule/session"
	"github.com/trezcool/shule/theme"
)

func main() {
	// set up services
	std := log.New(os.Stderr, "", log.LstdFlags)
	var logger core.Logger
	if core.Conf.Debug || core.Conf.RollbarToken == "" {
		logger = logsvc.NewStdLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, core.Conf)
	}

	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}

	client := backend.NewClient(core.Conf)
	guard := session.NewGuard(client, core.Conf)

	// pull the palette once at boot; defaults hold if the backend is down
	store := theme.NewStore()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store.Apply(ctx, client, logger)
	cancel()

	// start web server
	app := echoweb.NewServer(
		&echoweb.Options{
			Address: core.Conf.Addr(),
			Client:  client,
			Guard:   guard,
			Theme:   store,
			Logger:  logger,
			Email:   mailSvc,
		},
	)
	app.Start()
}
