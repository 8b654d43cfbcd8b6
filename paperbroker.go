package main

import (
	stdContext "context"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/paperstreet/paperbroker/db"
	"github.com/paperstreet/paperbroker/env"
	"github.com/paperstreet/paperbroker/log"
	"github.com/paperstreet/paperbroker/migration"
	"github.com/paperstreet/paperbroker/pbreg"
	"github.com/paperstreet/paperbroker/rest"
)

func init() {
	rand.Seed(time.Now().UTC().UnixNano())

	env.RegisterDefault("BROKER_PORT", "9000")
	env.RegisterDefault("BROKER_MODE", "DEV")
	env.RegisterDefault("DB_DRIVER", "sqlite3")
	env.RegisterDefault("DB_PATH", "paperbroker.db")
	env.RegisterDefault("JWT_SECRET", "paperbroker-dev-secret")
}

func shutdown() error {
	ctx, cancel := stdContext.WithTimeout(stdContext.Background(), time.Second)
	defer cancel()
	return rest.Shutdown(ctx)
}

func main() {
	if err := migration.Migration(db.DB()).Migrate(); err != nil {
		log.Fatal("database migration failure", "error", err)
	}
	defer db.DB().Close()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sig
		log.Info("shutting down")
		if err := shutdown(); err != nil {
			log.Error("shutdown failure", "error", err)
		}
	}()

	log.Info("paperbroker is live", "mode", env.GetVar("BROKER_MODE"), "port", env.GetVar("BROKER_PORT"))

	if err := rest.Start(env.GetVar("BROKER_PORT"), pbreg.Services); err != nil {
		if !strings.Contains(err.Error(), "Server closed") {
			log.Fatal("rest server unexpectedly exited", "error", err)
		}
	}
}
