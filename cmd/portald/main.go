package main

import (
	"log"
	"os"

	"github.com/safhub/portald/internal/config"
	"github.com/safhub/portald/internal/credstore"
	"github.com/safhub/portald/internal/logger"
	"github.com/safhub/portald/internal/server"
)

func main() {
	cfgPath := os.Getenv("PORTALD_CONFIG")
	if cfgPath == "" {
		cfgPath = "portald.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal(err)
	}

	if err := logger.Init(cfg.DataDir); err != nil {
		log.Printf("file logging disabled: %v", err)
	}
	defer logger.Close()

	users, err := credstore.Open(cfg.UsersFile(), cfg.DefaultAdmin.Username, cfg.DefaultAdmin.Password)
	if err != nil {
		log.Fatal(err)
	}
	logger.Info("Credential store ready at %s (%d accounts)", users.Path(), users.Len())

	srv, err := server.New(cfg, users)
	if err != nil {
		log.Fatal(err)
	}

	logger.Info("portald listening on %s", cfg.Listen)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal(err)
	}
}
