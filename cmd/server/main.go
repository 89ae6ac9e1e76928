package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/tindrew/lanchat/pkg/credentials"
	"github.com/tindrew/lanchat/pkg/server"
)

func main() {
	configPath := flag.String("config", "lanchat.toml", "path to config file")
	port := flag.Int("port", 0, "TCP port (overrides config)")
	usersPath := flag.String("users", "", "path to credential file (overrides config)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	if *debug {
		server.EnableDebugLogging()
	}

	tomlConfig, err := server.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	config := tomlConfig.ToServerConfig()

	if *port != 0 {
		config.TCPPort = *port
	}
	if *usersPath != "" {
		config.CredentialsPath = *usersPath
	}

	creds, err := credentials.Load(config.CredentialsPath)
	if err != nil {
		log.Fatalf("Failed to load credentials: %v", err)
	}
	if creds.Len() == 0 {
		log.Printf("WARNING: no credentials loaded from %s; nobody will be able to authenticate", config.CredentialsPath)
	}

	srv := server.NewServer(creds, config)
	if err := srv.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sig := <-sigCh
	log.Printf("Received %v, shutting down", sig)

	srv.Stop()
}
