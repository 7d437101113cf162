package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/caasmo/notefold"
)

func main() {
	configPath := flag.String("config", "", "path to TOML config file (empty uses defaults plus environment)")
	dbPath := flag.String("db", "notefold.db", "path to the sqlite database file")
	flag.Parse()

	_, srv, err := notefold.New(*configPath,
		notefold.WithDbZombiezen(*dbPath),
		notefold.WithRouterHttprouter(),
		notefold.WithCacheRistretto(),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "notefold: %v\n", err)
		os.Exit(1)
	}

	srv.Run()
}
