package main

import (
	"context"
	"io"
	"log"
	"os"

	"github.com/dmitrijs2005/chirpy/internal/authctl"
	"github.com/dmitrijs2005/chirpy/internal/server"
	"github.com/dmitrijs2005/chirpy/internal/server/config"
)

func main() {

	ctx := context.Background()

	connect := func(ctx context.Context) (authctl.TokenAdmin, func(), error) {
		cfg := config.LoadConfig()
		app, err := server.NewApp(ctx, cfg, io.Discard)
		if err != nil {
			return nil, nil, err
		}
		return app.AuthService(), app.Close, nil
	}

	a := authctl.NewApp(os.Stdout, connect)
	if err := a.Run(ctx, authctl.CommandArgs(os.Args[1:])); err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}
}
