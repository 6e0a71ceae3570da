package main

import (
	"context"
	"fmt"
	"os"

	authservice "fixmate/internal/auth-service"
	"fixmate/internal/config"
	"fixmate/internal/mylogger"
	requestservice "fixmate/internal/request-service"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: app <auth-service|request-service>")
		os.Exit(1)
	}

	cfg, err := config.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	service := os.Args[1]
	mylog := mylogger.New(service, cfg.Log.Level)

	ctx := context.Background()

	switch service {
	case "auth-service":
		err = authservice.Execute(ctx, mylog, cfg)
	case "request-service":
		err = requestservice.Execute(ctx, mylog, cfg)
	default:
		fmt.Fprintf(os.Stderr, "unknown service %q\n", service)
		os.Exit(1)
	}

	if err != nil {
		mylog.Error("service exited with error", err)
		os.Exit(1)
	}
}
