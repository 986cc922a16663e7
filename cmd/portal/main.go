package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	"portal-client/internal/api"
	"portal-client/internal/auth"
	"portal-client/internal/contact"
	"portal-client/internal/dashboard"
	"portal-client/internal/shared/config"
	"portal-client/internal/shared/storage/kv"
	"portal-client/internal/workflow"
)

const usage = `portal - document analysis client

Usage:
  portal <command> [flags]

Commands:
  login           Authenticate and store the session token
  register        Create a new account
  logout          End the session and clear stored state
  whoami          Show the current user
  analyze         Upload a document and run its analysis
  dashboard       Show documents, analyses, and summary stats
  delete          Delete a document
  contact         Send a general inquiry
  media-interest  Send a media-resources interest form

Run 'portal <command> -h' for command flags.
`

// app wires the services a command needs. Built once per invocation.
type app struct {
	cfg       config.Config
	store     kv.Store
	client    *api.Client
	auth      *auth.Service
	contact   *contact.Service
	dashboard *dashboard.Controller
	workflow  *workflow.Controller
}

func newApp(cfg config.Config) (*app, error) {
	store, err := kv.NewFileStore(cfg.CacheDir)
	if err != nil {
		return nil, fmt.Errorf("open cache dir %s: %w", cfg.CacheDir, err)
	}
	client := api.New(cfg.APIBaseURL, store, api.WithTimeout(cfg.RequestTimeout))
	client.OnUnauthorized = func() {
		fmt.Fprintln(os.Stderr, color.RedString("Session expired. Please log in again."))
	}
	return &app{
		cfg:       cfg,
		store:     store,
		client:    client,
		auth:      auth.NewService(client, store),
		contact:   contact.New(client),
		dashboard: dashboard.New(client, store),
		workflow:  workflow.New(client, workflow.WithPollInterval(cfg.PollInterval)),
	}, nil
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigs
		fmt.Fprintln(os.Stderr, "\nCancelled.")
		cancel()
	}()

	a, err := newApp(config.Load())
	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		os.Exit(1)
	}

	cmd, args := os.Args[1], os.Args[2:]
	if err := dispatch(ctx, a, cmd, args); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		os.Exit(1)
	}
}

func dispatch(ctx context.Context, a *app, cmd string, args []string) error {
	switch cmd {
	case "login":
		return cmdLogin(ctx, a, args)
	case "register":
		return cmdRegister(ctx, a, args)
	case "logout":
		return cmdLogout(ctx, a, args)
	case "whoami":
		return cmdWhoami(ctx, a, args)
	case "analyze":
		return cmdAnalyze(ctx, a, args)
	case "dashboard":
		return cmdDashboard(ctx, a, args)
	case "delete":
		return cmdDelete(ctx, a, args)
	case "contact":
		return cmdContact(ctx, a, args)
	case "media-interest":
		return cmdMediaInterest(ctx, a, args)
	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}
