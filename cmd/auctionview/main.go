// Command auctionview follows one live auction in the terminal. It connects to
// the auction API, or runs against an in-process seeded store with -offline.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gem-auction/internal/apiclient"
	auction "gem-auction/internal/auctionService"
	"gem-auction/internal/auth"
	"gem-auction/internal/config"
	"gem-auction/internal/liveauction"
	"gem-auction/internal/realtime"
	"gem-auction/internal/repository"
	"gem-auction/internal/seed"
	"gem-auction/utils"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, openBackend))
}

type backendOpener func(ctx context.Context, cfg config.Config, apiURL string, offline bool) (liveauction.Backend, func(), error)

// run follows the auction until interrupted and returns the process exit code
func run(args []string, stdout, stderr io.Writer, open backendOpener) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Invalid configuration: %v\n", err)
		return 1
	}

	flags := flag.NewFlagSet("auctionview", flag.ContinueOnError)
	flags.SetOutput(stderr)
	var (
		apiURL    = flags.String("api", cfg.APIBaseURL, "auction API base URL")
		offline   = flags.Bool("offline", false, "use an in-process seeded store instead of the API")
		auctionID = flags.String("auction", seed.PinkSapphireID, "auction to follow")
		user      = flags.String("user", "", "user id to bid and chat as")
		bid       = flags.String("bid", "", "place one bid, e.g. 16000 or $16,000")
		say       = flags.String("say", "", "post one chat message")
		watch     = flags.Duration("watch", 0, "stop after this long (0 follows until interrupted)")
		logLevel  = flags.String("log-level", "warn", "log level")
	)
	if err := flags.Parse(args); err != nil {
		return 2
	}
	utils.SetLevel(*logLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if *watch > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *watch)
		defer cancel()
	}

	backend, cleanup, err := open(ctx, cfg, *apiURL, *offline)
	if err != nil {
		fmt.Fprintf(stderr, "auctionview: %v\n", err)
		return 1
	}
	defer cleanup()

	r := newRenderer(stdout)
	vm := liveauction.New(backend, printNotifier(stderr), liveauction.WithObserver(r.Observe))
	defer vm.Unmount()
	if err := vm.Mount(ctx, *auctionID); err != nil {
		fmt.Fprintf(stderr, "auctionview: %v\n", err)
		return 1
	}

	if *bid != "" {
		amount, err := liveauction.ParseBidAmount(*bid)
		if err != nil {
			fmt.Fprintf(stderr, "auctionview: %v\n", err)
		} else if err := vm.SubmitBid(ctx, *user, amount); err != nil {
			utils.Debug("bid not placed", map[string]any{"error": err.Error()})
		}
	}
	if *say != "" {
		if err := vm.SubmitMessage(ctx, *user, *say); err != nil {
			utils.Debug("message not sent", map[string]any{"error": err.Error()})
		}
	}

	<-ctx.Done()
	return 0
}

// openBackend returns the API client, or a local service over a seeded memory store
func openBackend(ctx context.Context, cfg config.Config, apiURL string, offline bool) (liveauction.Backend, func(), error) {
	if !offline {
		tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
		return apiclient.New(apiURL, apiclient.WithTokens(tokens)), func() {}, nil
	}

	repo := repository.NewMemoryRepo()
	if err := seed.Load(ctx, repo, time.Now().UTC()); err != nil {
		return nil, nil, err
	}
	hub := realtime.NewHub(cfg.EventBuffer)
	return auction.NewLocalBackend(auction.NewAuctionService(repo, hub)), hub.Close, nil
}
