package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/taidase2077-blip/voting-system-backend/auth"
	"github.com/taidase2077-blip/voting-system-backend/cliparse"
	"github.com/taidase2077-blip/voting-system-backend/db"
	"github.com/taidase2077-blip/voting-system-backend/ledger"
	"github.com/taidase2077-blip/voting-system-backend/metrics"
	"github.com/taidase2077-blip/voting-system-backend/middleware"
	"github.com/taidase2077-blip/voting-system-backend/router"
	"github.com/taidase2077-blip/voting-system-backend/store"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "hash-password" {
		if err := hashPassword(os.Args[2:]); err != nil {
			fmt.Fprintln(os.Stderr, "hash-password:", err)
			os.Exit(1)
		}
		return
	}

	var err error

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))

	loc, err := cfg.Location()
	if err != nil {
		slog.Error("invalid timezone", "error", err)
		os.Exit(1)
	}

	creds, err := auth.LoadCredentials(cfg.AdminCredentials)
	if err != nil {
		slog.Error("admin credentials unavailable", "file", cfg.AdminCredentials, "error", err)
		os.Exit(1)
	}
	slog.Info("Admin credentials loaded", "admins", len(creds))

	// Connect and verify
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "type", cfg.DatabaseType, "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn, cfg.DatabaseType); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	svc := ledger.NewService(store.New(dbConn, cfg.DatabaseType), ledger.ZoneClock{Loc: loc})
	mux := router.NewRouter(svc, creds, metrics.New(), cfg)

	// Create server
	server := http.Server{
		Handler:           middleware.CORS(mux),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		slog.Error("listen failed", "addr", server.Addr, "error", err)
		os.Exit(1)
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)

	slog.Info("Listening", "port", cfg.Port, "timezone", loc.String())
	if err := serve(&server, ln, ctrlc, 10*time.Second); err != nil {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed")
	}
}

// serve runs server on ln until stop fires, then drains in-flight requests
// for up to grace. It returns only after the drain, so callers can close the
// database afterwards.
func serve(server *http.Server, ln net.Listener, stop <-chan os.Signal, grace time.Duration) error {
	drained := make(chan error, 1)
	go func() {
		<-stop
		ctx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()
		drained <- server.Shutdown(ctx)
	}()

	// Serve returns ErrServerClosed as soon as Shutdown starts
	if err := server.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-drained
}

// hashPassword prints a bcrypt hash for the credentials file. The password
// comes from the first argument, or from stdin when none is given.
func hashPassword(args []string) error {
	var password string
	if len(args) > 0 {
		password = args[0]
	} else {
		fmt.Fprint(os.Stderr, "Password: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	fmt.Println(hash)
	return nil
}
