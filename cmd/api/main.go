package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Nidal-Bakir/zeau-landing/internal/appenv" // autoload .env with init function. Do not remove this line
	"github.com/Nidal-Bakir/zeau-landing/internal/l10n"
	"github.com/Nidal-Bakir/zeau-landing/internal/logger"
	"github.com/Nidal-Bakir/zeau-landing/internal/server"
)

func main() {
	zlog := logger.NewLogger(appenv.IsLocal(), appenv.String("LOG_FILE", ""))
	l10n.InitL10n([]string{"en", "es"}, zlog)

	appServer, err := server.NewServer(context.Background(), zlog, server.ConfigFromEnv())
	if err != nil {
		zlog.Fatal().Err(err).Msg("Can not create the server")
	}
	httpServer := appServer.HTTPServer()

	// Server run context
	serverWithCancelCtx, serverStopCancelFunc := context.WithCancel(context.Background())

	// Listen for syscall signals for process to interrupt/quit
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sig

		// Shutdown signal with grace period of 30 seconds
		shutdownCtx, shutdownCancelFunc := context.WithTimeout(serverWithCancelCtx, 30*time.Second)
		defer shutdownCancelFunc()

		go func() {
			<-shutdownCtx.Done()
			if errors.Is(shutdownCtx.Err(), context.DeadlineExceeded) {
				log.Fatal("graceful shutdown timed out.. forcing exit.")
			}
		}()

		// Trigger graceful shutdown
		err := httpServer.Shutdown(shutdownCtx)
		if err != nil {
			log.Fatal(err)
		}

		if err := appServer.Close(); err != nil {
			zlog.Err(err).Msg("Error while closing the server resources")
		}

		serverStopCancelFunc()
	}()

	zlog.Info().Str("addr", httpServer.Addr).Str("env", appenv.EnvName).Msg("Starting the server")
	err = httpServer.ListenAndServe()
	if err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			fmt.Println("\nServer Stopped Gracefully.")
		} else {
			panic(fmt.Sprintf("can't start the server error: %s", err))
		}
	}

	// Wait for server context to be stopped
	<-serverWithCancelCtx.Done()
}
