package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/thingsapi/things-go/internal/dashboard"
	"github.com/thingsapi/things-go/internal/ui"
	"github.com/thingsapi/things-go/internal/watch"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a real-time WebSocket dashboard over the database",
	Long: `Start a WebSocket server that broadcasts task statistics to connected
clients whenever the Things app writes to its database.

WebSocket messages include:
- snapshot: task counts (total, by status, inbox, today, projects, trash)
- change:   the database file was written

Example usage:
  things serve                 # Start on default port 8383
  things serve --port 9000     # Start on a custom port

Connect with a WebSocket client:
  ws://localhost:8383/ws`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetInt("port")

		db, err := openDB()
		if err != nil {
			return err
		}

		server := dashboard.NewServer(&dashboard.Config{
			Port:   port,
			Logger: log.New(os.Stderr, "[dashboard] ", log.LstdFlags),
		})
		if err := server.Start(); err != nil {
			return fmt.Errorf("failed to start dashboard: %w", err)
		}

		watcher, err := watch.New(db.Path(), 0)
		if err != nil {
			_ = server.Stop()
			return err
		}
		if err := watcher.Start(); err != nil {
			_ = server.Stop()
			return err
		}

		fmt.Println(ui.Title("Things dashboard"))
		fmt.Printf("WebSocket endpoint: ws://%s/ws\n", server.Addr())
		fmt.Printf("Health check: http://%s/health\n", server.Addr())
		fmt.Println(ui.Muted("press Ctrl+C to stop"))

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		monitor := dashboard.NewMonitor(server, db,
			log.New(os.Stderr, "[monitor] ", log.LstdFlags))
		err = monitor.Run(ctx, watcher)

		fmt.Println("\nshutting down...")
		if stopErr := watcher.Stop(); stopErr != nil {
			fmt.Fprintln(os.Stderr, ui.Err("watcher shutdown: ")+stopErr.Error())
		}
		if stopErr := server.Stop(); stopErr != nil {
			fmt.Fprintln(os.Stderr, ui.Err("server shutdown: ")+stopErr.Error())
		}

		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntP("port", "p", 8383, "port to listen on")
	rootCmd.AddCommand(serveCmd)
}
