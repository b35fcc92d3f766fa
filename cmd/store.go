package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/grovetools/tabs/cli"
	"github.com/grovetools/tabs/config"
	"github.com/grovetools/tabs/internal/pidfile"
	"github.com/grovetools/tabs/pkg/paths"
	"github.com/grovetools/tabs/store"
	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewStoreCmd returns the `store` command group for the shared drag store.
func NewStoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Run and inspect the shared drag store",
		Long:  "The drag store carries the drop acceptance flag between tab strips in different processes.",
	}

	cmd.AddCommand(newStoreServeCmd())
	cmd.AddCommand(newStoreStopCmd())
	cmd.AddCommand(newStoreStatusCmd())
	cmd.AddCommand(newStoreGetCmd())

	return cmd
}

// ServeOptions configures the embedded NATS server behind `store serve`.
type ServeOptions struct {
	Host     string
	Port     int
	StoreDir string
	Bucket   string
	TTL      time.Duration
	PidFile  string
}

// Serve runs an embedded NATS server with JetStream enabled and the drag
// bucket created, until ctx is cancelled. ready receives the client URL once
// the bucket exists.
func Serve(ctx context.Context, opts ServeOptions, logger *logrus.Entry, ready func(url string)) error {
	if opts.PidFile != "" {
		if err := pidfile.Acquire(opts.PidFile); err != nil {
			return fmt.Errorf("failed to start: %w", err)
		}
		defer func() {
			if err := pidfile.Release(opts.PidFile); err != nil {
				logger.Errorf("Failed to release pidfile: %v", err)
			}
		}()
	}

	srv, err := natsserver.NewServer(&natsserver.Options{
		ServerName: "tabs-store",
		Host:       opts.Host,
		Port:       opts.Port,
		JetStream:  true,
		StoreDir:   opts.StoreDir,
		NoSigs:     true,
	})
	if err != nil {
		return fmt.Errorf("creating NATS server: %w", err)
	}
	srv.Start()
	defer srv.Shutdown()

	if !srv.ReadyForConnections(10 * time.Second) {
		return fmt.Errorf("NATS server not ready")
	}
	url := srv.ClientURL()

	// Create the bucket up front so clients agree on its TTL.
	kv, err := store.NewNATS(ctx, url, opts.Bucket, opts.TTL)
	if err != nil {
		return err
	}
	defer kv.Close()

	logger.WithFields(logrus.Fields{
		"url":    url,
		"bucket": opts.Bucket,
		"pid":    os.Getpid(),
	}).Info("Drag store serving")
	if ready != nil {
		ready(url)
	}

	<-ctx.Done()
	logger.Info("Drag store stopping")
	return nil
}

func newStoreServeCmd() *cobra.Command {
	opts := ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the drag store on an embedded NATS server",
		Long: `Starts a NATS server with JetStream in the foreground and creates the
drag bucket. Point strips at it with:

  store:
    backend: nats
    nats:
      url: nats://127.0.0.1:4222`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := cli.GetLogger(cmd, "store")
			cfg, _, err := cli.LoadConfig(cmd)
			if err != nil {
				return err
			}

			if opts.Bucket == "" {
				opts.Bucket = cfg.Store.NATS.Bucket
			}
			if opts.TTL, err = cfg.Store.TTLDuration(); err != nil {
				return err
			}
			opts.PidFile = paths.PidFilePath()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return Serve(ctx, opts, logger, func(url string) {
				fmt.Fprintf(cmd.OutOrStdout(), "Serving drag store at %s (bucket %s)\n", url, opts.Bucket)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Host, "host", "127.0.0.1", "Address to listen on")
	cmd.Flags().IntVarP(&opts.Port, "port", "p", 4222, "Client port (-1 picks a free port)")
	cmd.Flags().StringVar(&opts.StoreDir, "store-dir", paths.JetStreamDir(), "JetStream data directory")
	cmd.Flags().StringVar(&opts.Bucket, "bucket", "", "Bucket name (defaults to store.nats.bucket)")

	return cmd
}

func newStoreStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the running drag store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			running, pid, err := pidfile.Running(paths.PidFilePath())
			if err != nil {
				return fmt.Errorf("error checking status: %w", err)
			}
			if !running {
				fmt.Fprintln(cmd.OutOrStdout(), "Drag store is not running")
				return nil
			}

			process, err := os.FindProcess(pid)
			if err != nil {
				return fmt.Errorf("failed to find process %d: %w", pid, err)
			}
			if err := process.Signal(syscall.SIGTERM); err != nil {
				return fmt.Errorf("failed to send stop signal: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Sent SIGTERM to process %d\n", pid)
			return nil
		},
	}
}

func newStoreStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report whether the drag store is running",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			running, pid, err := pidfile.Running(paths.PidFilePath())
			if err != nil {
				return fmt.Errorf("error: %w", err)
			}
			if running {
				fmt.Fprintf(cmd.OutOrStdout(), "Running (PID: %d)\n", pid)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Stopped")
			}
			return nil
		},
	}
}

// EntryOutput is the JSON form printed by `store get`.
type EntryOutput struct {
	Token         string `json:"token"`
	Present       bool   `json:"present"`
	DropAreaFound bool   `json:"dropareafound"`
}

func newStoreGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <token>",
		Short: "Print the drag store entry for a token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := cli.LoadConfig(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			st, err := store.Open(ctx, cfg.Store)
			if err != nil {
				return err
			}
			defer st.Close()

			entry, ok, err := st.Get(ctx, args[0])
			if err != nil {
				return err
			}
			out := EntryOutput{Token: args[0], Present: ok, DropAreaFound: entry.DropAreaFound}

			if cli.GetOptions(cmd).JSONOutput {
				data, err := json.MarshalIndent(out, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: no entry (%s backend)\n", out.Token, backendName(cfg.Store))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: dropareafound=%t\n", out.Token, out.DropAreaFound)
			return nil
		},
	}
}

func backendName(s config.StoreConfig) string {
	if s.Backend == "" {
		return config.BackendMemory
	}
	return s.Backend
}
