// Command chfsd runs a single ring membership node: it listens for peer
// RPCs, participates in heartbeat/election/coordinator traffic, and serves
// an HTTP status page describing its current Neighbour Table and
// Membership List.
package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/ringfs/chfsd/internal/router"
	"github.com/ringfs/chfsd/internal/wire"
	"github.com/ringfs/chfsd/ring"

	_ "net/http/pprof"
)

func main() {
	var (
		advertiseAddr  string
		listenAddr     string
		httpListenAddr string
		joinAddr       string
	)

	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)

	cmd := &cobra.Command{
		Use:   "chfsd",
		Short: "runs a chfsd ring membership node",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(logger, advertiseAddr, listenAddr, httpListenAddr, joinAddr)
		},
	}

	cmd.Flags().StringVar(&advertiseAddr, "advertise-addr", "", "address other peers should use to reach this node (required)")
	cmd.Flags().StringVar(&listenAddr, "listen-addr", "0.0.0.0:9401", "address to accept peer RPCs on")
	cmd.Flags().StringVar(&httpListenAddr, "http-listen-addr", "0.0.0.0:9402", "address to serve the status page and metrics on")
	cmd.Flags().StringVar(&joinAddr, "join-addr", "", "address of an existing ring member to bootstrap against; empty starts a new ring")

	if err := cmd.Execute(); err != nil {
		level.Error(logger).Log("msg", "exiting", "err", err)
		os.Exit(1)
	}
}

func run(logger log.Logger, advertiseAddr, listenAddr, httpListenAddr, joinAddr string) error {
	if advertiseAddr == "" {
		return fmt.Errorf("--advertise-addr is required")
	}

	cfg := ring.Config{
		Self:             advertiseAddr,
		Log:              logger,
		Registerer:       prometheus.DefaultRegisterer,
		HeartbeatTimeout: envDuration("CHFSD_HEARTBEAT_TIMEOUT", 0),
		RPCTimeout:       envMillis("CHFSD_RPC_TIMEOUT_MSEC", 0),
	}

	client := wire.NewClient(2*time.Second, 64)
	defer client.Close()

	transport := ring.NewWireTransport(client)

	srv, err := ring.NewServer(cfg, transport)
	if err != nil {
		return fmt.Errorf("failed to construct ring server: %w", err)
	}

	ln, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return fmt.Errorf("failed to listen for peer RPCs: %w", err)
	}
	wireSrv := wire.NewServer(ln, srv, logger)

	go func() {
		if err := wireSrv.Serve(); err != nil {
			level.Info(logger).Log("msg", "peer listener stopped", "err", err)
		}
	}()

	srv.Run()
	defer srv.Close()

	if joinAddr != "" {
		joinCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := srv.Bootstrap(joinCtx, joinAddr)
		cancel()
		if err != nil {
			return fmt.Errorf("failed to join ring at %s: %w", joinAddr, err)
		}
	}

	rt := router.NewConsistentHash(srv.Membership(), 8)

	httpLn, err := net.Listen("tcp", httpListenAddr)
	if err != nil {
		return fmt.Errorf("failed to listen for HTTP: %w", err)
	}

	r := mux.NewRouter()
	r.HandleFunc("/-/ring", func(w http.ResponseWriter, req *http.Request) {
		writeStatusPage(w, srv)
	})
	r.HandleFunc("/-/ready", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), time.Second)
		defer cancel()
		if err := srv.WaitReady(ctx); err != nil {
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	r.HandleFunc("/-/route", func(w http.ResponseWriter, req *http.Request) {
		key := req.URL.Query().Get("key")
		if key == "" {
			http.Error(w, "missing key query parameter", http.StatusBadRequest)
			return
		}
		identity, ok := rt.Lookup(key)
		if !ok {
			http.Error(w, "no ring members available", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprintln(w, identity)
	})
	r.Handle("/metrics", promhttp.Handler())
	r.PathPrefix("/debug/pprof").Handler(http.DefaultServeMux)

	level.Info(logger).Log("msg", "now serving", "self", advertiseAddr, "peer_addr", ln.Addr(), "http_addr", httpLn.Addr())
	return http.Serve(httpLn, r)
}

func envDuration(name string, fallback time.Duration) time.Duration {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envMillis(name string, fallback time.Duration) time.Duration {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	ms, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}
