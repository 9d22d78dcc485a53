package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rzbill/uidgen/internal/metrics"
	"github.com/rzbill/uidgen/internal/runtime"
	logpkg "github.com/rzbill/uidgen/pkg/log"
	"github.com/spf13/cobra"
)

type benchResult struct {
	Workers    int     `json:"workers"`
	IDs        int     `json:"ids"`
	Duplicates int     `json:"duplicates"`
	Disordered int     `json:"disordered"`
	ElapsedMs  int64   `json:"elapsedMs"`
	PerSecond  float64 `json:"perSecond"`
}

func newBenchCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Generate IDs from concurrent workers and check them for duplicates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			workers, _ := cmd.Flags().GetInt("workers")
			count, _ := cmd.Flags().GetInt("count")
			metricsAddr, _ := cmd.Flags().GetString("metrics-addr")
			if workers <= 0 || count <= 0 {
				return fmt.Errorf("--workers and --count must be positive")
			}
			if metricsAddr == "" {
				metricsAddr = st.cfg.MetricsAddr
			}

			rt, err := runtime.Open(runtime.Options{Config: st.cfg, Logger: st.logger})
			if err != nil {
				return err
			}
			defer rt.Close()

			if metricsAddr != "" {
				stop, err := serveMetrics(cmd.Context(), rt, metricsAddr, st.logger)
				if err != nil {
					return err
				}
				defer stop()
			}

			res := runBench(rt, workers, count)
			st.logger.Info("bench finished",
				logpkg.Int("ids", res.IDs),
				logpkg.Int("duplicates", res.Duplicates),
				logpkg.F("per_second", res.PerSecond),
			)
			if err := json.NewEncoder(cmd.OutOrStdout()).Encode(res); err != nil {
				return err
			}
			if res.Duplicates > 0 || res.Disordered > 0 {
				return fmt.Errorf("bench found %d duplicate and %d out-of-order ids", res.Duplicates, res.Disordered)
			}
			return nil
		},
	}
	cmd.Flags().IntP("workers", "w", 4, "Concurrent workers sharing the node's sequencer")
	cmd.Flags().IntP("count", "c", 100000, "Total IDs to generate")
	cmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address while running")
	return cmd
}

// runBench splits count across workers; each worker checks its own IDs
// increase, then all IDs are merged to look for duplicates.
func runBench(rt *runtime.Runtime, workers, count int) benchResult {
	per := count / workers
	extra := count % workers
	results := make([][]uint64, workers)
	disordered := make([]int, workers)

	var wg sync.WaitGroup
	start := time.Now()
	for w := 0; w < workers; w++ {
		n := per
		if w < extra {
			n++
		}
		wg.Add(1)
		go func(w, n int) {
			defer wg.Done()
			ids := make([]uint64, n)
			for i := range ids {
				ids[i] = rt.Next()
				if i > 0 && ids[i] <= ids[i-1] {
					disordered[w]++
				}
			}
			results[w] = ids
		}(w, n)
	}
	wg.Wait()
	elapsed := time.Since(start)

	res := benchResult{Workers: workers, ElapsedMs: elapsed.Milliseconds()}
	seen := make(map[uint64]struct{}, count)
	for w, ids := range results {
		res.Disordered += disordered[w]
		for _, v := range ids {
			if _, dup := seen[v]; dup {
				res.Duplicates++
				continue
			}
			seen[v] = struct{}{}
		}
		res.IDs += len(ids)
	}
	if secs := elapsed.Seconds(); secs > 0 {
		res.PerSecond = float64(res.IDs) / secs
	}
	return res
}

func serveMetrics(ctx context.Context, rt *runtime.Runtime, addr string, logger logpkg.Logger) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listen: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(rt.Registry()))
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ErrorLog:          logpkg.ToStdLogger(logger.WithComponent("metrics-http")),
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", logpkg.Err(err))
		}
	}()
	logger.Info("serving metrics", logpkg.Str("addr", ln.Addr().String()))
	return func() {
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}, nil
}
