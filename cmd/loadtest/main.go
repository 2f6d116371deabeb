// Command loadtest drives the retrieval API with concurrent search traffic
// and reports throughput, latency percentiles, and status-code counts.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

var queries = []string{
	"vaccine trial efficacy",
	"clinical trial safety",
	"genomic sequencing",
	"antibody response",
	"transmission patterns",
	"treatment protocols",
	"respiratory illness",
	"mrna technology",
	"epidemiological analysis",
	"population density",
	"seasonal variation",
	"risk categories",
	"supportive care",
	"disease spread",
}

var models = []string{"bm25", "vector", "boolean"}

type stats struct {
	total     atomic.Int64
	success   atomic.Int64
	failures  atomic.Int64
	mu        sync.Mutex
	latencies []time.Duration
	codes     map[int]int64
}

func newStats() *stats {
	return &stats{
		latencies: make([]time.Duration, 0, 100000),
		codes:     make(map[int]int64),
	}
}

func (s *stats) record(latency time.Duration, code int, err error) {
	s.total.Add(1)
	if err != nil {
		s.failures.Add(1)
		return
	}
	if code >= 200 && code < 300 {
		s.success.Add(1)
	} else {
		s.failures.Add(1)
	}
	s.mu.Lock()
	s.latencies = append(s.latencies, latency)
	s.codes[code]++
	s.mu.Unlock()
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "base URL of the retrieval service")
	concurrency := flag.Int("concurrency", 10, "number of concurrent workers")
	duration := flag.Duration("duration", 30*time.Second, "test duration")
	flag.Parse()

	fmt.Println("=== Retrieval Service Load Test ===")
	fmt.Printf("Target:      %s\n", *baseURL)
	fmt.Printf("Concurrency: %d\n", *concurrency)
	fmt.Printf("Duration:    %s\n", *duration)
	fmt.Printf("Queries:     %d unique across %d models\n", len(queries), len(models))
	fmt.Println()

	s := run(*baseURL, *concurrency, *duration)
	report(s, *duration)
}

func run(baseURL string, concurrency int, duration time.Duration) *stats {
	s := newStats()
	client := &http.Client{
		Timeout: 10 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        concurrency * 2,
			MaxIdleConnsPerHost: concurrency * 2,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), duration)
	defer cancel()

	var wg sync.WaitGroup
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for i := n; ctx.Err() == nil; i++ {
				query := queries[i%len(queries)]
				model := models[i%len(models)]
				body := fmt.Sprintf(`{"query": %q, "top_k": 10}`, query)
				url := fmt.Sprintf("%s/api/v1/search/%s", baseURL, model)

				req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(body))
				if err != nil {
					s.record(0, 0, err)
					continue
				}
				req.Header.Set("Content-Type", "application/json")

				start := time.Now()
				resp, err := client.Do(req)
				latency := time.Since(start)
				if err != nil {
					if ctx.Err() == nil {
						s.record(latency, 0, err)
					}
					continue
				}
				io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
				s.record(latency, resp.StatusCode, nil)
			}
		}(w)
	}
	wg.Wait()
	return s
}

func report(s *stats, duration time.Duration) {
	total := s.total.Load()
	success := s.success.Load()
	failures := s.failures.Load()

	fmt.Println("=== Results ===")
	fmt.Printf("Total Requests:  %d\n", total)
	fmt.Printf("Successful:      %d\n", success)
	fmt.Printf("Failed:          %d\n", failures)
	if total > 0 {
		fmt.Printf("Error Rate:      %.2f%%\n", float64(failures)/float64(total)*100)
		fmt.Printf("Requests/sec:    %.2f\n", float64(total)/duration.Seconds())
	}

	s.mu.Lock()
	latencies := make([]time.Duration, len(s.latencies))
	copy(latencies, s.latencies)
	codes := make(map[int]int64, len(s.codes))
	for code, count := range s.codes {
		codes[code] = count
	}
	s.mu.Unlock()

	if len(latencies) > 0 {
		sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
		var sum time.Duration
		for _, l := range latencies {
			sum += l
		}
		fmt.Println()
		fmt.Println("=== Latency ===")
		fmt.Printf("Min:  %s\n", latencies[0])
		fmt.Printf("Avg:  %s\n", sum/time.Duration(len(latencies)))
		fmt.Printf("P50:  %s\n", percentile(latencies, 50))
		fmt.Printf("P95:  %s\n", percentile(latencies, 95))
		fmt.Printf("P99:  %s\n", percentile(latencies, 99))
		fmt.Printf("Max:  %s\n", latencies[len(latencies)-1])
	}

	fmt.Println()
	fmt.Println("=== Status Codes ===")
	sortedCodes := make([]int, 0, len(codes))
	for code := range codes {
		sortedCodes = append(sortedCodes, code)
	}
	sort.Ints(sortedCodes)
	for _, code := range sortedCodes {
		fmt.Printf("  %d: %d\n", code, codes[code])
	}

	if total == 0 {
		fmt.Println()
		fmt.Println("WARNING: no requests completed. Is the service running?")
		os.Exit(1)
	}
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Ceil(p/100*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
