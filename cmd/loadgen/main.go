// Dev helper: paces GET requests against the gateway at a fixed rate, handy
// for watching the limiter and the Prometheus surface under steady load.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"sort"
	"time"

	"golang.org/x/time/rate"
)

func main() {
	var target, token string
	var rps float64
	var count int
	flag.StringVar(&target, "url", "http://localhost:8000/api/v1/radio/stations", "request URL")
	flag.StringVar(&token, "token", "", "bearer token to send")
	flag.Float64Var(&rps, "rps", 5, "requests per second")
	flag.IntVar(&count, "n", 100, "total requests")
	flag.Parse()

	limiter := rate.NewLimiter(rate.Limit(rps), 1)
	client := &http.Client{Timeout: 10 * time.Second}
	statuses := map[int]int{}

	ctx := context.Background()
	start := time.Now()
	for i := 0; i < count; i++ {
		if err := limiter.Wait(ctx); err != nil {
			break
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			fmt.Println("bad url:", err)
			return
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := client.Do(req)
		if err != nil {
			statuses[-1]++
			continue
		}
		resp.Body.Close()
		statuses[resp.StatusCode]++
	}

	fmt.Printf("sent %d requests in %s\n", count, time.Since(start).Round(time.Millisecond))
	codes := make([]int, 0, len(statuses))
	for code := range statuses {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	for _, code := range codes {
		label := fmt.Sprint(code)
		if code == -1 {
			label = "error"
		}
		fmt.Printf("  %s: %d\n", label, statuses[code])
	}
}
