// Benchmark drives concurrent transfers against a running API instance and
// reports outcome counts and throughput.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var (
	targetURL   string
	username    string
	password    string
	concurrency int
	duration    time.Duration
	workload    string
)

// Metrics
var (
	totalRequests uint64
	committed     uint64 // 201
	rejected      uint64 // 422 validation
	failOther     uint64
)

func init() {
	flag.StringVar(&targetURL, "url", "http://localhost:8080", "API base URL")
	flag.StringVar(&username, "username", "admin", "login username")
	flag.StringVar(&password, "password", "admin-secret", "login password")
	flag.IntVar(&concurrency, "workers", 10, "number of concurrent workers")
	flag.DurationVar(&duration, "duration", 30*time.Second, "test duration")
	flag.StringVar(&workload, "workload", "uniform", "workload type: uniform | hotspot")
}

func main() {
	flag.Parse()
	log.Printf("Starting benchmark: %s | workers: %d | duration: %s", workload, concurrency, duration)

	token, err := login()
	if err != nil {
		log.Fatalf("login failed: %v", err)
	}

	accounts, err := listAccounts(token)
	if err != nil {
		log.Fatalf("account listing failed: %v", err)
	}
	if len(accounts) < 2 {
		log.Fatal("need at least two seeded accounts, run the seeder first")
	}

	start := time.Now()
	g, _ := errgroup.WithContext(context.Background())
	for i := 0; i < concurrency; i++ {
		g.Go(func() error {
			worker(token, accounts, start)
			return nil
		})
	}
	g.Wait()

	printResults(time.Since(start))
}

func worker(token string, accounts []uuid.UUID, start time.Time) {
	client := &http.Client{Timeout: 5 * time.Second}

	for time.Since(start) < duration {
		source, destination := pickAccounts(accounts)

		payload := map[string]any{
			"source_account_id":      source,
			"destination_account_id": destination,
			"amount":                 int64(100),
		}
		body, _ := json.Marshal(payload)

		req, _ := http.NewRequest(http.MethodPost, targetURL+"/api/v1/transfers", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := client.Do(req)
		if err != nil {
			atomic.AddUint64(&failOther, 1)
			continue
		}

		atomic.AddUint64(&totalRequests, 1)
		switch resp.StatusCode {
		case http.StatusCreated:
			atomic.AddUint64(&committed, 1)
		case http.StatusUnprocessableEntity:
			atomic.AddUint64(&rejected, 1)
		default:
			atomic.AddUint64(&failOther, 1)
		}
		resp.Body.Close()
	}
}

func pickAccounts(accounts []uuid.UUID) (uuid.UUID, uuid.UUID) {
	if workload == "hotspot" && len(accounts) >= 2 {
		// Hotspot: 90% of traffic bounces between the first two accounts.
		if rand.Float32() < 0.90 {
			if rand.Float32() < 0.5 {
				return accounts[0], accounts[1]
			}
			return accounts[1], accounts[0]
		}
	}

	a := rand.Intn(len(accounts))
	b := rand.Intn(len(accounts))
	for a == b {
		b = rand.Intn(len(accounts))
	}
	return accounts[a], accounts[b]
}

func login() (string, error) {
	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	resp, err := http.Post(targetURL+"/api/v1/auth/login", "application/json", bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var pair struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&pair); err != nil {
		return "", err
	}
	return pair.AccessToken, nil
}

func listAccounts(token string) ([]uuid.UUID, error) {
	req, _ := http.NewRequest(http.MethodGet, targetURL+"/api/v1/accounts", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var accounts []struct {
		ID uuid.UUID `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&accounts); err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(accounts))
	for i, a := range accounts {
		ids[i] = a.ID
	}
	return ids, nil
}

func printResults(d time.Duration) {
	total := atomic.LoadUint64(&totalRequests)
	ok := atomic.LoadUint64(&committed)
	rej := atomic.LoadUint64(&rejected)
	fErr := atomic.LoadUint64(&failOther)

	results := map[string]any{
		"workload":       workload,
		"duration_sec":   d.Seconds(),
		"total_requests": total,
		"throughput_tps": float64(total) / d.Seconds(),
		"committed":      ok,
		"rejected":       rej,
		"errors":         fErr,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(results)
}
