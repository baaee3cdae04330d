// warmup primes a running server's caches by requesting the season
// schedule and session views through the public API. Run it after a deploy
// or an ingestion batch so the first user does not pay the fill cost.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/spf13/cobra"
)

var (
	baseURL string
	year    int
	round   int
	session string
)

var sessionKinds = []string{"FP1", "FP2", "FP3", "Q", "Race"}

func main() {
	rootCmd := &cobra.Command{
		Use:   "warmup",
		Short: "Prime the telemetry backend caches over its HTTP API",
	}
	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8000", "base URL of the running server")
	rootCmd.PersistentFlags().IntVar(&year, "year", time.Now().UTC().Year(), "season year")

	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "Warm the season schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			return fetch(fmt.Sprintf("/api/schedule/%d", year))
		},
	}

	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Warm one session view",
		RunE: func(cmd *cobra.Command, args []string) error {
			return fetch(fmt.Sprintf("/api/session/%d/%d/%s", year, round, session))
		},
	}
	sessionCmd.Flags().IntVar(&round, "round", 1, "round number")
	sessionCmd.Flags().StringVar(&session, "session", "Race", "session kind")

	seasonCmd := &cobra.Command{
		Use:   "season",
		Short: "Warm the schedule and every session of every round",
		RunE:  runSeason,
	}

	rootCmd.AddCommand(scheduleCmd, sessionCmd, seasonCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runSeason(cmd *cobra.Command, args []string) error {
	rounds, err := fetchSchedule()
	if err != nil {
		return err
	}

	for _, r := range rounds {
		for _, kind := range sessionKinds {
			path := fmt.Sprintf("/api/session/%d/%d/%s", year, r, kind)
			if err := fetch(path); err != nil {
				// Not every round runs every session kind; keep going.
				fmt.Printf("skip round %d %s: %v\n", r, kind, err)
			}
		}
	}
	return nil
}

type scheduleEnvelope struct {
	Status string `json:"status"`
	Data   []struct {
		Round int `json:"round"`
	} `json:"data"`
}

func fetchSchedule() ([]int, error) {
	body, err := get(fmt.Sprintf("/api/schedule/%d", year))
	if err != nil {
		return nil, err
	}

	var env scheduleEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode schedule: %w", err)
	}

	rounds := make([]int, 0, len(env.Data))
	for _, entry := range env.Data {
		rounds = append(rounds, entry.Round)
	}
	fmt.Printf("warmed schedule: %d rounds\n", len(rounds))
	return rounds, nil
}

func fetch(path string) error {
	start := time.Now()
	if _, err := get(path); err != nil {
		return err
	}
	fmt.Printf("warmed %s in %s\n", path, time.Since(start).Round(time.Millisecond))
	return nil
}

func get(path string) ([]byte, error) {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.Logger = nil
	client.HTTPClient.Timeout = 30 * time.Second

	resp, err := client.Get(baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %d", path, resp.StatusCode)
	}
	return body, nil
}
