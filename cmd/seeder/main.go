package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/openchess/stats-api/internal/models"
)

// Config
const (
	defaultURL = "http://localhost:8080/api/v1/ingest/matches"
)

var (
	players = []struct {
		name string
		elo  int
	}{
		{"hikaru", 3200}, {"magnus", 3250}, {"alireza", 3100}, {"anna", 2350},
		{"bruno", 1850}, {"chen", 1600}, {"dmitri", 1450}, {"elena", 1200},
	}
	openings     = []string{"Sicilian Defense: Najdorf", "Italian Game", "Queen's Gambit Declined", "French Defense, Winawer", "Caro-Kann Defense"}
	timeControls = []string{"60+0", "180+2", "300+0", "600+5", "1800+0"}
	results      = []models.Result{models.ResultWhiteWins, models.ResultBlackWins, models.ResultDraw}
)

func main() {
	url := flag.String("url", defaultURL, "ingest endpoint")
	count := flag.Int("n", 200, "matches to send")
	seed := flag.Int64("seed", 1, "random seed")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))

	// One JSON object per line
	var payload bytes.Buffer
	enc := json.NewEncoder(&payload)
	start := time.Now().Add(-time.Duration(*count) * time.Hour)
	for i := 0; i < *count; i++ {
		w := rng.Intn(len(players))
		b := (w + 1 + rng.Intn(len(players)-1)) % len(players)
		m := models.MatchRecord{
			Event:       "Seeded game",
			White:       players[w].name,
			Black:       players[b].name,
			WhiteElo:    players[w].elo + rng.Intn(81) - 40,
			BlackElo:    players[b].elo + rng.Intn(81) - 40,
			Result:      results[rng.Intn(len(results))],
			Opening:     openings[rng.Intn(len(openings))],
			Moves:       20 + rng.Intn(120),
			TimeControl: timeControls[rng.Intn(len(timeControls))],
			PlayedAt:    start.Add(time.Duration(i) * time.Hour).UTC(),
		}
		if err := enc.Encode(m); err != nil {
			log.Fatalf("Failed to marshal match: %v", err)
		}
	}

	req, err := http.NewRequest("POST", *url, &payload)
	if err != nil {
		log.Fatalf("Failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-ndjson")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("Failed to send request: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	fmt.Printf("Status: %s\n", resp.Status)
	fmt.Printf("Response: %s\n", string(body))

	if resp.StatusCode != http.StatusAccepted {
		log.Fatal("Seeding failed")
	}
}
