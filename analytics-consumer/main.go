package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/segmentio/kafka-go"
)

type GameMetrics struct {
	TotalGames       int
	TotalMoves       int
	TotalUndos       int
	GamesByHour      map[int]int
	GamesByTier      map[string]int
	BotWinsByTier    map[string]int
	PlayerStats      map[string]PlayerStats
	AverageDuration  time.Duration
	AverageGameMoves float64
	BotWins          int
	PlayerWins       int
	Draws            int
	Forfeits         int
}

type PlayerStats struct {
	GamesPlayed int
	Wins        int
	Moves       int
	Undos       int
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func main() {
	brokers := getenv("KAFKA_BROKERS", "localhost:9092")
	topic := getenv("KAFKA_TOPIC", "game.analytics")
	r := kafka.NewReader(kafka.ReaderConfig{Brokers: []string{brokers}, Topic: topic, GroupID: "analytics"})
	defer r.Close()

	metrics := &GameMetrics{
		GamesByHour:   make(map[int]int),
		GamesByTier:   make(map[string]int),
		BotWinsByTier: make(map[string]int),
		PlayerStats:   make(map[string]PlayerStats),
	}

	gameStarts := make(map[string]time.Time)
	gameTiers := make(map[string]string)
	endedGames := 0
	totalEndedMoves := 0

	log.Println("Analytics consumer started. Listening for game events...")

	for {
		m, err := r.ReadMessage(context.Background())
		if err != nil {
			log.Printf("Error reading message: %v", err)
			continue
		}

		var ev map[string]any
		if err := json.Unmarshal(m.Value, &ev); err != nil {
			log.Printf("Error unmarshaling message: %v", err)
			continue
		}

		eventType := fmt.Sprint(ev["event"])
		timestamp := time.Now()

		switch eventType {
		case "match.start", "match.paired":
			gameId := fmt.Sprint(ev["gameId"])
			gameStarts[gameId] = timestamp
			metrics.TotalGames++
			metrics.GamesByHour[timestamp.Hour()]++

			if tier, ok := ev["difficulty"].(string); ok && tier != "" {
				gameTiers[gameId] = tier
				metrics.GamesByTier[tier]++
			}

			for _, key := range []string{"black", "white"} {
				player := fmt.Sprint(ev[key])
				if player == "BOT" {
					continue
				}
				stats := metrics.PlayerStats[player]
				stats.GamesPlayed++
				metrics.PlayerStats[player] = stats
			}

		case "move":
			metrics.TotalMoves++
			player := fmt.Sprint(ev["by"])
			if player != "BOT" {
				stats := metrics.PlayerStats[player]
				stats.Moves++
				metrics.PlayerStats[player] = stats
			}

		case "undo":
			metrics.TotalUndos++
			player := fmt.Sprint(ev["by"])
			if player != "BOT" {
				stats := metrics.PlayerStats[player]
				stats.Undos++
				metrics.PlayerStats[player] = stats
			}

		case "game.end":
			gameId := fmt.Sprint(ev["gameId"])
			if startTime, exists := gameStarts[gameId]; exists {
				duration := timestamp.Sub(startTime)
				endedGames++
				metrics.AverageDuration = (metrics.AverageDuration*time.Duration(endedGames-1) + duration) / time.Duration(endedGames)
				delete(gameStarts, gameId)
			}
			if moves, ok := ev["moves"].(float64); ok {
				totalEndedMoves += int(moves)
				if endedGames > 0 {
					metrics.AverageGameMoves = float64(totalEndedMoves) / float64(endedGames)
				}
			}

			reason := fmt.Sprint(ev["reason"])
			winner := fmt.Sprint(ev["winner"])
			switch {
			case reason == "forfeit":
				metrics.Forfeits++
			case winner == "BOT":
				metrics.BotWins++
				if tier, ok := gameTiers[gameId]; ok {
					metrics.BotWinsByTier[tier]++
				}
			case winner != "":
				metrics.PlayerWins++
				if stats, exists := metrics.PlayerStats[winner]; exists {
					stats.Wins++
					metrics.PlayerStats[winner] = stats
				}
			default:
				metrics.Draws++
			}
			delete(gameTiers, gameId)
		}

		// Print metrics every 30 seconds
		if time.Now().Second()%30 == 0 {
			printMetrics(metrics)
		}
	}
}

func printMetrics(m *GameMetrics) {
	log.Println("=== GOMOKU ANALYTICS ===")
	log.Printf("Total Games: %d", m.TotalGames)
	log.Printf("Total Moves: %d (undos: %d)", m.TotalMoves, m.TotalUndos)
	log.Printf("Average Game Duration: %v", m.AverageDuration)
	log.Printf("Average Moves per Game: %.1f", m.AverageGameMoves)
	log.Printf("Bot Wins: %d, Player Wins: %d, Draws: %d, Forfeits: %d", m.BotWins, m.PlayerWins, m.Draws, m.Forfeits)

	log.Println("Games by Difficulty:")
	for tier, count := range m.GamesByTier {
		log.Printf("  %s: %d games, %d bot wins", tier, count, m.BotWinsByTier[tier])
	}

	log.Println("Games by Hour:")
	for hour, count := range m.GamesByHour {
		log.Printf("  %02d:00 - %d games", hour, count)
	}

	log.Println("Top Players:")
	count := 0
	for player, stats := range m.PlayerStats {
		if count >= 5 {
			break
		}
		log.Printf("  %s: %d games, %d wins, %d moves", player, stats.GamesPlayed, stats.Wins, stats.Moves)
		count++
	}
	log.Println("========================")
}
