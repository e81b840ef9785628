package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/expedition-api/internal/entities"
)

const (
	expeditionPrefix = "expedition:"
	activeSlotPrefix = "expedition:active:"
	activeSetKey     = "expedition:active"
)

// problem is one index entry that no longer matches its expedition record
type problem struct {
	describe string
	repair   func(ctx context.Context, client *redis.Client) error
}

func main() {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatal("Failed to parse Redis URL:", err)
	}

	client := redis.NewClient(opt)
	ctx := context.Background()

	// Test connection
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	fmt.Println("Connected to Redis:", redisURL)
	fmt.Println("Scanning active expedition indexes...")

	var problems []problem
	checked := 0

	iter := client.Scan(ctx, 0, activeSlotPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		slot := iter.Val()
		checked++
		playerID := strings.TrimPrefix(slot, activeSlotPrefix)

		id, err := client.Get(ctx, slot).Result()
		if err != nil {
			fmt.Printf("Error reading %s: %v\n", slot, err)
			continue
		}

		exp, reason := inspect(ctx, client, id)
		if reason == "" && exp.PlayerID != playerID {
			reason = fmt.Sprintf("belongs to player %s", exp.PlayerID)
		}
		if reason == "" {
			continue
		}

		fmt.Printf("✗ Stale slot %s -> %s: %s\n", slot, id, reason)
		problems = append(problems, problem{
			describe: fmt.Sprintf("delete slot %s", slot),
			repair: func(ctx context.Context, client *redis.Client) error {
				return client.Del(ctx, slot).Err()
			},
		})
	}
	if err := iter.Err(); err != nil {
		log.Fatal("Error during scan:", err)
	}

	members, err := client.SMembers(ctx, activeSetKey).Result()
	if err != nil {
		log.Fatal("Failed to read active set:", err)
	}
	for _, id := range members {
		checked++
		if _, reason := inspect(ctx, client, id); reason != "" {
			fmt.Printf("✗ Stale active set member %s: %s\n", id, reason)
			problems = append(problems, problem{
				describe: fmt.Sprintf("remove %s from %s", id, activeSetKey),
				repair: func(ctx context.Context, client *redis.Client) error {
					return client.SRem(ctx, activeSetKey, id).Err()
				},
			})
		}
	}

	fmt.Printf("\nChecked %d index entries, found %d problems\n", checked, len(problems))

	if len(problems) == 0 {
		fmt.Println("No stale index entries found!")
		return
	}

	fmt.Println("\nRepairs:")
	for _, p := range problems {
		fmt.Printf("  - %s\n", p.describe)
	}

	// Ask for confirmation before repairing
	fmt.Print("\nDo you want to APPLY these repairs? (yes/no): ")
	var response string
	_, _ = fmt.Scanln(&response)

	if response != "yes" {
		fmt.Println("Aborted - no changes made")
		return
	}
	for _, p := range problems {
		if err := p.repair(ctx, client); err != nil {
			fmt.Printf("Failed to %s: %v\n", p.describe, err)
		} else {
			fmt.Printf("Done: %s\n", p.describe)
		}
	}
	fmt.Println("\nCleanup complete!")
}

// inspect loads an expedition and reports why it cannot back an active index entry
func inspect(ctx context.Context, client *redis.Client, id string) (*entities.Expedition, string) {
	data, err := client.Get(ctx, expeditionPrefix+id).Result()
	if err == redis.Nil {
		return nil, "record missing"
	}
	if err != nil {
		return nil, fmt.Sprintf("read failed: %v", err)
	}

	var exp entities.Expedition
	if err := json.Unmarshal([]byte(data), &exp); err != nil {
		return nil, "corrupted JSON"
	}
	if !exp.IsActive() {
		return &exp, fmt.Sprintf("status is %s", exp.Status)
	}
	return &exp, ""
}
