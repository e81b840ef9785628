// Package client provides test commands for the expedition gRPC service
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/KirkDiggler/expedition-api/internal/handlers/expedition/v1alpha1"
)

var (
	// Connection flags
	serverAddr string
	timeout    time.Duration
)

// ClientCmd is the root command for all client test commands
var ClientCmd = &cobra.Command{
	Use:   "client",
	Short: "Test client commands for the expedition API",
	Long:  `Client commands allow you to test the expedition API by making real gRPC requests.`,
}

func init() {
	ClientCmd.PersistentFlags().StringVar(&serverAddr, "server", "localhost:50051", "gRPC server address")
	ClientCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")

	// Expedition commands
	ClientCmd.AddCommand(startExpeditionCmd)
	ClientCmd.AddCommand(progressExpeditionCmd)
	ClientCmd.AddCommand(completeExpeditionCmd)
	ClientCmd.AddCommand(cancelExpeditionCmd)
	ClientCmd.AddCommand(getExpeditionCmd)
	ClientCmd.AddCommand(historyCmd)

	// Encounter commands
	ClientCmd.AddCommand(generateEncounterCmd)
	ClientCmd.AddCommand(combatActionCmd)
	ClientCmd.AddCommand(getEncounterCmd)
}

// createConnection creates a gRPC connection to the server
func createConnection() (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(serverAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to server: %w", err)
	}

	return conn, nil
}

// call invokes one service method and prints the envelope
func call(method string, fields map[string]any) error {
	conn, err := createConnection()
	if err != nil {
		return err
	}
	defer func() {
		_ = conn.Close() // nolint:errcheck // safe to ignore in cleanup
	}()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	env, err := v1alpha1.NewClient(conn).Call(ctx, method, fields)
	if err != nil {
		return fmt.Errorf("%s failed: %w", method, err)
	}

	if env.Success {
		fmt.Printf("✅ %s\n\n", env.Message)
	} else {
		fmt.Printf("❌ %s\n\n", env.Message)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}

// toList converts a flag slice into the form structpb accepts
func toList(values []string) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return out
}
