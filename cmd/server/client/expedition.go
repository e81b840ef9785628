package client

import (
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/expedition-api/internal/handlers/expedition/v1alpha1"
)

var (
	playerID          string
	templateID        string
	expeditionID      string
	selectedResources []string
	cancelReason      string
	historyLimit      int
)

var startExpeditionCmd = &cobra.Command{
	Use:   "start",
	Short: "Start an expedition for a player",
	RunE: func(_ *cobra.Command, _ []string) error {
		return call(v1alpha1.MethodStartExpedition, map[string]any{
			"player_id":          playerID,
			"template_id":        templateID,
			"selected_resources": toList(selectedResources),
		})
	},
}

var progressExpeditionCmd = &cobra.Command{
	Use:   "progress",
	Short: "Advance an expedition to the current time",
	RunE: func(_ *cobra.Command, _ []string) error {
		return call(v1alpha1.MethodUpdateExpeditionProgress, map[string]any{
			"expedition_id": expeditionID,
		})
	},
}

var completeExpeditionCmd = &cobra.Command{
	Use:   "complete",
	Short: "Complete a returning expedition and collect rewards",
	RunE: func(_ *cobra.Command, _ []string) error {
		return call(v1alpha1.MethodCompleteExpedition, map[string]any{
			"expedition_id": expeditionID,
		})
	},
}

var cancelExpeditionCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Cancel an active expedition",
	RunE: func(_ *cobra.Command, _ []string) error {
		return call(v1alpha1.MethodCancelExpedition, map[string]any{
			"expedition_id": expeditionID,
			"reason":        cancelReason,
		})
	},
}

var getExpeditionCmd = &cobra.Command{
	Use:   "get-expedition",
	Short: "Get an expedition by ID, or the active expedition of a player",
	RunE: func(_ *cobra.Command, _ []string) error {
		return call(v1alpha1.MethodGetExpedition, map[string]any{
			"expedition_id": expeditionID,
			"player_id":     playerID,
		})
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List the expeditions of a player, newest first",
	RunE: func(_ *cobra.Command, _ []string) error {
		return call(v1alpha1.MethodListExpeditionHistory, map[string]any{
			"player_id": playerID,
			"limit":     historyLimit,
		})
	},
}

func init() {
	startExpeditionCmd.Flags().StringVar(&playerID, "player-id", "", "Player ID (required)")
	startExpeditionCmd.Flags().StringVar(&templateID, "template-id", "", "Expedition template ID (required)")
	startExpeditionCmd.Flags().StringSliceVar(&selectedResources, "resources", nil, "Resources to focus on")
	_ = startExpeditionCmd.MarkFlagRequired("player-id")   // nolint:errcheck // safe to ignore in init
	_ = startExpeditionCmd.MarkFlagRequired("template-id") // nolint:errcheck // safe to ignore in init

	for _, cmd := range []*cobra.Command{progressExpeditionCmd, completeExpeditionCmd, cancelExpeditionCmd} {
		cmd.Flags().StringVar(&expeditionID, "expedition-id", "", "Expedition ID (required)")
		_ = cmd.MarkFlagRequired("expedition-id") // nolint:errcheck // safe to ignore in init
	}
	cancelExpeditionCmd.Flags().StringVar(&cancelReason, "reason", "", "Cancellation reason")

	getExpeditionCmd.Flags().StringVar(&expeditionID, "expedition-id", "", "Expedition ID")
	getExpeditionCmd.Flags().StringVar(&playerID, "player-id", "", "Player ID, used when no expedition ID is given")
	getExpeditionCmd.MarkFlagsOneRequired("expedition-id", "player-id")

	historyCmd.Flags().StringVar(&playerID, "player-id", "", "Player ID (required)")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Maximum number of expeditions")
	_ = historyCmd.MarkFlagRequired("player-id") // nolint:errcheck // safe to ignore in init
}
