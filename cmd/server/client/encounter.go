package client

import (
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/expedition-api/internal/handlers/expedition/v1alpha1"
)

var (
	biomeID      string
	encounterID  string
	combatAction string
)

var generateEncounterCmd = &cobra.Command{
	Use:   "encounter",
	Short: "Roll for a wildlife encounter on the active expedition",
	RunE: func(_ *cobra.Command, _ []string) error {
		return call(v1alpha1.MethodGenerateEncounter, map[string]any{
			"player_id": playerID,
			"biome_id":  biomeID,
		})
	},
}

var combatActionCmd = &cobra.Command{
	Use:   "act",
	Short: "Take a combat action: attack, defend, flee or analyze",
	RunE: func(_ *cobra.Command, _ []string) error {
		return call(v1alpha1.MethodExecuteCombatAction, map[string]any{
			"encounter_id": encounterID,
			"action":       combatAction,
		})
	},
}

var getEncounterCmd = &cobra.Command{
	Use:   "get-encounter",
	Short: "Get an encounter, live or archived",
	RunE: func(_ *cobra.Command, _ []string) error {
		return call(v1alpha1.MethodGetEncounter, map[string]any{
			"encounter_id": encounterID,
		})
	},
}

func init() {
	generateEncounterCmd.Flags().StringVar(&playerID, "player-id", "", "Player ID (required)")
	generateEncounterCmd.Flags().StringVar(&biomeID, "biome-id", "", "Biome of the active expedition (required)")
	_ = generateEncounterCmd.MarkFlagRequired("player-id") // nolint:errcheck // safe to ignore in init
	_ = generateEncounterCmd.MarkFlagRequired("biome-id")  // nolint:errcheck // safe to ignore in init

	combatActionCmd.Flags().StringVar(&encounterID, "encounter-id", "", "Encounter ID (required)")
	combatActionCmd.Flags().StringVar(&combatAction, "action", "attack", "Combat action")
	_ = combatActionCmd.MarkFlagRequired("encounter-id") // nolint:errcheck // safe to ignore in init

	getEncounterCmd.Flags().StringVar(&encounterID, "encounter-id", "", "Encounter ID (required)")
	_ = getEncounterCmd.MarkFlagRequired("encounter-id") // nolint:errcheck // safe to ignore in init
}
