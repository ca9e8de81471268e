package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phishaware/backend/internal/config"
	"github.com/phishaware/backend/internal/database"
	"github.com/phishaware/backend/internal/models"
	"github.com/phishaware/backend/internal/repository"
	"github.com/phishaware/backend/internal/scoring"
)

var scoresCampaignID string

var recomputeScoresCmd = &cobra.Command{
	Use:   "recompute-scores",
	Short: "Recompute risk scores for one campaign or all campaigns",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		repo := repository.NewEnrollmentRepository(database.DB)
		engine := scoring.NewEngine(repo, config.DefaultScoring())

		var campaignIDs []string
		if scoresCampaignID != "" {
			campaignIDs = []string{scoresCampaignID}
		} else {
			var campaigns []models.Campaign
			if err := database.DB.Find(&campaigns).Error; err != nil {
				return fmt.Errorf("failed to list campaigns: %w", err)
			}
			for _, c := range campaigns {
				campaignIDs = append(campaignIDs, c.ID)
			}
		}

		total := 0
		for _, campaignID := range campaignIDs {
			enrollments, err := repo.ListEnrollmentsByCampaign(ctx, campaignID)
			if err != nil {
				return fmt.Errorf("failed to list enrollments for %s: %w", campaignID, err)
			}
			for _, enrollment := range enrollments {
				if _, err := engine.Score(ctx, enrollment.ID); err != nil {
					fmt.Printf("warning: enrollment %s: %v\n", enrollment.ID, err)
					continue
				}
				total++
			}
		}

		fmt.Printf("Recomputed %d risk scores across %d campaigns\n", total, len(campaignIDs))
		return nil
	},
}

func init() {
	recomputeScoresCmd.Flags().StringVar(&scoresCampaignID, "campaign", "", "Campaign ID (all campaigns when omitted)")
}
