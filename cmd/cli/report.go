package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/phishaware/backend/internal/database"
	"github.com/phishaware/backend/internal/models"
	"github.com/phishaware/backend/internal/reporting"
	"github.com/phishaware/backend/internal/repository"
)

var reportCampaignID string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the aggregate report for a campaign",
	RunE: func(cmd *cobra.Command, args []string) error {
		if reportCampaignID == "" {
			return fmt.Errorf("--campaign is required")
		}

		var campaign models.Campaign
		if err := database.DB.First(&campaign, "id = ?", reportCampaignID).Error; err != nil {
			return fmt.Errorf("campaign not found: %s", reportCampaignID)
		}

		ctx := context.Background()
		aggregator := reporting.NewAggregator(repository.NewEnrollmentRepository(database.DB))

		summary, err := aggregator.CampaignSummary(ctx, campaign.ID)
		if err != nil {
			return fmt.Errorf("failed to build summary: %w", err)
		}

		breakdown, err := aggregator.DepartmentBreakdown(ctx, campaign.ID)
		if err != nil {
			return fmt.Errorf("failed to build department breakdown: %w", err)
		}

		if output == "json" {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]interface{}{
				"campaign":    campaign,
				"summary":     summary,
				"departments": breakdown,
			})
		}

		fmt.Printf("Campaign: %s (%s)\n", campaign.Name, campaign.PhishingType)
		fmt.Printf("  Enrolled:        %d\n", summary.TotalEnrolled)
		fmt.Printf("  Emails sent:     %d\n", summary.EmailsSent)
		fmt.Printf("  Clicked:         %d (%.1f%%)\n", summary.Clicked, summary.ClickThroughRate)
		fmt.Printf("  Quiz attempted:  %d\n", summary.QuizAttempted)
		fmt.Printf("  Quiz passed:     %d (%.1f%%)\n", summary.QuizPassed, summary.QuizPassRate)
		fmt.Printf("  Avg overall:     %.1f\n", summary.AverageOverallScore)
		fmt.Printf("  Awareness:       high=%d medium=%d low=%d\n",
			summary.HighAwareness, summary.MediumAwareness, summary.LowAwareness)
		fmt.Println("Departments:")
		for _, dept := range breakdown {
			fmt.Printf("  %-20s enrolled=%d clicked=%.1f%% avg=%.1f\n",
				dept.Department, dept.Summary.TotalEnrolled,
				dept.Summary.ClickThroughRate, dept.Summary.AverageOverallScore)
		}
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportCampaignID, "campaign", "", "Campaign ID")
}
