// Package seed populates the demo account used on fresh installs.
package seed

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"impact/internal/domain"
)

const (
	// DemoEmail identifies the seeded demonstration account.
	DemoEmail    = "johndoe@gmail.com"
	demoName     = "John Doe"
	demoPassword = "password123"
)

// EnsureDemoUser creates the demo account with sample records when it does
// not exist yet. The whole sequence is skipped as soon as the demo user is
// found, so a crash mid-seed leaves at most partial demo data and never
// duplicates.
func EnsureDemoUser(ctx context.Context, store domain.Store) error {
	_, err := store.GetUserByEmail(ctx, DemoEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("seed: look up demo user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), 10)
	if err != nil {
		return fmt.Errorf("seed: hash demo password: %w", err)
	}
	user := &domain.User{Email: DemoEmail, Name: demoName, PasswordHash: string(hash)}
	if err := store.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("seed: create demo user: %w", err)
	}

	donations := []domain.Donation{
		{Organization: "Mercy For Animals", Amount: 150, Date: "2024-01-15", Notes: "Monthly pledge"},
		{Organization: "The Humane League", Amount: 75.50, Date: "2024-02-03"},
		{Organization: "Animal Equality", Amount: 200, Date: "2024-03-21", Notes: "Matched by employer"},
	}
	for i := range donations {
		donations[i].UserID = user.ID
		if err := store.CreateDonation(ctx, &donations[i]); err != nil {
			return fmt.Errorf("seed: create demo donation: %w", err)
		}
	}

	conversions := []domain.Conversion{
		{PersonName: "Sarah Mitchell", ConversionDate: "2023-11-08", InfluenceType: "conversation"},
		{PersonName: "Tom Baker", ConversionDate: "2023-12-24", InfluenceType: "documentary", Notes: "Watched Dominion together"},
		{PersonName: "Priya Sharma", ConversionDate: "2024-01-02", InfluenceType: "cooking"},
		{PersonName: "Miguel Torres", ConversionDate: "2024-01-19", InfluenceType: "conversation"},
		{PersonName: "Emma Lawson", ConversionDate: "2024-02-11", InfluenceType: "social media"},
		{PersonName: "David Chen", ConversionDate: "2024-02-27", InfluenceType: "documentary"},
		{PersonName: "Anna Kowalski", ConversionDate: "2024-03-05", InfluenceType: "cooking", Notes: "Weekly meal prep swaps"},
		{PersonName: "James O'Brien", ConversionDate: "2024-03-30", InfluenceType: "conversation"},
	}
	for i := range conversions {
		conversions[i].UserID = user.ID
		if err := store.CreateConversion(ctx, &conversions[i]); err != nil {
			return fmt.Errorf("seed: create demo conversion: %w", err)
		}
	}

	shares := []domain.MediaShare{
		{Platform: "instagram", ContentType: "reel", ReachEstimate: 3200, Date: "2024-01-28", URL: "https://instagram.com/p/demo1"},
		{Platform: "twitter", ContentType: "thread", ReachEstimate: 1500, Date: "2024-02-14"},
		{Platform: "youtube", ContentType: "video", ReachEstimate: 820, Date: "2024-03-09", Notes: "Sanctuary visit vlog"},
	}
	for i := range shares {
		shares[i].UserID = user.ID
		if err := store.CreateMediaShare(ctx, &shares[i]); err != nil {
			return fmt.Errorf("seed: create demo media share: %w", err)
		}
	}

	campaigns := []domain.Campaign{
		{CampaignName: "Cage-Free Corporate Outreach", Organization: "The Humane League", ParticipationType: "petition", Date: "2024-02-20", ImpactDescription: "Collected 40 signatures"},
		{CampaignName: "Veganuary Street Outreach", Organization: "Veganuary", ParticipationType: "volunteer", Date: "2024-01-06", ImpactDescription: "Handed out starter kits downtown"},
	}
	for i := range campaigns {
		campaigns[i].UserID = user.ID
		if err := store.CreateCampaign(ctx, &campaigns[i]); err != nil {
			return fmt.Errorf("seed: create demo campaign: %w", err)
		}
	}

	return nil
}
