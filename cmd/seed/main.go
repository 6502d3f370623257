package main

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"eventease/internal/config"
	"eventease/internal/db"
	"eventease/internal/model"
	"eventease/internal/repository"
)

const seedPassword = "password123"

func main() {
	log.Println("Starting seed script...")

	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment")
	}

	// Load configuration
	cfg := config.Load()

	// Connect to database
	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	// Run migrations to ensure schema is up to date
	if err := gormDB.AutoMigrate(&model.User{}, &model.Event{}, &model.RSVP{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	userRepo := repository.NewUserRepository(gormDB)
	eventRepo := repository.NewEventRepository(gormDB)
	rsvpRepo := repository.NewRSVPRepository(gormDB)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), 10)
	if err != nil {
		log.Fatalf("Failed to hash seed password: %v", err)
	}

	users := []model.User{
		{Name: "Admin User", Email: "admin@eventease.com", Role: model.RoleAdmin, PasswordHash: string(hash)},
		{Name: "Event Owner", Email: "owner@eventease.com", Role: model.RoleEventOwner, PasswordHash: string(hash)},
		{Name: "Staff Member", Email: "staff@eventease.com", Role: model.RoleStaff, PasswordHash: string(hash)},
	}

	created := 0
	var owner *model.User
	for i := range users {
		existing, err := userRepo.FindByEmail(ctx, users[i].Email)
		if err != nil && err != gorm.ErrRecordNotFound {
			log.Fatalf("Failed to check user %s: %v", users[i].Email, err)
		}
		if existing != nil {
			if users[i].Role == model.RoleEventOwner {
				owner = existing
			}
			continue
		}
		if err := userRepo.Create(ctx, &users[i]); err != nil {
			log.Fatalf("Failed to create user %s: %v", users[i].Email, err)
		}
		if users[i].Role == model.RoleEventOwner {
			owner = &users[i]
		}
		created++
	}
	log.Printf("Created %d users (password: %s)", created, seedPassword)

	if owner == nil {
		log.Fatal("No event owner available for sample events")
	}

	seeded, err := seedEvents(ctx, eventRepo, rsvpRepo, owner.ID)
	if err != nil {
		log.Fatalf("Failed to seed events: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - New sample events created: %d", seeded)
}

// seedEvents creates sample events with custom fields and a few RSVPs.
func seedEvents(ctx context.Context, events repository.EventRepository, rsvps repository.RSVPRepository, ownerID uuid.UUID) (int, error) {
	now := time.Now()
	in30 := now.Add(30 * 24 * time.Hour)
	in30End := in30.Add(9 * time.Hour)
	in45 := now.Add(45 * 24 * time.Hour)
	cap500 := 500
	cap40 := 40

	samples := []model.Event{
		{
			Title:        "Tech Conference 2026",
			Description:  "Join us for the biggest tech conference of the year! Featuring keynotes from industry leaders, hands-on workshops, and networking opportunities.",
			Location:     "San Francisco Convention Center, CA",
			StartDate:    in30,
			EndDate:      &in30End,
			IsPublic:     true,
			MaxAttendees: &cap500,
			CreatorID:    ownerID,
			CustomFields: model.CustomFields{
				{ID: "1", Label: "Dietary Restrictions", Type: model.CustomFieldTextarea, Required: false},
				{ID: "2", Label: "Company", Type: model.CustomFieldText, Required: true},
			},
		},
		{
			Title:        "Team Offsite Planning",
			Description:  "Internal planning session for next quarter.",
			Location:     "HQ, Meeting Room 4",
			StartDate:    in45,
			IsPublic:     false,
			MaxAttendees: &cap40,
			CreatorID:    ownerID,
		},
	}

	seeded := 0
	for i := range samples {
		if err := events.Create(ctx, &samples[i]); err != nil {
			return seeded, err
		}
		seeded++
	}

	sampleRSVPs := []model.RSVP{
		{EventID: samples[0].ID, Name: "Jane Doe", Email: "jane@example.com", Status: model.RSVPStatusConfirmed, Message: "Looking forward to it!"},
		{EventID: samples[0].ID, Name: "John Smith", Email: "john@example.com", Phone: "+1 555 0100", Status: model.RSVPStatusConfirmed},
	}
	for i := range sampleRSVPs {
		if err := rsvps.Create(ctx, &sampleRSVPs[i]); err != nil {
			return seeded, err
		}
	}

	return seeded, nil
}
