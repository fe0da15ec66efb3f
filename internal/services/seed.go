package services

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"pikachu/internal/models"
)

// Seed inserts demo users, projects and tasks into an empty user table and
// the default pomodoro category into an empty category table. Running it
// again changes nothing.
func Seed(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var users int64
		if err := tx.Model(&models.User{}).Count(&users).Error; err != nil {
			return err
		}
		if users == 0 {
			if err := seedDemo(tx); err != nil {
				return fmt.Errorf("seed demo data: %w", err)
			}
			log.Info("Seeded demo users, projects and tasks")
		}

		var categories int64
		if err := tx.Model(&models.Category{}).Count(&categories).Error; err != nil {
			return err
		}
		if categories == 0 {
			if err := tx.Create(&models.Category{Name: DefaultCategory}).Error; err != nil {
				return fmt.Errorf("seed category: %w", err)
			}
			log.Infof("Seeded pomodoro category %q", DefaultCategory)
		}
		return nil
	})
}

func seedDemo(tx *gorm.DB) error {
	users := []models.User{
		{Name: "Ash Ketchum", Email: "ash@pallet.town", Role: "admin"},
		{Name: "Misty", Email: "misty@cerulean.city", Role: defaultUserRole},
		{Name: "Brock", Email: "brock@pewter.city", Role: defaultUserRole},
	}
	if err := tx.Create(&users).Error; err != nil {
		return err
	}

	projects := []models.Project{
		{Name: "Pokedex", Description: "Catalogue every pokemon", Status: "active"},
		{Name: "Gym Tour", Description: "Collect all eight badges", Status: defaultProjectStatus},
	}
	if err := tx.Create(&projects).Error; err != nil {
		return err
	}

	tasks := []models.Task{
		{Title: "Catch Pikachu", Status: "completed", Priority: "high", ProjectID: &projects[0].ID, AssigneeID: &users[0].ID},
		{Title: "Register Starmie", Status: "in_progress", Priority: defaultTaskPriority, ProjectID: &projects[0].ID, AssigneeID: &users[1].ID},
		{Title: "Plan route to Pewter City", Status: defaultTaskStatus, Priority: "low", ProjectID: &projects[1].ID, AssigneeID: &users[2].ID},
	}
	return tx.Create(&tasks).Error
}
