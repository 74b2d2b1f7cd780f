// Command seedctl loads locations, users, and boards from a yaml file into
// the database for local development.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"surfboard-checkout-backend/config"
	"surfboard-checkout-backend/internal/db"
	"surfboard-checkout-backend/internal/model"
	"surfboard-checkout-backend/internal/store"
)

type seedFile struct {
	Locations []struct {
		Name     string `yaml:"name"`
		Timezone string `yaml:"timezone"`
		Address  string `yaml:"address"`
		Users    []struct {
			Username string `yaml:"username"`
			FullName string `yaml:"full_name"`
			Email    string `yaml:"email"`
			Role     string `yaml:"role"`
		} `yaml:"users"`
		Boards []struct {
			Name      string `yaml:"name"`
			Brand     string `yaml:"brand"`
			Size      string `yaml:"size"`
			Condition string `yaml:"condition"`
		} `yaml:"boards"`
	} `yaml:"locations"`
}

func main() {
	configPath := flag.String("config", "./config/config.yaml", "path to config file")
	seedPath := flag.String("seed", "./config/seed.yaml", "path to seed data file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	raw, err := os.ReadFile(*seedPath)
	if err != nil {
		log.Fatalf("read seed file: %v", err)
	}
	var seed seedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		log.Fatalf("parse seed file: %v", err)
	}

	st := store.New(gormDB)
	ctx := context.Background()

	err = st.Transaction(ctx, func(tx *store.Store) error {
		for _, loc := range seed.Locations {
			location := model.Location{
				ID:       uuid.NewString(),
				Name:     loc.Name,
				Timezone: loc.Timezone,
				Address:  loc.Address,
			}
			if err := tx.DB().Create(&location).Error; err != nil {
				return err
			}
			for _, u := range loc.Users {
				role := u.Role
				if role == "" {
					role = model.RoleUser
				}
				user := model.User{
					ID:         uuid.NewString(),
					LocationID: location.ID,
					Username:   u.Username,
					FullName:   u.FullName,
					Email:      u.Email,
					Role:       role,
				}
				if err := tx.DB().Create(&user).Error; err != nil {
					return err
				}
			}
			for _, b := range loc.Boards {
				condition := b.Condition
				if condition == "" {
					condition = model.BoardConditionGood
				}
				board := model.Board{
					ID:         uuid.NewString(),
					LocationID: location.ID,
					Name:       b.Name,
					Brand:      b.Brand,
					Size:       b.Size,
					Status:     model.BoardStatusAvailable,
					Condition:  condition,
				}
				if err := tx.CreateBoard(ctx, &board); err != nil {
					return err
				}
			}
			log.Printf("seeded %s: %d users, %d boards", loc.Name, len(loc.Users), len(loc.Boards))
		}
		return nil
	})
	if err != nil {
		log.Fatalf("seed: %v", err)
	}
	log.Println("seed complete")
}
