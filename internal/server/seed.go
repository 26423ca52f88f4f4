package server

import (
	"strings"

	"gorm.io/gorm"

	"github.com/raflibima25/go-electroshop/internal/auth"
	"github.com/raflibima25/go-electroshop/internal/models"
)

var sampleProducts = []models.Product{
	{Category: "smartphone", Name: "Galaxy S24", Price: 12999000},
	{Category: "smartphone", Name: "iPhone 15", Price: 15499000},
	{Category: "laptop", Name: "ThinkPad X1 Carbon", Price: 28999000},
	{Category: "laptop", Name: "MacBook Air M3", Price: 18999000},
	{Category: "audio", Name: "Sony WH-1000XM5", Price: 5499000},
	{Category: "audio", Name: "AirPods Pro", Price: 3999000},
	{Category: "wearable", Name: "Galaxy Watch 6", Price: 3799000},
}

// seed creates the admin account, a customer account and the sample
// catalog on an empty database
func (s *Server) seed() error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var users int64
		if err := tx.Model(&models.User{}).Count(&users).Error; err != nil {
			return err
		}
		if users > 0 {
			return nil
		}

		accounts := []struct {
			email, password, name string
			admin                 bool
		}{
			{s.config.SeedAdminEmail, s.config.SeedAdminPassword, "Admin ElectroShop", true},
			{s.config.SeedUserEmail, s.config.SeedUserPassword, "Jane Doe", false},
		}

		for _, account := range accounts {
			if account.email == "" || account.password == "" {
				continue
			}

			hash, err := auth.HashPassword(account.password)
			if err != nil {
				return err
			}

			user := &models.User{
				Email:        strings.ToLower(account.email),
				PasswordHash: hash,
				Name:         account.name,
				IsAdmin:      account.admin,
			}
			if err := tx.Create(user).Error; err != nil {
				return err
			}
		}

		var products int64
		if err := tx.Model(&models.Product{}).Count(&products).Error; err != nil {
			return err
		}
		if products > 0 {
			return nil
		}

		catalog := make([]models.Product, len(sampleProducts))
		copy(catalog, sampleProducts)
		if err := tx.Create(&catalog).Error; err != nil {
			return err
		}

		s.logger.Info().Int("products", len(catalog)).Msg("Seeded storefront database")
		return nil
	})
}
