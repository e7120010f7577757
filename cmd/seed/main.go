// Seeds a demo merchant account and one published hotel so the public search
// has something to show on a fresh database.
package main

import (
	"context"
	"database/sql"
	"errors"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"github.com/wlw20016/yisu-hotel/internal/adapters/observability"
	"github.com/wlw20016/yisu-hotel/internal/domain"
	"github.com/wlw20016/yisu-hotel/internal/migrations"
	"github.com/wlw20016/yisu-hotel/internal/shared"
	mysqlrepo "github.com/wlw20016/yisu-hotel/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv)

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	if cfg.MigrationsDir != "" {
		if err := migrations.Run(db, cfg.MigrationsDir); err != nil {
			log.Fatal().Err(err).Msg("migrations failed")
		}
	}

	repo := mysqlrepo.New(db)

	merchantID, err := repo.CreateUser(ctx, domain.User{
		Username: "merchant_01",
		Password: "123",
		Role:     domain.RoleMerchant,
	})
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			// already seeded
			u, gerr := repo.GetUserByUsername(ctx, "merchant_01")
			if gerr != nil {
				log.Fatal().Err(gerr).Msg("lookup merchant failed")
			}
			merchantID = u.ID
		} else {
			log.Fatal().Err(err).Msg("create merchant failed")
		}
	}

	if _, err := repo.CreateUser(ctx, domain.User{
		Username: "admin_01",
		Password: "123",
		Role:     domain.RoleAdmin,
	}); err != nil && !domain.IsValidation(err) {
		log.Fatal().Err(err).Msg("create admin failed")
	}

	hotelID, err := repo.CreateHotel(ctx, domain.Hotel{
		MerchantID:  merchantID,
		Title:       "上海陆家嘴禧玥酒店",
		Address:     "上海浦东新区",
		Price:       90000, // 900元, minor units
		Star:        5,
		Tags:        []string{"亲子", "地铁周边"},
		Images:      []string{"https://your-image-url.com/1.jpg"},
		Status:      domain.StatusPublished,
		OpeningTime: "2019",
	}, []domain.Room{
		{Title: "豪华大床房", Price: 90000, Stock: 5},
		{Title: "行政双床房", Price: 120000, Stock: 3},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("create hotel failed")
	}

	log.Info().Int64("merchant_id", merchantID).Int64("hotel_id", hotelID).Msg("seed completed")
}
