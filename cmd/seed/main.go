package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"

	"github.com/moviemaestro/moviemaestro-backend/internal/users"
	"github.com/moviemaestro/moviemaestro-backend/pkg/config"
	"github.com/moviemaestro/moviemaestro-backend/pkg/db"
	"github.com/moviemaestro/moviemaestro-backend/pkg/db/models"
	dbtypes "github.com/moviemaestro/moviemaestro-backend/pkg/db/types"
	"github.com/moviemaestro/moviemaestro-backend/pkg/logger"
	"github.com/moviemaestro/moviemaestro-backend/pkg/security"
	"github.com/moviemaestro/moviemaestro-backend/pkg/types"
)

const seedPassword = "password"

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	wipe := flag.Bool("wipe", true, "delete existing users before seeding")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx = logg.WithField(ctx, "env", cfg.App.Env)

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()

	if *wipe {
		if err := dbClient.DB().WithContext(ctx).Exec("DELETE FROM users").Error; err != nil {
			logg.Error(ctx, "failed to clear users", err)
			os.Exit(1)
		}
		logg.Info(ctx, "cleared users")
	}

	repo := users.NewRepository(dbClient.DB())
	for _, user := range fixtures(ctx, logg, cfg.Password) {
		if _, err := repo.Create(ctx, user); err != nil {
			logg.Error(logg.WithField(ctx, "email", user.Email), "failed to insert user", err)
			os.Exit(1)
		}
	}
	logg.Info(ctx, "seeded users")
}

func fixtures(ctx context.Context, logg *logger.Logger, cfg config.PasswordConfig) []*models.User {
	hash, err := security.HashPassword(seedPassword, cfg)
	if err != nil {
		logg.Error(ctx, "failed to hash seed password", err)
		os.Exit(1)
	}

	language := &types.OptionPair{Value: "en-au", Label: "English (Australia)"}
	platforms := dbtypes.OptionPairList{
		{Value: "netflix", Label: "Netflix"},
		{Value: "binge", Label: "Binge"},
	}
	watch := dbtypes.MediaList{
		{
			Adult:            false,
			BackdropPath:     "/meyhnvssZOPPjud4F1CjOb4snET.jpg",
			GenreIDs:         []int64{16, 10751, 12, 35},
			CatalogID:        940551,
			OriginalLanguage: "en",
			OriginalTitle:    "Migration",
			Overview:         "A family of ducks leaves the safety of a New England pond for a trip to Jamaica, by way of New York City.",
			Popularity:       633.003,
			PosterPath:       "/ldfCF9RhR40mppkzmftxapaHeTo.jpg",
			ReleaseDate:      "2023-12-06",
			Title:            "Migration",
			Video:            false,
			VoteAverage:      7.5,
			VoteCount:        1159,
		},
	}
	wish := dbtypes.MediaList{
		{
			Adult:            false,
			BackdropPath:     "/yOm993lsJyPmBodlYjgpPwBjXP9.jpg",
			GenreIDs:         []int64{28, 53, 18},
			CatalogID:        866398,
			OriginalLanguage: "en",
			OriginalTitle:    "The Beekeeper",
			Overview:         "One man's campaign for vengeance takes on national stakes after he is revealed to be a former operative of a powerful and clandestine organization known as Beekeepers.",
			Popularity:       1205.321,
			PosterPath:       "/A7EByudX0eOzlkQ2FIbogzyazm2.jpg",
			ReleaseDate:      "2024-01-10",
			Title:            "The Beekeeper",
			Video:            false,
			VoteAverage:      7.4,
			VoteCount:        2354,
		},
	}

	accounts := []struct {
		name  string
		email string
	}{
		{"Myles", "fake@fake.com"},
		{"Yoshi", "fake1@fake.com"},
		{"Mitch", "fake2@fake.com"},
	}

	seeded := make([]*models.User, 0, len(accounts))
	for _, acct := range accounts {
		seeded = append(seeded, &models.User{
			Name:              acct.name,
			Email:             acct.email,
			PasswordHash:      hash,
			Language:          language,
			StreamingPlatform: platforms,
			WatchList:         append(dbtypes.MediaList{}, watch...),
			WishList:          append(dbtypes.MediaList{}, wish...),
			IsAdmin:           true,
		})
	}
	return seeded
}
