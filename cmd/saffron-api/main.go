package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/princesssaffron/Z-PrincessSaffron-sub000/config"
	"github.com/princesssaffron/Z-PrincessSaffron-sub000/internal/metrics"
	"github.com/princesssaffron/Z-PrincessSaffron-sub000/internal/server"
	"github.com/princesssaffron/Z-PrincessSaffron-sub000/internal/store"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "saffron-api",
	Short: "Storefront API for the saffron shop",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".", "directory containing app.env")
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
}

func serve() error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(os.Stderr).With().Str("app", cfg.AppName).Logger()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return err
	}
	log.Info().Str("db", cfg.MongoDB).Msg("connected to MongoDB")

	db := client.Database(cfg.MongoDB)
	if err := store.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	srv := server.New(cfg, store.NewMongo(db), metrics.NewServerMetrics())
	return srv.Run()
}
