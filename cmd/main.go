package main

import (
	"net/http"

	"github.com/rs/zerolog/log"

	_ "github.com/lib/pq"

	"github.com/ncibb/credit-ledger/cmd/httpserver"
	"github.com/ncibb/credit-ledger/internal/events/kafka"
	"github.com/ncibb/credit-ledger/internal/ledgerservice"
	"github.com/ncibb/credit-ledger/internal/middleware"
	"github.com/ncibb/credit-ledger/pkg/configpkg"
	"github.com/ncibb/credit-ledger/pkg/dbpkg"
)

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.GetLogger(config)

	conn, err := dbpkg.Setup(config.DBDriver, config.DBSource)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot connect to db")
	}

	var publisher ledgerservice.Publisher
	if len(config.KafkaBrokers) > 0 {
		kafkaPublisher := kafka.NewPublisher(config.KafkaBrokers, config.KafkaTopic)
		defer func() {
			if err := kafkaPublisher.Close(); err != nil {
				logger.Error().Err(err).Msg("cannot close kafka publisher")
			}
		}()

		publisher = kafkaPublisher
	}

	server, err := httpserver.New(conn, logger, config, publisher)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create server")
	}

	if err := http.ListenAndServe(config.ServerAddress, server); err != nil {
		logger.Fatal().Err(err).Msg("cannot start server")
	}
}
