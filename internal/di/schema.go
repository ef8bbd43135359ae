package di

import (
	"SenateInsight/pkg/config"
)

// InitSchema creates the database and every table the service writes to.
// Safe to run repeatedly.
func InitSchema(cfg *config.Config) error {
	client, err := ProvideClickHouseClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	logger, err := ProvideLogger(cfg)
	if err != nil {
		return err
	}
	if _, err := ProvideAlertStore(client, cfg); err != nil {
		return err
	}
	if _, err := ProvidePriceStore(client, cfg, logger); err != nil {
		return err
	}
	if _, err := ProvideTransactionStore(client, cfg); err != nil {
		return err
	}
	return nil
}
