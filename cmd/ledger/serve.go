package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Taraxa-project/networth-ledger/ledger/config"
	"github.com/Taraxa-project/networth-ledger/ledger/host"
	"github.com/Taraxa-project/networth-ledger/ledger/rpc"
	"github.com/Taraxa-project/networth-ledger/ledger/state/contract"
)

func newServeCmd(v *viper.Viper, load func() (*config.Config, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the ledger and serve execute/query over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
	cmd.Flags().String("listen", "", "HTTP listen address")
	cmd.Flags().String("db", "", "storage backend: memory, leveldb, rocksdb or mongo")
	cmd.Flags().String("resubmission", "", "overwrite or reject repeated submissions")
	bindFlag(v, cmd.Flags(), "rpc.listen", "listen")
	bindFlag(v, cmd.Flags(), "db.backend", "db")
	bindFlag(v, cmd.Flags(), "contract.resubmission", "resubmission")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	log := logrus.NewEntry(cfg.NewLogger())
	store, err := cfg.OpenStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.WithError(err).Error("closing store")
		}
	}()

	api := new(contract.API).Init(cfg.Contract)
	h := new(host.Host).Init(store, api, log.WithField("component", "host"))
	created, err := h.Instantiate(ctx)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"contract":     cfg.Contract.ContractAddress,
		"backend":      cfg.DB.Backend,
		"resubmission": cfg.Contract.Resubmission,
		"instantiated": created,
	}).Info("ledger ready")

	return rpc.NewServer(h, log.WithField("component", "rpc")).ListenAndServe(ctx, cfg.Listen)
}
