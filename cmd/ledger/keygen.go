package main

import (
	"encoding/hex"
	"encoding/json"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/spf13/cobra"

	"github.com/Taraxa-project/networth-ledger/ledger/config"
)

func newKeygenCmd(load func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate a secp256k1 account key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			key, err := btcec.NewPrivateKey()
			if err != nil {
				return err
			}
			pub := key.PubKey().SerializeCompressed()
			addr, err := cfg.Contract.Codec.FromPubKey(pub)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]string{
				"address":     addr.String(),
				"public_key":  hex.EncodeToString(pub),
				"private_key": hex.EncodeToString(key.Serialize()),
			})
		},
	}
}
