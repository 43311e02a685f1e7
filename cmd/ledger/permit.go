package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/spf13/cobra"

	"github.com/Taraxa-project/networth-ledger/ledger/config"
	"github.com/Taraxa-project/networth-ledger/ledger/state/contract"
	"github.com/Taraxa-project/networth-ledger/ledger/state/permit"
)

func newPermitCmd(load func() (*config.Config, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "permit",
		Short: "Work with query permits",
	}
	cmd.AddCommand(newPermitSignCmd(load))
	return cmd
}

func newPermitSignCmd(load func() (*config.Config, error)) *cobra.Command {
	var (
		key_hex     string
		name        string
		permissions []string
		contracts   []string
		chain_id    string
	)
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign a permit and print it as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			raw_key, err := hex.DecodeString(strings.TrimPrefix(key_hex, "0x"))
			if err != nil || len(raw_key) != btcec.PrivKeyBytesLen {
				return fmt.Errorf("--key must be a %d byte hex private key", btcec.PrivKeyBytesLen)
			}
			key, _ := btcec.PrivKeyFromBytes(raw_key)
			for _, p := range permissions {
				if _, err := contract.ParsePermission(p); err != nil {
					return err
				}
			}
			if len(contracts) == 0 {
				contracts = []string{cfg.Contract.ContractAddress.String()}
			}
			for _, c := range contracts {
				if _, err := cfg.Contract.Codec.Validate(c); err != nil {
					return fmt.Errorf("--contract %s: %w", c, err)
				}
			}
			p, err := permit.Sign(key, permit.Params{
				PermitName:    name,
				AllowedTokens: contracts,
				ChainID:       chain_id,
				Permissions:   permissions,
			})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(p)
		},
	}
	cmd.Flags().StringVar(&key_hex, "key", "", "hex encoded secp256k1 private key")
	cmd.Flags().StringVar(&name, "name", "", "permit name, used for revocation")
	cmd.Flags().StringArrayVar(&permissions, "permission", nil, "granted permission (all_info, am_i_richest); repeatable")
	cmd.Flags().StringArrayVar(&contracts, "contract", nil, "contract address the permit applies to; repeatable, defaults to the configured contract")
	cmd.Flags().StringVar(&chain_id, "chain-id", "secret-4", "chain id signed into the permit")
	_ = cmd.MarkFlagRequired("key")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}
