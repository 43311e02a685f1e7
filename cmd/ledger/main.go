package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Taraxa-project/networth-ledger/ledger/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := config.New()
	var config_path string
	root := &cobra.Command{
		Use:           "ledger",
		Short:         "Private net-worth ledger node and tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&config_path, "config", "", "path to a YAML config file")
	root.PersistentFlags().String("address-prefix", "", "bech32 prefix of account addresses")
	bindFlag(v, root.PersistentFlags(), "contract.address_prefix", "address-prefix")

	load := func() (*config.Config, error) {
		return config.Load(v, config_path)
	}
	root.AddCommand(newServeCmd(v, load), newKeygenCmd(load), newPermitCmd(load))
	return root
}

// bindFlag lets an explicitly set flag override key; unset flags leave the config value alone.
func bindFlag(v *viper.Viper, flags *pflag.FlagSet, key, name string) {
	if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
		panic(err)
	}
}
