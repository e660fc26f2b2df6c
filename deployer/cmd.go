package deployer

import (
	"context"
	"fmt"
	"github.com/sinder-app/sinder/config"
	"github.com/sinder-app/sinder/constants"
	"github.com/sinder-app/sinder/internal/signal"
	"github.com/sinder-app/sinder/wallet"
	"github.com/spf13/cobra"
	"os"
)

type cmdOptions struct {
	chain  config.Chain
	keyEnv string
	form   Form
}

var deployOptions = &cmdOptions{}

var Cmd = &cobra.Command{
	Use:   "deploy",
	Short: "deploy a new sin through the deployer contract",
	Run: func(cmd *cobra.Command, args []string) {
		if err := Deploy(signal.Context(context.Background())); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	Cmd.Flags().StringVarP(&deployOptions.form.Name, "name", "n", "", "sin name, e.g. Procrastination")
	Cmd.Flags().StringVarP(&deployOptions.form.Description, "description", "", "", "sin description")
	Cmd.Flags().StringVarP(&deployOptions.form.PriceEth, "price", "p", "", "absolution price in ETH, at least "+MinPriceEth)
	Cmd.Flags().BoolVarP(&deployOptions.form.Active, "active", "", true, "available for absolution")
	Cmd.Flags().StringVarP(&deployOptions.chain.RPC, "rpc", "r", "", "chain rpc url (default https://sepolia.base.org)")
	Cmd.Flags().StringVarP(&deployOptions.chain.Deployer, "deployer", "", "", "sin deployer contract address")
	Cmd.Flags().Int64VarP(&deployOptions.chain.ChainID, "chain_id", "", 0, "chain id (default 84532)")
	Cmd.Flags().StringVarP(&deployOptions.keyEnv, "key_env", "", constants.EnvPrivateKey, "environment variable holding the private key")
}

// Deploy submits the sin described by the command flags.
func Deploy(ctx context.Context) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	form := deployOptions.form
	if err := form.Validate(); err != nil {
		return err
	}
	key, err := wallet.LoadKey(deployOptions.keyEnv, os.Stdin, os.Stdout)
	if err != nil {
		return err
	}
	w, err := wallet.Dial(deployOptions.chain, key)
	if err != nil {
		return err
	}

	d := New(
		WithSinDeployer(w),
		WithOnDeployed(func(ctx context.Context) error {
			fmt.Printf("sin %q deployed\n", form.Name)
			return nil
		}),
	)
	d.Open()
	if err := d.Submit(ctx, form); err != nil {
		if tx := d.LastTx(); tx != nil {
			return fmt.Errorf("deploy tx %s: %w", tx.Hash().Hex(), err)
		}
		return err
	}
	return nil
}
