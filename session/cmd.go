package session

import (
	"context"
	"fmt"
	"github.com/sinder-app/sinder/apiclient"
	"github.com/sinder-app/sinder/config"
	"github.com/sinder-app/sinder/constants"
	"github.com/sinder-app/sinder/hooks"
	"github.com/sinder-app/sinder/internal/signal"
	"github.com/sinder-app/sinder/sin"
	"github.com/sinder-app/sinder/wallet"
	"github.com/spf13/cobra"
	"os"
)

type swipeOptions struct {
	api       string
	address   string
	keyEnv    string
	promptKey bool
	noShuffle bool
	chain     config.Chain
}

var swipeOpts = &swipeOptions{}

var Cmd = &cobra.Command{
	Use:   "swipe",
	Short: "swipe through sins in the terminal, right to absolve",
	Run: func(cmd *cobra.Command, args []string) {
		if err := Swipe(signal.Context(context.Background())); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	Cmd.Flags().StringVarP(&swipeOpts.api, "api", "a", constants.DefaultAPIURL, "sinder read api url")
	Cmd.Flags().StringVarP(&swipeOpts.address, "address", "", "", "show the owned set of this address when no key is given")
	Cmd.Flags().StringVarP(&swipeOpts.keyEnv, "key_env", "", constants.EnvPrivateKey, "environment variable holding the private key")
	Cmd.Flags().BoolVarP(&swipeOpts.promptKey, "prompt_key", "", false, "prompt for the private key when the environment has none")
	Cmd.Flags().BoolVarP(&swipeOpts.noShuffle, "no_shuffle", "", false, "keep the api order")
	Cmd.Flags().StringVarP(&swipeOpts.chain.RPC, "rpc", "r", "", "chain rpc url (default https://sepolia.base.org)")
	Cmd.Flags().StringVarP(&swipeOpts.chain.Deployer, "deployer", "", "", "sin deployer contract address")
	Cmd.Flags().Int64VarP(&swipeOpts.chain.ChainID, "chain_id", "", 0, "chain id (default 84532)")
}

// Swipe connects to the read api and, when a key is available, the chain,
// then plays the deck on stdin and stdout. Without a key it is read only.
func Swipe(ctx context.Context) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	client := apiclient.New(apiclient.WithBaseURL(swipeOpts.api))

	var opts []Option
	if os.Getenv(swipeOpts.keyEnv) != "" || swipeOpts.promptKey {
		key, err := wallet.LoadKey(swipeOpts.keyEnv, os.Stdin, os.Stdout)
		if err != nil {
			return err
		}
		w, err := wallet.Dial(swipeOpts.chain, key)
		if err != nil {
			return err
		}
		opts = append(opts, WithTransactor(w))
	}
	opts = append(opts, WithStatusHook(func(st Status, target *sin.Sin) {
		if target != nil {
			fmt.Printf("[%s] %s\n", st, target.Name)
		}
	}))

	var sinsOpts []hooks.SinsOption
	if swipeOpts.noShuffle {
		sinsOpts = append(sinsOpts, hooks.WithoutShuffle())
	}
	s := New(hooks.NewSins(client, sinsOpts...), hooks.NewAbsolved(client), hooks.NewProfile(client), opts...)
	defer s.Close()

	if err := s.Start(ctx); err != nil {
		return err
	}
	if s.Account() == "" && swipeOpts.address != "" {
		if err := s.Absolved().SetAddress(ctx, swipeOpts.address); err != nil {
			return err
		}
		if err := s.Profile().SetAddress(ctx, swipeOpts.address); err != nil {
			return err
		}
	}
	if s.Account() == "" {
		fmt.Println("read only: right swipes need a private key")
	}
	return Play(ctx, s, os.Stdin, os.Stdout)
}
