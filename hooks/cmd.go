package hooks

import (
	"context"
	"errors"
	"fmt"
	"github.com/sinder-app/sinder/apiclient"
	"github.com/sinder-app/sinder/constants"
	"github.com/sinder-app/sinder/internal/signal"
	"github.com/spf13/cobra"
	"io"
	"os"
	"strings"
)

var ErrNoAddress = errors.New("address is required")

var profileOptions = struct {
	api     string
	address string
}{}

var Cmd = &cobra.Command{
	Use:   "profile",
	Short: "list the absolutions of an address",
	Run: func(cmd *cobra.Command, args []string) {
		client := apiclient.New(apiclient.WithBaseURL(profileOptions.api))
		if err := PrintProfile(signal.Context(context.Background()), client, profileOptions.address, os.Stdout); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	Cmd.Flags().StringVarP(&profileOptions.api, "api", "a", constants.DefaultAPIURL, "sinder read api url")
	Cmd.Flags().StringVarP(&profileOptions.address, "address", "", "", "wallet address")
}

// PrintProfile loads the absolutions of address and writes one line each.
func PrintProfile(ctx context.Context, src AbsolvedSource, address string, out io.Writer) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return ErrNoAddress
	}
	p := NewProfile(src)
	if err := p.SetAddress(ctx, address); err != nil {
		return err
	}
	absolutions := p.Absolutions()
	if len(absolutions) == 0 {
		fmt.Fprintln(out, "No absolutions yet.")
		return nil
	}
	fmt.Fprintf(out, "%d absolutions of %s\n", len(absolutions), address)
	for _, a := range absolutions {
		fmt.Fprintf(out, "#%d %s: %s (%s ETH)\n", a.SinId, a.SinName, a.SinDescription, a.PriceEth)
	}
	return nil
}
