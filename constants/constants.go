package constants

import (
	"github.com/btcsuite/btcd/btcutil"
	"path/filepath"
)

const (
	AppName = "sinder"

	// DefaultRPCURL is the public Base Sepolia endpoint.
	DefaultRPCURL = "https://sepolia.base.org"
	// DefaultDeployerAddress is the production SinDeployer on Base Sepolia.
	DefaultDeployerAddress = "0xC1952E19E01F570eF2A0B3711AdDEF9E78500182"
	// BaseSepoliaChainID is the only chain the deployer lives on.
	BaseSepoliaChainID = 84532

	DefaultListen = ":3000"
	DefaultAPIURL = "http://localhost:3000"
)

const (
	// EtherDecimals is the number of wei decimals in one ether.
	EtherDecimals = 18
	// SinTokenId is the ERC-1155 token id every sin contract mints.
	SinTokenId = 0

	DefaultPageLimit  = 100
	DefaultPageOffset = 0
)

const (
	DefaultDBName = "sinder"
	DefaultDBUser = "root"
	DefaultDBAddr = "127.0.0.1:3306"
)

// Environment variables read on top of the config file. Explicit flags win over them.
const (
	EnvRPCURL             = "RPC_URL"
	EnvDeployerAddress    = "DEPLOYER_ADDRESS"
	EnvPublicDeployerAddr = "NEXT_PUBLIC_DEPLOYER_ADDRESS"
	EnvListen             = "SINDER_LISTEN"
	EnvChainID            = "CHAIN_ID"
	EnvPrivateKey         = "SINDER_PRIVATE_KEY"
)

// LogFile returns the rotating log file path for the named component.
func LogFile(name string) string {
	return btcutil.AppDataDir(filepath.Join(AppName, "logs", name+".log"), false)
}
