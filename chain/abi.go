package chain

import (
	"github.com/ethereum/go-ethereum/accounts/abi"
	"strings"
)

// DeployerABIJSON is the SinDeployer factory interface.
const DeployerABIJSON = `[
  {
    "inputs": [],
    "name": "nextSinId",
    "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [{"internalType": "uint256", "name": "", "type": "uint256"}],
    "name": "sinContracts",
    "outputs": [{"internalType": "address", "name": "", "type": "address"}],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [{"internalType": "uint256", "name": "sinId", "type": "uint256"}],
    "name": "getSinInfo",
    "outputs": [
      {"internalType": "address", "name": "contractAddress", "type": "address"},
      {"internalType": "string", "name": "name", "type": "string"},
      {"internalType": "string", "name": "description", "type": "string"},
      {"internalType": "uint256", "name": "priceWei", "type": "uint256"},
      {"internalType": "bool", "name": "active", "type": "bool"}
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [
      {"internalType": "string", "name": "name", "type": "string"},
      {"internalType": "string", "name": "description", "type": "string"},
      {"internalType": "uint256", "name": "priceWei", "type": "uint256"},
      {"internalType": "bool", "name": "active", "type": "bool"}
    ],
    "name": "deploySin",
    "outputs": [
      {"internalType": "uint256", "name": "sinId", "type": "uint256"},
      {"internalType": "address", "name": "sinContract", "type": "address"}
    ],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "uint256", "name": "sinId", "type": "uint256"},
      {"indexed": true, "internalType": "address", "name": "sinContract", "type": "address"},
      {"indexed": false, "internalType": "string", "name": "name", "type": "string"},
      {"indexed": false, "internalType": "uint256", "name": "priceWei", "type": "uint256"}
    ],
    "name": "SinDeployed",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "uint256", "name": "sinId", "type": "uint256"},
      {"indexed": false, "internalType": "string", "name": "name", "type": "string"},
      {"indexed": false, "internalType": "uint256", "name": "priceWei", "type": "uint256"},
      {"indexed": false, "internalType": "bool", "name": "active", "type": "bool"}
    ],
    "name": "SinUpdated",
    "type": "event"
  }
]`

// SinABIJSON is the per-sin ERC-1155 contract interface.
const SinABIJSON = `[
  {
    "inputs": [
      {"internalType": "address", "name": "account", "type": "address"},
      {"internalType": "uint256", "name": "id", "type": "uint256"}
    ],
    "name": "balanceOf",
    "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [{"internalType": "uint256", "name": "", "type": "uint256"}],
    "name": "uri",
    "outputs": [{"internalType": "string", "name": "", "type": "string"}],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [],
    "name": "absolve",
    "outputs": [],
    "stateMutability": "payable",
    "type": "function"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "user", "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "priceWei", "type": "uint256"}
    ],
    "name": "Absolved",
    "type": "event"
  }
]`

var (
	DeployerABI = mustParseABI(DeployerABIJSON)
	SinABI      = mustParseABI(SinABIJSON)
)

func mustParseABI(s string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		panic(err)
	}
	return parsed
}
