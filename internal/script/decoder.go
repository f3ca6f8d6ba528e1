// Package script decodes output locking scripts into their disassembly,
// class tag and, where possible, an address. Providers whose upstream schema
// omits these fields use it to fill the canonical model.
package script

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
)

// Decoded is the derived view of a locking script.
type Decoded struct {
	Asm     string
	Type    string
	Address *string
}

// Decoder extracts script metadata using the params of one network.
type Decoder struct {
	params *chaincfg.Params
}

// NewDecoder initializes a decoder for the named network.
func NewDecoder(network string) (*Decoder, error) {
	params, err := chainParamsForNetwork(network)
	if err != nil {
		return nil, err
	}
	return &Decoder{params: params}, nil
}

// DecodeOutput derives disassembly, script class and address from a hex
// locking script. Scripts that disassemble but match no known class come back
// with a nonstandard tag and no address.
func (d *Decoder) DecodeOutput(scriptHex string) (Decoded, error) {
	if scriptHex == "" {
		return Decoded{}, nil
	}
	scriptBytes, err := hex.DecodeString(scriptHex)
	if err != nil {
		return Decoded{}, fmt.Errorf("decode script hex: %w", err)
	}

	asm, err := txscript.DisasmString(scriptBytes)
	if err != nil {
		return Decoded{}, fmt.Errorf("disassemble script: %w", err)
	}

	class, addrs, _, err := txscript.ExtractPkScriptAddrs(scriptBytes, d.params)
	if err != nil {
		return Decoded{}, fmt.Errorf("extract script addresses: %w", err)
	}

	decoded := Decoded{Asm: asm, Type: class.String()}
	if len(addrs) > 0 {
		addr := addrs[0].EncodeAddress()
		decoded.Address = &addr
	}
	return decoded, nil
}

// Disasm returns the disassembly of a hex script without address extraction,
// used for unlocking scripts.
func (d *Decoder) Disasm(scriptHex string) (string, error) {
	if scriptHex == "" {
		return "", nil
	}
	scriptBytes, err := hex.DecodeString(scriptHex)
	if err != nil {
		return "", fmt.Errorf("decode script hex: %w", err)
	}
	asm, err := txscript.DisasmString(scriptBytes)
	if err != nil {
		return "", fmt.Errorf("disassemble script: %w", err)
	}
	return asm, nil
}

func chainParamsForNetwork(network string) (*chaincfg.Params, error) {
	switch strings.ToLower(network) {
	case "main", "mainnet", "bitcoin":
		return &chaincfg.MainNetParams, nil
	case "testnet", "testnet3":
		return &chaincfg.TestNet3Params, nil
	case "regtest":
		return &chaincfg.RegressionNetParams, nil
	case "signet":
		return &chaincfg.SigNetParams, nil
	default:
		return nil, fmt.Errorf("unsupported network %q", network)
	}
}
