package provider

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/satstream/chainsync/internal/fetch"
	"github.com/satstream/chainsync/internal/script"
)

// Kind is the closed set of supported provider implementations.
type Kind string

const (
	KindBlockstream    Kind = "blockstream"
	KindMempool        Kind = "mempool"
	KindEmzy           Kind = "emzy"
	KindBlockchainInfo Kind = "blockchain_info"
	KindBlockchair     Kind = "blockchair"
	KindSandshrew      Kind = "sandshrew"
)

// ParseKind validates a configured provider name.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindBlockstream, KindMempool, KindEmzy, KindBlockchainInfo, KindBlockchair, KindSandshrew:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("unknown provider kind %q", s)
	}
}

// Mode selects between a single configured provider and the full multi-vendor
// round-robin pool.
type Mode string

const (
	ModeSingle Mode = "single"
	ModeMulti  Mode = "multi"
)

// ParseMode validates a configured fetch mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeSingle, ModeMulti:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown fetch mode %q", s)
	}
}

// Deps carries the shared collaborators provider constructors need.
type Deps struct {
	Client *fetch.Client
	// ScriptDecoder fills script metadata for vendors that omit it; optional.
	ScriptDecoder *script.Decoder
	// SandshrewURL is the keyed RPC endpoint; required for the sandshrew kind.
	SandshrewURL string
	// Metrics, when set, wraps every constructed provider with instrumentation.
	Metrics Metrics
	Logger  *zap.Logger
}

// New constructs one provider of the given kind.
func New(kind Kind, deps Deps) (Provider, error) {
	p, err := newProvider(kind, deps)
	if err != nil {
		return nil, err
	}
	if deps.Metrics != nil {
		return NewObserved(p, deps.Metrics), nil
	}
	return p, nil
}

func newProvider(kind Kind, deps Deps) (Provider, error) {
	switch kind {
	case KindBlockstream:
		return NewBlockstream(deps.Client), nil
	case KindMempool:
		return NewMempool(deps.Client), nil
	case KindEmzy:
		return NewEmzy(deps.Client), nil
	case KindBlockchainInfo:
		return NewBlockchainInfo(deps.Client, deps.ScriptDecoder, deps.Logger), nil
	case KindBlockchair:
		return NewBlockchair(deps.Client), nil
	case KindSandshrew:
		if deps.SandshrewURL == "" {
			return nil, fmt.Errorf("provider %s requires a configured endpoint URL", KindSandshrew)
		}
		return NewSandshrew(deps.SandshrewURL, deps.Client), nil
	default:
		return nil, fmt.Errorf("unknown provider kind %q", kind)
	}
}

// NewPoolForMode assembles the provider pool. Multi mode uses every provider
// capable of sustained transaction fetching: the Esplora instances,
// sandshrew when an endpoint is configured, and blockchain_info. Blockchair
// stays single-mode only; its two-request windows burn the free tier too
// fast for round-robin use.
func NewPoolForMode(mode Mode, kind Kind, deps Deps) (*Pool, error) {
	if mode == ModeSingle {
		p, err := New(kind, deps)
		if err != nil {
			return nil, err
		}
		return NewPool(deps.Logger, p)
	}

	kinds := []Kind{KindBlockstream, KindMempool, KindEmzy}
	if deps.SandshrewURL != "" {
		kinds = append(kinds, KindSandshrew)
	}
	kinds = append(kinds, KindBlockchainInfo)

	providers := make([]Provider, 0, len(kinds))
	for _, k := range kinds {
		p, err := New(k, deps)
		if err != nil {
			return nil, fmt.Errorf("build provider %s: %w", k, err)
		}
		providers = append(providers, p)
	}
	return NewPool(deps.Logger, providers...)
}
