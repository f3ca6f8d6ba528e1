package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/satstream/chainsync/internal/fetch"
	"github.com/satstream/chainsync/internal/model"
	"github.com/satstream/chainsync/internal/script"
)

// A p2pkh output script and a trivial scriptsig, both decodable offline.
const (
	biTestPkScript  = "76a914000000000000000000000000000000000000000088ac"
	biTestScriptSig = "51"
)

const biTestBlock = `{
	"tx": [
		{"hash":"c0","ver":1,"lock_time":0,"size":100,"weight":400,"block_height":900000,
		 "inputs":[{"sequence":4294967295,"script":"` + biTestScriptSig + `","prev_out":null}],
		 "out":[{"value":625000000,"script":"` + biTestPkScript + `","addr":"1111111111111111111114oLvT2"}]},
		{"hash":"t1","ver":2,"lock_time":0,"size":225,"weight":900,"block_height":900000,
		 "inputs":[{"sequence":4294967294,"script":"` + biTestScriptSig + `",
		            "prev_out":{"n":1,"value":7000,"script":"` + biTestPkScript + `"}}],
		 "out":[{"value":5000,"script":"` + biTestPkScript + `"}]},
		{"hash":"t2","ver":2,"lock_time":0,"size":226,"weight":904,"block_height":900000,
		 "inputs":[{"sequence":4294967294,"script":"","prev_out":{"n":0,"value":9000,"script":""}}],
		 "out":[{"value":8000,"script":"` + biTestPkScript + `"}]}
	]
}`

func testDecoder(t *testing.T) *script.Decoder {
	t.Helper()
	decoder, err := script.NewDecoder("mainnet")
	if err != nil {
		t.Fatalf("NewDecoder() error = %v", err)
	}
	return decoder
}

func txids(txs []model.Transaction) []string {
	ids := make([]string, 0, len(txs))
	for _, tx := range txs {
		ids = append(ids, tx.TxID)
	}
	return ids
}

func newBlockchainInfo(t *testing.T, serverURL string) *BlockchainInfo {
	t.Helper()
	provider := NewBlockchainInfo(newTestClient(t), testDecoder(t), zap.NewNop())
	provider.baseURL = serverURL
	return provider
}

func TestBlockchainInfoTranslatesBlock(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(biTestBlock))
	}))
	defer server.Close()

	provider := newBlockchainInfo(t, server.URL)

	txs, err := provider.BlockTransactions(context.Background(), "00cc", 0)
	if err != nil {
		t.Fatalf("BlockTransactions() error = %v", err)
	}
	if gotPath != "/rawblock/00cc" {
		t.Fatalf("request path = %q, want /rawblock/00cc", gotPath)
	}
	if len(txs) != 3 {
		t.Fatalf("len(txs) = %d, want 3", len(txs))
	}

	coinbase := txs[0]
	if !coinbase.IsCoinbase() {
		t.Fatal("first tx should be coinbase: its input has no prev_out")
	}
	if coinbase.Vin[0].TxID != nil {
		t.Fatalf("coinbase vin txid = %v, want nil (not exposed by this vendor)", coinbase.Vin[0].TxID)
	}
	if got := coinbase.Vout[0].ScriptPubKeyAddress; got == nil || *got != "1111111111111111111114oLvT2" {
		t.Fatalf("vendor-supplied address lost, got %v", got)
	}

	spend := txs[1]
	if spend.IsCoinbase() {
		t.Fatal("second tx should not be coinbase")
	}
	if spend.Vin[0].Vout == nil || *spend.Vin[0].Vout != 1 {
		t.Fatalf("vin vout = %v, want 1", spend.Vin[0].Vout)
	}
	if spend.Vin[0].Prevout == nil || spend.Vin[0].Prevout.Value != 7000 {
		t.Fatalf("vin prevout = %+v, want value 7000", spend.Vin[0].Prevout)
	}
	if spend.Vin[0].ScriptSigAsm == "" {
		t.Fatal("scriptsig asm should be derived locally")
	}
	out := spend.Vout[0]
	if out.ScriptPubKeyType != "pubkeyhash" {
		t.Fatalf("output type = %q, want pubkeyhash", out.ScriptPubKeyType)
	}
	if out.ScriptPubKeyAsm == "" || out.ScriptPubKeyAddress == nil {
		t.Fatalf("decoder should fill asm and address, got %+v", out)
	}
	if !spend.Status.Confirmed || spend.Status.BlockHash != "00cc" || spend.Status.BlockHeight != 900000 {
		t.Fatalf("status = %+v", spend.Status)
	}
}

func TestBlockchainInfoWindowSlicing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(biTestBlock))
	}))
	defer server.Close()

	provider := newBlockchainInfo(t, server.URL)
	ctx := context.Background()

	window, err := provider.BlockTransactions(ctx, "00cc", 1)
	if err != nil {
		t.Fatalf("BlockTransactions(1) error = %v", err)
	}
	if len(window) != 2 || window[0].TxID != "t1" || window[1].TxID != "t2" {
		t.Fatalf("window at 1 = %v, want [t1 t2]", txids(window))
	}

	past, err := provider.BlockTransactions(ctx, "00cc", 25)
	if err != nil {
		t.Fatalf("BlockTransactions(25) error = %v", err)
	}
	if len(past) != 0 {
		t.Fatalf("window past the end = %v, want empty", txids(past))
	}
}

func TestBlockchainInfoFetchesBlockOnce(t *testing.T) {
	var fetches atomic.Int32
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches.Add(1)
		<-release
		w.Write([]byte(biTestBlock))
	}))
	defer server.Close()

	provider := newBlockchainInfo(t, server.URL)

	const callers = 8
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = provider.BlockTransactions(context.Background(), "00cc", 0)
		}(i)
	}

	// Let every caller hit the cache before the upstream responds.
	for fetches.Load() == 0 {
		time.Sleep(time.Millisecond)
	}
	close(release)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("caller %d error = %v", i, err)
		}
	}
	if n := fetches.Load(); n != 1 {
		t.Fatalf("upstream fetched %d times for one block, want 1", n)
	}
}

func TestBlockchainInfoFailedFetchIsRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(biTestBlock))
	}))
	defer server.Close()

	provider := newBlockchainInfo(t, server.URL)
	ctx := context.Background()

	if _, err := provider.BlockTransactions(ctx, "00cc", 0); !errors.Is(err, fetch.ErrNoData) {
		t.Fatalf("first fetch error = %v, want fetch.ErrNoData", err)
	}

	// The failure must not be cached: the next window retries upstream.
	txs, err := provider.BlockTransactions(ctx, "00cc", 0)
	if err != nil {
		t.Fatalf("second fetch error = %v", err)
	}
	if len(txs) != 3 {
		t.Fatalf("len(txs) = %d, want 3", len(txs))
	}
}

func TestBlockchainInfoLatestBlocksEmpty(t *testing.T) {
	provider := NewBlockchainInfo(newTestClient(t), nil, zap.NewNop())

	headers, err := provider.LatestBlocks(context.Background(), 10)
	if err != nil {
		t.Fatalf("LatestBlocks() error = %v", err)
	}
	if len(headers) != 0 {
		t.Fatalf("headers = %v, want empty: this vendor serves transactions only", headers)
	}
}
