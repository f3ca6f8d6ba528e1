package model

// Transaction is the canonical vendor-neutral transaction. Fields a vendor
// does not supply stay zero or nil, they are never fabricated.
type Transaction struct {
	TxID     string   `json:"txid"`
	Version  int64    `json:"version"`
	Locktime int64    `json:"locktime"`
	Size     int64    `json:"size,omitempty"`
	Weight   int64    `json:"weight,omitempty"`
	Vin      []Input  `json:"vin"`
	Vout     []Output `json:"vout"`
	Status   Status   `json:"status"`
}

// Input spends a previous output. TxID and Vout are nil for coinbase inputs.
type Input struct {
	TxID         *string  `json:"txid"`
	Vout         *int64   `json:"vout"`
	Prevout      *Prevout `json:"prevout,omitempty"`
	ScriptSig    string   `json:"scriptsig,omitempty"`
	ScriptSigAsm string   `json:"scriptsig_asm,omitempty"`
	Sequence     int64    `json:"sequence"`
	IsCoinbase   bool     `json:"is_coinbase"`
	Witness      []string `json:"witness,omitempty"`
}

// Prevout is the output an input spends, as far as the vendor reports it.
type Prevout struct {
	Value        int64  `json:"value"`
	ScriptPubKey string `json:"scriptpubkey,omitempty"`
}

// Output is value created by a transaction. Value is in the smallest unit.
type Output struct {
	Value               int64   `json:"value"`
	ScriptPubKey        string  `json:"scriptpubkey"`
	ScriptPubKeyAsm     string  `json:"scriptpubkey_asm,omitempty"`
	ScriptPubKeyType    string  `json:"scriptpubkey_type,omitempty"`
	ScriptPubKeyAddress *string `json:"scriptpubkey_address,omitempty"`
}

// Status is the confirmation state reported by the vendor.
type Status struct {
	Confirmed   bool   `json:"confirmed"`
	BlockHeight int64  `json:"block_height,omitempty"`
	BlockHash   string `json:"block_hash,omitempty"`
}

// IsCoinbase reports whether any input of the transaction is a coinbase input.
func (t Transaction) IsCoinbase() bool {
	for _, in := range t.Vin {
		if in.IsCoinbase {
			return true
		}
	}
	return false
}
