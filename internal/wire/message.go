// Package wire defines the peer protocol exchanged over a connection:
// a tagged union of message kinds, each canonically CBOR-encoded and
// framed with an 8-byte big-endian length prefix.
package wire

import (
	"github.com/arejula27/ledgerchain/pkg/block"
	"github.com/arejula27/ledgerchain/pkg/crypto"
	"github.com/arejula27/ledgerchain/pkg/tx"
)

// Kind tags the payload carried by a Message.
type Kind uint8

const (
	KindFetchUTXOs Kind = iota + 1
	KindUTXOs
	KindSubmitTransaction
	KindNewTransaction
	KindFetchTemplate
	KindTemplate
	KindValidateTemplate
	KindTemplateValidity
	KindSubmitTemplate
	KindDiscoverNodes
	KindNodeList
	KindAskDifference
	KindDifference
	KindFetchBlock
	KindNewBlock
)

func (k Kind) String() string {
	switch k {
	case KindFetchUTXOs:
		return "FetchUTXOs"
	case KindUTXOs:
		return "UTXOs"
	case KindSubmitTransaction:
		return "SubmitTransaction"
	case KindNewTransaction:
		return "NewTransaction"
	case KindFetchTemplate:
		return "FetchTemplate"
	case KindTemplate:
		return "Template"
	case KindValidateTemplate:
		return "ValidateTemplate"
	case KindTemplateValidity:
		return "TemplateValidity"
	case KindSubmitTemplate:
		return "SubmitTemplate"
	case KindDiscoverNodes:
		return "DiscoverNodes"
	case KindNodeList:
		return "NodeList"
	case KindAskDifference:
		return "AskDifference"
	case KindDifference:
		return "Difference"
	case KindFetchBlock:
		return "FetchBlock"
	case KindNewBlock:
		return "NewBlock"
	default:
		return "Unknown"
	}
}

// UTXOEntry pairs an output with whether it currently has a mempool
// reservation against it, the payload of a UTXOs reply.
type UTXOEntry struct {
	Output tx.TransactionOutput `cbor:"output"`
	Marked bool                 `cbor:"marked"`
}

// Message is the single tagged union exchanged between peers. At most
// one of the payload fields is populated, selected by Kind
// (DiscoverNodes carries none).
type Message struct {
	Kind Kind `cbor:"kind"`

	PublicKey         *crypto.PublicKey  `cbor:"public_key,omitempty"`
	UTXOs             []UTXOEntry        `cbor:"utxos,omitempty"`
	Transaction       *tx.Transaction    `cbor:"transaction,omitempty"`
	Block             *block.Block       `cbor:"block,omitempty"`
	TemplateValid     bool               `cbor:"template_valid,omitempty"`
	NodeAddresses     []string           `cbor:"node_addresses,omitempty"`
	Height            uint32             `cbor:"height,omitempty"`
	Difference        int32              `cbor:"difference,omitempty"`
	BlockHeight       uint64             `cbor:"block_height,omitempty"`
}

// FetchUTXOs builds a request for the outputs owned by pub.
func FetchUTXOs(pub crypto.PublicKey) Message {
	return Message{Kind: KindFetchUTXOs, PublicKey: &pub}
}

// UTXOsReply builds a UTXOs reply carrying entries.
func UTXOsReply(entries []UTXOEntry) Message {
	return Message{Kind: KindUTXOs, UTXOs: entries}
}

// SubmitTransaction builds a client-to-node submission.
func SubmitTransaction(t *tx.Transaction) Message {
	return Message{Kind: KindSubmitTransaction, Transaction: t}
}

// NewTransaction builds a gossip announcement of t.
func NewTransaction(t *tx.Transaction) Message {
	return Message{Kind: KindNewTransaction, Transaction: t}
}

// FetchTemplate builds a request for an unmined block template paying
// the coinbase to pub.
func FetchTemplate(pub crypto.PublicKey) Message {
	return Message{Kind: KindFetchTemplate, PublicKey: &pub}
}

// Template builds a reply carrying an unmined block template.
func Template(b *block.Block) Message {
	return Message{Kind: KindTemplate, Block: b}
}

// ValidateTemplate builds a pre-mine sanity-check request.
func ValidateTemplate(b *block.Block) Message {
	return Message{Kind: KindValidateTemplate, Block: b}
}

// TemplateValidity builds a reply reporting whether a template is valid.
func TemplateValidity(valid bool) Message {
	return Message{Kind: KindTemplateValidity, TemplateValid: valid}
}

// SubmitTemplate builds a miner's submission of a mined block.
func SubmitTemplate(b *block.Block) Message {
	return Message{Kind: KindSubmitTemplate, Block: b}
}

// DiscoverNodes builds a peer-discovery request.
func DiscoverNodes() Message {
	return Message{Kind: KindDiscoverNodes}
}

// NodeList builds a reply listing known peer addresses.
func NodeList(addrs []string) Message {
	return Message{Kind: KindNodeList, NodeAddresses: addrs}
}

// AskDifference builds a chain-length probe against the local height.
func AskDifference(height uint32) Message {
	return Message{Kind: KindAskDifference, Height: height}
}

// Difference builds a reply carrying the signed height difference.
func Difference(diff int32) Message {
	return Message{Kind: KindDifference, Difference: diff}
}

// FetchBlock builds a request for the block at the given height.
func FetchBlock(height uint64) Message {
	return Message{Kind: KindFetchBlock, BlockHeight: height}
}

// NewBlock builds a gossip announcement of a mined block.
func NewBlock(b *block.Block) Message {
	return Message{Kind: KindNewBlock, Block: b}
}
