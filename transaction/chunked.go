package transaction

import (
	"context"
	"fmt"

	"github.com/ledgerworks/hashgraph-go/crypto"
	"github.com/ledgerworks/hashgraph-go/model/hiero"
)

// DefaultMaxChunks is the most chunks a payload is split in unless set
// otherwise.
const DefaultMaxChunks = 20

// ChunkedTransaction is embedded by kinds whose payload is split over several
// transactions, one per chunk, with transaction IDs one nanosecond apart.
type ChunkedTransaction struct {
	Transaction

	data            []byte
	chunkSize       int
	maxChunks       int
	receiptPerChunk bool
}

func (c *ChunkedTransaction) initChunked(k chunkedKind, chunkSize int, receiptPerChunk bool) {
	c.init(k)
	c.chunkSize = chunkSize
	c.maxChunks = DefaultMaxChunks
	c.receiptPerChunk = receiptPerChunk
}

func (c *ChunkedTransaction) chunked() *ChunkedTransaction {
	return c
}

func (c *ChunkedTransaction) setData(data []byte) error {
	if err := c.requireNotFrozen(); err != nil {
		return err
	}
	c.data = append([]byte(nil), data...)
	return nil
}

// SetChunkSize sets the largest payload sent in a single chunk.
func (c *ChunkedTransaction) SetChunkSize(size int) error {
	if err := c.requireNotFrozen(); err != nil {
		return err
	}
	if size <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", size)
	}
	c.chunkSize = size
	return nil
}

func (c *ChunkedTransaction) ChunkSize() int {
	return c.chunkSize
}

// SetMaxChunks sets the most chunks the payload may be split in.
func (c *ChunkedTransaction) SetMaxChunks(max int) error {
	if err := c.requireNotFrozen(); err != nil {
		return err
	}
	if max <= 0 {
		return fmt.Errorf("max chunks must be positive, got %d", max)
	}
	c.maxChunks = max
	return nil
}

func (c *ChunkedTransaction) MaxChunks() int {
	return c.maxChunks
}

func (c *ChunkedTransaction) requiredChunks() (int, error) {
	if len(c.data) == 0 {
		return 0, NewPreconditionError("message cannot be empty")
	}

	chunks := (len(c.data) + c.chunkSize - 1) / c.chunkSize
	if chunks > c.maxChunks {
		return 0, NewPreconditionError(
			"cannot execute chunked transaction with size %d and chunk size %d, requiring %d chunks with max chunks %d, try using a larger chunk size or max chunks",
			len(c.data), c.chunkSize, chunks, c.maxChunks)
	}
	return chunks, nil
}

// chunk returns the part of the payload carried by the given chunk.
func (c *ChunkedTransaction) chunk(index int) []byte {
	start := index * c.chunkSize
	end := start + c.chunkSize
	if end > len(c.data) {
		end = len(c.data)
	}
	return c.data[start:end]
}

func (c *ChunkedTransaction) requireSingleChunk(action string) error {
	if len(c.data) > c.chunkSize {
		return NewPreconditionError("cannot %s a chunked transaction with length greater than chunk size", action)
	}
	return nil
}

// Execute submits every chunk and returns the response of the first one.
func (c *ChunkedTransaction) Execute(ctx context.Context, network Network) (*Response, error) {
	responses, err := c.ExecuteAll(ctx, network)
	if err != nil {
		return nil, err
	}
	return responses[0], nil
}

// ExecuteAsync runs Execute in the background.
func (c *ChunkedTransaction) ExecuteAsync(ctx context.Context, network Network) *Future[*Response] {
	return runAsync(network, func() (*Response, error) {
		return c.Execute(ctx, network)
	})
}

// ExecuteAll submits the chunks in order, one after the other. Kinds that
// require it wait for the receipt of each chunk before submitting the next.
func (c *ChunkedTransaction) ExecuteAll(ctx context.Context, network Network) ([]*Response, error) {
	if err := c.FreezeWith(network); err != nil {
		return nil, err
	}

	responses := make([]*Response, 0, c.transactionIDs.len())
	for i := 0; i < c.transactionIDs.len(); i++ {
		response, err := c.execute(ctx, network)
		if err != nil {
			return nil, fmt.Errorf("could not execute chunk %d of %d: %w", i+1, c.transactionIDs.len(), err)
		}
		if c.receiptPerChunk {
			if _, err := response.GetReceipt(ctx, network); err != nil {
				return nil, fmt.Errorf("could not get receipt of chunk %d of %d: %w", i+1, c.transactionIDs.len(), err)
			}
		}
		responses = append(responses, response)
	}
	return responses, nil
}

// ExecuteAllAsync runs ExecuteAll in the background.
func (c *ChunkedTransaction) ExecuteAllAsync(ctx context.Context, network Network) *Future[[]*Response] {
	return runAsync(network, func() ([]*Response, error) {
		return c.ExecuteAll(ctx, network)
	})
}

func (c *ChunkedTransaction) requireSingleRow(action string) error {
	if c.matrix.len() > c.nodeAccountIDs.len() {
		return NewPreconditionError("a single %s can not be calculated for a chunked transaction, try calling the per chunk variant", action)
	}
	return nil
}

// GetTransactionHash is only available for transactions fitting in a single
// chunk.
func (c *ChunkedTransaction) GetTransactionHash() ([]byte, error) {
	if err := c.requireFrozen(); err != nil {
		return nil, err
	}
	if err := c.requireSingleRow("transaction hash"); err != nil {
		return nil, err
	}
	return c.Transaction.GetTransactionHash()
}

// GetTransactionHashPerNode is only available for transactions fitting in a
// single chunk.
func (c *ChunkedTransaction) GetTransactionHashPerNode() (map[hiero.AccountID][]byte, error) {
	if err := c.requireFrozen(); err != nil {
		return nil, err
	}
	if err := c.requireSingleRow("transaction hash"); err != nil {
		return nil, err
	}
	return c.Transaction.GetTransactionHashPerNode()
}

// GetAllTransactionHashesPerNode returns the hashes per node of every chunk.
func (c *ChunkedTransaction) GetAllTransactionHashesPerNode() ([]map[hiero.AccountID][]byte, error) {
	if err := c.requireFrozen(); err != nil {
		return nil, err
	}
	if err := c.buildAll(); err != nil {
		return nil, err
	}
	c.lockIDs()

	hashes := make([]map[hiero.AccountID][]byte, c.matrix.rows())
	for row := range hashes {
		hashes[row] = c.hashesOfRow(row)
	}
	return hashes, nil
}

// AddSignature is only available for transactions fitting in a single chunk.
func (c *ChunkedTransaction) AddSignature(key crypto.PublicKey, signature []byte) error {
	if err := c.requireSingleChunk("manually add signature to"); err != nil {
		return err
	}
	return c.Transaction.AddSignature(key, signature)
}

// GetSignatures is only available for transactions fitting in a single chunk.
func (c *ChunkedTransaction) GetSignatures() (SignatureMap, error) {
	if err := c.requireSingleChunk("get signatures of"); err != nil {
		return nil, err
	}
	return c.Transaction.GetSignatures()
}

// GetAllSignatures returns the signatures per node of every chunk.
func (c *ChunkedTransaction) GetAllSignatures() ([]SignatureMap, error) {
	if err := c.requireFrozen(); err != nil {
		return nil, err
	}
	if err := c.buildAll(); err != nil {
		return nil, err
	}
	c.lockIDs()

	signatures := make([]SignatureMap, c.matrix.rows())
	for row := range signatures {
		rowSignatures, err := c.signaturesOfRow(row)
		if err != nil {
			return nil, err
		}
		signatures[row] = rowSignatures
	}
	return signatures, nil
}

// Schedule is only available for transactions fitting in a single chunk.
func (c *ChunkedTransaction) Schedule() (*ScheduleCreateTransaction, error) {
	if err := c.requireSingleChunk("schedule"); err != nil {
		return nil, err
	}
	return c.Transaction.Schedule()
}

// BodySizeAllChunks returns the body size of every chunk.
func (c *ChunkedTransaction) BodySizeAllChunks() ([]int, error) {
	if !c.IsFrozen() {
		return nil, NewPreconditionError("transaction must have been frozen before getting its body size, try calling Freeze")
	}
	sizes := make([]int, c.matrix.rows())
	for row := range sizes {
		sizes[row] = len(c.matrix.bodies[c.matrix.cell(row, 0)])
	}
	return sizes, nil
}
