package transaction

import (
	"github.com/hiero-ledger/hiero-sdk-go/v2/proto/services"
	"google.golang.org/protobuf/proto"

	"github.com/ledgerworks/hashgraph-go/engine/common/rpc/convert"
	"github.com/ledgerworks/hashgraph-go/model/hiero"
)

const (
	appendContentMethod = "/proto.FileService/appendContent"

	// DefaultFileAppendChunkSize is the largest content part appended by a
	// single chunk unless set otherwise.
	DefaultFileAppendChunkSize = 2048

	defaultFileAppendMaxFee = 5 * hiero.OneHbar
)

// FileAppendTransaction appends content to a file. Contents larger than the
// chunk size are appended chunk by chunk, waiting for the receipt of each
// chunk before submitting the next.
type FileAppendTransaction struct {
	ChunkedTransaction

	fileID *hiero.FileID
}

var _ Executable = (*FileAppendTransaction)(nil)

func NewFileAppendTransaction() *FileAppendTransaction {
	tx := &FileAppendTransaction{}
	tx.initChunked(tx, DefaultFileAppendChunkSize, true)
	tx.defaultMaxTransactionFee = defaultFileAppendMaxFee
	return tx
}

func fileAppendTransactionFromBody(body *services.TransactionBody, rows []*services.TransactionBody) (*FileAppendTransaction, error) {
	tx := &FileAppendTransaction{}
	if err := tx.initFromBody(tx, body); err != nil {
		return nil, err
	}
	tx.chunkSize = DefaultFileAppendChunkSize
	tx.maxChunks = DefaultMaxChunks
	tx.receiptPerChunk = true
	tx.defaultMaxTransactionFee = defaultFileAppendMaxFee

	appendBody := body.GetFileAppend()
	if appendBody.GetFileID() != nil {
		file, err := convert.MessageToFileID(appendBody.GetFileID())
		if err != nil {
			return nil, err
		}
		tx.fileID = &file
	}

	tx.data = joinChunks(rows, appendBody.GetContents(), func(row *services.TransactionBody) []byte {
		return row.GetFileAppend().GetContents()
	})
	if len(rows) > 1 {
		tx.chunkSize = len(rows[0].GetFileAppend().GetContents())
	}
	return tx, nil
}

func (tx *FileAppendTransaction) SetFileID(file hiero.FileID) error {
	if err := tx.requireNotFrozen(); err != nil {
		return err
	}
	tx.fileID = &file
	return nil
}

func (tx *FileAppendTransaction) FileID() (hiero.FileID, bool) {
	if tx.fileID == nil {
		return hiero.FileID{}, false
	}
	return *tx.fileID, true
}

func (tx *FileAppendTransaction) SetContents(contents []byte) error {
	return tx.setData(contents)
}

func (tx *FileAppendTransaction) Contents() []byte {
	return tx.data
}

func (tx *FileAppendTransaction) build() *services.FileAppendTransactionBody {
	body := &services.FileAppendTransactionBody{
		Contents: tx.data,
	}
	if tx.fileID != nil {
		body.FileID = convert.FileIDToMessage(*tx.fileID)
	}
	return body
}

func (tx *FileAppendTransaction) fillBody(body *services.TransactionBody) {
	body.Data = &services.TransactionBody_FileAppend{FileAppend: tx.build()}
}

func (tx *FileAppendTransaction) fillChunk(body *services.TransactionBody, _ hiero.TransactionID, chunk, _ int) {
	appendBody := proto.Clone(body.GetFileAppend()).(*services.FileAppendTransactionBody)
	appendBody.Contents = tx.chunk(chunk)
	body.Data = &services.TransactionBody_FileAppend{FileAppend: appendBody}
}

func (tx *FileAppendTransaction) fillScheduledBody(body *services.SchedulableTransactionBody) error {
	body.Data = &services.SchedulableTransactionBody_FileAppend{FileAppend: tx.build()}
	return nil
}

func (tx *FileAppendTransaction) validateChecksums(ledger hiero.LedgerID) error {
	if tx.fileID != nil {
		return tx.fileID.ValidateChecksum(ledger)
	}
	return nil
}

func (tx *FileAppendTransaction) method() string {
	return appendContentMethod
}
