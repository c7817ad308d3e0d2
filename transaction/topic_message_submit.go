package transaction

import (
	"github.com/hiero-ledger/hiero-sdk-go/v2/proto/services"
	"google.golang.org/protobuf/proto"

	"github.com/ledgerworks/hashgraph-go/engine/common/rpc/convert"
	"github.com/ledgerworks/hashgraph-go/model/hiero"
)

const (
	submitMessageMethod = "/proto.ConsensusService/submitMessage"

	// DefaultTopicMessageChunkSize is the largest message part sent in a
	// single topic message chunk unless set otherwise.
	DefaultTopicMessageChunkSize = 1024
)

// TopicMessageSubmitTransaction submits a message to a consensus topic.
// Messages larger than the chunk size are split in chunks that carry the ID
// of the first chunk and their position.
type TopicMessageSubmitTransaction struct {
	ChunkedTransaction

	topicID *hiero.TopicID
}

var _ Executable = (*TopicMessageSubmitTransaction)(nil)

func NewTopicMessageSubmitTransaction() *TopicMessageSubmitTransaction {
	tx := &TopicMessageSubmitTransaction{}
	tx.initChunked(tx, DefaultTopicMessageChunkSize, false)
	return tx
}

// topicMessageSubmitTransactionFromBody rebuilds the transaction from its
// source body and the first body of every chunk, whose messages are joined.
func topicMessageSubmitTransactionFromBody(body *services.TransactionBody, rows []*services.TransactionBody) (*TopicMessageSubmitTransaction, error) {
	tx := &TopicMessageSubmitTransaction{}
	if err := tx.initFromBody(tx, body); err != nil {
		return nil, err
	}
	tx.chunkSize = DefaultTopicMessageChunkSize
	tx.maxChunks = DefaultMaxChunks

	submit := body.GetConsensusSubmitMessage()
	if submit.GetTopicID() != nil {
		topic, err := convert.MessageToTopicID(submit.GetTopicID())
		if err != nil {
			return nil, err
		}
		tx.topicID = &topic
	}

	tx.data = joinChunks(rows, submit.GetMessage(), func(row *services.TransactionBody) []byte {
		return row.GetConsensusSubmitMessage().GetMessage()
	})
	if len(rows) > 1 {
		tx.chunkSize = len(rows[0].GetConsensusSubmitMessage().GetMessage())
	}
	return tx, nil
}

// joinChunks concatenates the payload of every row, or returns fallback when
// there are no rows.
func joinChunks(rows []*services.TransactionBody, fallback []byte, payload func(*services.TransactionBody) []byte) []byte {
	if len(rows) == 0 {
		return fallback
	}
	var data []byte
	for _, row := range rows {
		data = append(data, payload(row)...)
	}
	return data
}

func (tx *TopicMessageSubmitTransaction) SetTopicID(topic hiero.TopicID) error {
	if err := tx.requireNotFrozen(); err != nil {
		return err
	}
	tx.topicID = &topic
	return nil
}

func (tx *TopicMessageSubmitTransaction) TopicID() (hiero.TopicID, bool) {
	if tx.topicID == nil {
		return hiero.TopicID{}, false
	}
	return *tx.topicID, true
}

func (tx *TopicMessageSubmitTransaction) SetMessage(message []byte) error {
	return tx.setData(message)
}

func (tx *TopicMessageSubmitTransaction) Message() []byte {
	return tx.data
}

func (tx *TopicMessageSubmitTransaction) build() *services.ConsensusSubmitMessageTransactionBody {
	body := &services.ConsensusSubmitMessageTransactionBody{
		Message: tx.data,
	}
	if tx.topicID != nil {
		body.TopicID = convert.TopicIDToMessage(*tx.topicID)
	}
	return body
}

func (tx *TopicMessageSubmitTransaction) fillBody(body *services.TransactionBody) {
	body.Data = &services.TransactionBody_ConsensusSubmitMessage{ConsensusSubmitMessage: tx.build()}
}

func (tx *TopicMessageSubmitTransaction) fillChunk(body *services.TransactionBody, initialID hiero.TransactionID, chunk, total int) {
	submit := proto.Clone(body.GetConsensusSubmitMessage()).(*services.ConsensusSubmitMessageTransactionBody)
	submit.Message = tx.chunk(chunk)
	if total > 1 {
		submit.ChunkInfo = &services.ConsensusMessageChunkInfo{
			InitialTransactionID: convert.TransactionIDToMessage(initialID),
			Total:                int32(total),
			Number:               int32(chunk + 1),
		}
	}
	body.Data = &services.TransactionBody_ConsensusSubmitMessage{ConsensusSubmitMessage: submit}
}

func (tx *TopicMessageSubmitTransaction) fillScheduledBody(body *services.SchedulableTransactionBody) error {
	body.Data = &services.SchedulableTransactionBody_ConsensusSubmitMessage{ConsensusSubmitMessage: tx.build()}
	return nil
}

func (tx *TopicMessageSubmitTransaction) validateChecksums(ledger hiero.LedgerID) error {
	if tx.topicID != nil {
		return tx.topicID.ValidateChecksum(ledger)
	}
	return nil
}

func (tx *TopicMessageSubmitTransaction) method() string {
	return submitMessageMethod
}
