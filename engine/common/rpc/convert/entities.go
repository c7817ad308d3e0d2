package convert

import (
	"fmt"

	"github.com/hiero-ledger/hiero-sdk-go/v2/proto/services"

	"github.com/ledgerworks/hashgraph-go/model/hiero"
)

// AccountIDToMessage converts a hiero.AccountID to a protobuf message
func AccountIDToMessage(id hiero.AccountID) *services.AccountID {
	return &services.AccountID{
		ShardNum: id.Shard,
		RealmNum: id.Realm,
		Account:  &services.AccountID_AccountNum{AccountNum: id.Num},
	}
}

// MessageToAccountID converts a protobuf message to a hiero.AccountID.
// Accounts addressed by alias are not supported.
func MessageToAccountID(m *services.AccountID) (hiero.AccountID, error) {
	if m == nil {
		return hiero.AccountID{}, ErrEmptyMessage
	}
	num, ok := m.GetAccount().(*services.AccountID_AccountNum)
	if !ok && m.GetAccount() != nil {
		return hiero.AccountID{}, fmt.Errorf("could not convert account %d.%d: alias accounts are not supported", m.GetShardNum(), m.GetRealmNum())
	}
	id := hiero.AccountID{Shard: m.GetShardNum(), Realm: m.GetRealmNum()}
	if ok {
		id.Num = num.AccountNum
	}
	return id, nil
}

// TokenIDToMessage converts a hiero.TokenID to a protobuf message
func TokenIDToMessage(id hiero.TokenID) *services.TokenID {
	return &services.TokenID{ShardNum: id.Shard, RealmNum: id.Realm, TokenNum: id.Num}
}

// MessageToTokenID converts a protobuf message to a hiero.TokenID
func MessageToTokenID(m *services.TokenID) (hiero.TokenID, error) {
	if m == nil {
		return hiero.TokenID{}, ErrEmptyMessage
	}
	return hiero.TokenID{Shard: m.GetShardNum(), Realm: m.GetRealmNum(), Num: m.GetTokenNum()}, nil
}

// TopicIDToMessage converts a hiero.TopicID to a protobuf message
func TopicIDToMessage(id hiero.TopicID) *services.TopicID {
	return &services.TopicID{ShardNum: id.Shard, RealmNum: id.Realm, TopicNum: id.Num}
}

// MessageToTopicID converts a protobuf message to a hiero.TopicID
func MessageToTopicID(m *services.TopicID) (hiero.TopicID, error) {
	if m == nil {
		return hiero.TopicID{}, ErrEmptyMessage
	}
	return hiero.TopicID{Shard: m.GetShardNum(), Realm: m.GetRealmNum(), Num: m.GetTopicNum()}, nil
}

// FileIDToMessage converts a hiero.FileID to a protobuf message
func FileIDToMessage(id hiero.FileID) *services.FileID {
	return &services.FileID{ShardNum: id.Shard, RealmNum: id.Realm, FileNum: id.Num}
}

// MessageToFileID converts a protobuf message to a hiero.FileID
func MessageToFileID(m *services.FileID) (hiero.FileID, error) {
	if m == nil {
		return hiero.FileID{}, ErrEmptyMessage
	}
	return hiero.FileID{Shard: m.GetShardNum(), Realm: m.GetRealmNum(), Num: m.GetFileNum()}, nil
}

// CustomFeeLimitsToMessages converts custom fee limits to protobuf messages
func CustomFeeLimitsToMessages(limits []hiero.CustomFeeLimit) []*services.CustomFeeLimit {
	if len(limits) == 0 {
		return nil
	}
	messages := make([]*services.CustomFeeLimit, len(limits))
	for i, limit := range limits {
		m := &services.CustomFeeLimit{
			Fees: make([]*services.FixedFee, len(limit.Fees)),
		}
		if limit.PayerID != nil {
			m.AccountId = AccountIDToMessage(*limit.PayerID)
		}
		for j, fee := range limit.Fees {
			fixed := &services.FixedFee{Amount: fee.Amount}
			if fee.DenominatingTokenID != nil {
				fixed.DenominatingTokenId = TokenIDToMessage(*fee.DenominatingTokenID)
			}
			m.Fees[j] = fixed
		}
		messages[i] = m
	}
	return messages
}

// MessagesToCustomFeeLimits converts protobuf messages to custom fee limits
func MessagesToCustomFeeLimits(messages []*services.CustomFeeLimit) ([]hiero.CustomFeeLimit, error) {
	if len(messages) == 0 {
		return nil, nil
	}
	limits := make([]hiero.CustomFeeLimit, len(messages))
	for i, m := range messages {
		limit := hiero.CustomFeeLimit{
			Fees: make([]hiero.CustomFixedFee, len(m.GetFees())),
		}
		if m.GetAccountId() != nil {
			payer, err := MessageToAccountID(m.GetAccountId())
			if err != nil {
				return nil, fmt.Errorf("could not convert custom fee limit payer: %w", err)
			}
			limit.PayerID = &payer
		}
		for j, fee := range m.GetFees() {
			fixed := hiero.CustomFixedFee{Amount: fee.GetAmount()}
			if fee.GetDenominatingTokenId() != nil {
				token, err := MessageToTokenID(fee.GetDenominatingTokenId())
				if err != nil {
					return nil, fmt.Errorf("could not convert custom fee token: %w", err)
				}
				fixed.DenominatingTokenID = &token
			}
			limit.Fees[j] = fixed
		}
		limits[i] = limit
	}
	return limits, nil
}
