package transaction

import (
	"fmt"

	"github.com/hiero-ledger/hiero-sdk-go/v2/proto/services"

	"github.com/ledgerworks/hashgraph-go/engine/common/rpc/convert"
	"github.com/ledgerworks/hashgraph-go/model/hiero"
)

const cryptoTransferMethod = "/proto.CryptoService/cryptoTransfer"

// TransferTransaction moves hbar, fungible tokens and NFTs between accounts.
// Hbar and fungible token transfers of the same account are merged by summing
// their amounts.
type TransferTransaction struct {
	Transaction

	hbarTransfers  []hiero.Transfer
	tokenTransfers []hiero.TokenTransfer
	nftTransfers   []hiero.TokenNftTransfer
}

var _ Executable = (*TransferTransaction)(nil)

func NewTransferTransaction() *TransferTransaction {
	tx := &TransferTransaction{}
	tx.init(tx)
	return tx
}

func transferTransactionFromBody(body *services.TransactionBody) (*TransferTransaction, error) {
	tx := &TransferTransaction{}
	if err := tx.initFromBody(tx, body); err != nil {
		return nil, err
	}

	transfers, err := convert.MessageToTransfers(body.GetCryptoTransfer().GetTransfers())
	if err != nil {
		return nil, err
	}
	fungible, nfts, err := convert.MessagesToTokenTransfers(body.GetCryptoTransfer().GetTokenTransfers())
	if err != nil {
		return nil, err
	}

	tx.hbarTransfers = transfers
	tx.tokenTransfers = fungible
	tx.nftTransfers = nfts
	return tx, nil
}

// AddHbarTransfer adds amount to the hbar balance change of account.
func (tx *TransferTransaction) AddHbarTransfer(account hiero.AccountID, amount hiero.Hbar) error {
	return tx.doAddHbarTransfer(account, amount, false)
}

// AddApprovedHbarTransfer adds an hbar transfer spending an allowance when
// approved is set.
func (tx *TransferTransaction) AddApprovedHbarTransfer(account hiero.AccountID, amount hiero.Hbar, approved bool) error {
	return tx.doAddHbarTransfer(account, amount, approved)
}

func (tx *TransferTransaction) doAddHbarTransfer(account hiero.AccountID, amount hiero.Hbar, approved bool) error {
	if err := tx.requireNotFrozen(); err != nil {
		return err
	}

	for i := range tx.hbarTransfers {
		transfer := &tx.hbarTransfers[i]
		if transfer.AccountID.Equal(account) && transfer.IsApproved == approved {
			transfer.Amount += amount
			return nil
		}
	}

	tx.hbarTransfers = append(tx.hbarTransfers, hiero.Transfer{
		AccountID:  account,
		Amount:     amount,
		IsApproved: approved,
	})
	return nil
}

// AddTokenTransfer adds amount to the balance change of account for a
// fungible token.
func (tx *TransferTransaction) AddTokenTransfer(token hiero.TokenID, account hiero.AccountID, amount int64) error {
	return tx.doAddTokenTransfer(token, account, amount, false, nil)
}

// AddTokenTransferWithDecimals adds a token transfer that only succeeds if
// the token has the given number of decimals.
func (tx *TransferTransaction) AddTokenTransferWithDecimals(token hiero.TokenID, account hiero.AccountID, amount int64, decimals uint32) error {
	return tx.doAddTokenTransfer(token, account, amount, false, &decimals)
}

// AddApprovedTokenTransfer adds a token transfer spending an allowance when
// approved is set.
func (tx *TransferTransaction) AddApprovedTokenTransfer(token hiero.TokenID, account hiero.AccountID, amount int64, approved bool) error {
	return tx.doAddTokenTransfer(token, account, amount, approved, nil)
}

func (tx *TransferTransaction) AddApprovedTokenTransferWithDecimals(token hiero.TokenID, account hiero.AccountID, amount int64, decimals uint32, approved bool) error {
	return tx.doAddTokenTransfer(token, account, amount, approved, &decimals)
}

func (tx *TransferTransaction) doAddTokenTransfer(token hiero.TokenID, account hiero.AccountID, amount int64, approved bool, decimals *uint32) error {
	if err := tx.requireNotFrozen(); err != nil {
		return err
	}

	for i := range tx.tokenTransfers {
		transfer := &tx.tokenTransfers[i]
		if !transfer.TokenID.Equal(token) || !transfer.AccountID.Equal(account) || transfer.IsApproved != approved {
			continue
		}
		if transfer.ExpectedDecimals != nil && (decimals == nil || *transfer.ExpectedDecimals != *decimals) {
			return fmt.Errorf("expected decimals of token %s cannot be changed after being set", token)
		}
		transfer.ExpectedDecimals = decimals
		transfer.Amount += amount
		return nil
	}

	tx.tokenTransfers = append(tx.tokenTransfers, hiero.TokenTransfer{
		TokenID:          token,
		AccountID:        account,
		Amount:           amount,
		IsApproved:       approved,
		ExpectedDecimals: decimals,
	})
	return nil
}

// AddNftTransfer moves one serial of a non-fungible token from sender to
// receiver.
func (tx *TransferTransaction) AddNftTransfer(token hiero.TokenID, serial int64, sender, receiver hiero.AccountID) error {
	return tx.AddApprovedNftTransfer(token, serial, sender, receiver, false)
}

func (tx *TransferTransaction) AddApprovedNftTransfer(token hiero.TokenID, serial int64, sender, receiver hiero.AccountID, approved bool) error {
	if err := tx.requireNotFrozen(); err != nil {
		return err
	}
	tx.nftTransfers = append(tx.nftTransfers, hiero.TokenNftTransfer{
		TokenID:    token,
		Sender:     sender,
		Receiver:   receiver,
		Serial:     serial,
		IsApproved: approved,
	})
	return nil
}

func (tx *TransferTransaction) HbarTransfers() []hiero.Transfer {
	return append([]hiero.Transfer(nil), tx.hbarTransfers...)
}

func (tx *TransferTransaction) TokenTransfers() []hiero.TokenTransfer {
	return append([]hiero.TokenTransfer(nil), tx.tokenTransfers...)
}

func (tx *TransferTransaction) NftTransfers() []hiero.TokenNftTransfer {
	return append([]hiero.TokenNftTransfer(nil), tx.nftTransfers...)
}

// TokenDecimals returns the expected decimals set per token.
func (tx *TransferTransaction) TokenDecimals() map[hiero.TokenID]uint32 {
	decimals := make(map[hiero.TokenID]uint32)
	for _, transfer := range tx.tokenTransfers {
		if transfer.ExpectedDecimals != nil {
			token := transfer.TokenID
			decimals[hiero.TokenID{Shard: token.Shard, Realm: token.Realm, Num: token.Num}] = *transfer.ExpectedDecimals
		}
	}
	return decimals
}

func (tx *TransferTransaction) build() *services.CryptoTransferTransactionBody {
	return &services.CryptoTransferTransactionBody{
		Transfers:      convert.TransfersToMessage(hiero.SortTransfers(tx.hbarTransfers)),
		TokenTransfers: convert.TokenTransferListsToMessages(hiero.MergeTokenTransfers(tx.tokenTransfers, tx.nftTransfers)),
	}
}

func (tx *TransferTransaction) fillBody(body *services.TransactionBody) {
	body.Data = &services.TransactionBody_CryptoTransfer{CryptoTransfer: tx.build()}
}

func (tx *TransferTransaction) fillScheduledBody(body *services.SchedulableTransactionBody) error {
	body.Data = &services.SchedulableTransactionBody_CryptoTransfer{CryptoTransfer: tx.build()}
	return nil
}

func (tx *TransferTransaction) validateChecksums(ledger hiero.LedgerID) error {
	for _, transfer := range tx.hbarTransfers {
		if err := transfer.AccountID.ValidateChecksum(ledger); err != nil {
			return err
		}
	}
	for _, transfer := range tx.tokenTransfers {
		if err := transfer.TokenID.ValidateChecksum(ledger); err != nil {
			return err
		}
		if err := transfer.AccountID.ValidateChecksum(ledger); err != nil {
			return err
		}
	}
	for _, nft := range tx.nftTransfers {
		if err := nft.TokenID.ValidateChecksum(ledger); err != nil {
			return err
		}
		if err := nft.Sender.ValidateChecksum(ledger); err != nil {
			return err
		}
		if err := nft.Receiver.ValidateChecksum(ledger); err != nil {
			return err
		}
	}
	return nil
}

func (tx *TransferTransaction) method() string {
	return cryptoTransferMethod
}
