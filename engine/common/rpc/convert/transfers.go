package convert

import (
	"fmt"

	"github.com/hiero-ledger/hiero-sdk-go/v2/proto/services"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/ledgerworks/hashgraph-go/model/hiero"
)

// TransfersToMessage converts hbar transfers to a protobuf transfer list.
// An empty slice converts to nil.
func TransfersToMessage(transfers []hiero.Transfer) *services.TransferList {
	if len(transfers) == 0 {
		return nil
	}
	amounts := make([]*services.AccountAmount, len(transfers))
	for i, transfer := range transfers {
		amounts[i] = &services.AccountAmount{
			AccountID:  AccountIDToMessage(transfer.AccountID),
			Amount:     transfer.Amount.Tinybars(),
			IsApproval: transfer.IsApproved,
		}
	}
	return &services.TransferList{AccountAmounts: amounts}
}

// MessageToTransfers converts a protobuf transfer list to hbar transfers
func MessageToTransfers(m *services.TransferList) ([]hiero.Transfer, error) {
	transfers := make([]hiero.Transfer, 0, len(m.GetAccountAmounts()))
	for _, amount := range m.GetAccountAmounts() {
		account, err := MessageToAccountID(amount.GetAccountID())
		if err != nil {
			return nil, fmt.Errorf("could not convert hbar transfer: %w", err)
		}
		transfers = append(transfers, hiero.Transfer{
			AccountID:  account,
			Amount:     hiero.HbarFromTinybars(amount.GetAmount()),
			IsApproved: amount.GetIsApproval(),
		})
	}
	return transfers, nil
}

// TokenTransferListsToMessages converts merged token transfer lists to protobuf messages
func TokenTransferListsToMessages(lists []hiero.TokenTransferList) []*services.TokenTransferList {
	messages := make([]*services.TokenTransferList, len(lists))
	for i, list := range lists {
		m := &services.TokenTransferList{
			Token: TokenIDToMessage(list.TokenID),
		}
		for _, transfer := range list.Transfers {
			m.Transfers = append(m.Transfers, &services.AccountAmount{
				AccountID:  AccountIDToMessage(transfer.AccountID),
				Amount:     transfer.Amount,
				IsApproval: transfer.IsApproved,
			})
		}
		for _, nft := range list.NftTransfers {
			m.NftTransfers = append(m.NftTransfers, &services.NftTransfer{
				SenderAccountID:   AccountIDToMessage(nft.Sender),
				ReceiverAccountID: AccountIDToMessage(nft.Receiver),
				SerialNumber:      nft.Serial,
				IsApproval:        nft.IsApproved,
			})
		}
		if list.ExpectedDecimals != nil {
			m.ExpectedDecimals = wrapperspb.UInt32(*list.ExpectedDecimals)
		}
		messages[i] = m
	}
	return messages
}

// MessagesToTokenTransfers flattens protobuf token transfer lists into
// fungible and NFT transfers. Expected decimals are copied onto every fungible
// transfer of their list.
func MessagesToTokenTransfers(messages []*services.TokenTransferList) ([]hiero.TokenTransfer, []hiero.TokenNftTransfer, error) {
	var fungible []hiero.TokenTransfer
	var nfts []hiero.TokenNftTransfer

	for _, m := range messages {
		token, err := MessageToTokenID(m.GetToken())
		if err != nil {
			return nil, nil, fmt.Errorf("could not convert token transfer list: %w", err)
		}

		var decimals *uint32
		if m.GetExpectedDecimals() != nil {
			d := m.GetExpectedDecimals().GetValue()
			decimals = &d
		}

		for _, amount := range m.GetTransfers() {
			account, err := MessageToAccountID(amount.GetAccountID())
			if err != nil {
				return nil, nil, fmt.Errorf("could not convert token transfer of %s: %w", token, err)
			}
			fungible = append(fungible, hiero.TokenTransfer{
				TokenID:          token,
				AccountID:        account,
				Amount:           amount.GetAmount(),
				IsApproved:       amount.GetIsApproval(),
				ExpectedDecimals: decimals,
			})
		}

		for _, nft := range m.GetNftTransfers() {
			sender, err := MessageToAccountID(nft.GetSenderAccountID())
			if err != nil {
				return nil, nil, fmt.Errorf("could not convert nft sender of %s: %w", token, err)
			}
			receiver, err := MessageToAccountID(nft.GetReceiverAccountID())
			if err != nil {
				return nil, nil, fmt.Errorf("could not convert nft receiver of %s: %w", token, err)
			}
			nfts = append(nfts, hiero.TokenNftTransfer{
				TokenID:    token,
				Sender:     sender,
				Receiver:   receiver,
				Serial:     nft.GetSerialNumber(),
				IsApproved: nft.GetIsApproval(),
			})
		}
	}

	return fungible, nfts, nil
}
