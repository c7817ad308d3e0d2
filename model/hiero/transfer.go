package hiero

import (
	"golang.org/x/exp/slices"
)

// Transfer moves hbar into (positive amount) or out of (negative amount) an
// account.
type Transfer struct {
	AccountID  AccountID
	Amount     Hbar
	IsApproved bool
}

// TokenTransfer moves a fungible token amount into or out of an account.
type TokenTransfer struct {
	TokenID          TokenID
	AccountID        AccountID
	Amount           int64
	IsApproved       bool
	ExpectedDecimals *uint32
}

// TokenNftTransfer moves one serial of a non-fungible token between accounts.
type TokenNftTransfer struct {
	TokenID    TokenID
	Sender     AccountID
	Receiver   AccountID
	Serial     int64
	IsApproved bool
}

// TokenTransferList groups every fungible and NFT transfer of a single token.
type TokenTransferList struct {
	TokenID          TokenID
	Transfers        []TokenTransfer
	NftTransfers     []TokenNftTransfer
	ExpectedDecimals *uint32
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	}
	return 1
}

// CompareTransfers orders hbar transfers by account, then approval.
func CompareTransfers(a, b Transfer) int {
	if c := a.AccountID.Compare(b.AccountID); c != 0 {
		return c
	}
	return compareBool(a.IsApproved, b.IsApproved)
}

// CompareTokenTransfers orders fungible transfers by token, account, approval.
func CompareTokenTransfers(a, b TokenTransfer) int {
	if c := a.TokenID.Compare(b.TokenID); c != 0 {
		return c
	}
	if c := a.AccountID.Compare(b.AccountID); c != 0 {
		return c
	}
	return compareBool(a.IsApproved, b.IsApproved)
}

// CompareNftTransfers orders NFT transfers by token, sender, receiver, serial.
func CompareNftTransfers(a, b TokenNftTransfer) int {
	if c := a.TokenID.Compare(b.TokenID); c != 0 {
		return c
	}
	if c := a.Sender.Compare(b.Sender); c != 0 {
		return c
	}
	if c := a.Receiver.Compare(b.Receiver); c != 0 {
		return c
	}
	return cmpInt64(a.Serial, b.Serial)
}

// SortTransfers returns a sorted copy of hbar transfers.
func SortTransfers(transfers []Transfer) []Transfer {
	sorted := slices.Clone(transfers)
	slices.SortFunc(sorted, CompareTransfers)
	return sorted
}

// MergeTokenTransfers joins fungible and NFT transfers into one list per
// token, ordered by token ID. Within a list fungible transfers are ordered by
// (account, approval) and NFT transfers by (sender, receiver, serial).
// The inputs are not modified.
func MergeTokenTransfers(fungible []TokenTransfer, nfts []TokenNftTransfer) []TokenTransferList {
	sortedFungible := slices.Clone(fungible)
	slices.SortFunc(sortedFungible, CompareTokenTransfers)
	sortedNfts := slices.Clone(nfts)
	slices.SortFunc(sortedNfts, CompareNftTransfers)

	var lists []TokenTransferList
	i, j := 0, 0
	for i < len(sortedFungible) || j < len(sortedNfts) {
		if n := len(lists); n > 0 {
			last := &lists[n-1]
			if i < len(sortedFungible) && last.TokenID.Equal(sortedFungible[i].TokenID) {
				last.Transfers = append(last.Transfers, sortedFungible[i])
				i++
				continue
			}
			if j < len(sortedNfts) && last.TokenID.Equal(sortedNfts[j].TokenID) {
				last.NftTransfers = append(last.NftTransfers, sortedNfts[j])
				j++
				continue
			}
		}

		switch {
		case i < len(sortedFungible) && j < len(sortedNfts):
			transfer, nft := sortedFungible[i], sortedNfts[j]
			c := transfer.TokenID.Compare(nft.TokenID)
			switch {
			case c == 0:
				lists = append(lists, TokenTransferList{
					TokenID:          transfer.TokenID,
					Transfers:        []TokenTransfer{transfer},
					NftTransfers:     []TokenNftTransfer{nft},
					ExpectedDecimals: transfer.ExpectedDecimals,
				})
				i++
				j++
			case c < 0:
				lists = append(lists, fungibleList(transfer))
				i++
			default:
				lists = append(lists, nftList(nft))
				j++
			}
		case i < len(sortedFungible):
			lists = append(lists, fungibleList(sortedFungible[i]))
			i++
		default:
			lists = append(lists, nftList(sortedNfts[j]))
			j++
		}
	}

	return lists
}

func fungibleList(transfer TokenTransfer) TokenTransferList {
	return TokenTransferList{
		TokenID:          transfer.TokenID,
		Transfers:        []TokenTransfer{transfer},
		ExpectedDecimals: transfer.ExpectedDecimals,
	}
}

func nftList(nft TokenNftTransfer) TokenTransferList {
	return TokenTransferList{
		TokenID:      nft.TokenID,
		NftTransfers: []TokenNftTransfer{nft},
	}
}
