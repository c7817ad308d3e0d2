package hiero_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/ledgerworks/hashgraph-go/model/hiero"
)

func TestMergeTokenTransfers(t *testing.T) {
	tokenA := hiero.TokenID{Num: 10}
	tokenB := hiero.TokenID{Num: 20}
	tokenC := hiero.TokenID{Num: 30}
	x := hiero.AccountIDFromNum(1)
	y := hiero.AccountIDFromNum(2)

	t.Run("token in both lists yields one group", func(t *testing.T) {
		fungible := []hiero.TokenTransfer{
			{TokenID: tokenB, AccountID: y, Amount: -3},
			{TokenID: tokenB, AccountID: x, Amount: 3},
		}
		nfts := []hiero.TokenNftTransfer{
			{TokenID: tokenB, Sender: x, Receiver: y, Serial: 2},
			{TokenID: tokenB, Sender: x, Receiver: y, Serial: 1},
		}

		lists := hiero.MergeTokenTransfers(fungible, nfts)
		require.Len(t, lists, 1)
		assert.Equal(t, tokenB, lists[0].TokenID)
		require.Len(t, lists[0].Transfers, 2)
		assert.Equal(t, x, lists[0].Transfers[0].AccountID)
		require.Len(t, lists[0].NftTransfers, 2)
		assert.Equal(t, int64(1), lists[0].NftTransfers[0].Serial)
	})

	t.Run("groups are ordered by token", func(t *testing.T) {
		fungible := []hiero.TokenTransfer{
			{TokenID: tokenC, AccountID: x, Amount: 1},
			{TokenID: tokenA, AccountID: x, Amount: 1},
		}
		nfts := []hiero.TokenNftTransfer{
			{TokenID: tokenB, Sender: x, Receiver: y, Serial: 1},
		}

		lists := hiero.MergeTokenTransfers(fungible, nfts)
		require.Len(t, lists, 3)
		assert.Equal(t, tokenA, lists[0].TokenID)
		assert.Empty(t, lists[0].NftTransfers)
		assert.Equal(t, tokenB, lists[1].TokenID)
		assert.Empty(t, lists[1].Transfers)
		assert.Equal(t, tokenC, lists[2].TokenID)
	})

	t.Run("expected decimals follow the fungible transfer", func(t *testing.T) {
		decimals := uint32(8)
		lists := hiero.MergeTokenTransfers([]hiero.TokenTransfer{
			{TokenID: tokenA, AccountID: x, Amount: 1, ExpectedDecimals: &decimals},
		}, nil)
		require.Len(t, lists, 1)
		require.NotNil(t, lists[0].ExpectedDecimals)
		assert.Equal(t, decimals, *lists[0].ExpectedDecimals)
	})

	t.Run("inputs are left untouched", func(t *testing.T) {
		fungible := []hiero.TokenTransfer{
			{TokenID: tokenB, AccountID: x},
			{TokenID: tokenA, AccountID: x},
		}
		hiero.MergeTokenTransfers(fungible, nil)
		assert.Equal(t, tokenB, fungible[0].TokenID)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, hiero.MergeTokenTransfers(nil, nil))
	})
}

func TestMergeTokenTransfersProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tokenNum := rapid.Int64Range(1, 5)
		accountNum := rapid.Int64Range(1, 5)

		fungible := rapid.SliceOfN(rapid.Custom(func(t *rapid.T) hiero.TokenTransfer {
			return hiero.TokenTransfer{
				TokenID:    hiero.TokenID{Num: tokenNum.Draw(t, "token")},
				AccountID:  hiero.AccountIDFromNum(accountNum.Draw(t, "account")),
				Amount:     rapid.Int64Range(-100, 100).Draw(t, "amount"),
				IsApproved: rapid.Bool().Draw(t, "approved"),
			}
		}), 0, 20).Draw(t, "fungible")

		nfts := rapid.SliceOfN(rapid.Custom(func(t *rapid.T) hiero.TokenNftTransfer {
			return hiero.TokenNftTransfer{
				TokenID:  hiero.TokenID{Num: tokenNum.Draw(t, "token")},
				Sender:   hiero.AccountIDFromNum(accountNum.Draw(t, "sender")),
				Receiver: hiero.AccountIDFromNum(accountNum.Draw(t, "receiver")),
				Serial:   rapid.Int64Range(1, 100).Draw(t, "serial"),
			}
		}), 0, 20).Draw(t, "nfts")

		lists := hiero.MergeTokenTransfers(fungible, nfts)

		distinct := map[hiero.TokenID]struct{}{}
		for _, f := range fungible {
			distinct[f.TokenID] = struct{}{}
		}
		for _, n := range nfts {
			distinct[n.TokenID] = struct{}{}
		}
		if len(lists) != len(distinct) {
			t.Fatalf("expected %d groups, got %d", len(distinct), len(lists))
		}

		total := 0
		for i, list := range lists {
			if i > 0 && lists[i-1].TokenID.Compare(list.TokenID) >= 0 {
				t.Fatalf("groups out of order at %d", i)
			}
			for k, f := range list.Transfers {
				if !f.TokenID.Equal(list.TokenID) {
					t.Fatalf("transfer of %s in group %s", f.TokenID, list.TokenID)
				}
				if k > 0 && hiero.CompareTokenTransfers(list.Transfers[k-1], f) > 0 {
					t.Fatalf("fungible transfers out of order in group %s", list.TokenID)
				}
			}
			for k, n := range list.NftTransfers {
				if !n.TokenID.Equal(list.TokenID) {
					t.Fatalf("nft transfer of %s in group %s", n.TokenID, list.TokenID)
				}
				if k > 0 && hiero.CompareNftTransfers(list.NftTransfers[k-1], n) > 0 {
					t.Fatalf("nft transfers out of order in group %s", list.TokenID)
				}
			}
			total += len(list.Transfers) + len(list.NftTransfers)
		}
		if total != len(fungible)+len(nfts) {
			t.Fatalf("expected %d entries, got %d", len(fungible)+len(nfts), total)
		}
	})
}
