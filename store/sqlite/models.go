package sqlite

import (
	"fmt"
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/tokenledger/book"
	"github.com/xraph/tokenledger/types"
)

// Amounts are stored as base-10 text so the full unsigned range, including
// the unlimited sentinel, survives the round trip.

type accountModel struct {
	grove.BaseModel `grove:"table:tokenledger_accounts"`

	Address string `grove:"address,pk"`
	Balance string `grove:"balance"`
}

type allowanceModel struct {
	grove.BaseModel `grove:"table:tokenledger_allowances"`

	Owner   string `grove:"owner,pk"`
	Spender string `grove:"spender,pk"`
	Amount  string `grove:"amount"`
}

type metaModel struct {
	grove.BaseModel `grove:"table:tokenledger_meta"`

	Key   string `grove:"key,pk"`
	Value string `grove:"value"`
}

// Meta keys for the scalar parts of the snapshot.
const (
	metaOwner       = "owner"
	metaTotalSupply = "total_supply"
	metaCreatedAt   = "created_at"
	metaUpdatedAt   = "updated_at"
)

func toModels(state *book.State) (accounts []accountModel, allowances []allowanceModel, meta []metaModel) {
	accounts = make([]accountModel, 0, len(state.Balances))
	for addr, balance := range state.Balances {
		accounts = append(accounts, accountModel{
			Address: addr,
			Balance: balance.Base10(),
		})
	}

	for owner, spenders := range state.Allowances {
		for spender, amount := range spenders {
			allowances = append(allowances, allowanceModel{
				Owner:   owner,
				Spender: spender,
				Amount:  amount.Base10(),
			})
		}
	}

	meta = []metaModel{
		{Key: metaOwner, Value: state.Owner},
		{Key: metaTotalSupply, Value: state.TotalSupply.Base10()},
		{Key: metaCreatedAt, Value: state.CreatedAt.UTC().Format(time.RFC3339Nano)},
		{Key: metaUpdatedAt, Value: state.UpdatedAt.UTC().Format(time.RFC3339Nano)},
	}
	return accounts, allowances, meta
}

func fromModels(accounts []accountModel, allowances []allowanceModel, meta map[string]string) (*book.State, error) {
	state := book.NewState()
	state.Owner = meta[metaOwner]

	supply, err := types.ParseAmount(meta[metaTotalSupply])
	if err != nil {
		return nil, fmt.Errorf("tokenledger/sqlite: parse total supply: %w", err)
	}
	state.TotalSupply = supply

	if v, ok := meta[metaCreatedAt]; ok {
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			state.CreatedAt = t
		}
	}
	if v, ok := meta[metaUpdatedAt]; ok {
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			state.UpdatedAt = t
		}
	}

	for i := range accounts {
		balance, err := types.ParseAmount(accounts[i].Balance)
		if err != nil {
			return nil, fmt.Errorf("tokenledger/sqlite: parse balance for %s: %w", accounts[i].Address, err)
		}
		state.Balances[accounts[i].Address] = balance
	}

	for i := range allowances {
		amount, err := types.ParseAmount(allowances[i].Amount)
		if err != nil {
			return nil, fmt.Errorf("tokenledger/sqlite: parse allowance for %s/%s: %w", allowances[i].Owner, allowances[i].Spender, err)
		}
		spenders := state.Allowances[allowances[i].Owner]
		if spenders == nil {
			spenders = make(map[string]types.Amount)
			state.Allowances[allowances[i].Owner] = spenders
		}
		spenders[allowances[i].Spender] = amount
	}

	return state, nil
}
